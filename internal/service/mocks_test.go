package service

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"

	"staybook/internal/models"
)

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) AppendBooking(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}
func (m *mockBookingRepo) FindByCode(ctx context.Context, code string) ([]models.Booking, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}
func (m *mockBookingRepo) LoadAll(ctx context.Context) ([]models.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}
func (m *mockBookingRepo) CountBookings(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) GetSession(ctx context.Context, id string) (*models.VerificationSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VerificationSession), args.Error(1)
}
func (m *mockSessionRepo) SaveSession(ctx context.Context, s *models.VerificationSession) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockSessionRepo) DeleteSession(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}

type mockCodeGen struct {
	mock.Mock
}

func (m *mockCodeGen) Generate() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

type mockExporter struct {
	mock.Mock
}

func (m *mockExporter) EnqueueExport(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func testLogger(t *testing.T) *zerolog.Logger {
	t.Helper()
	logger := zerolog.New(io.Discard)
	return &logger
}
