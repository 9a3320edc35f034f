package export

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"staybook/internal/models"
)

type staticRepo struct {
	bookings []models.Booking
}

func (r *staticRepo) AppendBooking(_ context.Context, b *models.Booking) error {
	r.bookings = append(r.bookings, *b)
	return nil
}

func (r *staticRepo) FindByCode(_ context.Context, code string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.AccessCode == code {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *staticRepo) LoadAll(_ context.Context) ([]models.Booking, error) {
	return r.bookings, nil
}

func (r *staticRepo) CountBookings(_ context.Context) (int64, error) {
	return int64(len(r.bookings)), nil
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	logger := zerolog.New(io.Discard)

	repo := &staticRepo{bookings: []models.Booking{
		{
			ID: 1, AccessCode: "770011", FirstName: "Anna", LastName: "Petrova",
			Email: "a@example.com", Phone: "+7 900", Place: "Moscow",
			HotelName: "Grand Palace", Category: "deluxe", Price: 12000,
			CheckIn:  time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
			CheckOut: time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC),
			DurationDays: 3, Guests: 2, CreatedAt: time.Now(),
		},
		{
			ID: 2, AccessCode: "123456", FirstName: "Ivan", LastName: "Orlov",
			Email: "i@example.com", Phone: "+7 901", Place: "Sochi",
			HotelName: "Sea Breeze", Category: "standard", Price: 5500,
			CheckIn:  time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
			CheckOut: time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC),
			DurationDays: 1, Guests: 1, CreatedAt: time.Now(),
		},
	}}

	exporter := NewExcelExporter(repo, dir, &logger)

	path, err := exporter.Export(context.Background())
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3) // заголовок + 2 записи

	assert.Equal(t, "Код доступа", rows[0][1])
	assert.Equal(t, "770011", rows[1][1])
	assert.Equal(t, "Sea Breeze", rows[2][7])
}

func TestExportEmptyLedger(t *testing.T) {
	dir := t.TempDir()
	logger := zerolog.New(io.Discard)

	exporter := NewExcelExporter(&staticRepo{}, dir, &logger)

	path, err := exporter.Export(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
