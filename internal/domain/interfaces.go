package domain

import (
	"context"

	"staybook/internal/models"
)

// BookingRepository is the durable, append-only booking store. Append must be
// atomic with respect to concurrent readers and durable once it returns nil.
type BookingRepository interface {
	AppendBooking(ctx context.Context, booking *models.Booking) error
	FindByCode(ctx context.Context, code string) ([]models.Booking, error)
	LoadAll(ctx context.Context) ([]models.Booking, error)
	CountBookings(ctx context.Context) (int64, error)
}

// SessionRepository holds in-flight verification sessions. A nil session with
// a nil error means "not found".
type SessionRepository interface {
	GetSession(ctx context.Context, id string) (*models.VerificationSession, error)
	SaveSession(ctx context.Context, session *models.VerificationSession) error
	DeleteSession(ctx context.Context, id string) error
}

// Mailer delivers one message and reports success or failure. Retry and
// backoff are the implementation's concern; callers treat a send as a single
// bounded call.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// CodeGenerator produces short numeric codes for verification and retrieval.
type CodeGenerator interface {
	Generate() (string, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// ExportEnqueuer schedules an asynchronous export of the booking ledger.
type ExportEnqueuer interface {
	EnqueueExport(ctx context.Context) error
}
