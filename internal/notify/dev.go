package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// DevMailer logs instead of sending. Used for local runs so codes show up in
// the console.
type DevMailer struct {
	logger *zerolog.Logger
}

func NewDevMailer(logger *zerolog.Logger) *DevMailer {
	return &DevMailer{logger: logger}
}

func (d *DevMailer) Send(ctx context.Context, to, subject, body string) error {
	d.logger.Info().
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("dev mail")
	return nil
}
