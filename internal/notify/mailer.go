package notify

import (
	"fmt"

	"staybook/internal/config"
	"staybook/internal/domain"

	"github.com/rs/zerolog"
)

// New picks the gateway implementation from config.
func New(cfg config.MailerConfig, logger *zerolog.Logger) (domain.Mailer, error) {
	switch cfg.Provider {
	case "smtp":
		return NewSMTPMailer(cfg), nil
	case "mailersend":
		return NewMailerSendMailer(cfg)
	case "dev", "":
		return NewDevMailer(logger), nil
	default:
		return nil, fmt.Errorf("unknown mailer provider: %s", cfg.Provider)
	}
}
