package notify

import (
	"context"
	"fmt"
	"time"

	"staybook/internal/config"

	"github.com/mailersend/mailersend-go"
)

// MailerSendMailer delivers mail through the MailerSend API.
type MailerSendMailer struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	timeout time.Duration
}

func NewMailerSendMailer(cfg config.MailerConfig) (*MailerSendMailer, error) {
	if cfg.Send.APIKey == "" || cfg.From == "" {
		return nil, fmt.Errorf("mailersend requires api key and from address")
	}

	return &MailerSendMailer{
		client: mailersend.NewMailersend(cfg.Send.APIKey),
		from: mailersend.From{
			Name:  cfg.FromName,
			Email: cfg.From,
		},
		timeout: cfg.Timeout(),
	}, nil
}

func (m *MailerSendMailer) Send(ctx context.Context, to, subject, body string) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Email: to}})
	msg.SetSubject(subject)
	msg.SetText(body)

	if _, err := m.client.Email.Send(ctx, msg); err != nil {
		return fmt.Errorf("mailersend send: %w", err)
	}
	return nil
}
