// Package mailer sends transactional email through SendGrid.
package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Email is a fully rendered message ready to send.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer delivers rendered emails.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

// SendGridMailer sends mail through the SendGrid v3 API.
type SendGridMailer struct {
	client *sendgrid.Client
	from   *sgmail.Email
	logger *zap.Logger
}

// NewSendGrid builds a SendGrid-backed mailer. senderName may be empty.
func NewSendGrid(apiKey, senderName, senderAddress string, logger *zap.Logger) (*SendGridMailer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("sendgrid api key is required")
	}
	if senderAddress == "" {
		return nil, fmt.Errorf("sender address is required")
	}
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail(senderName, senderAddress),
		logger: logger,
	}, nil
}

func (m *SendGridMailer) Send(ctx context.Context, msg Email) error {
	to := sgmail.NewEmail("", msg.To)
	message := sgmail.NewSingleEmail(m.from, msg.Subject, to, msg.TextBody, msg.HTMLBody)

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		m.logger.Warn("sendgrid rejected message",
			zap.Int("status", resp.StatusCode),
			zap.String("body", resp.Body))
		return fmt.Errorf("sendgrid send: status %d", resp.StatusCode)
	}
	return nil
}

// NopMailer discards messages. Used in tests and when no API key is set.
type NopMailer struct {
	logger *zap.Logger
}

func NewNop(logger *zap.Logger) *NopMailer { return &NopMailer{logger: logger} }

func (m *NopMailer) Send(_ context.Context, msg Email) error {
	if m.logger != nil {
		m.logger.Info("mail delivery disabled, dropping message",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject))
	}
	return nil
}
