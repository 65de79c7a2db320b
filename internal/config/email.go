package config

import (
	"context"
	"errors"
	"os"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

type ResendConfig struct {
	APIKey string
	From   string
}

func NewResendConfig() *ResendConfig {
	return &ResendConfig{
		APIKey: os.Getenv("RESEND_API_KEY"),
		From:   os.Getenv("FROM_EMAIL"),
	}
}

// EmailService sends outbound mail through Resend. It is optional: without
// RESEND_API_KEY the service stays disabled and Send returns an error, which
// callers surface as a failed enquiry rather than a crashed portal.
type EmailService struct {
	client *resend.Client
	from   string
	logger *zap.Logger
}

func NewEmailService(config *ResendConfig, logger *zap.Logger) *EmailService {
	service := &EmailService{from: config.From, logger: logger}
	if config.APIKey == "" || config.From == "" {
		logger.Info("RESEND_API_KEY or FROM_EMAIL not set, outbound mail disabled")
		return service
	}
	service.client = resend.NewClient(config.APIKey)
	logger.Info("Email service initialized")
	return service
}

func (e *EmailService) Send(ctx context.Context, to, subject, html string) error {
	if e.client == nil {
		return errors.New("outbound mail is not configured")
	}

	_, err := e.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    e.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return err
	}

	e.logger.Info("Email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
