package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

const sendEndpoint = "/v3/mail/send"

// SendGridConfig configures the SendGrid sender
type SendGridConfig struct {
	APIKey   string
	From     string
	FromName string
	// BaseURL overrides the API host, e.g. for a local mock server
	BaseURL string
}

// SendGridSender delivers mail through the SendGrid v3 API
type SendGridSender struct {
	config SendGridConfig
	logger *zap.Logger
}

// NewSendGridSender creates a new SendGridSender
func NewSendGridSender(cfg SendGridConfig, logger *zap.Logger) (*SendGridSender, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("sendgrid api key is empty")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("from address is empty")
	}
	return &SendGridSender{config: cfg, logger: logger}, nil
}

// Send delivers msg. A transport error or a status >= 400 is returned.
func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	personalization := sgmail.NewPersonalization()
	personalization.AddTos(sgmail.NewEmail("", msg.To))

	message := sgmail.NewV3Mail()
	message.SetFrom(sgmail.NewEmail(s.config.FromName, s.config.From))
	message.Subject = msg.Subject
	message.AddPersonalizations(personalization)
	message.AddContent(sgmail.NewContent("text/plain", msg.Body))

	client := sendgrid.NewSendClient(s.config.APIKey)
	if s.config.BaseURL != "" {
		client.BaseURL = s.config.BaseURL + sendEndpoint
	}

	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}

	s.logger.Debug("mail sent",
		zap.Int("status", response.StatusCode),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}

var _ Sender = (*SendGridSender)(nil)
