package mail

import (
	"context"

	"go.uber.org/zap"
)

// LogSender writes messages to the log instead of sending them
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a new LogSender
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs msg
func (s *LogSender) Send(_ context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	s.logger.Info("mail (log only)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}

// NewSender returns a SendGrid sender when an API key is configured and a
// LogSender otherwise
func NewSender(cfg SendGridConfig, logger *zap.Logger) (Sender, error) {
	if cfg.APIKey == "" {
		logger.Warn("SendGrid API key not set, emails will only be logged")
		return NewLogSender(logger), nil
	}
	return NewSendGridSender(cfg, logger)
}

var _ Sender = (*LogSender)(nil)
