// Package mail delivers notification emails.
//
// Senders make exactly one delivery attempt and return any failure to the
// caller; retry policy belongs to the notification processor.
package mail

import (
	"context"
	"errors"
	"strings"
)

// Message is one plain-text email
type Message struct {
	To      string
	Subject string
	Body    string
}

// Validate checks that the message can be delivered
func (m Message) Validate() error {
	if strings.TrimSpace(m.To) == "" {
		return errors.New("recipient is empty")
	}
	if strings.TrimSpace(m.Subject) == "" {
		return errors.New("subject is empty")
	}
	return nil
}

// Sender delivers a message
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
