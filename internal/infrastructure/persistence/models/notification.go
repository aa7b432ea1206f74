package models

import (
	"time"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/notification"
	"github.com/google/uuid"
)

// NotificationTaskModel is the persistence model for a deferred notification
type NotificationTaskModel struct {
	ID          uuid.UUID               `gorm:"type:uuid;primaryKey"`
	Kind        notification.TaskKind   `gorm:"type:varchar(30);not null"`
	UserID      int64                   `gorm:"not null"`
	OrderID     int64                   `gorm:"not null;index"`
	Recipient   string                  `gorm:"type:varchar(254);not null"`
	Subject     string                  `gorm:"type:varchar(200);not null"`
	Body        string                  `gorm:"type:text;not null"`
	Status      notification.TaskStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	RunAt       time.Time               `gorm:"not null"`
	RetryCount  int                     `gorm:"not null;default:0"`
	MaxRetries  int                     `gorm:"not null;default:5"`
	LastError   string                  `gorm:"type:text"`
	NextRetryAt *time.Time
	SentAt      *time.Time
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (NotificationTaskModel) TableName() string {
	return "notification_tasks"
}

// ToDomain converts the persistence model to a domain Task
func (m *NotificationTaskModel) ToDomain() *notification.Task {
	return &notification.Task{
		ID:          m.ID,
		Kind:        m.Kind,
		UserID:      m.UserID,
		OrderID:     m.OrderID,
		Recipient:   m.Recipient,
		Subject:     m.Subject,
		Body:        m.Body,
		Status:      m.Status,
		RunAt:       m.RunAt,
		RetryCount:  m.RetryCount,
		MaxRetries:  m.MaxRetries,
		LastError:   m.LastError,
		NextRetryAt: m.NextRetryAt,
		SentAt:      m.SentAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// NotificationTaskModelFromDomain creates a persistence model from a domain Task
func NotificationTaskModelFromDomain(t *notification.Task) *NotificationTaskModel {
	return &NotificationTaskModel{
		ID:          t.ID,
		Kind:        t.Kind,
		UserID:      t.UserID,
		OrderID:     t.OrderID,
		Recipient:   t.Recipient,
		Subject:     t.Subject,
		Body:        t.Body,
		Status:      t.Status,
		RunAt:       t.RunAt,
		RetryCount:  t.RetryCount,
		MaxRetries:  t.MaxRetries,
		LastError:   t.LastError,
		NextRetryAt: t.NextRetryAt,
		SentAt:      t.SentAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
