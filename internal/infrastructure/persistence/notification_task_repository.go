package persistence

import (
	"context"
	"time"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/notification"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultProcessingLease is how long a claimed task may stay PROCESSING
// before another worker may take it over
const DefaultProcessingLease = 5 * time.Minute

// GormNotificationTaskRepository implements notification.TaskRepository.
// Times are stored in UTC so due-date comparisons hold on every driver.
type GormNotificationTaskRepository struct {
	db    *gorm.DB
	lease time.Duration
}

// NewGormNotificationTaskRepository creates a new GormNotificationTaskRepository
func NewGormNotificationTaskRepository(db *gorm.DB) *GormNotificationTaskRepository {
	return &GormNotificationTaskRepository{db: db, lease: DefaultProcessingLease}
}

// WithProcessingLease sets how long a PROCESSING task is left to the worker
// that claimed it. A worker that died mid-send leaves its tasks reclaimable
// once the lease ran out.
func (r *GormNotificationTaskRepository) WithProcessingLease(lease time.Duration) *GormNotificationTaskRepository {
	if lease > 0 {
		r.lease = lease
	}
	return r
}

// Create inserts tasks, typically inside the transaction that triggered them
func (r *GormNotificationTaskRepository) Create(ctx context.Context, tasks ...*notification.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	rows := make([]*models.NotificationTaskModel, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, toUTC(models.NotificationTaskModelFromDomain(t)))
	}
	return translateError(r.db.WithContext(ctx).Create(&rows).Error)
}

// FindDue returns pending tasks whose run_at has passed, failed tasks whose
// retry time has come and processing tasks whose lease expired, oldest first
func (r *GormNotificationTaskRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*notification.Task, error) {
	now = now.UTC()
	var rows []models.NotificationTaskModel
	if err := r.db.WithContext(ctx).
		Where("(status = ? AND run_at <= ?) OR (status = ? AND (next_retry_at IS NULL OR next_retry_at <= ?)) OR (status = ? AND updated_at <= ?)",
			notification.TaskStatusPending, now,
			notification.TaskStatusFailed, now,
			notification.TaskStatusProcessing, now.Add(-r.lease)).
		Order("run_at").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return tasksToDomain(rows), nil
}

// Claim moves each task to PROCESSING with a conditional update and returns
// the ones this caller won. A PROCESSING task whose lease expired can be
// claimed again; the update renews its lease.
func (r *GormNotificationTaskRepository) Claim(ctx context.Context, ids []uuid.UUID) ([]*notification.Task, error) {
	claimed := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		now := time.Now().UTC()
		result := r.db.WithContext(ctx).
			Model(&models.NotificationTaskModel{}).
			Where("id = ?", id).
			Where("status IN ? OR (status = ? AND updated_at <= ?)",
				[]notification.TaskStatus{notification.TaskStatusPending, notification.TaskStatusFailed},
				notification.TaskStatusProcessing, now.Add(-r.lease)).
			Updates(map[string]any{
				"status":     notification.TaskStatusProcessing,
				"updated_at": now,
			})
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 1 {
			claimed = append(claimed, id)
		}
	}
	if len(claimed) == 0 {
		return nil, nil
	}

	var rows []models.NotificationTaskModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", claimed).
		Order("run_at").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return tasksToDomain(rows), nil
}

// Update saves the task's delivery state
func (r *GormNotificationTaskRepository) Update(ctx context.Context, task *notification.Task) error {
	row := toUTC(models.NotificationTaskModelFromDomain(task))
	result := r.db.WithContext(ctx).
		Model(&models.NotificationTaskModel{}).
		Where("id = ?", task.ID).
		Updates(map[string]any{
			"status":        row.Status,
			"retry_count":   row.RetryCount,
			"last_error":    row.LastError,
			"next_retry_at": row.NextRetryAt,
			"sent_at":       row.SentAt,
			"updated_at":    row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Notification task")
	}
	return nil
}

// DeleteSentBefore purges delivered tasks older than before
func (r *GormNotificationTaskRepository) DeleteSentBefore(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND sent_at < ?", notification.TaskStatusSent, before.UTC()).
		Delete(&models.NotificationTaskModel{})
	return result.RowsAffected, result.Error
}

// FindByOrderID lists the tasks scheduled for an order
func (r *GormNotificationTaskRepository) FindByOrderID(ctx context.Context, orderID int64) ([]*notification.Task, error) {
	var rows []models.NotificationTaskModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return tasksToDomain(rows), nil
}

func tasksToDomain(rows []models.NotificationTaskModel) []*notification.Task {
	tasks := make([]*notification.Task, 0, len(rows))
	for i := range rows {
		tasks = append(tasks, rows[i].ToDomain())
	}
	return tasks
}

func toUTC(m *models.NotificationTaskModel) *models.NotificationTaskModel {
	m.RunAt = m.RunAt.UTC()
	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
	if m.NextRetryAt != nil {
		t := m.NextRetryAt.UTC()
		m.NextRetryAt = &t
	}
	if m.SentAt != nil {
		t := m.SentAt.UTC()
		m.SentAt = &t
	}
	return m
}
