package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/notification"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/trade"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// OrderStatusSubject is the subject of every order email
const OrderStatusSubject = "Changing the order status"

// Config holds scheduling configuration
type Config struct {
	// Delay between the triggering operation and the earliest delivery
	Delay time.Duration
	// MaxRetries before a task is moved to DEAD
	MaxRetries int
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Delay:      60 * time.Second,
		MaxRetries: notification.DefaultMaxRetries,
	}
}

// Scheduler builds order notification tasks and stores them through the
// caller's repository, so they commit together with the order change.
type Scheduler struct {
	config Config
	logger *zap.Logger
}

// NewScheduler creates a new Scheduler
func NewScheduler(config Config, logger *zap.Logger) *Scheduler {
	if config.Delay < 0 {
		config.Delay = 0
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = notification.DefaultMaxRetries
	}
	return &Scheduler{config: config, logger: logger}
}

// OrderPlaced builds the email sent once a cart became an order
func (s *Scheduler) OrderPlaced(recipient string, userID, orderID int64) (*notification.Task, error) {
	return s.newTask(notification.TaskKindOrderPlaced, recipient, userID, orderID,
		fmt.Sprintf("The order #%d has been formed", orderID))
}

// OrderStateChanged builds the email sent when a placed order moves to state
func (s *Scheduler) OrderStateChanged(recipient string, userID, orderID int64, state trade.OrderState) (*notification.Task, error) {
	return s.newTask(notification.TaskKindOrderStateChanged, recipient, userID, orderID,
		fmt.Sprintf("The order #%d status changed to %s", orderID, state))
}

// Schedule persists tasks through repo
func (s *Scheduler) Schedule(ctx context.Context, repo notification.TaskRepository, tasks ...*notification.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	if err := repo.Create(ctx, tasks...); err != nil {
		return fmt.Errorf("failed to schedule notification: %w", err)
	}
	for _, t := range tasks {
		logger.L(ctx).Debug("notification scheduled",
			zap.String("task_id", t.ID.String()),
			zap.String("kind", string(t.Kind)),
			zap.Int64("order_id", t.OrderID),
			zap.Time("run_at", t.RunAt),
		)
	}
	return nil
}

func (s *Scheduler) newTask(kind notification.TaskKind, recipient string, userID, orderID int64, body string) (*notification.Task, error) {
	task, err := notification.NewTask(kind, userID, orderID, recipient, OrderStatusSubject, body, s.config.Delay)
	if err != nil {
		return nil, err
	}
	task.MaxRetries = s.config.MaxRetries
	return task, nil
}
