package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/notification"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/mail"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProcessorConfig holds configuration for the notification processor
type ProcessorConfig struct {
	BatchSize        int
	PollInterval     time.Duration
	CleanupEnabled   bool
	CleanupRetention time.Duration
	CleanupInterval  time.Duration
}

// DefaultProcessorConfig returns default configuration
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		BatchSize:        50,
		PollInterval:     5 * time.Second,
		CleanupEnabled:   true,
		CleanupRetention: 7 * 24 * time.Hour,
		CleanupInterval:  time.Hour,
	}
}

// Validate checks the configuration
func (c ProcessorConfig) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive", ErrInvalidConfig)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval must be positive", ErrInvalidConfig)
	}
	if c.CleanupEnabled && (c.CleanupRetention <= 0 || c.CleanupInterval <= 0) {
		return fmt.Errorf("%w: cleanup retention and interval must be positive", ErrInvalidConfig)
	}
	return nil
}

// NotificationProcessor delivers due notification tasks in the background.
// Several processes may poll the same table, Claim makes each task go to
// exactly one of them.
type NotificationProcessor struct {
	repo   notification.TaskRepository
	sender mail.Sender
	config ProcessorConfig
	logger *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewNotificationProcessor creates a new processor
func NewNotificationProcessor(
	repo notification.TaskRepository,
	sender mail.Sender,
	config ProcessorConfig,
	logger *zap.Logger,
) (*NotificationProcessor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &NotificationProcessor{
		repo:   repo,
		sender: sender,
		config: config,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Start launches the polling loop and, if enabled, the cleanup loop
func (p *NotificationProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.processLoop(ctx)

	if p.config.CleanupEnabled {
		p.wg.Add(1)
		go p.cleanupLoop(ctx)
	}

	p.logger.Info("notification processor started",
		zap.Int("batch_size", p.config.BatchSize),
		zap.Duration("poll_interval", p.config.PollInterval),
	)
	return nil
}

// Stop cancels the loops and waits for the current batch to finish
func (p *NotificationProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("notification processor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *NotificationProcessor) processLoop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.RunOnce(ctx)
		}
	}
}

// RunOnce delivers one batch of due tasks and returns how many were sent
func (p *NotificationProcessor) RunOnce(ctx context.Context) int {
	due, err := p.repo.FindDue(ctx, p.now(), p.config.BatchSize)
	if err != nil {
		p.logger.Error("failed to find due notifications", zap.Error(err))
		return 0
	}
	if len(due) == 0 {
		return 0
	}

	ids := make([]uuid.UUID, len(due))
	for i, t := range due {
		ids[i] = t.ID
	}

	claimed, err := p.repo.Claim(ctx, ids)
	if err != nil {
		p.logger.Error("failed to claim notifications", zap.Error(err))
		return 0
	}

	sent := 0
	for _, task := range claimed {
		if p.deliver(ctx, task) {
			sent++
		}
	}
	return sent
}

func (p *NotificationProcessor) deliver(ctx context.Context, task *notification.Task) bool {
	err := p.sender.Send(ctx, mail.Message{
		To:      task.Recipient,
		Subject: task.Subject,
		Body:    task.Body,
	})
	if err != nil {
		task.MarkFailed(err.Error())
		fields := []zap.Field{
			zap.String("task_id", task.ID.String()),
			zap.String("kind", string(task.Kind)),
			zap.Int64("order_id", task.OrderID),
			zap.Int("retry_count", task.RetryCount),
			zap.Error(err),
		}
		if task.IsDead() {
			p.logger.Warn("notification moved to dead", fields...)
		} else {
			p.logger.Error("failed to send notification",
				append(fields, zap.Timep("next_retry_at", task.NextRetryAt))...)
		}
		p.save(ctx, task)
		return false
	}

	task.MarkSent()
	if p.save(ctx, task) {
		p.logger.Debug("notification sent",
			zap.String("task_id", task.ID.String()),
			zap.Int64("order_id", task.OrderID),
		)
	}
	return true
}

func (p *NotificationProcessor) save(ctx context.Context, task *notification.Task) bool {
	if err := p.repo.Update(ctx, task); err != nil {
		p.logger.Error("failed to update notification",
			zap.String("task_id", task.ID.String()),
			zap.String("status", string(task.Status)),
			zap.Error(err),
		)
		return false
	}
	return true
}

func (p *NotificationProcessor) cleanupLoop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Cleanup(ctx)
		}
	}
}

// Cleanup removes delivered tasks older than the retention window
func (p *NotificationProcessor) Cleanup(ctx context.Context) int64 {
	cutoff := p.now().Add(-p.config.CleanupRetention)
	deleted, err := p.repo.DeleteSentBefore(ctx, cutoff)
	if err != nil {
		p.logger.Error("failed to clean up notifications", zap.Error(err))
		return 0
	}
	if deleted > 0 {
		p.logger.Info("cleaned up sent notifications",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff),
		)
	}
	return deleted
}
