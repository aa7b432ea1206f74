package trade

import (
	"context"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/notification"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/trade"
)

// TransactionScope provides transactional access to order and notification
// repositories, so an order change and its email commit or roll back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories that share one transaction
type TransactionalRepositories interface {
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() trade.OrderRepository
	// TaskRepo returns the notification task repository scoped to the current transaction
	TaskRepo() notification.TaskRepository
}

// NoOpTransactionScope runs fn directly against the given repositories.
// Useful for testing.
type NoOpTransactionScope struct {
	orderRepo trade.OrderRepository
	taskRepo  notification.TaskRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(orderRepo trade.OrderRepository, taskRepo notification.TaskRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{orderRepo: orderRepo, taskRepo: taskRepo}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() trade.OrderRepository {
	return s.orderRepo
}

// TaskRepo returns the notification task repository.
func (s *NoOpTransactionScope) TaskRepo() notification.TaskRepository {
	return s.taskRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
