package trade

import (
	"context"

	appnotification "github.com/Tahir-Ryasnov/netology-diplom/internal/application/notification"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/identity"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/trade"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/logger"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// OrderService handles order placement and partner fulfilment
type OrderService struct {
	orderRepo      trade.OrderRepository
	userRepo       identity.UserRepository
	txScope        TransactionScope
	scheduler      *appnotification.Scheduler
	eventPublisher shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo trade.OrderRepository,
	userRepo identity.UserRepository,
	txScope TransactionScope,
	scheduler *appnotification.Scheduler,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		txScope:   txScope,
		scheduler: scheduler,
	}
}

// SetEventPublisher sets the event publisher for integration events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Place turns the caller's cart into a new order and schedules the
// confirmation email in the same transaction. Placing an already placed
// order, an empty cart, or with someone else's contact reports placed=0.
func (s *OrderService) Place(ctx context.Context, userID int64, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "place",
		telemetry.SpanAttrUserID, userID, telemetry.SpanAttrOrderID, req.ID)
	defer span.End()

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var placed int64
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		n, err := repos.OrderRepo().PlaceCart(ctx, userID, req.ID, req.Contact)
		if err != nil {
			return err
		}
		placed = n
		if n == 0 {
			return nil
		}
		task, err := s.scheduler.OrderPlaced(user.Email, userID, req.ID)
		if err != nil {
			return err
		}
		return s.scheduler.Schedule(ctx, repos.TaskRepo(), task)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if placed == 0 {
		logger.L(ctx).Info("order not placed",
			zap.Int64("order_id", req.ID), zap.Int64("contact_id", req.Contact))
		return &PlaceOrderResult{}, nil
	}

	logger.L(ctx).Info("order placed", zap.Int64("order_id", req.ID), zap.Int64("contact_id", req.Contact))
	s.publish(ctx, trade.NewOrderPlacedEvent(req.ID, userID, req.Contact))
	return &PlaceOrderResult{Placed: placed}, nil
}

// ListOwn returns the caller's placed orders, newest first
func (s *OrderService) ListOwn(ctx context.Context, userID int64) ([]OrderResponse, error) {
	orders, err := s.orderRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// ListPartner returns placed orders touching the caller's shop offers. Only
// the caller's lines are included and totalled.
func (s *OrderService) ListPartner(ctx context.Context, userID int64) ([]OrderResponse, error) {
	if _, err := s.shopUser(ctx, userID); err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.ListForShopOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// ChangeState moves an order touching the caller's offers to state and
// schedules a status email to the buyer
func (s *OrderService) ChangeState(ctx context.Context, userID, orderID int64, state string) (*OrderResponse, error) {
	if _, err := s.shopUser(ctx, userID); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindForShopOwner(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	buyer, err := s.userRepo.FindByID(ctx, order.UserID)
	if err != nil {
		return nil, err
	}

	from := order.State
	if err := order.ChangeState(trade.OrderState(state)); err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		n, err := repos.OrderRepo().UpdateState(ctx, order.ID, from, order.State)
		if err != nil {
			return err
		}
		if n == 0 {
			return shared.NewConflictError("Order state was changed concurrently, reload and retry")
		}
		task, err := s.scheduler.OrderStateChanged(buyer.Email, buyer.ID, order.ID, order.State)
		if err != nil {
			return err
		}
		return s.scheduler.Schedule(ctx, repos.TaskRepo(), task)
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("order state changed",
		zap.Int64("order_id", order.ID),
		zap.String("from", from.String()),
		zap.String("to", order.State.String()),
	)
	s.publish(ctx, order.GetDomainEvents()...)
	order.ClearDomainEvents()

	resp := ToOrderResponse(order)
	return &resp, nil
}

func (s *OrderService) shopUser(ctx context.Context, userID int64) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.EnsureShop(); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *OrderService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.L(ctx).Warn("failed to publish order events", zap.Error(err))
	}
}
