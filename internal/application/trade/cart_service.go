package trade

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/catalog"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/trade"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// CartService handles the caller's cart
type CartService struct {
	orderRepo   trade.OrderRepository
	catalogRepo catalog.CatalogRepository
	locker      shared.Locker
	lockConfig  shared.LockConfig
	logger      *zap.Logger
}

// NewCartService creates a new CartService. locker may be nil, in which case
// only the one-cart-per-user index serializes cart creation.
func NewCartService(
	orderRepo trade.OrderRepository,
	catalogRepo catalog.CatalogRepository,
	locker shared.Locker,
	lockConfig shared.LockConfig,
	logger *zap.Logger,
) *CartService {
	return &CartService{
		orderRepo:   orderRepo,
		catalogRepo: catalogRepo,
		locker:      locker,
		lockConfig:  lockConfig,
		logger:      logger,
	}
}

// AddLines adds offers to the cart, creating the cart when needed. Each item
// is checked on its own; rejected items are reported with their index and the
// rest are still added.
func (s *CartService) AddLines(ctx context.Context, userID int64, req AddLinesRequest) (*AddLinesResult, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewValidationError("items are required")
	}

	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &AddLinesResult{Errors: []LineError{}}
	for i, item := range req.Items {
		if err := s.addLine(ctx, cart.ID, item); err != nil {
			de, ok := shared.AsDomainError(err)
			if !ok {
				return nil, err
			}
			result.Errors = append(result.Errors, LineError{Index: i, Message: de.Message})
			continue
		}
		result.Created++
	}

	logger.L(ctx).Info("cart lines added",
		zap.Int64("cart_id", cart.ID),
		zap.Int("created", result.Created),
		zap.Int("rejected", len(result.Errors)),
	)
	return result, nil
}

func (s *CartService) addLine(ctx context.Context, cartID int64, item AddLineItem) error {
	if item.ProductInfo <= 0 {
		return shared.NewValidationError("product_info must be a positive id")
	}
	if err := trade.ValidateQuantity(item.Quantity); err != nil {
		return err
	}
	offer, err := s.catalogRepo.FindOfferByID(ctx, item.ProductInfo)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFoundError(fmt.Sprintf("Product offer %d", item.ProductInfo))
		}
		return err
	}
	if !offer.IsAvailable() {
		return shared.NewDomainError(shared.ErrInvalidState.Code,
			fmt.Sprintf("Shop %q is not accepting orders", offer.Shop.Name))
	}
	return s.orderRepo.AddLine(ctx, cartID, offer.ID, item.Quantity)
}

// UpdateLines sets quantities of lines in the cart. Items with a bad id or
// quantity are reported with their index; ids that are not lines of the
// caller's cart are skipped.
func (s *CartService) UpdateLines(ctx context.Context, userID int64, req UpdateLinesRequest) (*UpdateLinesResult, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewValidationError("items are required")
	}

	result := &UpdateLinesResult{Errors: []LineError{}}
	valid := make([]UpdateLineItem, 0, len(req.Items))
	for i, item := range req.Items {
		if err := validateUpdateItem(item); err != nil {
			result.Errors = append(result.Errors, LineError{Index: i, Message: err.Error()})
			continue
		}
		valid = append(valid, item)
	}
	if len(valid) == 0 {
		return result, nil
	}

	cart, err := s.orderRepo.FindCart(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return result, nil
		}
		return nil, err
	}

	for _, item := range valid {
		n, err := s.orderRepo.UpdateLineQuantity(ctx, cart.ID, item.ID, item.Quantity)
		if err != nil {
			return nil, err
		}
		result.Updated += n
	}
	return result, nil
}

func validateUpdateItem(item UpdateLineItem) error {
	if item.ID <= 0 {
		return shared.NewValidationError("id must be a positive line id")
	}
	return trade.ValidateQuantity(item.Quantity)
}

// RemoveLines deletes the listed lines from the cart. rawIDs is a
// comma-separated list of line ids; tokens that are not ids are skipped.
func (s *CartService) RemoveLines(ctx context.Context, userID int64, rawIDs string) (*RemoveLinesResult, error) {
	ids, err := shared.ParseIDList(rawIDs)
	if err != nil {
		return nil, err
	}

	cart, err := s.orderRepo.FindCart(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &RemoveLinesResult{}, nil
		}
		return nil, err
	}

	n, err := s.orderRepo.DeleteLines(ctx, cart.ID, ids)
	if err != nil {
		return nil, err
	}
	return &RemoveLinesResult{Deleted: n}, nil
}

// ViewCart returns the cart with lines and total. A user without a cart gets
// an empty one.
func (s *CartService) ViewCart(ctx context.Context, userID int64) (*OrderResponse, error) {
	cart, err := s.orderRepo.FindCart(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			resp := emptyCart()
			return &resp, nil
		}
		return nil, err
	}
	resp := ToOrderResponse(cart)
	return &resp, nil
}

func (s *CartService) getOrCreateCart(ctx context.Context, userID int64) (*trade.Order, error) {
	release, err := s.lockCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()
	return s.orderRepo.GetOrCreateCart(ctx, userID)
}

// lockCart takes the per-user cart lock, retrying until lockConfig.Wait
// elapses. A locker backend failure is logged and the lock skipped.
func (s *CartService) lockCart(ctx context.Context, userID int64) (func(), error) {
	noop := func() {}
	if s.locker == nil {
		return noop, nil
	}

	key := "cart:" + strconv.FormatInt(userID, 10)
	deadline := time.Now().Add(s.lockConfig.Wait)
	for {
		release, err := s.locker.Acquire(ctx, key, s.lockConfig.TTL)
		if err == nil {
			return release, nil
		}
		if !errors.Is(err, shared.ErrLockNotAcquired) {
			logger.L(ctx).Warn("cart lock unavailable, relying on unique index",
				zap.String("key", key), zap.Error(err))
			return noop, nil
		}
		if !time.Now().Before(deadline) {
			return nil, shared.ErrLockNotAcquired
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.lockConfig.RetryInterval):
		}
	}
}
