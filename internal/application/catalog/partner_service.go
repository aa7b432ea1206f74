package catalog

import (
	"context"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/catalog"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/identity"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// PartnerService lets a shop user read and toggle their shop's state
type PartnerService struct {
	users          identity.UserRepository
	shops          catalog.ShopRepository
	eventPublisher shared.EventPublisher
}

// NewPartnerService creates a new PartnerService
func NewPartnerService(users identity.UserRepository, shops catalog.ShopRepository) *PartnerService {
	return &PartnerService{users: users, shops: shops}
}

// SetEventPublisher sets the event publisher for integration events
func (s *PartnerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetState returns the caller's shop
func (s *PartnerService) GetState(ctx context.Context, userID int64) (*ShopResponse, error) {
	shop, err := s.ownShop(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToShopResponse(shop)
	return &resp, nil
}

// SetState opens or closes the caller's shop for ordering
func (s *PartnerService) SetState(ctx context.Context, userID int64, active bool) (*ShopResponse, error) {
	shop, err := s.ownShop(ctx, userID)
	if err != nil {
		return nil, err
	}

	shop.SetState(active)
	events := shop.GetDomainEvents()
	if len(events) > 0 {
		if err := s.shops.UpdateState(ctx, shop); err != nil {
			return nil, err
		}
		logger.L(ctx).Info("shop state changed", zap.Int64("shop_id", shop.ID), zap.Bool("state", active))
		if s.eventPublisher != nil {
			if err := s.eventPublisher.Publish(ctx, events...); err != nil {
				logger.L(ctx).Warn("failed to publish shop state event", zap.Error(err))
			}
		}
		shop.ClearDomainEvents()
	}

	resp := ToShopResponse(shop)
	return &resp, nil
}

func (s *PartnerService) ownShop(ctx context.Context, userID int64) (*catalog.Shop, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.EnsureShop(); err != nil {
		return nil, err
	}
	return s.shops.FindByUserID(ctx, userID)
}
