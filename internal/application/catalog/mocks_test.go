package catalog

import (
	"context"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/catalog"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/identity"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

// MockCatalogRepository is a mock implementation of catalog.CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ReplaceShopCatalog(ctx context.Context, userID int64, sourceURL string, feed *catalog.Feed) (*catalog.ImportResult, error) {
	args := m.Called(ctx, userID, sourceURL, feed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ImportResult), args.Error(1)
}

func (m *MockCatalogRepository) ListActiveShops(ctx context.Context) ([]catalog.Shop, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Shop), args.Error(1)
}

func (m *MockCatalogRepository) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCatalogRepository) ListOffers(ctx context.Context, filter catalog.OfferFilter) ([]catalog.ProductOffer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.ProductOffer), args.Error(1)
}

func (m *MockCatalogRepository) FindOfferByID(ctx context.Context, id int64) (*catalog.ProductOffer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductOffer), args.Error(1)
}

// MockShopRepository is a mock implementation of catalog.ShopRepository
type MockShopRepository struct {
	mock.Mock
}

func (m *MockShopRepository) FindByUserID(ctx context.Context, userID int64) (*catalog.Shop, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Shop), args.Error(1)
}

func (m *MockShopRepository) UpdateState(ctx context.Context, shop *catalog.Shop) error {
	return m.Called(ctx, shop).Error(0)
}

// MockFeedFetcher is a mock implementation of FeedFetcher
type MockFeedFetcher struct {
	mock.Mock
}

func (m *MockFeedFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := make([]any, 0, len(events)+1)
	args = append(args, ctx)
	for _, e := range events {
		args = append(args, e)
	}
	return m.Called(args...).Error(0)
}

func shopUser(id int64) *identity.User {
	u := &identity.User{Email: "partner@acme.example", Type: identity.UserTypeShop, IsActive: true}
	u.ID = id
	return u
}

func buyerUser(id int64) *identity.User {
	u := &identity.User{Email: "buyer@example.com", Type: identity.UserTypeBuyer, IsActive: true}
	u.ID = id
	return u
}
