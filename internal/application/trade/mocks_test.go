package trade

import (
	"context"
	"sync"
	"time"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/catalog"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/identity"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/notification"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of trade.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) GetOrCreateCart(ctx context.Context, userID int64) (*trade.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindCart(ctx context.Context, userID int64) (*trade.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) AddLine(ctx context.Context, cartID, offerID int64, quantity int) error {
	return m.Called(ctx, cartID, offerID, quantity).Error(0)
}

func (m *MockOrderRepository) UpdateLineQuantity(ctx context.Context, cartID, lineID int64, quantity int) (int64, error) {
	args := m.Called(ctx, cartID, lineID, quantity)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) DeleteLines(ctx context.Context, cartID int64, lineIDs []int64) (int64, error) {
	args := m.Called(ctx, cartID, lineIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) PlaceCart(ctx context.Context, userID, orderID, contactID int64) (int64, error) {
	args := m.Called(ctx, userID, orderID, contactID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) ListForUser(ctx context.Context, userID int64) ([]trade.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) ListForShopOwner(ctx context.Context, userID int64) ([]trade.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindForShopOwner(ctx context.Context, ownerID, orderID int64) (*trade.Order, error) {
	args := m.Called(ctx, ownerID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateState(ctx context.Context, orderID int64, from, to trade.OrderState) (int64, error) {
	args := m.Called(ctx, orderID, from, to)
	return args.Get(0).(int64), args.Error(1)
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

// MockTaskRepository is a mock implementation of notification.TaskRepository
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, tasks ...*notification.Task) error {
	return m.Called(ctx, tasks).Error(0)
}

func (m *MockTaskRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*notification.Task, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]*notification.Task), args.Error(1)
}

func (m *MockTaskRepository) Claim(ctx context.Context, ids []uuid.UUID) ([]*notification.Task, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*notification.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *notification.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskRepository) DeleteSentBefore(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
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

// fakeLocker is an in-process shared.Locker that can be told to stay busy
type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	failWith error
	acquired int
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]bool)}
}

func (l *fakeLocker) Acquire(_ context.Context, key string, _ time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failWith != nil {
		return nil, l.failWith
	}
	if l.held[key] {
		return nil, shared.ErrLockNotAcquired
	}
	l.held[key] = true
	l.acquired++
	return func() {
		l.mu.Lock()
		delete(l.held, key)
		l.mu.Unlock()
	}, nil
}

func (l *fakeLocker) Close() error { return nil }

func (l *fakeLocker) isHeld(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held[key]
}

func testUser(id int64, userType identity.UserType) *identity.User {
	u := &identity.User{Email: "user@example.com", Type: userType, IsActive: true}
	u.ID = id
	return u
}

func testOffer(id int64, shopActive bool) *catalog.ProductOffer {
	shop := &catalog.Shop{Name: "Acme", State: shopActive}
	shop.ID = 3
	return &catalog.ProductOffer{
		ID:       id,
		ShopID:   3,
		Shop:     shop,
		Quantity: 14,
		Price:    decimal.RequireFromString("110000"),
		PriceRRC: decimal.RequireFromString("116990"),
		Product:  &catalog.Product{ID: 5, Name: "iPhone XS Max", Category: &catalog.Category{ID: 224, Name: "Смартфоны"}},
	}
}

func testCart(id, userID int64) *trade.Order {
	o := &trade.Order{UserID: userID, State: trade.OrderStateCart, TotalPrice: decimal.Zero}
	o.ID = id
	return o
}

func testLockConfig() shared.LockConfig {
	return shared.LockConfig{TTL: time.Second, Wait: 50 * time.Millisecond, RetryInterval: 5 * time.Millisecond}
}
