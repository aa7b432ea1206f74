package trade

import (
	"context"
	"errors"
	"testing"

	appnotification "github.com/Tahir-Ryasnov/netology-diplom/internal/application/notification"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/identity"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/notification"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type orderFixture struct {
	orders    *MockOrderRepository
	users     *MockUserRepository
	tasks     *MockTaskRepository
	publisher *MockEventPublisher
	service   *OrderService
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orders:    new(MockOrderRepository),
		users:     new(MockUserRepository),
		tasks:     new(MockTaskRepository),
		publisher: new(MockEventPublisher),
	}
	scheduler := appnotification.NewScheduler(appnotification.DefaultConfig(), zap.NewNop())
	f.service = NewOrderService(f.orders, f.users, NewNoOpTransactionScope(f.orders, f.tasks), scheduler)
	f.service.SetEventPublisher(f.publisher)
	return f
}

func singleTask(match func(*notification.Task) bool) any {
	return mock.MatchedBy(func(tasks []*notification.Task) bool {
		return len(tasks) == 1 && match(tasks[0])
	})
}

func TestOrderService_Place(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	buyer := testUser(4, identity.UserTypeBuyer)
	f.users.On("FindByID", ctx, int64(4)).Return(buyer, nil)
	f.orders.On("PlaceCart", ctx, int64(4), int64(10), int64(9)).Return(int64(1), nil)
	f.tasks.On("Create", ctx, singleTask(func(task *notification.Task) bool {
		return task.Recipient == buyer.Email && task.Body == "The order #10 has been formed" && task.OrderID == 10
	})).Return(nil)
	f.publisher.On("Publish", ctx, mock.MatchedBy(func(e *trade.OrderPlacedEvent) bool {
		return e.OrderID == 10 && e.ContactID == 9
	})).Return(nil)

	result, err := f.service.Place(ctx, 4, PlaceOrderRequest{ID: 10, Contact: 9})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Placed)
	f.tasks.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestOrderService_Place_NothingMatched(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	f.users.On("FindByID", ctx, int64(4)).Return(testUser(4, identity.UserTypeBuyer), nil)
	f.orders.On("PlaceCart", ctx, int64(4), int64(10), int64(9)).Return(int64(0), nil)

	result, err := f.service.Place(ctx, 4, PlaceOrderRequest{ID: 10, Contact: 9})
	require.NoError(t, err)
	assert.Zero(t, result.Placed)
	f.tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestOrderService_Place_TaskFailureFailsPlacement(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	taskErr := errors.New("insert failed")
	f.users.On("FindByID", ctx, int64(4)).Return(testUser(4, identity.UserTypeBuyer), nil)
	f.orders.On("PlaceCart", ctx, int64(4), int64(10), int64(9)).Return(int64(1), nil)
	f.tasks.On("Create", ctx, mock.Anything).Return(taskErr)

	_, err := f.service.Place(ctx, 4, PlaceOrderRequest{ID: 10, Contact: 9})
	assert.ErrorIs(t, err, taskErr)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestOrderService_ListPartner(t *testing.T) {
	ctx := context.Background()

	t.Run("shop sees its orders", func(t *testing.T) {
		f := newOrderFixture()
		placed := testCart(10, 4)
		placed.State = trade.OrderStateNew
		f.users.On("FindByID", ctx, int64(7)).Return(testUser(7, identity.UserTypeShop), nil)
		f.orders.On("ListForShopOwner", ctx, int64(7)).Return([]trade.Order{*placed}, nil)

		orders, err := f.service.ListPartner(ctx, 7)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "new", orders[0].State)
	})

	t.Run("buyer is forbidden", func(t *testing.T) {
		f := newOrderFixture()
		f.users.On("FindByID", ctx, int64(4)).Return(testUser(4, identity.UserTypeBuyer), nil)

		_, err := f.service.ListPartner(ctx, 4)
		assert.ErrorIs(t, err, shared.ErrShopRoleRequired)
		f.orders.AssertNotCalled(t, "ListForShopOwner", mock.Anything, mock.Anything)
	})
}

func TestOrderService_ListOwn(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	f.orders.On("ListForUser", ctx, int64(4)).Return([]trade.Order{}, nil)

	orders, err := f.service.ListOwn(ctx, 4)
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestOrderService_ChangeState(t *testing.T) {
	ctx := context.Background()

	newPlaced := func() *trade.Order {
		o := testCart(10, 4)
		o.State = trade.OrderStateNew
		return o
	}

	t.Run("confirms and notifies the buyer", func(t *testing.T) {
		f := newOrderFixture()
		buyer := testUser(4, identity.UserTypeBuyer)
		buyer.Email = "buyer@example.com"
		f.users.On("FindByID", ctx, int64(7)).Return(testUser(7, identity.UserTypeShop), nil)
		f.users.On("FindByID", ctx, int64(4)).Return(buyer, nil)
		f.orders.On("FindForShopOwner", ctx, int64(7), int64(10)).Return(newPlaced(), nil)
		f.orders.On("UpdateState", ctx, int64(10), trade.OrderStateNew, trade.OrderStateConfirmed).Return(int64(1), nil)
		f.tasks.On("Create", ctx, singleTask(func(task *notification.Task) bool {
			return task.Recipient == "buyer@example.com" && task.Body == "The order #10 status changed to confirmed"
		})).Return(nil)
		f.publisher.On("Publish", ctx, mock.AnythingOfType("*trade.OrderStateChangedEvent")).Return(nil)

		resp, err := f.service.ChangeState(ctx, 7, 10, "confirmed")
		require.NoError(t, err)
		assert.Equal(t, "confirmed", resp.State)
		f.tasks.AssertExpectations(t)
		f.publisher.AssertExpectations(t)
	})

	t.Run("invalid transition", func(t *testing.T) {
		f := newOrderFixture()
		f.users.On("FindByID", ctx, int64(7)).Return(testUser(7, identity.UserTypeShop), nil)
		f.users.On("FindByID", ctx, int64(4)).Return(testUser(4, identity.UserTypeBuyer), nil)
		f.orders.On("FindForShopOwner", ctx, int64(7), int64(10)).Return(newPlaced(), nil)

		_, err := f.service.ChangeState(ctx, 7, 10, "delivered")
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		f.orders.AssertNotCalled(t, "UpdateState", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("concurrent change", func(t *testing.T) {
		f := newOrderFixture()
		f.users.On("FindByID", ctx, int64(7)).Return(testUser(7, identity.UserTypeShop), nil)
		f.users.On("FindByID", ctx, int64(4)).Return(testUser(4, identity.UserTypeBuyer), nil)
		f.orders.On("FindForShopOwner", ctx, int64(7), int64(10)).Return(newPlaced(), nil)
		f.orders.On("UpdateState", ctx, int64(10), trade.OrderStateNew, trade.OrderStateCanceled).Return(int64(0), nil)

		_, err := f.service.ChangeState(ctx, 7, 10, "canceled")
		assert.ErrorIs(t, err, shared.ErrConflict)
		f.tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("order of another shop", func(t *testing.T) {
		f := newOrderFixture()
		f.users.On("FindByID", ctx, int64(7)).Return(testUser(7, identity.UserTypeShop), nil)
		f.orders.On("FindForShopOwner", ctx, int64(7), int64(10)).Return(nil, shared.NewNotFoundError("Order"))

		_, err := f.service.ChangeState(ctx, 7, 10, "confirmed")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
