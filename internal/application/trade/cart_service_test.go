package trade

import (
	"context"
	"errors"
	"testing"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/catalog"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type cartFixture struct {
	orders  *MockOrderRepository
	catalog *MockCatalogRepository
	locker  *fakeLocker
	service *CartService
}

func newCartFixture() *cartFixture {
	f := &cartFixture{
		orders:  new(MockOrderRepository),
		catalog: new(MockCatalogRepository),
		locker:  newFakeLocker(),
	}
	f.service = NewCartService(f.orders, f.catalog, f.locker, testLockConfig(), zap.NewNop())
	return f
}

func TestCartService_AddLines(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture()

	f.orders.On("GetOrCreateCart", ctx, int64(4)).Return(testCart(10, 4), nil)
	f.catalog.On("FindOfferByID", ctx, int64(11)).Return(testOffer(11, true), nil)
	f.catalog.On("FindOfferByID", ctx, int64(12)).Return(testOffer(12, false), nil)
	f.catalog.On("FindOfferByID", ctx, int64(99)).Return(nil, shared.NewNotFoundError("Product offer"))
	f.orders.On("AddLine", ctx, int64(10), int64(11), 2).Return(nil)

	result, err := f.service.AddLines(ctx, 4, AddLinesRequest{Items: []AddLineItem{
		{ProductInfo: 11, Quantity: 2},
		{ProductInfo: 12, Quantity: 1},
		{ProductInfo: 99, Quantity: 1},
		{ProductInfo: 11, Quantity: 0},
		{ProductInfo: 0, Quantity: 1},
	}})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	require.Len(t, result.Errors, 4)
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.Contains(t, result.Errors[0].Message, "not accepting orders")
	assert.Equal(t, 2, result.Errors[1].Index)
	assert.Equal(t, "Product offer 99 not found", result.Errors[1].Message)
	assert.Equal(t, 3, result.Errors[2].Index)
	assert.Equal(t, 4, result.Errors[3].Index)

	f.orders.AssertNumberOfCalls(t, "AddLine", 1)
	assert.Equal(t, 1, f.locker.acquired)
	assert.False(t, f.locker.isHeld("cart:4"), "lock must be released")
}

func TestCartService_AddLines_AllRejectedStillSucceeds(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture()
	f.orders.On("GetOrCreateCart", ctx, int64(4)).Return(testCart(10, 4), nil)
	f.catalog.On("FindOfferByID", ctx, int64(99)).Return(nil, shared.NewNotFoundError("Product offer"))

	result, err := f.service.AddLines(ctx, 4, AddLinesRequest{Items: []AddLineItem{{ProductInfo: 99, Quantity: 1}}})
	require.NoError(t, err)
	assert.Zero(t, result.Created)
	assert.Len(t, result.Errors, 1)
}

func TestCartService_AddLines_CartPlacedMeanwhile(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture()
	f.orders.On("GetOrCreateCart", ctx, int64(4)).Return(testCart(10, 4), nil)
	f.catalog.On("FindOfferByID", ctx, int64(11)).Return(testOffer(11, true), nil)
	f.orders.On("AddLine", ctx, int64(10), int64(11), 1).Return(trade.ErrCartClosed)

	result, err := f.service.AddLines(ctx, 4, AddLinesRequest{Items: []AddLineItem{{ProductInfo: 11, Quantity: 1}}})
	require.NoError(t, err)
	assert.Zero(t, result.Created)
	assert.Equal(t, []LineError{{Index: 0, Message: trade.ErrCartClosed.Message}}, result.Errors)
}

func TestCartService_AddLines_StoreFailureAborts(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture()
	dbErr := errors.New("connection refused")
	f.orders.On("GetOrCreateCart", ctx, int64(4)).Return(testCart(10, 4), nil)
	f.catalog.On("FindOfferByID", ctx, int64(11)).Return(testOffer(11, true), nil)
	f.orders.On("AddLine", ctx, int64(10), int64(11), 1).Return(dbErr)

	_, err := f.service.AddLines(ctx, 4, AddLinesRequest{Items: []AddLineItem{{ProductInfo: 11, Quantity: 1}}})
	assert.ErrorIs(t, err, dbErr)
}

func TestCartService_AddLines_Lock(t *testing.T) {
	ctx := context.Background()

	t.Run("busy lock times out", func(t *testing.T) {
		f := newCartFixture()
		release, err := f.locker.Acquire(ctx, "cart:4", 0)
		require.NoError(t, err)
		defer release()

		_, err = f.service.AddLines(ctx, 4, AddLinesRequest{Items: []AddLineItem{{ProductInfo: 11, Quantity: 1}}})
		assert.ErrorIs(t, err, shared.ErrLockNotAcquired)
		f.orders.AssertNotCalled(t, "GetOrCreateCart", mock.Anything, mock.Anything)
	})

	t.Run("locker backend failure falls back to the index", func(t *testing.T) {
		f := newCartFixture()
		f.locker.failWith = errors.New("redis: connection refused")
		f.orders.On("GetOrCreateCart", ctx, int64(4)).Return(testCart(10, 4), nil)
		f.catalog.On("FindOfferByID", ctx, int64(11)).Return(testOffer(11, true), nil)
		f.orders.On("AddLine", ctx, int64(10), int64(11), 1).Return(nil)

		result, err := f.service.AddLines(ctx, 4, AddLinesRequest{Items: []AddLineItem{{ProductInfo: 11, Quantity: 1}}})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Created)
	})

	t.Run("nil locker", func(t *testing.T) {
		orders, cat := new(MockOrderRepository), new(MockCatalogRepository)
		svc := NewCartService(orders, cat, nil, testLockConfig(), zap.NewNop())
		orders.On("GetOrCreateCart", ctx, int64(4)).Return(testCart(10, 4), nil)
		cat.On("FindOfferByID", ctx, int64(11)).Return(testOffer(11, true), nil)
		orders.On("AddLine", ctx, int64(10), int64(11), 1).Return(nil)

		_, err := svc.AddLines(ctx, 4, AddLinesRequest{Items: []AddLineItem{{ProductInfo: 11, Quantity: 1}}})
		require.NoError(t, err)
	})
}

func TestCartService_UpdateLines(t *testing.T) {
	ctx := context.Background()

	t.Run("sums matched rows", func(t *testing.T) {
		f := newCartFixture()
		f.orders.On("FindCart", ctx, int64(4)).Return(testCart(10, 4), nil)
		f.orders.On("UpdateLineQuantity", ctx, int64(10), int64(1), 3).Return(int64(1), nil)
		f.orders.On("UpdateLineQuantity", ctx, int64(10), int64(77), 1).Return(int64(0), nil)

		result, err := f.service.UpdateLines(ctx, 4, UpdateLinesRequest{Items: []UpdateLineItem{
			{ID: 1, Quantity: 3},
			{ID: 77, Quantity: 1},
		}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Updated)
	})

	t.Run("no cart", func(t *testing.T) {
		f := newCartFixture()
		f.orders.On("FindCart", ctx, int64(4)).Return(nil, shared.NewNotFoundError("Cart"))

		result, err := f.service.UpdateLines(ctx, 4, UpdateLinesRequest{Items: []UpdateLineItem{{ID: 1, Quantity: 3}}})
		require.NoError(t, err)
		assert.Zero(t, result.Updated)
	})

	t.Run("bad items are reported and the rest applied", func(t *testing.T) {
		f := newCartFixture()
		f.orders.On("FindCart", ctx, int64(4)).Return(testCart(10, 4), nil)
		f.orders.On("UpdateLineQuantity", ctx, int64(10), int64(1), 2).Return(int64(1), nil)

		result, err := f.service.UpdateLines(ctx, 4, UpdateLinesRequest{Items: []UpdateLineItem{
			{ID: 1, Quantity: 2},
			{ID: 2, Quantity: 0},
			{ID: 0, Quantity: 1},
		}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Updated)
		assert.Equal(t, []LineError{
			{Index: 1, Message: "quantity must be at least 1"},
			{Index: 2, Message: "id must be a positive line id"},
		}, result.Errors)
		f.orders.AssertNumberOfCalls(t, "UpdateLineQuantity", 1)
	})

	t.Run("all items rejected", func(t *testing.T) {
		f := newCartFixture()
		result, err := f.service.UpdateLines(ctx, 4, UpdateLinesRequest{Items: []UpdateLineItem{{ID: 1, Quantity: 10001}}})
		require.NoError(t, err)
		assert.Zero(t, result.Updated)
		assert.Len(t, result.Errors, 1)
		f.orders.AssertNotCalled(t, "FindCart", mock.Anything, mock.Anything)
	})
}

func TestCartService_RemoveLines(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes parsed ids", func(t *testing.T) {
		f := newCartFixture()
		f.orders.On("FindCart", ctx, int64(4)).Return(testCart(10, 4), nil)
		f.orders.On("DeleteLines", ctx, int64(10), []int64{1, 2, 3}).Return(int64(2), nil)

		result, err := f.service.RemoveLines(ctx, 4, "1,2,3")
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.Deleted)
	})

	t.Run("non digit tokens are skipped", func(t *testing.T) {
		f := newCartFixture()
		f.orders.On("FindCart", ctx, int64(4)).Return(testCart(10, 4), nil)
		f.orders.On("DeleteLines", ctx, int64(10), []int64{1, 2}).Return(int64(2), nil)

		result, err := f.service.RemoveLines(ctx, 4, "1,abc,2")
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.Deleted)
	})

	t.Run("no usable id", func(t *testing.T) {
		f := newCartFixture()
		_, err := f.service.RemoveLines(ctx, 4, "x,y")
		assert.ErrorIs(t, err, shared.ErrValidation)
		f.orders.AssertNotCalled(t, "FindCart", mock.Anything, mock.Anything)
	})

	t.Run("no cart", func(t *testing.T) {
		f := newCartFixture()
		f.orders.On("FindCart", ctx, int64(4)).Return(nil, shared.NewNotFoundError("Cart"))

		result, err := f.service.RemoveLines(ctx, 4, "1")
		require.NoError(t, err)
		assert.Zero(t, result.Deleted)
	})
}

func TestCartService_ViewCart(t *testing.T) {
	ctx := context.Background()

	t.Run("expanded lines and total", func(t *testing.T) {
		f := newCartFixture()
		cart := testCart(10, 4)
		offerID := int64(11)
		cart.Lines = []trade.OrderLine{
			{ID: 1, OrderID: 10, OfferID: &offerID, Offer: testOffer(11, true), Quantity: 2},
			{ID: 2, OrderID: 10, Quantity: 1},
		}
		cart.TotalPrice = decimal.RequireFromString("220000")
		f.orders.On("FindCart", ctx, int64(4)).Return(cart, nil)

		resp, err := f.service.ViewCart(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, int64(10), resp.ID)
		assert.Equal(t, "cart", resp.State)
		assert.True(t, resp.TotalPrice.Equal(decimal.RequireFromString("220000")))
		require.Len(t, resp.Goods, 2)
		require.NotNil(t, resp.Goods[0].ProductInfo)
		assert.Equal(t, "Смартфоны", resp.Goods[0].ProductInfo.Product.Category)
		assert.Nil(t, resp.Goods[1].ProductInfo)
	})

	t.Run("no cart yields empty view", func(t *testing.T) {
		f := newCartFixture()
		f.orders.On("FindCart", ctx, int64(4)).Return(nil, shared.NewNotFoundError("Cart"))

		resp, err := f.service.ViewCart(ctx, 4)
		require.NoError(t, err)
		assert.Zero(t, resp.ID)
		assert.Empty(t, resp.Goods)
		assert.NotNil(t, resp.Goods)
		assert.True(t, resp.TotalPrice.IsZero())
	})
}

var _ catalog.CatalogRepository = (*MockCatalogRepository)(nil)
