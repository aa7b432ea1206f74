package identity

import (
	"context"
	"testing"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/identity"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestContactService_Create(t *testing.T) {
	ctx := context.Background()
	repo := new(MockContactRepository)
	svc := NewContactService(repo)

	repo.On("Create", ctx, mock.MatchedBy(func(c *identity.Contact) bool {
		return c.UserID == 4 && c.City == "Moscow"
	})).Return(nil)

	resp, err := svc.Create(ctx, 4, CreateContactRequest{City: "Moscow", Street: "Tverskaya", Phone: "+79990000000"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), resp.ID)
	assert.Equal(t, "Tverskaya", resp.Street)
}

func TestContactService_Create_MissingPhone(t *testing.T) {
	repo := new(MockContactRepository)
	svc := NewContactService(repo)

	_, err := svc.Create(context.Background(), 4, CreateContactRequest{City: "Moscow", Street: "Tverskaya"})
	assert.ErrorIs(t, err, shared.ErrValidation)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestContactService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update", func(t *testing.T) {
		repo := new(MockContactRepository)
		svc := NewContactService(repo)
		repo.On("FindByIDForUser", ctx, int64(4), int64(9)).Return(homeContact(4), nil)
		repo.On("Update", ctx, mock.Anything).Return(nil)

		resp, err := svc.Update(ctx, 4, UpdateContactRequest{ID: 9, Apartment: strPtr("12")})
		require.NoError(t, err)
		assert.Equal(t, "12", resp.Apartment)
		assert.Equal(t, "Moscow", resp.City)
	})

	t.Run("clearing a required field fails", func(t *testing.T) {
		repo := new(MockContactRepository)
		svc := NewContactService(repo)
		repo.On("FindByIDForUser", ctx, int64(4), int64(9)).Return(homeContact(4), nil)

		_, err := svc.Update(ctx, 4, UpdateContactRequest{ID: 9, City: strPtr("  ")})
		assert.ErrorIs(t, err, shared.ErrValidation)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("someone else's contact", func(t *testing.T) {
		repo := new(MockContactRepository)
		svc := NewContactService(repo)
		repo.On("FindByIDForUser", ctx, int64(5), int64(9)).Return(nil, shared.NewNotFoundError("Contact"))

		_, err := svc.Update(ctx, 5, UpdateContactRequest{ID: 9, City: strPtr("Kazan")})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestContactService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes parsed ids", func(t *testing.T) {
		repo := new(MockContactRepository)
		svc := NewContactService(repo)
		repo.On("DeleteForUser", ctx, int64(4), []int64{9, 10}).Return(int64(1), nil)

		resp, err := svc.Delete(ctx, 4, "9, 10,9")
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Deleted)
	})

	t.Run("non digit ids are skipped", func(t *testing.T) {
		repo := new(MockContactRepository)
		svc := NewContactService(repo)
		repo.On("DeleteForUser", ctx, int64(4), []int64{9}).Return(int64(1), nil)

		resp, err := svc.Delete(ctx, 4, "9,abc")
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Deleted)
	})

	t.Run("no usable id", func(t *testing.T) {
		repo := new(MockContactRepository)
		svc := NewContactService(repo)

		_, err := svc.Delete(ctx, 4, "abc")
		assert.ErrorIs(t, err, shared.ErrValidation)
		repo.AssertNotCalled(t, "DeleteForUser", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestContactService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockContactRepository)
	svc := NewContactService(repo)
	repo.On("FindAllForUser", ctx, int64(4)).Return([]identity.Contact{}, nil)

	resp, err := svc.List(ctx, 4)
	require.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Empty(t, resp)
}
