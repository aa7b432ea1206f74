package identity

import (
	"context"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/identity"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 42
	}
	return args.Error(0)
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

// MockContactRepository is a mock implementation of identity.ContactRepository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, contact *identity.Contact) error {
	args := m.Called(ctx, contact)
	if args.Error(0) == nil {
		contact.ID = 9
	}
	return args.Error(0)
}

func (m *MockContactRepository) Update(ctx context.Context, contact *identity.Contact) error {
	return m.Called(ctx, contact).Error(0)
}

func (m *MockContactRepository) FindByIDForUser(ctx context.Context, userID, id int64) (*identity.Contact, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Contact), args.Error(1)
}

func (m *MockContactRepository) FindAllForUser(ctx context.Context, userID int64) ([]identity.Contact, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]identity.Contact), args.Error(1)
}

func (m *MockContactRepository) DeleteForUser(ctx context.Context, userID int64, ids []int64) (int64, error) {
	args := m.Called(ctx, userID, ids)
	return args.Get(0).(int64), args.Error(1)
}

func strPtr(s string) *string { return &s }

func newBuyer(t interface{ Fatalf(string, ...any) }) *identity.User {
	u, err := identity.NewUser("buyer@example.com", "password123", identity.UserTypeBuyer)
	if err != nil {
		t.Fatalf("new user: %v", err)
	}
	u.ID = 4
	return u
}

func homeContact(userID int64) *identity.Contact {
	c, _ := identity.NewContact(userID, identity.ContactFields{
		City:   strPtr("Moscow"),
		Street: strPtr("Tverskaya"),
		House:  strPtr("7"),
		Phone:  strPtr("+79990000000"),
	})
	c.ID = 9
	return c
}
