package identity

import (
	"strings"
	"testing"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates active user with hashed password", func(t *testing.T) {
		user, err := NewUser("Buyer@Example.com ", "Password123", UserTypeBuyer)

		require.NoError(t, err)
		assert.Equal(t, "buyer@example.com", user.Email)
		assert.Equal(t, UserTypeBuyer, user.Type)
		assert.True(t, user.IsActive)
		assert.True(t, user.IsNew())
		assert.NotEqual(t, "Password123", user.PasswordHash)
		assert.True(t, user.VerifyPassword("Password123"))
		assert.False(t, user.VerifyPassword("wrong-password"))
	})

	t.Run("fails with invalid email", func(t *testing.T) {
		_, err := NewUser("not-an-email", "Password123", UserTypeBuyer)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid email")
	})

	t.Run("fails with unknown type", func(t *testing.T) {
		_, err := NewUser("a@example.com", "Password123", UserType("admin"))

		require.Error(t, err)
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "INVALID_USER_TYPE", de.Code)
	})

	t.Run("fails with short or overlong password", func(t *testing.T) {
		_, err := NewUser("a@example.com", "short", UserTypeShop)
		assert.Error(t, err)

		_, err = NewUser("a@example.com", strings.Repeat("x", 73), UserTypeShop)
		assert.Error(t, err)
	})
}

func TestUserType(t *testing.T) {
	assert.True(t, UserTypeBuyer.IsValid())
	assert.True(t, UserTypeShop.IsValid())
	assert.False(t, UserType("").IsValid())
	assert.Equal(t, "shop", UserTypeShop.String())

	shop := &User{Type: UserTypeShop}
	assert.True(t, shop.IsShop())
	assert.False(t, (&User{Type: UserTypeBuyer}).IsShop())
}

func TestUser_UpdateProfile(t *testing.T) {
	user := &User{FirstName: "Ann", Company: "Old"}

	first := "  Maria "
	company := "Acme"
	err := user.UpdateProfile(ProfileUpdate{FirstName: &first, Company: &company})

	require.NoError(t, err)
	assert.Equal(t, "Maria", user.FirstName)
	assert.Equal(t, "Acme", user.Company)
	assert.Empty(t, user.LastName)

	long := strings.Repeat("p", 101)
	err = user.UpdateProfile(ProfileUpdate{Position: &long})
	assert.ErrorIs(t, err, shared.ErrValidation)
	assert.Empty(t, user.Position)
}

func TestUser_EnsureShop(t *testing.T) {
	shop := &User{Type: UserTypeShop, IsActive: true}
	assert.NoError(t, shop.EnsureShop())

	buyer := &User{Type: UserTypeBuyer, IsActive: true}
	assert.ErrorIs(t, buyer.EnsureShop(), shared.ErrShopRoleRequired)

	disabled := &User{Type: UserTypeShop}
	assert.ErrorIs(t, disabled.EnsureShop(), shared.ErrForbidden)
}
