package identity

import (
	"context"
	"testing"
	"time"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/auth"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAuthService(users *MockUserRepository) (*AuthService, *auth.JWTService) {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: time.Hour,
		Issuer:                "retail",
	})
	return NewAuthService(users, jwtService, zap.NewNop()), jwtService
}

func TestAuthService_IssueToken(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	svc, jwtService := newTestAuthService(users)
	users.On("FindByEmail", ctx, "buyer@example.com").Return(newBuyer(t), nil)

	token, err := svc.IssueToken(ctx, IssueTokenInput{Email: "buyer@example.com", Password: "password123"})
	require.NoError(t, err)

	claims, err := jwtService.ValidateAccessToken(token.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(4), claims.UserID)
	assert.Equal(t, "buyer", claims.UserType)
}

func TestAuthService_IssueToken_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong password", func(t *testing.T) {
		users := new(MockUserRepository)
		svc, _ := newTestAuthService(users)
		users.On("FindByEmail", ctx, "buyer@example.com").Return(newBuyer(t), nil)

		_, err := svc.IssueToken(ctx, IssueTokenInput{Email: "buyer@example.com", Password: "wrong-password"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		users := new(MockUserRepository)
		svc, _ := newTestAuthService(users)
		users.On("FindByEmail", ctx, "nobody@example.com").Return(nil, shared.NewNotFoundError("User"))

		_, err := svc.IssueToken(ctx, IssueTokenInput{Email: "nobody@example.com", Password: "password123"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("disabled account", func(t *testing.T) {
		users := new(MockUserRepository)
		svc, _ := newTestAuthService(users)
		buyer := newBuyer(t)
		buyer.IsActive = false
		users.On("FindByEmail", ctx, "buyer@example.com").Return(buyer, nil)

		_, err := svc.IssueToken(ctx, IssueTokenInput{Email: "buyer@example.com", Password: "password123"})
		require.Error(t, err)
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "ACCOUNT_DEACTIVATED", de.Code)
	})
}
