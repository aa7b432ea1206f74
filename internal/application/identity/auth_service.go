package identity

import (
	"context"
	"errors"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/identity"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// ErrInvalidCredentials is returned for an unknown email or wrong password
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

// AuthService issues access tokens for provisioned accounts
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo identity.UserRepository, jwtService *auth.JWTService, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// IssueToken verifies credentials and returns a signed access token
func (s *AuthService) IssueToken(ctx context.Context, input IssueTokenInput) (*auth.AccessToken, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Token requested for unknown email", zap.String("email", input.Email))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password", zap.Int64("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	token, err := s.jwtService.GenerateAccessToken(auth.GenerateTokenInput{
		UserID:   user.ID,
		Email:    user.Email,
		UserType: user.Type.String(),
	})
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate token")
	}

	s.logger.Info("Token issued", zap.Int64("user_id", user.ID))
	return token, nil
}
