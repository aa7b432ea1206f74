package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/identity"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService handles profile reads and edits and CLI provisioning
type UserService struct {
	userRepo    identity.UserRepository
	contactRepo identity.ContactRepository
	logger      *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	contactRepo identity.ContactRepository,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		contactRepo: contactRepo,
		logger:      logger,
	}
}

// GetDetails returns the caller's profile with contacts
func (s *UserService) GetDetails(ctx context.Context, userID int64) (*UserDetailsResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	contacts, err := s.contactRepo.FindAllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toUserDetailsResponse(user, contacts), nil
}

// UpdateDetails applies a partial profile update
func (s *UserService) UpdateDetails(ctx context.Context, userID int64, req UpdateDetailsRequest) (*UserDetailsResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(identity.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Company:   req.Company,
		Position:  req.Position,
	}); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.GetDetails(ctx, userID)
}

// Create provisions a new account. Registration is not exposed over HTTP.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*UserDetailsResponse, error) {
	_, err := s.userRepo.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		return nil, shared.NewDomainError("EMAIL_EXISTS", "Email already exists")
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	user, err := identity.NewUser(input.Email, input.Password, identity.UserType(strings.ToLower(input.Type)))
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(identity.ProfileUpdate{
		FirstName: &input.FirstName,
		LastName:  &input.LastName,
		Company:   &input.Company,
		Position:  &input.Position,
	}); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.Int64("user_id", user.ID),
		zap.String("email", user.Email),
		zap.String("type", user.Type.String()))
	return toUserDetailsResponse(user, nil), nil
}
