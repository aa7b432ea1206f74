package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserType tags what a user may do: buyers order, shops import catalogs and
// fulfil orders touching their offers.
type UserType string

const (
	UserTypeBuyer UserType = "buyer"
	UserTypeShop  UserType = "shop"
)

// IsValid checks if the user type is known
func (t UserType) IsValid() bool {
	switch t {
	case UserTypeBuyer, UserTypeShop:
		return true
	}
	return false
}

// String returns the string representation of UserType
func (t UserType) String() string {
	return string(t)
}

// Password cost for bcrypt
const bcryptCost = 12

// User represents an account. Accounts are provisioned out of band; the HTTP
// API only reads and edits profile fields.
type User struct {
	shared.BaseAggregateRoot
	Email        string
	FirstName    string
	LastName     string
	Company      string
	Position     string
	Type         UserType
	IsActive     bool
	PasswordHash string
}

// NewUser creates a new active user with a hashed password
func NewUser(email, password string, userType UserType) (*User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if !userType.IsValid() {
		return nil, shared.NewDomainError("INVALID_USER_TYPE", "User type must be buyer or shop")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		Type:              userType,
		IsActive:          true,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	return user, nil
}

// IsShop reports whether the user acts as a partner shop
func (u *User) IsShop() bool {
	return u.Type == UserTypeShop
}

// EnsureShop reports whether the user may act as a partner: the account
// must be active and of type shop.
func (u *User) EnsureShop() error {
	if !u.IsActive {
		return shared.NewDomainError(shared.ErrForbidden.Code, "User account is disabled")
	}
	if !u.IsShop() {
		return shared.ErrShopRoleRequired
	}
	return nil
}

// ProfileUpdate holds optional profile changes; nil fields are left untouched
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Company   *string
	Position  *string
}

// UpdateProfile applies a partial profile update
func (u *User) UpdateProfile(p ProfileUpdate) error {
	fields := []struct {
		value  *string
		target *string
		name   string
	}{
		{p.FirstName, &u.FirstName, "First name"},
		{p.LastName, &u.LastName, "Last name"},
		{p.Company, &u.Company, "Company"},
		{p.Position, &u.Position, "Position"},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		v := strings.TrimSpace(*f.value)
		if len(v) > 100 {
			return shared.NewValidationError(f.name + " cannot exceed 100 characters")
		}
		*f.target = v
	}
	u.UpdatedAt = time.Now()
	return nil
}

// SetPassword validates and stores a new password hash
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now()
	return nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 254 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	// bcrypt ignores everything past 72 bytes
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}
