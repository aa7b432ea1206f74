package identity

import (
	"strings"
	"time"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
)

// Contact is a delivery address and phone owned by exactly one user
type Contact struct {
	shared.BaseEntity
	UserID    int64
	City      string
	Street    string
	House     string
	Structure string
	Building  string
	Apartment string
	Phone     string
}

// ContactFields carries the editable contact fields; nil means unchanged
type ContactFields struct {
	City      *string
	Street    *string
	House     *string
	Structure *string
	Building  *string
	Apartment *string
	Phone     *string
}

// NewContact creates a contact for userID. City, street and phone are required.
func NewContact(userID int64, f ContactFields) (*Contact, error) {
	if userID <= 0 {
		return nil, shared.NewDomainError("INVALID_USER", "Contact owner is required")
	}
	c := &Contact{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
	}
	if err := c.apply(f); err != nil {
		return nil, err
	}
	if err := c.validateRequired(); err != nil {
		return nil, err
	}
	return c, nil
}

// Update applies a partial update, keeping required fields non-empty
func (c *Contact) Update(f ContactFields) error {
	if err := c.apply(f); err != nil {
		return err
	}
	if err := c.validateRequired(); err != nil {
		return err
	}
	c.UpdatedAt = time.Now()
	return nil
}

// IsOwnedBy reports whether the contact belongs to userID
func (c *Contact) IsOwnedBy(userID int64) bool {
	return c.UserID == userID
}

func (c *Contact) apply(f ContactFields) error {
	set := func(dst *string, v *string, name string, max int) error {
		if v == nil {
			return nil
		}
		s := strings.TrimSpace(*v)
		if len(s) > max {
			return shared.NewValidationError(name + " is too long")
		}
		*dst = s
		return nil
	}
	for _, step := range []struct {
		dst  *string
		v    *string
		name string
		max  int
	}{
		{&c.City, f.City, "city", 50},
		{&c.Street, f.Street, "street", 100},
		{&c.House, f.House, "house", 15},
		{&c.Structure, f.Structure, "structure", 15},
		{&c.Building, f.Building, "building", 15},
		{&c.Apartment, f.Apartment, "apartment", 15},
		{&c.Phone, f.Phone, "phone", 20},
	} {
		if err := set(step.dst, step.v, step.name, step.max); err != nil {
			return err
		}
	}
	return nil
}

func (c *Contact) validateRequired() error {
	switch {
	case c.City == "":
		return shared.NewValidationError("city is required")
	case c.Street == "":
		return shared.NewValidationError("street is required")
	case c.Phone == "":
		return shared.NewValidationError("phone is required")
	}
	return nil
}
