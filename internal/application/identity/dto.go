package identity

import (
	"time"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/identity"
)

// ContactResponse represents a contact in API responses
type ContactResponse struct {
	ID        int64  `json:"id"`
	City      string `json:"city"`
	Street    string `json:"street"`
	House     string `json:"house"`
	Structure string `json:"structure"`
	Building  string `json:"building"`
	Apartment string `json:"apartment"`
	Phone     string `json:"phone"`
}

// ToContactResponse converts a domain Contact to a response
func ToContactResponse(c *identity.Contact) ContactResponse {
	return ContactResponse{
		ID:        c.ID,
		City:      c.City,
		Street:    c.Street,
		House:     c.House,
		Structure: c.Structure,
		Building:  c.Building,
		Apartment: c.Apartment,
		Phone:     c.Phone,
	}
}

// UserDetailsResponse is the caller's profile with contacts
type UserDetailsResponse struct {
	ID        int64             `json:"id"`
	Email     string            `json:"email"`
	FirstName string            `json:"first_name"`
	LastName  string            `json:"last_name"`
	Company   string            `json:"company"`
	Position  string            `json:"position"`
	Type      string            `json:"type"`
	IsActive  bool              `json:"is_active"`
	Contacts  []ContactResponse `json:"contacts"`
	CreatedAt time.Time         `json:"created_at"`
}

// UpdateDetailsRequest is a partial profile update
type UpdateDetailsRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,max=100"`
	Company   *string `json:"company" binding:"omitempty,max=100"`
	Position  *string `json:"position" binding:"omitempty,max=100"`
}

// CreateContactRequest adds a delivery contact
type CreateContactRequest struct {
	City      string `json:"city" binding:"required,max=50"`
	Street    string `json:"street" binding:"required,max=100"`
	House     string `json:"house" binding:"max=15"`
	Structure string `json:"structure" binding:"max=15"`
	Building  string `json:"building" binding:"max=15"`
	Apartment string `json:"apartment" binding:"max=15"`
	Phone     string `json:"phone" binding:"required,max=20"`
}

// UpdateContactRequest edits one contact; omitted fields stay unchanged
type UpdateContactRequest struct {
	ID        int64   `json:"id" binding:"required,min=1"`
	City      *string `json:"city" binding:"omitempty,max=50"`
	Street    *string `json:"street" binding:"omitempty,max=100"`
	House     *string `json:"house" binding:"omitempty,max=15"`
	Structure *string `json:"structure" binding:"omitempty,max=15"`
	Building  *string `json:"building" binding:"omitempty,max=15"`
	Apartment *string `json:"apartment" binding:"omitempty,max=15"`
	Phone     *string `json:"phone" binding:"omitempty,max=20"`
}

// DeleteContactsRequest removes contacts by comma-separated ids
type DeleteContactsRequest struct {
	Items string `json:"items" form:"items" binding:"required,max=1000"`
}

// DeleteContactsResult reports how many contacts were removed
type DeleteContactsResult struct {
	Deleted int64 `json:"deleted"`
}

// CreateUserInput provisions an account from the admin CLI
type CreateUserInput struct {
	Email     string
	Password  string
	Type      string
	FirstName string
	LastName  string
	Company   string
	Position  string
}

// IssueTokenInput exchanges credentials for an access token
type IssueTokenInput struct {
	Email    string
	Password string
}

func toUserDetailsResponse(u *identity.User, contacts []identity.Contact) *UserDetailsResponse {
	resp := &UserDetailsResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Company:   u.Company,
		Position:  u.Position,
		Type:      u.Type.String(),
		IsActive:  u.IsActive,
		Contacts:  make([]ContactResponse, 0, len(contacts)),
		CreatedAt: u.CreatedAt,
	}
	for i := range contacts {
		resp.Contacts = append(resp.Contacts, ToContactResponse(&contacts[i]))
	}
	return resp
}
