package identity

import (
	"context"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/identity"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
)

// ContactService manages the caller's delivery contacts
type ContactService struct {
	contactRepo identity.ContactRepository
}

// NewContactService creates a new contact service
func NewContactService(contactRepo identity.ContactRepository) *ContactService {
	return &ContactService{contactRepo: contactRepo}
}

// List returns the caller's contacts
func (s *ContactService) List(ctx context.Context, userID int64) ([]ContactResponse, error) {
	contacts, err := s.contactRepo.FindAllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := make([]ContactResponse, 0, len(contacts))
	for i := range contacts {
		resp = append(resp, ToContactResponse(&contacts[i]))
	}
	return resp, nil
}

// Create adds a contact owned by the caller
func (s *ContactService) Create(ctx context.Context, userID int64, req CreateContactRequest) (*ContactResponse, error) {
	contact, err := identity.NewContact(userID, identity.ContactFields{
		City:      &req.City,
		Street:    &req.Street,
		House:     &req.House,
		Structure: &req.Structure,
		Building:  &req.Building,
		Apartment: &req.Apartment,
		Phone:     &req.Phone,
	})
	if err != nil {
		return nil, err
	}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, err
	}
	resp := ToContactResponse(contact)
	return &resp, nil
}

// Update edits one of the caller's contacts
func (s *ContactService) Update(ctx context.Context, userID int64, req UpdateContactRequest) (*ContactResponse, error) {
	contact, err := s.contactRepo.FindByIDForUser(ctx, userID, req.ID)
	if err != nil {
		return nil, err
	}
	if err := contact.Update(identity.ContactFields{
		City:      req.City,
		Street:    req.Street,
		House:     req.House,
		Structure: req.Structure,
		Building:  req.Building,
		Apartment: req.Apartment,
		Phone:     req.Phone,
	}); err != nil {
		return nil, err
	}
	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, err
	}
	resp := ToContactResponse(contact)
	return &resp, nil
}

// Delete removes the listed contacts owned by the caller. Ids owned by
// someone else are not counted and tokens that are not ids are skipped.
func (s *ContactService) Delete(ctx context.Context, userID int64, rawIDs string) (*DeleteContactsResult, error) {
	ids, err := shared.ParseIDList(rawIDs)
	if err != nil {
		return nil, err
	}
	n, err := s.contactRepo.DeleteForUser(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	return &DeleteContactsResult{Deleted: n}, nil
}
