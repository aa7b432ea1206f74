package persistence

import (
	"context"
	"errors"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/identity"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormContactRepository implements identity.ContactRepository using GORM.
// Every read and write is scoped to the owning user.
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// Create inserts a new contact
func (r *GormContactRepository) Create(ctx context.Context, contact *identity.Contact) error {
	model := models.ContactModelFromDomain(contact)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	contact.ID = model.ID
	return nil
}

// Update saves the contact if it belongs to its user
func (r *GormContactRepository) Update(ctx context.Context, contact *identity.Contact) error {
	result := r.db.WithContext(ctx).
		Model(&models.ContactModel{}).
		Where("id = ? AND user_id = ?", contact.ID, contact.UserID).
		Updates(map[string]any{
			"city":       contact.City,
			"street":     contact.Street,
			"house":      contact.House,
			"structure":  contact.Structure,
			"building":   contact.Building,
			"apartment":  contact.Apartment,
			"phone":      contact.Phone,
			"updated_at": contact.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Contact")
	}
	return nil
}

// FindByIDForUser returns the contact only when userID owns it
func (r *GormContactRepository) FindByIDForUser(ctx context.Context, userID, id int64) (*identity.Contact, error) {
	var model models.ContactModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Contact")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForUser lists the user's contacts
func (r *GormContactRepository) FindAllForUser(ctx context.Context, userID int64) ([]identity.Contact, error) {
	var rows []models.ContactModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	contacts := make([]identity.Contact, 0, len(rows))
	for i := range rows {
		contacts = append(contacts, *rows[i].ToDomain())
	}
	return contacts, nil
}

// DeleteForUser removes the caller's contacts among ids and reports how many went
func (r *GormContactRepository) DeleteForUser(ctx context.Context, userID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&models.ContactModel{})
	if result.Error != nil {
		return 0, translateError(result.Error)
	}
	return result.RowsAffected, nil
}
