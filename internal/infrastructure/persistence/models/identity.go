package models

import (
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/identity"
)

// UserModel is the persistence model for the User aggregate
type UserModel struct {
	BaseModel
	Email        string            `gorm:"type:varchar(254);not null;uniqueIndex"`
	FirstName    string            `gorm:"type:varchar(100);not null;default:''"`
	LastName     string            `gorm:"type:varchar(100);not null;default:''"`
	Company      string            `gorm:"type:varchar(100);not null;default:''"`
	Position     string            `gorm:"type:varchar(100);not null;default:''"`
	Type         identity.UserType `gorm:"type:varchar(5);not null;default:'buyer'"`
	IsActive     bool              `gorm:"not null;default:true"`
	PasswordHash string            `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.aggregateRoot(),
		Email:             m.Email,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		Company:           m.Company,
		Position:          m.Position,
		Type:              m.Type,
		IsActive:          m.IsActive,
		PasswordHash:      m.PasswordHash,
	}
}

// UserModelFromDomain creates a persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Company:      u.Company,
		Position:     u.Position,
		Type:         u.Type,
		IsActive:     u.IsActive,
		PasswordHash: u.PasswordHash,
	}
	m.FromDomainBaseEntity(u.BaseEntity)
	return m
}

// ContactModel is the persistence model for a user's delivery contact
type ContactModel struct {
	BaseModel
	UserID    int64  `gorm:"not null;index"`
	City      string `gorm:"type:varchar(50);not null"`
	Street    string `gorm:"type:varchar(100);not null"`
	House     string `gorm:"type:varchar(15);not null;default:''"`
	Structure string `gorm:"type:varchar(15);not null;default:''"`
	Building  string `gorm:"type:varchar(15);not null;default:''"`
	Apartment string `gorm:"type:varchar(15);not null;default:''"`
	Phone     string `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the persistence model to a domain Contact
func (m *ContactModel) ToDomain() *identity.Contact {
	return &identity.Contact{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		City:       m.City,
		Street:     m.Street,
		House:      m.House,
		Structure:  m.Structure,
		Building:   m.Building,
		Apartment:  m.Apartment,
		Phone:      m.Phone,
	}
}

// ContactModelFromDomain creates a persistence model from a domain Contact
func ContactModelFromDomain(c *identity.Contact) *ContactModel {
	m := &ContactModel{
		UserID:    c.UserID,
		City:      c.City,
		Street:    c.Street,
		House:     c.House,
		Structure: c.Structure,
		Building:  c.Building,
		Apartment: c.Apartment,
		Phone:     c.Phone,
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}
