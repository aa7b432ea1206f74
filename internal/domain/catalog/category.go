package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
)

// Category groups products. Its ID comes from partner feeds, so the same
// category is shared by every shop that lists it.
type Category struct {
	ID   int64
	Name string
}

// NewCategory creates a category with a feed-supplied ID
func NewCategory(id int64, name string) (*Category, error) {
	if id <= 0 {
		return nil, shared.NewValidationError("category id must be positive")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("category name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 40 {
		return nil, shared.NewValidationError("category name cannot exceed 40 characters")
	}
	return &Category{ID: id, Name: name}, nil
}
