package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Feed is the catalog document a partner publishes for import
type Feed struct {
	Shop       string         `yaml:"shop"`
	Categories []FeedCategory `yaml:"categories"`
	Goods      []FeedGood     `yaml:"goods"`
}

// FeedCategory is a category declared by the feed
type FeedCategory struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
}

// FeedGood is one offer in the feed. ID is the partner's own identifier and
// becomes the offer's external ID.
type FeedGood struct {
	ID         int64             `yaml:"id"`
	Category   int64             `yaml:"category"`
	Model      string            `yaml:"model"`
	Name       string            `yaml:"name"`
	Price      decimal.Decimal   `yaml:"price"`
	PriceRRC   decimal.Decimal   `yaml:"price_rrc"`
	Quantity   int               `yaml:"quantity"`
	Parameters map[string]string `yaml:"parameters"`
}

// FeedParameter is a name/value pair from a good's parameter mapping
type FeedParameter struct {
	Name  string
	Value string
}

// SortedParameters returns the good's parameters ordered by name
func (g FeedGood) SortedParameters() []FeedParameter {
	params := make([]FeedParameter, 0, len(g.Parameters))
	for name, value := range g.Parameters {
		params = append(params, FeedParameter{Name: strings.TrimSpace(name), Value: value})
	}
	sort.Slice(params, func(i, j int) bool { return params[i].Name < params[j].Name })
	return params
}

// ParseFeed decodes a YAML feed document and validates its structure.
// Every failure is returned as a validation error.
func ParseFeed(data []byte) (*Feed, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, shared.NewValidationError("feed document is empty")
	}

	var feed Feed
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&feed); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, shared.NewValidationError("feed document is empty")
		}
		return nil, shared.NewValidationError(fmt.Sprintf("invalid feed document: %v", err))
	}

	if err := feed.Validate(); err != nil {
		return nil, err
	}
	return &feed, nil
}

// Validate checks the feed's internal consistency
func (f *Feed) Validate() error {
	f.Shop = strings.TrimSpace(f.Shop)
	if err := validateShopName(f.Shop); err != nil {
		return err
	}

	categories := make(map[int64]struct{}, len(f.Categories))
	for i, c := range f.Categories {
		if _, err := NewCategory(c.ID, c.Name); err != nil {
			return shared.NewValidationError(fmt.Sprintf("categories[%d]: %s", i, err.Error()))
		}
		if _, dup := categories[c.ID]; dup {
			return shared.NewValidationError(fmt.Sprintf("categories[%d]: duplicate category id %d", i, c.ID))
		}
		categories[c.ID] = struct{}{}
	}

	goods := make(map[int64]struct{}, len(f.Goods))
	for i, g := range f.Goods {
		if err := g.validate(categories); err != nil {
			return shared.NewValidationError(fmt.Sprintf("goods[%d]: %s", i, err.Error()))
		}
		if _, dup := goods[g.ID]; dup {
			return shared.NewValidationError(fmt.Sprintf("goods[%d]: duplicate good id %d", i, g.ID))
		}
		goods[g.ID] = struct{}{}
	}
	return nil
}

// Column limits of the catalog tables. A feed that exceeds them is rejected
// before the import transaction starts.
const (
	maxProductNameLen    = 80
	maxModelLen          = 80
	maxParameterNameLen  = 40
	maxParameterValueLen = 100
	priceScale           = 2
)

// maxPrice is the first value that no longer fits NUMERIC(12,2)
var maxPrice = decimal.New(1, 10)

func (g FeedGood) validate(categories map[int64]struct{}) error {
	if g.ID <= 0 {
		return errors.New("id must be positive")
	}
	if strings.TrimSpace(g.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if utf8.RuneCountInString(g.Name) > maxProductNameLen {
		return fmt.Errorf("name cannot exceed %d characters", maxProductNameLen)
	}
	if utf8.RuneCountInString(g.Model) > maxModelLen {
		return fmt.Errorf("model cannot exceed %d characters", maxModelLen)
	}
	if _, ok := categories[g.Category]; !ok {
		return fmt.Errorf("unknown category %d", g.Category)
	}
	if err := validatePrice("price", g.Price); err != nil {
		return err
	}
	if err := validatePrice("price_rrc", g.PriceRRC); err != nil {
		return err
	}
	if g.Quantity < 0 {
		return errors.New("quantity cannot be negative")
	}
	if g.Quantity > math.MaxInt32 {
		return fmt.Errorf("quantity cannot exceed %d", math.MaxInt32)
	}
	return validateParameters(g.Parameters)
}

func validatePrice(field string, price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("%s cannot be negative", field)
	}
	if !price.Equal(price.Truncate(priceScale)) {
		return fmt.Errorf("%s cannot have more than %d decimal places", field, priceScale)
	}
	if price.GreaterThanOrEqual(maxPrice) {
		return fmt.Errorf("%s must be less than %s", field, maxPrice.String())
	}
	return nil
}

// validateParameters checks names the way SortedParameters stores them, so
// two keys that differ only by surrounding spaces are duplicates
func validateParameters(params map[string]string) error {
	seen := make(map[string]struct{}, len(params))
	for raw, value := range params {
		name := strings.TrimSpace(raw)
		if name == "" {
			return errors.New("parameter name cannot be empty")
		}
		if utf8.RuneCountInString(name) > maxParameterNameLen {
			return fmt.Errorf("parameter %q: name cannot exceed %d characters", name, maxParameterNameLen)
		}
		if utf8.RuneCountInString(value) > maxParameterValueLen {
			return fmt.Errorf("parameter %q: value cannot exceed %d characters", name, maxParameterValueLen)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("duplicate parameter %q", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}
