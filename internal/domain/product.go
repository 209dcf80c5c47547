package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNameEmpty     = errors.New("product name is required")
	ErrProductNameTooLong   = errors.New("product name must be 255 characters or less")
	ErrProductCategoryEmpty = errors.New("product category is required")
	ErrProductPriceNegative = errors.New("product price must not be negative")
)

// Product is one traded commodity shown on the public catalogue and managed
// from the admin console. The remote backend owns the record; this service
// only caches it.
type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Slug          string           `json:"slug,omitempty"`
	Category      string           `json:"category"`
	Origin        string           `json:"origin,omitempty"`
	Description   string           `json:"description,omitempty"`
	Unit          string           `json:"unit,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"` // indicative, per unit
	Featured      bool             `json:"featured"`
	CoverImageURL string           `json:"coverImageUrl,omitempty"`
	ImageURLs     []string         `json:"imageUrls,omitempty"`
	VideoURL      string           `json:"videoUrl,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// EntityID implements Entity
func (p Product) EntityID() string {
	return p.ID
}

// EditableFields implements Entity
func (p Product) EditableFields() Payload {
	fields := Payload{
		"name":          p.Name,
		"slug":          p.Slug,
		"category":      p.Category,
		"origin":        p.Origin,
		"description":   p.Description,
		"unit":          p.Unit,
		"featured":      p.Featured,
		"coverImageUrl": p.CoverImageURL,
		"imageUrls":     copyStrings(p.ImageURLs),
		"videoUrl":      p.VideoURL,
	}
	if p.Price != nil {
		fields["price"] = p.Price.String()
	}
	return fields
}

func (p *Product) Validate() error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return ErrProductNameEmpty
	}
	if len(name) > 255 {
		return ErrProductNameTooLong
	}
	if strings.TrimSpace(p.Category) == "" {
		return ErrProductCategoryEmpty
	}
	if p.Price != nil && p.Price.IsNegative() {
		return ErrProductPriceNegative
	}
	return nil
}
