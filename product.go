package storefront

import (
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Category groups products by market segment.
type Category string

const (
	CategoryFlagship Category = "flagship"
	CategoryPremium  Category = "premium"
	CategoryMidRange Category = "mid-range"
	CategoryBudget   Category = "budget"
)

// Specs holds the display specs of a product. Filters match on the raw
// strings, so "8GB" and "8 GB" are different values.
type Specs struct {
	RAM       string `json:"ram" yaml:"ram"`
	Storage   string `json:"storage" yaml:"storage"`
	Battery   string `json:"battery" yaml:"battery"`
	Camera    string `json:"camera" yaml:"camera"`
	Display   string `json:"display" yaml:"display"`
	Processor string `json:"processor" yaml:"processor"`
	OS        string `json:"os" yaml:"os"`
	Network   string `json:"network" yaml:"network"`
}

// Product is a catalog record. OriginalPrice and Discount are zero when the
// product is not on sale.
type Product struct {
	ID            string   `json:"id" yaml:"id" validate:"required"`
	Name          string   `json:"name" yaml:"name" validate:"required"`
	Brand         string   `json:"brand" yaml:"brand" validate:"required"`
	Price         float64  `json:"price" yaml:"price" validate:"gte=0"`
	OriginalPrice float64  `json:"originalPrice,omitempty" yaml:"originalPrice,omitempty" validate:"gte=0"`
	Discount      float64  `json:"discount,omitempty" yaml:"discount,omitempty" validate:"gte=0,lte=100"`
	Image         string   `json:"image,omitempty" yaml:"image,omitempty"`
	Images        []string `json:"images,omitempty" yaml:"images,omitempty"`
	Rating        float64  `json:"rating" yaml:"rating" validate:"gte=0,lte=5"`
	Reviews       int      `json:"reviews" yaml:"reviews" validate:"gte=0"`
	InStock       bool     `json:"inStock" yaml:"inStock"`
	Specs         Specs    `json:"specs" yaml:"specs"`
	Colors        []string `json:"colors" yaml:"colors" validate:"min=1,dive,required"`
	Features      []string `json:"features,omitempty" yaml:"features,omitempty"`
	Description   string   `json:"description,omitempty" yaml:"description,omitempty"`
	Category      Category `json:"category" yaml:"category" validate:"oneof=flagship premium mid-range budget"`
}

// Validate checks the structural invariants of a catalog record.
func (p Product) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("product %q: %w", p.ID, err)
	}
	return nil
}

// HasColor reports whether color is one of the product colors.
func (p Product) HasColor(color string) bool {
	return slices.Contains(p.Colors, color)
}

// DefaultColor returns the first listed color, the one a "quick add" uses.
func (p Product) DefaultColor() string {
	if len(p.Colors) == 0 {
		return ""
	}
	return p.Colors[0]
}

// OnSale reports whether the product carries a discount.
func (p Product) OnSale() bool {
	return p.Discount > 0
}

// Clone returns a copy that shares no slices with p.
func (p Product) Clone() Product {
	out := p
	out.Images = slices.Clone(p.Images)
	out.Colors = slices.Clone(p.Colors)
	out.Features = slices.Clone(p.Features)
	return out
}
