package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Variant is one sellable size/age/color combination of a product. A variant
// must carry a size or an age (with unit); color is always required.
type Variant struct {
	VariantID string `json:"variantId" bson:"variantid"`
	Size      string `json:"size,omitempty" bson:"size,omitempty"`
	Age       string `json:"age,omitempty" bson:"age,omitempty"`
	AgeUnit   string `json:"ageUnit,omitempty" bson:"ageunit,omitempty"`
	Color     string `json:"color" bson:"color"`
	Quantity  int    `json:"quantity" bson:"quantity"`
}

// OptionLabel renders the label shown in facet lists: "2 Years" for aged
// variants, the uppercased size otherwise.
func (v Variant) OptionLabel() string {
	if v.Age != "" && v.AgeUnit != "" {
		return strings.TrimSpace(v.Age + " " + v.AgeUnit)
	}
	if v.Size != "" {
		return strings.ToUpper(v.Size)
	}
	return ""
}

type Product struct {
	ProductID       string    `json:"productId" bson:"productid"`
	Name            string    `json:"name" bson:"name"`
	Description     string    `json:"description,omitempty" bson:"description,omitempty"`
	Price           float64   `json:"price" bson:"price"`
	DiscountedPrice float64   `json:"discountedPrice,omitempty" bson:"discountedprice,omitempty"`
	Images          []string  `json:"images" bson:"images"`
	Category        string    `json:"category" bson:"category"`
	SubCategory     string    `json:"subCategory" bson:"subcategory"`
	Variants        []Variant `json:"variants" bson:"variants"`
	Bestseller      bool      `json:"bestseller" bson:"bestseller"`
	Count           int       `json:"count" bson:"count"`
	Date            int64     `json:"date" bson:"date"`

	// Ages is derived for responses, never stored.
	Ages []string `json:"ages,omitempty" bson:"-"`
}

// EffectivePrice is the price the customer pays: the discounted price when one
// is set, the base price otherwise.
func (p Product) EffectivePrice() float64 {
	if p.DiscountedPrice > 0 {
		return p.DiscountedPrice
	}
	return p.Price
}

// DiscountPercent reports the rounded discount percentage, or 0 when the
// product has no discounted price.
func (p Product) DiscountPercent() int {
	if p.DiscountedPrice <= 0 || p.Price <= 0 {
		return 0
	}
	return int((p.Price-p.DiscountedPrice)/p.Price*100 + 0.5)
}

// FindVariant returns the variant with the given id, or nil.
func (p *Product) FindVariant(variantID string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].VariantID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}

// VariantOptionLabels aggregates the distinct option labels across variants,
// preserving first-seen order.
func VariantOptionLabels(variants []Variant) []string {
	labels := []string{}
	seen := make(map[string]bool)
	for _, v := range variants {
		label := v.OptionLabel()
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}
	return labels
}

// VariantCount sums variant quantities; negative quantities count as zero so
// the aggregate can never go below the sum of valid stock.
func VariantCount(variants []Variant) int {
	total := 0
	for _, v := range variants {
		if v.Quantity > 0 {
			total += v.Quantity
		}
	}
	return total
}

// NormalizeVariants uppercases sizes, trims free-text fields, coerces negative
// quantities to zero and assigns ids to variants that lack one. Both product
// write paths run this before validation so they cannot diverge.
func NormalizeVariants(variants []Variant) []Variant {
	out := make([]Variant, len(variants))
	for i, v := range variants {
		v.Size = strings.ToUpper(strings.TrimSpace(v.Size))
		v.Age = strings.TrimSpace(v.Age)
		v.AgeUnit = strings.TrimSpace(v.AgeUnit)
		v.Color = strings.TrimSpace(v.Color)
		if v.Quantity < 0 {
			v.Quantity = 0
		}
		if v.VariantID == "" {
			v.VariantID = uuid.New().String()
		}
		out[i] = v
	}
	return out
}

// dedupeKey identifies a variant for duplicate detection.
func dedupeKey(v Variant) string {
	return fmt.Sprintf("%s|%s|%s|%s", v.Size, v.Age, v.AgeUnit, strings.ToLower(v.Color))
}

// ValidateVariants enforces the variant business rules on normalized input:
// at least one variant, color always present, size or age on every variant,
// ageUnit exactly when age is set, no duplicate (size, age, ageUnit, color)
// tuples.
func ValidateVariants(variants []Variant) error {
	if len(variants) == 0 {
		return errors.New("at least one variant is required")
	}
	seen := make(map[string]bool)
	for i, v := range variants {
		if v.Color == "" {
			return fmt.Errorf("variant %d: color is required", i+1)
		}
		if v.Size == "" && v.Age == "" {
			return fmt.Errorf("variant %d: size or age is required", i+1)
		}
		if v.Age != "" && v.AgeUnit == "" {
			return fmt.Errorf("variant %d: ageUnit is required when age is set", i+1)
		}
		if v.Age == "" && v.AgeUnit != "" {
			return fmt.Errorf("variant %d: ageUnit without age", i+1)
		}
		key := dedupeKey(v)
		if seen[key] {
			return fmt.Errorf("variant %d: duplicate of an earlier variant", i+1)
		}
		seen[key] = true
	}
	return nil
}

// PrepareVariants is the shared write-path sequence: normalize, validate and
// recompute the aggregate count. The returned count must be persisted in the
// same write as the variant list.
func PrepareVariants(variants []Variant) ([]Variant, int, error) {
	normalized := NormalizeVariants(variants)
	if err := ValidateVariants(normalized); err != nil {
		return nil, 0, err
	}
	return normalized, VariantCount(normalized), nil
}
