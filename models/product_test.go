package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareVariantsNormalizesAndCounts(t *testing.T) {
	variants := []Variant{
		{Size: " m ", Color: "Red", Quantity: 5},
		{Age: "2", AgeUnit: "Years", Color: "Blue", Quantity: 3},
		{Size: "l", Color: "Red", Quantity: -4},
	}

	normalized, count, err := PrepareVariants(variants)
	require.NoError(t, err)

	assert.Equal(t, "M", normalized[0].Size)
	assert.Equal(t, "L", normalized[2].Size)
	assert.Equal(t, 0, normalized[2].Quantity, "negative quantity coerces to zero")
	assert.Equal(t, 8, count, "count sums quantities after coercion")

	for i, v := range normalized {
		assert.NotEmpty(t, v.VariantID, "variant %d should get an id", i)
	}
}

func TestPrepareVariantsKeepsExistingIDs(t *testing.T) {
	variants := []Variant{{VariantID: "v1", Size: "M", Color: "Red", Quantity: 1}}
	normalized, _, err := PrepareVariants(variants)
	require.NoError(t, err)
	assert.Equal(t, "v1", normalized[0].VariantID)
}

func TestValidateVariantsRejections(t *testing.T) {
	tests := []struct {
		name     string
		variants []Variant
	}{
		{"empty list", nil},
		{"neither size nor age", []Variant{{Color: "Red", Quantity: 1}}},
		{"age without unit", []Variant{{Age: "2", Color: "Red", Quantity: 1}}},
		{"unit without age", []Variant{{Size: "M", AgeUnit: "Years", Color: "Red", Quantity: 1}}},
		{"missing color", []Variant{{Size: "M", Quantity: 1}}},
		{"duplicate tuple", []Variant{
			{Size: "M", Color: "Red", Quantity: 1},
			{Size: "m", Color: "RED", Quantity: 2},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := PrepareVariants(tt.variants)
			assert.Error(t, err)
		})
	}
}

func TestCountInvariantHoldsForValidLists(t *testing.T) {
	lists := [][]Variant{
		{{Size: "S", Color: "Red", Quantity: 0}},
		{{Size: "S", Color: "Red", Quantity: 2}, {Size: "M", Color: "Red", Quantity: 7}},
		{{Age: "6", AgeUnit: "Months", Color: "Green", Quantity: 1}, {Age: "1", AgeUnit: "Years", Color: "Green", Quantity: 4}},
	}
	for _, list := range lists {
		normalized, count, err := PrepareVariants(list)
		require.NoError(t, err)
		sum := 0
		for _, v := range normalized {
			sum += v.Quantity
		}
		assert.Equal(t, sum, count)
	}
}

func TestVariantOptionLabels(t *testing.T) {
	variants := []Variant{
		{Size: "M", Color: "Red", Quantity: 1},
		{Age: "2", AgeUnit: "Years", Color: "Blue", Quantity: 1},
		{Size: "M", Color: "Green", Quantity: 1}, // duplicate label
	}
	assert.Equal(t, []string{"M", "2 Years"}, VariantOptionLabels(variants))
}

func TestEffectivePrice(t *testing.T) {
	assert.Equal(t, 300.0, Product{Price: 500, DiscountedPrice: 300}.EffectivePrice())
	assert.Equal(t, 500.0, Product{Price: 500}.EffectivePrice())
}

func TestDiscountPercentRounds(t *testing.T) {
	assert.Equal(t, 40, Product{Price: 500, DiscountedPrice: 300}.DiscountPercent())
	assert.Equal(t, 33, Product{Price: 300, DiscountedPrice: 200}.DiscountPercent())
	assert.Equal(t, 0, Product{Price: 500}.DiscountPercent())
}

func TestFindVariant(t *testing.T) {
	p := Product{Variants: []Variant{{VariantID: "a", Quantity: 1}, {VariantID: "b", Quantity: 2}}}
	require.NotNil(t, p.FindVariant("b"))
	assert.Equal(t, 2, p.FindVariant("b").Quantity)
	assert.Nil(t, p.FindVariant("c"))
}
