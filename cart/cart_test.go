package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threadmart/models"
)

func shirt() *models.Product {
	return &models.Product{
		ProductID:       "p1",
		Name:            "Linen Shirt",
		Price:           500,
		DiscountedPrice: 300,
		Variants: []models.Variant{
			{VariantID: "v1", Size: "M", Color: "White", Quantity: 2},
			{VariantID: "v2", Size: "L", Color: "White", Quantity: 0},
		},
	}
}

func TestAddOneIncrementsUpToStock(t *testing.T) {
	c := Cart{}
	p := shirt()

	require.NoError(t, c.AddOne(p, "v1"))
	require.NoError(t, c.AddOne(p, "v1"))
	assert.Equal(t, 2, c.Quantity("p1", "v1"))

	err := c.AddOne(p, "v1")
	require.Error(t, err)
	assert.Equal(t, "Cannot add more than available stock. Only 2 available", err.Error())
	assert.Equal(t, 2, c.Quantity("p1", "v1"), "rejected add leaves the cart unchanged")
}

func TestAddOneRejectsOutOfStockVariant(t *testing.T) {
	c := Cart{}
	err := c.AddOne(shirt(), "v2")
	require.Error(t, err)
	assert.Equal(t, 0, c.Quantity("p1", "v2"))
}

func TestAddOneRejectsUnknownProductAndVariant(t *testing.T) {
	c := Cart{}
	assert.Error(t, c.AddOne(nil, "v1"))
	assert.Error(t, c.AddOne(shirt(), "nope"))
	assert.Empty(t, c)
}

func TestSetQuantityZeroPrunesEntries(t *testing.T) {
	c := Cart{}
	c.SetQuantity("p1", "v1", 3)
	c.SetQuantity("p1", "v2", 1)
	assert.Equal(t, 4, c.Count())

	c.SetQuantity("p1", "v2", 0)
	_, ok := c["p1"]["v2"]
	assert.False(t, ok, "zero quantity removes the variant key")

	c.SetQuantity("p1", "v1", 0)
	_, ok = c["p1"]
	assert.False(t, ok, "last variant removal drops the product entry")
	assert.Equal(t, 0, c.Count())
}

func TestSetQuantityZeroOnAbsentKeyIsNoop(t *testing.T) {
	c := Cart{}
	c.SetQuantity("p1", "v1", 0)
	assert.Empty(t, c)
}

func TestAmountUsesEffectivePrice(t *testing.T) {
	products := map[string]models.Product{
		"p1": {ProductID: "p1", Price: 500, DiscountedPrice: 300},
		"p2": {ProductID: "p2", Price: 100},
	}
	c := Cart{
		"p1":   {"v1": 2},
		"p2":   {"v9": 1},
		"gone": {"vx": 5},
	}

	assert.Equal(t, 700.0, c.Amount(products), "discounted price where set, removed products contribute nothing")
}

func TestEvaluateAvailabilityBoundaries(t *testing.T) {
	products := map[string]models.Product{"p1": *shirt()}

	tests := []struct {
		name string
		item AvailabilityItem
		want *UnavailableItem
	}{
		{
			name: "requested equals available",
			item: AvailabilityItem{ProductID: "p1", VariantID: "v1", RequestedQty: 2},
		},
		{
			name: "requested one over available",
			item: AvailabilityItem{ProductID: "p1", VariantID: "v1", RequestedQty: 3},
			want: &UnavailableItem{ProductID: "p1", VariantID: "v1", ProductName: "Linen Shirt", Requested: 3, Available: 2},
		},
		{
			name: "missing variant reports available zero",
			item: AvailabilityItem{ProductID: "p1", VariantID: "gone", RequestedQty: 1},
			want: &UnavailableItem{ProductID: "p1", VariantID: "gone", ProductName: "Linen Shirt", Requested: 1},
		},
		{
			name: "missing product reports available zero",
			item: AvailabilityItem{ProductID: "px", VariantID: "v1", RequestedQty: 1},
			want: &UnavailableItem{ProductID: "px", VariantID: "v1", ProductName: "px", Requested: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateAvailability(products, []AvailabilityItem{tt.item})
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, *tt.want, got[0])
		})
	}
}

func TestEvaluateAvailabilityReportsEveryDeficit(t *testing.T) {
	products := map[string]models.Product{"p1": *shirt()}
	items := []AvailabilityItem{
		{ProductID: "p1", VariantID: "v1", RequestedQty: 5},
		{ProductID: "p1", VariantID: "v2", RequestedQty: 1},
		{ProductID: "p1", VariantID: "v1", RequestedQty: 1},
	}

	got := EvaluateAvailability(products, items)
	require.Len(t, got, 2, "full deficit list, not just the first conflict")
	assert.Equal(t, 2, got[0].Available)
	assert.Equal(t, 0, got[1].Available)
}
