package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"threadmart/models"
)

func TestStatusGuardPinsPreviousStatus(t *testing.T) {
	filter := statusGuard("ORD123", models.StatusPlaced)
	assert.Equal(t, bson.M{"orderid": "ORD123", "status": models.StatusPlaced}, filter,
		"the status write must only match while the planned-against status still holds")
}

func TestDeliveryFee(t *testing.T) {
	assert.Equal(t, 10.0, deliveryFee())

	t.Setenv("DELIVERY_FEE", "25.5")
	assert.Equal(t, 25.5, deliveryFee())

	t.Setenv("DELIVERY_FEE", "-3")
	assert.Equal(t, 10.0, deliveryFee(), "negative fee falls back to the default")

	t.Setenv("DELIVERY_FEE", "free")
	assert.Equal(t, 10.0, deliveryFee())
}

func TestSnapshotItemsResolvesFromLiveCatalog(t *testing.T) {
	products := map[string]models.Product{
		"p1": {
			ProductID:   "p1",
			Name:        "Linen Shirt",
			SubCategory: "Topwear",
			Images:      []string{"/static/productpic/a.png"},
			Variants:    []models.Variant{{VariantID: "v1", Size: "M", Color: "White", Quantity: 4}},
		},
	}
	items := []models.OrderItem{
		{ProductID: "p1", VariantID: "v1", ProductName: "stale name", Quantity: 2},
		{ProductID: "gone", VariantID: "vx", ProductName: "client value", Quantity: 1},
	}

	out := snapshotItems(items, products)
	require.Len(t, out, 2)

	assert.Equal(t, "Linen Shirt", out[0].ProductName)
	assert.Equal(t, "Topwear", out[0].SubCategory)
	assert.Equal(t, "/static/productpic/a.png", out[0].ProductImage)
	assert.Equal(t, "M", out[0].Size)
	assert.Equal(t, "White", out[0].Color)

	assert.Equal(t, "client value", out[1].ProductName, "missing product keeps the client snapshot")
}

func TestOrderAmountAggregatesDuplicateLines(t *testing.T) {
	products := map[string]models.Product{
		"p1": {ProductID: "p1", Price: 500, DiscountedPrice: 300},
	}
	items := []models.OrderItem{
		{ProductID: "p1", VariantID: "v1", Quantity: 2},
		{ProductID: "p1", VariantID: "v1", Quantity: 1},
		{ProductID: "p1", VariantID: "v2", Quantity: 1},
	}

	assert.Equal(t, 1200.0, orderAmount(items, products))
}
