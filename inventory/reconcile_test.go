package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threadmart/models"
)

// Transitions that never cross the Cancelled boundary return before any
// database work, so they are assertable without a live Mongo.
func TestApplyStatusChangeNoInventoryEffect(t *testing.T) {
	order := models.Order{
		OrderID: "ORD1",
		Status:  models.StatusPlaced,
		Items:   []models.OrderItem{{ProductID: "p1", VariantID: "v1", Quantity: 2}},
	}

	tests := []struct {
		name       string
		prev, next string
	}{
		{"same status", models.StatusPlaced, models.StatusPlaced},
		{"same status cancelled", models.StatusCancelled, models.StatusCancelled},
		{"placed to shipped", models.StatusPlaced, models.StatusShipped},
		{"shipped to delivered", models.StatusShipped, models.StatusDelivered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order.Status = tt.prev
			applied, err := ApplyStatusChange(context.Background(), order, tt.next)
			require.NoError(t, err)
			assert.Nil(t, applied, "no deltas to roll back on a non-reconciling transition")
		})
	}
}
