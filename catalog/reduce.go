package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"threadmart/inventory"
	"threadmart/utils"

	"github.com/julienschmidt/httprouter"
)

// ReduceQuantity commits stock for one variant at order placement time. The
// decrement is a single conditional update, so two racing calls can never
// drive a variant negative.
// POST /api/product/reduce-quantity
func ReduceQuantity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload struct {
		ProductID string `json:"productId"`
		VariantID string `json:"variantId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Println("ReduceQuantity decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if payload.ProductID == "" || payload.VariantID == "" {
		http.Error(w, "productId and variantId are required", http.StatusBadRequest)
		return
	}

	if err := inventory.Reduce(ctx, payload.ProductID, payload.VariantID, payload.Quantity); err != nil {
		var stockErr *inventory.StockError
		var notFound *inventory.NotFoundError
		if !errors.As(err, &stockErr) && !errors.As(err, &notFound) {
			log.Println("ReduceQuantity error:", err)
		}
		utils.RespondFailure(w, err.Error())
		return
	}

	utils.RespondSuccess(w, http.StatusOK, utils.M{"message": "Quantity updated"})
}
