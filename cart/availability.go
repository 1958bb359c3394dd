package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"threadmart/db"
	"threadmart/models"
	"threadmart/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// AvailabilityItem is one cart line the client wants verified.
type AvailabilityItem struct {
	ProductID    string `json:"productId"`
	VariantID    string `json:"variantId"`
	RequestedQty int    `json:"requestedQty"`
}

// UnavailableItem reports a deficit: what was asked for versus what the
// server can actually supply right now.
type UnavailableItem struct {
	ProductID   string `json:"productId"`
	VariantID   string `json:"variantId"`
	ProductName string `json:"productName"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
}

// EvaluateAvailability resolves every item against current products and
// returns the complete deficit list, so the client can correct the whole
// cart in one round trip. Missing product or variant reports available 0.
func EvaluateAvailability(products map[string]models.Product, items []AvailabilityItem) []UnavailableItem {
	unavailable := []UnavailableItem{}
	for _, item := range items {
		report := UnavailableItem{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Requested: item.RequestedQty,
		}

		p, ok := products[item.ProductID]
		if !ok {
			report.ProductName = item.ProductID
			unavailable = append(unavailable, report)
			continue
		}
		report.ProductName = p.Name

		v := p.FindVariant(item.VariantID)
		if v == nil {
			unavailable = append(unavailable, report)
			continue
		}
		if v.Quantity < item.RequestedQty {
			report.Available = v.Quantity
			unavailable = append(unavailable, report)
		}
	}
	return unavailable
}

// CheckAvailability is the pre-checkout stock gate.
// POST /api/cart/check-availability
func CheckAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload struct {
		Items []AvailabilityItem `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Println("CheckAvailability decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if len(payload.Items) == 0 {
		http.Error(w, "Items are required", http.StatusBadRequest)
		return
	}

	products, err := LoadProducts(ctx, payload.Items)
	if err != nil {
		log.Println("CheckAvailability load error:", err)
		http.Error(w, "Could not verify availability", http.StatusInternalServerError)
		return
	}

	unavailable := EvaluateAvailability(products, payload.Items)
	if len(unavailable) > 0 {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"success":     false,
			"unavailable": unavailable,
		})
		return
	}
	utils.RespondSuccess(w, http.StatusOK, nil)
}

// LoadProducts fetches the products the items refer to, keyed by id.
func LoadProducts(ctx context.Context, items []AvailabilityItem) (map[string]models.Product, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool)
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	cursor, err := db.ProductsCollection.Find(ctx, bson.M{"productid": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ProductID] = p
	}
	return byID, nil
}
