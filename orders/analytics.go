package orders

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

// SalesAnalytics returns the paid orders inside a date window, newest first,
// with a revenue/order-count summary. Dates are "YYYY-MM-DD"; omitted bounds
// fall back to the epoch and now.
// POST /api/order/analytics (admin)
func SalesAnalytics(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var payload struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	start := int64(0)
	if payload.StartDate != "" {
		t, err := time.Parse("2006-01-02", payload.StartDate)
		if err != nil {
			utils.RespondFailure(w, "Invalid startDate, expected YYYY-MM-DD")
			return
		}
		start = t.UnixMilli()
	}
	end := time.Now().UnixMilli()
	if payload.EndDate != "" {
		t, err := time.Parse("2006-01-02", payload.EndDate)
		if err != nil {
			utils.RespondFailure(w, "Invalid endDate, expected YYYY-MM-DD")
			return
		}
		// inclusive through end of day
		end = t.Add(24*time.Hour - time.Millisecond).UnixMilli()
	}

	pipeline := []bson.M{
		{"$match": bson.M{
			"date":    bson.M{"$gte": start, "$lte": end},
			"payment": true,
		}},
		{"$sort": bson.M{"date": -1}},
		{"$project": bson.M{
			"orderid": 1,
			"items":   1,
			"amount":  1,
			"address": 1,
			"date":    1,
		}},
	}

	cursor, err := db.OrdersCollection.Aggregate(ctx, pipeline)
	if err != nil {
		log.Println("SalesAnalytics Aggregate error:", err)
		http.Error(w, "Could not compute analytics", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var sales []models.Order
	if err := cursor.All(ctx, &sales); err != nil {
		log.Println("SalesAnalytics cursor error:", err)
		http.Error(w, "Error reading analytics", http.StatusInternalServerError)
		return
	}
	if sales == nil {
		sales = []models.Order{}
	}

	totalRevenue := 0.0
	unitsSold := 0
	for _, s := range sales {
		totalRevenue += s.Amount
		for _, item := range s.Items {
			unitsSold += item.Quantity
		}
	}

	utils.RespondSuccess(w, http.StatusOK, utils.M{
		"analytics":    sales,
		"orderCount":   len(sales),
		"unitsSold":    unitsSold,
		"totalRevenue": totalRevenue,
	})
}
