package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"os"
	"strconv"
	"time"

	"threadmart/cart"
	"threadmart/db"
	"threadmart/inventory"
	"threadmart/live"
	"threadmart/models"
	"threadmart/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultDeliveryFee = 10

func deliveryFee() float64 {
	if raw := os.Getenv("DELIVERY_FEE"); raw != "" {
		if fee, err := strconv.ParseFloat(raw, 64); err == nil && fee >= 0 {
			return fee
		}
	}
	return defaultDeliveryFee
}

// PlaceOrder records a COD order. Snapshots are re-resolved against the live
// catalog where possible, and the payable amount is recomputed server-side so
// a stale client price can never check out.
// POST /api/order/place
func PlaceOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload struct {
		Items   []models.OrderItem `json:"items"`
		Amount  float64            `json:"amount"`
		Address models.Address     `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Println("PlaceOrder decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if len(payload.Items) == 0 {
		utils.RespondFailure(w, "Order must contain at least one item")
		return
	}
	for _, item := range payload.Items {
		if item.ProductID == "" || item.VariantID == "" || item.Quantity <= 0 {
			utils.RespondFailure(w, "Each item needs productId, variantId and a positive quantity")
			return
		}
	}

	products, err := loadOrderProducts(ctx, payload.Items)
	if err != nil {
		log.Println("PlaceOrder load error:", err)
		http.Error(w, "Could not verify order", http.StatusInternalServerError)
		return
	}

	items := snapshotItems(payload.Items, products)

	expected := orderAmount(items, products) + deliveryFee()
	if math.Abs(expected-payload.Amount) > 0.01 {
		utils.RespondFailure(w, "Order amount does not match current prices")
		return
	}

	order := models.Order{
		OrderID:       "ORD" + utils.GenerateID(12),
		UserID:        "guest",
		Items:         items,
		Address:       payload.Address,
		Amount:        expected,
		PaymentMethod: "COD",
		Payment:       false,
		Status:        models.StatusPlaced,
		Date:          time.Now().UnixMilli(),
	}

	if _, err := db.OrdersCollection.InsertOne(ctx, order); err != nil {
		log.Println("PlaceOrder InsertOne error:", err)
		http.Error(w, "Order creation failed", http.StatusInternalServerError)
		return
	}

	go live.BroadcastOrder(order)

	utils.RespondSuccess(w, http.StatusCreated, utils.M{"message": "Order Placed", "orderId": order.OrderID})
}

// snapshotItems fills item snapshot fields from the live catalog wherever the
// product and variant still resolve; client-supplied values are the fallback.
func snapshotItems(items []models.OrderItem, products map[string]models.Product) []models.OrderItem {
	out := make([]models.OrderItem, len(items))
	for i, item := range items {
		p, ok := products[item.ProductID]
		if !ok {
			out[i] = item
			continue
		}
		item.ProductName = p.Name
		item.SubCategory = p.SubCategory
		if len(p.Images) > 0 {
			item.ProductImage = p.Images[0]
		}
		if v := p.FindVariant(item.VariantID); v != nil {
			item.Color = v.Color
			item.Size = v.Size
			item.Age = v.Age
			item.AgeUnit = v.AgeUnit
		}
		out[i] = item
	}
	return out
}

func orderAmount(items []models.OrderItem, products map[string]models.Product) float64 {
	c := cart.Cart{}
	for _, item := range items {
		c.SetQuantity(item.ProductID, item.VariantID, c.Quantity(item.ProductID, item.VariantID)+item.Quantity)
	}
	return c.Amount(products)
}

func loadOrderProducts(ctx context.Context, items []models.OrderItem) (map[string]models.Product, error) {
	refs := make([]cart.AvailabilityItem, len(items))
	for i, item := range items {
		refs[i] = cart.AvailabilityItem{ProductID: item.ProductID, VariantID: item.VariantID, RequestedQty: item.Quantity}
	}
	return cart.LoadProducts(ctx, refs)
}

// PlaceOrderStripe is a stub; card payments are not wired up.
// POST /api/order/stripe
func PlaceOrderStripe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondFailure(w, "Stripe method not implemented yet.")
}

// PlaceOrderRazorpay is a stub; card payments are not wired up.
// POST /api/order/razorpay
func PlaceOrderRazorpay(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondFailure(w, "Razorpay method not implemented yet.")
}

// AllOrders lists every order, newest first.
// POST /api/order/list (admin)
func AllOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.OrdersCollection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		log.Println("AllOrders Find error:", err)
		http.Error(w, "Could not retrieve orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		log.Println("AllOrders cursor error:", err)
		http.Error(w, "Error reading orders", http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	utils.RespondSuccess(w, http.StatusOK, utils.M{"orders": orders})
}

// UserOrders lists orders for one user id (always "guest" today).
// POST /api/order/userorders
func UserOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if payload.UserID == "" {
		payload.UserID = "guest"
	}

	cursor, err := db.OrdersCollection.Find(ctx, bson.M{"userid": payload.UserID},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		log.Println("UserOrders Find error:", err)
		http.Error(w, "Could not retrieve orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		log.Println("UserOrders cursor error:", err)
		http.Error(w, "Error reading orders", http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	utils.RespondSuccess(w, http.StatusOK, utils.M{"orders": orders})
}

// statusGuard matches the order only while it still holds the status the
// transition was planned against, so two racing status changes cannot both
// apply their inventory effects.
func statusGuard(orderID, prev string) bson.M {
	return bson.M{"orderid": orderID, "status": prev}
}

// UpdateStatus transitions an order's status, applying the inventory side
// effects first: crossing into Cancelled restores stock, crossing out of it
// re-commits stock or fails loudly. The status write is conditional on the
// previous status; when another request won the race, the applied deltas are
// rolled back and the conflict is reported.
// POST /api/order/status (admin)
func UpdateStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var payload struct {
		OrderID string `json:"orderId"`
		Status  string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if !models.ValidOrderStatus(payload.Status) {
		utils.RespondFailure(w, "Unknown order status: "+payload.Status)
		return
	}

	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"orderid": payload.OrderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithJSON(w, http.StatusNotFound, utils.M{"success": false, "message": "Order not found"})
		return
	}
	if err != nil {
		log.Println("UpdateStatus FindOne error:", err)
		http.Error(w, "Could not load order", http.StatusInternalServerError)
		return
	}

	applied, err := inventory.ApplyStatusChange(ctx, order, payload.Status)
	if err != nil {
		var stockErr *inventory.StockError
		var notFound *inventory.NotFoundError
		if errors.As(err, &stockErr) || errors.As(err, &notFound) || errors.Is(err, inventory.ErrConflict) {
			utils.RespondFailure(w, err.Error())
			return
		}
		log.Println("UpdateStatus reconcile error:", err)
		http.Error(w, "Failed to adjust inventory", http.StatusInternalServerError)
		return
	}

	res, err := db.OrdersCollection.UpdateOne(ctx,
		statusGuard(payload.OrderID, order.Status),
		bson.M{"$set": bson.M{"status": payload.Status}})
	if err != nil {
		inventory.Rollback(ctx, applied)
		log.Println("UpdateStatus UpdateOne error:", err)
		http.Error(w, "Failed to update order status", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		inventory.Rollback(ctx, applied)
		utils.RespondFailure(w, inventory.ErrConflict.Error())
		return
	}

	utils.RespondSuccess(w, http.StatusOK, utils.M{"message": "Order status updated"})
}

// UpdatePaymentStatus toggles the settled flag.
// POST /api/order/updatePaymentStatus (admin)
func UpdatePaymentStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload struct {
		OrderID string `json:"orderId"`
		Payment bool   `json:"payment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	res, err := db.OrdersCollection.UpdateOne(ctx,
		bson.M{"orderid": payload.OrderID},
		bson.M{"$set": bson.M{"payment": payload.Payment}})
	if err != nil {
		log.Println("UpdatePaymentStatus error:", err)
		http.Error(w, "Failed to update payment status", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithJSON(w, http.StatusNotFound, utils.M{"success": false, "message": "Order not found"})
		return
	}
	utils.RespondSuccess(w, http.StatusOK, utils.M{"message": "Payment status updated"})
}

// DeleteOrder restores inventory for every item whose variant still exists,
// then hard-deletes the order record.
// DELETE /api/order/delete/:orderId (admin)
func DeleteOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	orderID := ps.ByName("orderId")

	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithJSON(w, http.StatusNotFound, utils.M{"success": false, "message": "Order not found"})
		return
	}
	if err != nil {
		log.Println("DeleteOrder FindOne error:", err)
		http.Error(w, "Could not load order", http.StatusInternalServerError)
		return
	}

	if err := inventory.RestoreOnDelete(ctx, order); err != nil {
		log.Println("DeleteOrder restore error:", err)
		http.Error(w, "Failed to restore inventory", http.StatusInternalServerError)
		return
	}

	if _, err := db.OrdersCollection.DeleteOne(ctx, bson.M{"orderid": orderID}); err != nil {
		log.Println("DeleteOrder DeleteOne error:", err)
		http.Error(w, "Failed to delete order", http.StatusInternalServerError)
		return
	}

	utils.RespondSuccess(w, http.StatusOK, utils.M{"message": "Order deleted and inventory restored"})
}
