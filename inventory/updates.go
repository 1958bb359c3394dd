package inventory

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/julienschmidt/httprouter"
)

// A global map to manage product-specific update channels
var stockUpdateChannels = struct {
	sync.RWMutex
	channels map[string]chan map[string]any
}{
	channels: make(map[string]chan map[string]any),
}

// GetUpdatesChannel returns (or creates) the updates channel for a product.
func GetUpdatesChannel(productID string) chan map[string]any {
	stockUpdateChannels.RLock()
	if ch, exists := stockUpdateChannels.channels[productID]; exists {
		stockUpdateChannels.RUnlock()
		return ch
	}
	stockUpdateChannels.RUnlock()

	stockUpdateChannels.Lock()
	defer stockUpdateChannels.Unlock()
	if ch, exists := stockUpdateChannels.channels[productID]; exists {
		return ch
	}
	newCh := make(chan map[string]any, 10)
	stockUpdateChannels.channels[productID] = newCh
	return newCh
}

// BroadcastStockUpdate pushes the remaining quantity of a variant to any
// subscribed listener. Drops the update when nobody is draining the channel.
func BroadcastStockUpdate(productID, variantID string, remaining int) {
	update := map[string]any{
		"type":      "stock_update",
		"variantId": variantID,
		"remaining": remaining,
	}
	channel := GetUpdatesChannel(productID)
	select {
	case channel <- update:
	default:
		log.Printf("Warning: updates channel for product %s is full. Dropping update.", productID)
	}
}

// StockUpdates streams stock changes for a product over SSE.
// GET /api/product/updates/:productId
func StockUpdates(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("productId")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	updatesChannel := GetUpdatesChannel(productID)

	for {
		select {
		case update := <-updatesChannel:
			jsonUpdate, _ := json.Marshal(update)
			fmt.Fprintf(w, "data: %s\n\n", jsonUpdate)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
