// Package live pushes newly placed orders to connected admin panels over a
// websocket, so the orders view updates without polling.
package live

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"

	"threadmart/middleware"
	"threadmart/models"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var (
	clientsMu sync.Mutex
	clients   = make(map[*websocket.Conn]bool)
)

// feedToken extracts the admin token: query string first (browsers cannot
// set headers on websocket dials), Authorization bearer header as fallback
// for non-browser clients.
func feedToken(r *http.Request) string {
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// OrdersFeed upgrades an admin connection.
// GET /api/order/live?token=...
func OrdersFeed(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	token := feedToken(r)
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}
	claims, err := middleware.ParseToken(token)
	if err != nil || claims.Role != "admin" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	clientsMu.Lock()
	clients[conn] = true
	clientsMu.Unlock()

	// Drain until the client goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			clientsMu.Lock()
			delete(clients, conn)
			clientsMu.Unlock()
			break
		}
	}
}

// BroadcastOrder fans a placed order out to every connected admin client.
func BroadcastOrder(order models.Order) {
	data, err := json.Marshal(order)
	if err != nil {
		log.Println("BroadcastOrder marshal error:", err)
		return
	}

	clientsMu.Lock()
	defer clientsMu.Unlock()
	for conn := range clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(clients, conn)
		}
	}
}
