// Package ws delivers notifications to supplier and staff terminals over
// WebSocket connections. Delivery is best effort: a terminal that is offline
// or too slow simply misses the notification, business operations never wait
// on it.
package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/gorilla/websocket"
)

// writeWait bounds a single notification write to one terminal.
const writeWait = 10 * time.Second

// Hub tracks connected terminals and implements the Notifier port. Supplier
// terminals are keyed by supplier ID, staff terminals by store ID; each key
// may have several connections open at once.
type Hub struct {
	mu        sync.RWMutex
	suppliers map[string]map[*websocket.Conn]struct{}
	staff     map[string]map[*websocket.Conn]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		suppliers: make(map[string]map[*websocket.Conn]struct{}),
		staff:     make(map[string]map[*websocket.Conn]struct{}),
	}
}

// RegisterSupplier attaches a supplier terminal connection.
func (h *Hub) RegisterSupplier(supplierID kernel.UUID, conn *websocket.Conn) {
	h.register(h.suppliers, supplierID, conn)
}

// RegisterStaff attaches a store staff terminal connection.
func (h *Hub) RegisterStaff(storeID kernel.UUID, conn *websocket.Conn) {
	h.register(h.staff, storeID, conn)
}

// UnregisterSupplier detaches a supplier terminal connection and closes it.
func (h *Hub) UnregisterSupplier(supplierID kernel.UUID, conn *websocket.Conn) {
	h.unregister(h.suppliers, supplierID, conn)
}

// UnregisterStaff detaches a staff terminal connection and closes it.
func (h *Hub) UnregisterStaff(storeID kernel.UUID, conn *websocket.Conn) {
	h.unregister(h.staff, storeID, conn)
}

// NotifySupplier delivers a notification to every open terminal of one
// supplier. Terminals that fail the write are dropped from the registry.
func (h *Hub) NotifySupplier(
	_ context.Context,
	supplierID kernel.UUID,
	notification ports.Notification,
) error {
	return h.send(h.suppliers, supplierID, notification)
}

// NotifyStaff delivers a notification to every open staff terminal of one
// store. Terminals that fail the write are dropped from the registry.
func (h *Hub) NotifyStaff(
	_ context.Context,
	storeID kernel.UUID,
	notification ports.Notification,
) error {
	return h.send(h.staff, storeID, notification)
}

// Close terminates every tracked connection.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, conns := range h.suppliers {
		for conn := range conns {
			_ = conn.Close()
		}
	}
	for _, conns := range h.staff {
		for conn := range conns {
			_ = conn.Close()
		}
	}
	h.suppliers = make(map[string]map[*websocket.Conn]struct{})
	h.staff = make(map[string]map[*websocket.Conn]struct{})
}

func (h *Hub) register(registry map[string]map[*websocket.Conn]struct{}, id kernel.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := id.String()
	if registry[key] == nil {
		registry[key] = make(map[*websocket.Conn]struct{})
	}
	registry[key][conn] = struct{}{}
}

func (h *Hub) unregister(registry map[string]map[*websocket.Conn]struct{}, id kernel.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := id.String()
	if conns, ok := registry[key]; ok {
		if _, tracked := conns[conn]; tracked {
			delete(conns, conn)
			_ = conn.Close()
		}
		if len(conns) == 0 {
			delete(registry, key)
		}
	}
}

func (h *Hub) send(
	registry map[string]map[*websocket.Conn]struct{},
	id kernel.UUID,
	notification ports.Notification,
) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	key := id.String()
	conns := registry[key]
	for conn := range conns {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if writeErr := conn.WriteMessage(websocket.TextMessage, payload); writeErr != nil {
			delete(conns, conn)
			_ = conn.Close()
		}
	}
	if len(conns) == 0 {
		delete(registry, key)
	}

	return nil
}
