package ws_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/ws"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialTerminal opens a client connection against a test server that registers
// the server side of the socket with the hub under the given key.
func dialTerminal(
	t *testing.T,
	hub *ws.Hub,
	register func(kernel.UUID, *websocket.Conn),
	key kernel.UUID,
) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		register(key, conn)
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func readNotification(t *testing.T, conn *websocket.Conn) ports.Notification {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var notification ports.Notification
	require.NoError(t, json.Unmarshal(payload, &notification))
	return notification
}

func TestHub_NotifySupplier(t *testing.T) {
	t.Run("delivers_to_registered_terminal", func(t *testing.T) {
		hub := ws.NewHub()
		defer hub.Close()

		supplierID := kernel.NewUUID()
		orderID := kernel.NewUUID()
		client := dialTerminal(t, hub, hub.RegisterSupplier, supplierID)

		err := hub.NotifySupplier(context.Background(), supplierID, ports.Notification{
			Kind:    ports.NotificationDispatch,
			OrderID: orderID,
			SKUs:    []string{"SKU-1"},
		})
		require.NoError(t, err)

		received := readNotification(t, client)
		assert.Equal(t, ports.NotificationDispatch, received.Kind)
		assert.True(t, received.OrderID.IsEqual(orderID))
		assert.Equal(t, []string{"SKU-1"}, received.SKUs)
	})

	t.Run("skips_other_suppliers", func(t *testing.T) {
		hub := ws.NewHub()
		defer hub.Close()

		target := kernel.NewUUID()
		bystander := kernel.NewUUID()
		targetConn := dialTerminal(t, hub, hub.RegisterSupplier, target)
		bystanderConn := dialTerminal(t, hub, hub.RegisterSupplier, bystander)

		err := hub.NotifySupplier(context.Background(), target, ports.Notification{
			Kind:    ports.NotificationDispatch,
			OrderID: kernel.NewUUID(),
		})
		require.NoError(t, err)

		readNotification(t, targetConn)

		require.NoError(t, bystanderConn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
		_, _, readErr := bystanderConn.ReadMessage()
		require.Error(t, readErr, "bystander terminal should stay silent")
	})

	t.Run("offline_terminal_is_not_an_error", func(t *testing.T) {
		hub := ws.NewHub()
		defer hub.Close()

		err := hub.NotifySupplier(context.Background(), kernel.NewUUID(), ports.Notification{
			Kind:    ports.NotificationDispatch,
			OrderID: kernel.NewUUID(),
		})

		require.NoError(t, err)
	})
}

func TestHub_NotifyStaff(t *testing.T) {
	t.Run("delivers_to_every_store_terminal", func(t *testing.T) {
		hub := ws.NewHub()
		defer hub.Close()

		storeID := kernel.NewUUID()
		orderID := kernel.NewUUID()
		first := dialTerminal(t, hub, hub.RegisterStaff, storeID)
		second := dialTerminal(t, hub, hub.RegisterStaff, storeID)

		err := hub.NotifyStaff(context.Background(), storeID, ports.Notification{
			Kind:    ports.NotificationOrderReady,
			OrderID: orderID,
		})
		require.NoError(t, err)

		for _, conn := range []*websocket.Conn{first, second} {
			received := readNotification(t, conn)
			assert.Equal(t, ports.NotificationOrderReady, received.Kind)
			assert.True(t, received.OrderID.IsEqual(orderID))
		}
	})
}

func TestHub_Unregister(t *testing.T) {
	t.Run("detached_terminal_receives_nothing", func(t *testing.T) {
		hub := ws.NewHub()
		defer hub.Close()

		supplierID := kernel.NewUUID()

		upgrader := websocket.Upgrader{}
		var serverConn *websocket.Conn
		connected := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			conn, err := upgrader.Upgrade(w, r, nil)
			require.NoError(t, err)
			serverConn = conn
			hub.RegisterSupplier(supplierID, conn)
			close(connected)
		}))
		defer server.Close()

		wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
		client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.NoError(t, err)
		defer client.Close()
		<-connected

		hub.UnregisterSupplier(supplierID, serverConn)

		err = hub.NotifySupplier(context.Background(), supplierID, ports.Notification{
			Kind:    ports.NotificationDispatch,
			OrderID: kernel.NewUUID(),
		})
		require.NoError(t, err)

		require.NoError(t, client.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
		_, _, readErr := client.ReadMessage()
		require.Error(t, readErr)
	})
}
