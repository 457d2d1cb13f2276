// Package http exposes the fulfillment API over REST and WebSocket.
package http

import (
	"errors"
	"net/http"
	"time"

	"fulfillment/internal/adapters/out/ws"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/basket"
	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(*http.Request) bool {
		return true
	},
}

// Error is the JSON body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler    commands.CreateOrderCommandHandler
	acceptOrderHandler    commands.AcceptOrderCommandHandler
	cancelOrderHandler    commands.CancelOrderCommandHandler
	readyForPickupHandler commands.ReadyForPickupCommandHandler
	markReadyHandler      commands.MarkReadyCommandHandler
	markUnavailHandler    commands.MarkProductUnavailableCommandHandler
	markPickedUpHandler   commands.MarkPickedUpCommandHandler

	// Query handlers
	getOrderFulfillmentHandler queries.GetOrderFulfillmentQueryHandler
	getSupplierOrdersHandler   queries.GetSupplierOrdersQueryHandler
	getOrderEventsHandler      queries.GetOrderEventsQueryHandler

	hub *ws.Hub
}

// NewServer creates an HTTP server with the required command and query
// handlers and the terminal hub for WebSocket upgrades.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	acceptOrderHandler commands.AcceptOrderCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	readyForPickupHandler commands.ReadyForPickupCommandHandler,
	markReadyHandler commands.MarkReadyCommandHandler,
	markUnavailHandler commands.MarkProductUnavailableCommandHandler,
	markPickedUpHandler commands.MarkPickedUpCommandHandler,
	getOrderFulfillmentHandler queries.GetOrderFulfillmentQueryHandler,
	getSupplierOrdersHandler queries.GetSupplierOrdersQueryHandler,
	getOrderEventsHandler queries.GetOrderEventsQueryHandler,
	hub *ws.Hub,
) *Server {
	return &Server{
		createOrderHandler:         createOrderHandler,
		acceptOrderHandler:         acceptOrderHandler,
		cancelOrderHandler:         cancelOrderHandler,
		readyForPickupHandler:      readyForPickupHandler,
		markReadyHandler:           markReadyHandler,
		markUnavailHandler:         markUnavailHandler,
		markPickedUpHandler:        markPickedUpHandler,
		getOrderFulfillmentHandler: getOrderFulfillmentHandler,
		getSupplierOrdersHandler:   getSupplierOrdersHandler,
		getOrderEventsHandler:      getOrderEventsHandler,
		hub:                        hub,
	}
}

// RegisterRoutes attaches every endpoint to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.POST("/orders/:orderId/accept", s.AcceptOrder)
	api.POST("/orders/:orderId/cancel", s.CancelOrder)
	api.POST("/orders/:orderId/ready-for-pickup", s.ReadyForPickup)
	api.POST("/orders/:orderId/suppliers/:supplierId/ready", s.MarkReady)
	api.POST("/orders/:orderId/suppliers/:supplierId/unavailable", s.MarkProductUnavailable)
	api.POST("/orders/:orderId/suppliers/:supplierId/pickup", s.MarkPickedUp)

	api.GET("/orders/:orderId/fulfillment", s.GetOrderFulfillment)
	api.GET("/orders/:orderId/events", s.GetOrderEvents)
	api.GET("/suppliers/:supplierId/orders", s.GetSupplierOrders)

	e.GET("/ws", s.Terminal)
	e.GET("/health", s.Health)
}

// NewOrderItem is one item line of an incoming marketplace order.
type NewOrderItem struct {
	SKU        string `json:"sku"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Quantity   int    `json:"quantity"`
}

// NewOrder is the request body of order intake.
type NewOrder struct {
	StoreID      string         `json:"storeId"`
	ExternalCode string         `json:"externalCode"`
	Items        []NewOrderItem `json:"items"`
}

// CreatedOrder is the intake response.
type CreatedOrder struct {
	OrderID     string   `json:"orderId"`
	SkippedSKUs []string `json:"skippedSkus,omitempty"`
}

// CreateOrder handles POST /api/v1/orders - registers a marketplace order
// and dispatches its lines to the primary suppliers.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var newOrder NewOrder
	if err := ctx.Bind(&newOrder); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	storeID, err := kernel.UUIDFromString(newOrder.StoreID)
	if err != nil {
		return badRequest(ctx, "Invalid store id: "+err.Error())
	}

	items := make([]commands.OrderItem, len(newOrder.Items))
	for i, item := range newOrder.Items {
		items[i] = commands.OrderItem{
			SKU:        item.SKU,
			Name:       item.Name,
			PriceCents: item.PriceCents,
			Quantity:   item.Quantity,
		}
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, storeID, newOrder.ExternalCode, items)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	result, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedOrder{
		OrderID:     orderID.String(),
		SkippedSKUs: result.SkippedSKUs,
	})
}

// AcceptOrder handles POST /api/v1/orders/:orderId/accept.
func (s *Server) AcceptOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	cmd, err := commands.NewAcceptOrderCommand(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if handleErr := s.acceptOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/:orderId/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	cmd, err := commands.NewCancelOrderCommand(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if handleErr := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReadyForPickup handles POST /api/v1/orders/:orderId/ready-for-pickup -
// staff declare the order assembled once every supplier committed and
// every basket is collected.
func (s *Server) ReadyForPickup(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	cmd, err := commands.NewReadyForPickupCommand(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if handleErr := s.readyForPickupHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReadySignal is the optional request body of a supplier's ready signal.
type ReadySignal struct {
	Slot *int `json:"slot,omitempty"`
}

// ReadyOutcome is the response to a supplier's ready signal.
type ReadyOutcome struct {
	BasketSlot *int `json:"basketSlot"`
	OrderReady bool `json:"orderReady"`
}

// MarkReady handles POST /api/v1/orders/:orderId/suppliers/:supplierId/ready.
func (s *Server) MarkReady(ctx echo.Context) error {
	orderID, supplierID, err := pathOrderSupplier(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var signal ReadySignal
	if bindErr := ctx.Bind(&signal); bindErr != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewMarkReadyCommand(orderID, supplierID, signal.Slot)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.markReadyHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, ReadyOutcome{
		BasketSlot: result.BasketSlot,
		OrderReady: result.OrderReady,
	})
}

// UnavailableProduct is the request body of an unavailability declaration.
type UnavailableProduct struct {
	SKU string `json:"sku"`
}

// EscalationOutcome is one backup dispatch triggered by a declaration.
type EscalationOutcome struct {
	SKU        string `json:"sku"`
	SupplierID string `json:"supplierId"`
}

// UnavailableOutcome is the response to an unavailability declaration.
type UnavailableOutcome struct {
	SupplierStatus string              `json:"supplierStatus"`
	BillableAmount string              `json:"billableAmount"`
	Escalations    []EscalationOutcome `json:"escalations,omitempty"`
	ExhaustedSKUs  []string            `json:"exhaustedSkus,omitempty"`
}

// MarkProductUnavailable handles
// POST /api/v1/orders/:orderId/suppliers/:supplierId/unavailable.
func (s *Server) MarkProductUnavailable(ctx echo.Context) error {
	orderID, supplierID, err := pathOrderSupplier(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var product UnavailableProduct
	if bindErr := ctx.Bind(&product); bindErr != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewMarkProductUnavailableCommand(orderID, supplierID, product.SKU)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.markUnavailHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	escalations := make([]EscalationOutcome, len(result.Escalations))
	for i, escalation := range result.Escalations {
		escalations[i] = EscalationOutcome{
			SKU:        escalation.SKU,
			SupplierID: escalation.SupplierID.String(),
		}
	}

	return ctx.JSON(http.StatusOK, UnavailableOutcome{
		SupplierStatus: result.SupplierStatus.String(),
		BillableAmount: result.BillableAmount.String(),
		Escalations:    escalations,
		ExhaustedSKUs:  result.ExhaustedSKUs,
	})
}

// Pickup is the request body of a basket pickup.
type Pickup struct {
	StaffID string `json:"staffId"`
}

// PickupOutcome is the response to a basket pickup.
type PickupOutcome struct {
	FreedSlot   *int `json:"freedSlot"`
	AllPickedUp bool `json:"allPickedUp"`
	PickedUp    int  `json:"pickedUp"`
	Ready       int  `json:"ready"`
}

// MarkPickedUp handles POST /api/v1/orders/:orderId/suppliers/:supplierId/pickup.
func (s *Server) MarkPickedUp(ctx echo.Context) error {
	orderID, supplierID, err := pathOrderSupplier(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var pickup Pickup
	if bindErr := ctx.Bind(&pickup); bindErr != nil {
		return badRequest(ctx, "Invalid request body")
	}

	staffID, err := kernel.UUIDFromString(pickup.StaffID)
	if err != nil {
		return badRequest(ctx, "Invalid staff id: "+err.Error())
	}

	cmd, err := commands.NewMarkPickedUpCommand(orderID, supplierID, staffID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.markPickedUpHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, PickupOutcome{
		FreedSlot:   result.FreedSlot,
		AllPickedUp: result.AllPickedUp,
		PickedUp:    result.PickedUp,
		Ready:       result.Ready,
	})
}

// GetOrderFulfillment handles GET /api/v1/orders/:orderId/fulfillment -
// returns the order's per-supplier readiness view.
func (s *Server) GetOrderFulfillment(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	query, err := queries.NewGetOrderFulfillmentQuery(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	view, err := s.getOrderFulfillmentHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, view)
}

// GetOrderEvents handles GET /api/v1/orders/:orderId/events - returns the
// order's audit trail, oldest entry first.
func (s *Server) GetOrderEvents(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	query, err := queries.NewGetOrderEventsQuery(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	events, err := s.getOrderEventsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, events)
}

// GetSupplierOrders handles GET /api/v1/suppliers/:supplierId/orders -
// returns the supplier's open orders for the terminal.
func (s *Server) GetSupplierOrders(ctx echo.Context) error {
	supplierID, err := pathUUID(ctx, "supplierId")
	if err != nil {
		return badRequest(ctx, "Invalid supplier id: "+err.Error())
	}

	query, err := queries.NewGetSupplierOrdersQuery(supplierID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	orders, err := s.getSupplierOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orders)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param(name))
}

func pathOrderSupplier(ctx echo.Context) (kernel.UUID, kernel.UUID, error) {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	supplierID, err := pathUUID(ctx, "supplierId")
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	return orderID, supplierID, nil
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// writeError maps application and domain errors to HTTP statuses. Missing
// aggregates map to 404, state conflicts to 409, validation failures to 400.
func writeError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, commands.ErrOrderAlreadyExists),
		errors.Is(err, basket.ErrSlotOccupied),
		errors.Is(err, fulfillment.ErrAlreadyCommitted),
		errors.Is(err, fulfillment.ErrInvalidStatusTransition),
		errors.Is(err, order.ErrNotAllPickedUp):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		status = http.StatusBadRequest
	}

	return ctx.JSON(status, Error{
		Code:    status,
		Message: err.Error(),
	})
}

// terminalReadWait bounds how long an idle terminal may stay silent before
// the connection is considered dead.
const terminalReadWait = 10 * time.Minute

// Terminal handles GET /ws - upgrades the connection and registers it as a
// supplier or staff terminal. role=supplier registers under the supplier ID,
// role=staff under the store ID.
func (s *Server) Terminal(ctx echo.Context) error {
	role := ctx.QueryParam("role")
	id, err := kernel.UUIDFromString(ctx.QueryParam("id"))
	if err != nil {
		return badRequest(ctx, "Invalid terminal id: "+err.Error())
	}
	if role != "supplier" && role != "staff" {
		return badRequest(ctx, "Role must be supplier or staff")
	}

	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		return err
	}

	if role == "supplier" {
		s.hub.RegisterSupplier(id, conn)
		go s.readLoop(conn, func() { s.hub.UnregisterSupplier(id, conn) })
	} else {
		s.hub.RegisterStaff(id, conn)
		go s.readLoop(conn, func() { s.hub.UnregisterStaff(id, conn) })
	}

	return nil
}

// readLoop drains inbound frames until the terminal disconnects. Terminals
// never send business payloads; the loop only detects closure.
func (s *Server) readLoop(conn *websocket.Conn, unregister func()) {
	defer unregister()

	for {
		_ = conn.SetReadDeadline(time.Now().Add(terminalReadWait))
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
