package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderFulfillmentQueryHandler assembles the fulfillment view of one order
// directly from the database, bypassing the aggregates.
//
// Example:
//
//	handler := NewGetOrderFulfillmentQueryHandler(db)
//	query, _ := NewGetOrderFulfillmentQuery(orderID)
//
//	view, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get order fulfillment: %v", err)
//	    return err
//	}
type GetOrderFulfillmentQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderFulfillmentQueryHandler creates a handler for order fulfillment
// views. Requires a GORM database connection for query execution.
func NewGetOrderFulfillmentQueryHandler(db *gorm.DB) GetOrderFulfillmentQueryHandler {
	return GetOrderFulfillmentQueryHandler{db: db}
}

// Handle executes the query for a single order's fulfillment view.
// Returns ErrObjectNotFound when the order does not exist. Supplier rows are
// sorted by supplier ID for consistent output.
func (h GetOrderFulfillmentQueryHandler) Handle(
	ctx context.Context,
	query GetOrderFulfillmentQuery,
) (GetOrderFulfillmentQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderFulfillmentQueryResponse{}, err
	}

	response, err := h.loadOrder(ctx, query.OrderID())
	if err != nil {
		return GetOrderFulfillmentQueryResponse{}, err
	}

	if err = h.loadSuppliers(ctx, &response); err != nil {
		return GetOrderFulfillmentQueryResponse{}, err
	}

	return response, nil
}

func (h GetOrderFulfillmentQueryHandler) loadOrder(
	ctx context.Context,
	orderID kernel.UUID,
) (GetOrderFulfillmentQueryResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			store_id,
			external_code,
			status,
			created_at
		FROM orders
		WHERE id = ?
	`, orderID.Bytes()).Rows()
	if err != nil {
		return GetOrderFulfillmentQueryResponse{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return GetOrderFulfillmentQueryResponse{}, err
		}
		return GetOrderFulfillmentQueryResponse{}, errs.NewObjectNotFoundError("order", orderID.String())
	}

	var response GetOrderFulfillmentQueryResponse
	var id, storeID uuid.UUID
	var externalCode string
	var status int
	var createdAt time.Time

	err = rows.Scan(
		&id,
		&storeID,
		&externalCode,
		&status,
		&createdAt,
	)
	if err != nil {
		return GetOrderFulfillmentQueryResponse{}, err
	}

	response.OrderID, err = kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderFulfillmentQueryResponse{}, err
	}
	response.StoreID, err = kernel.UUIDFromBytes(storeID[:])
	if err != nil {
		return GetOrderFulfillmentQueryResponse{}, err
	}
	response.ExternalCode = externalCode
	response.Status = order.Status(status).String()
	response.CreatedAt = createdAt

	return response, rows.Err()
}

func (h GetOrderFulfillmentQueryHandler) loadSuppliers(
	ctx context.Context,
	response *GetOrderFulfillmentQueryResponse,
) error {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			supplier_id,
			status,
			basket_slot,
			ready_at,
			picked_up,
			unavailable_skus,
			original_total,
			billable_amount
		FROM supplier_statuses
		WHERE order_id = ?
		ORDER BY supplier_id
	`, response.OrderID.Bytes()).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var entry SupplierEntryResponse
		var supplierID uuid.UUID
		var status int
		var basketSlot sql.NullInt64
		var readyAt sql.NullTime
		var pickedUp bool
		var unavailableSKUs string
		var originalTotal, billableAmount decimal.Decimal

		err = rows.Scan(
			&supplierID,
			&status,
			&basketSlot,
			&readyAt,
			&pickedUp,
			&unavailableSKUs,
			&originalTotal,
			&billableAmount,
		)
		if err != nil {
			return err
		}

		entry.SupplierID, err = kernel.UUIDFromBytes(supplierID[:])
		if err != nil {
			return err
		}
		entry.Status = fulfillment.Status(status).String()
		if basketSlot.Valid {
			slot := int(basketSlot.Int64)
			entry.BasketSlot = &slot
		}
		if readyAt.Valid {
			at := readyAt.Time
			entry.ReadyAt = &at
		}
		entry.PickedUp = pickedUp
		if unavailableSKUs != "" {
			if err = json.Unmarshal([]byte(unavailableSKUs), &entry.UnavailableSKUs); err != nil {
				return err
			}
		}
		entry.OriginalTotal, err = kernel.NewMoney(originalTotal)
		if err != nil {
			return err
		}
		entry.BillableAmount, err = kernel.NewMoney(billableAmount)
		if err != nil {
			return err
		}

		switch fulfillment.Status(status) {
		case fulfillment.Cancelled:
			response.CancelledSuppliers++
		case fulfillment.Ready:
			response.ActiveSuppliers++
			response.ReadySuppliers++
			if pickedUp {
				response.PickedUpBaskets++
			}
		default:
			response.ActiveSuppliers++
		}

		response.Suppliers = append(response.Suppliers, entry)
	}

	return rows.Err()
}
