package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetSupplierOrdersQueryHandler retrieves a supplier's open orders from the
// database. Filters out orders the supplier has already committed to or that
// are no longer live, to keep the terminal focused on actionable work.
//
// Example:
//
//	handler := NewGetSupplierOrdersQueryHandler(db)
//	query, _ := NewGetSupplierOrdersQuery(supplierID)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get supplier orders: %v", err)
//	    return err
//	}
type GetSupplierOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetSupplierOrdersQueryHandler creates a handler for supplier workload
// queries. Requires a GORM database connection for query execution.
func NewGetSupplierOrdersQueryHandler(db *gorm.DB) GetSupplierOrdersQueryHandler {
	return GetSupplierOrdersQueryHandler{db: db}
}

// Handle executes the query for one supplier's open orders.
// Returns orders where the supplier's ledger entry is still Pending or
// Partial and the order itself is not cancelled, oldest first.
func (h GetSupplierOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetSupplierOrdersQuery,
) ([]GetSupplierOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetSupplierOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.external_code,
			o.status,
			o.created_at,
			ss.status
		FROM supplier_statuses ss
		JOIN orders o ON o.id = ss.order_id
		WHERE ss.supplier_id = ?
			AND ss.status IN (?, ?)
			AND o.status != ?
		ORDER BY o.created_at
	`, query.SupplierID().Bytes(), fulfillment.Pending, fulfillment.Partial, order.Cancelled).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var orderResp GetSupplierOrdersQueryResponse
		var id uuid.UUID
		var externalCode string
		var orderStatus, supplierStatus int
		var createdAt time.Time

		err = rows.Scan(
			&id,
			&externalCode,
			&orderStatus,
			&createdAt,
			&supplierStatus,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		orderResp.OrderID = orderID
		orderResp.ExternalCode = externalCode
		orderResp.OrderStatus = order.Status(orderStatus).String()
		orderResp.SupplierStatus = fulfillment.Status(supplierStatus).String()
		orderResp.CreatedAt = createdAt
		orders = append(orders, orderResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		orders[i].Items, err = h.loadItems(ctx, orders[i].OrderID, query.SupplierID())
		if err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func (h GetSupplierOrdersQueryHandler) loadItems(
	ctx context.Context,
	orderID kernel.UUID,
	supplierID kernel.UUID,
) ([]SupplierOrderItemResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			i.sku,
			i.name,
			i.unit_price,
			i.quantity,
			EXISTS(
				SELECT 1 FROM unavailability_entries u
				WHERE u.order_id = i.order_id
					AND u.sku = i.sku
					AND u.supplier_id = i.supplier_id
			)
		FROM order_items i
		WHERE i.order_id = ? AND i.supplier_id = ?
		ORDER BY i.id
	`, orderID.Bytes(), supplierID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]SupplierOrderItemResponse, 0)
	for rows.Next() {
		var item SupplierOrderItemResponse
		var unitPrice decimal.Decimal

		err = rows.Scan(
			&item.SKU,
			&item.Name,
			&unitPrice,
			&item.Quantity,
			&item.Unavailable,
		)
		if err != nil {
			return nil, err
		}

		item.Price, err = kernel.NewMoney(unitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
