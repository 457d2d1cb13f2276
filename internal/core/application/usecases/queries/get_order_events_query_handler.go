package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderEventsQueryHandler retrieves order audit trails from the database.
type GetOrderEventsQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderEventsQueryHandler creates a handler for order event log queries.
// Requires a GORM database connection for query execution.
func NewGetOrderEventsQueryHandler(db *gorm.DB) GetOrderEventsQueryHandler {
	return GetOrderEventsQueryHandler{db: db}
}

// Handle executes the query for one order's event log, oldest entry first.
// An unknown order yields an empty log rather than an error.
func (h GetOrderEventsQueryHandler) Handle(
	ctx context.Context,
	query GetOrderEventsQuery,
) ([]GetOrderEventsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	events := make([]GetOrderEventsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			event_type,
			supplier_id,
			skus,
			occurred_at
		FROM order_events
		WHERE order_id = ?
		ORDER BY occurred_at, id
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var event GetOrderEventsQueryResponse
		var id uuid.UUID
		var eventType string
		var supplierID sql.Null[uuid.UUID]
		var skus string
		var occurredAt time.Time

		err = rows.Scan(
			&id,
			&eventType,
			&supplierID,
			&skus,
			&occurredAt,
		)
		if err != nil {
			return nil, err
		}

		event.ID, err = kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		event.Type = eventType
		if supplierID.Valid {
			sID, sErr := kernel.UUIDFromBytes(supplierID.V[:])
			if sErr != nil {
				return nil, sErr
			}
			event.SupplierID = &sID
		}
		if skus != "" {
			if err = json.Unmarshal([]byte(skus), &event.SKUs); err != nil {
				return nil, err
			}
		}
		event.OccurredAt = occurredAt

		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
