package eventrepo

import (
	"context"

	"fulfillment/internal/core/ports"

	"gorm.io/gorm"
)

// GormOrderEventRepository implements OrderEventRepository using GORM. Events
// are appended inside the transaction of the state change they describe.
type GormOrderEventRepository struct {
	db *gorm.DB
}

// NewGormOrderEventRepository creates a new GORM order event repository.
func NewGormOrderEventRepository(db *gorm.DB) *GormOrderEventRepository {
	return &GormOrderEventRepository{db: db}
}

// Add appends an event to the order's audit trail.
func (r *GormOrderEventRepository) Add(ctx context.Context, event ports.OrderEvent) error {
	dto, err := fromDomain(event)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Create(&dto).Error
}
