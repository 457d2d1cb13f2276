package fulfillmentrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFulfillmentRepository implements FulfillmentRepository using GORM.
type GormFulfillmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormFulfillmentRepository creates a new GORM supplier ledger repository.
func NewGormFulfillmentRepository(db *gorm.DB, tracker aggregateTracker) *GormFulfillmentRepository {
	return &GormFulfillmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// AddSupplierStatus saves a new ledger entry to the database.
func (r *GormFulfillmentRepository) AddSupplierStatus(ctx context.Context, entry *fulfillment.SupplierStatus) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(entry)
	if err != nil {
		return err
	}

	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(entry.OrderID(), entry)
	return nil
}

// UpdateSupplierStatus saves changes to an existing ledger entry. Mutable
// columns are selected explicitly so that a freed basket slot writes NULL.
func (r *GormFulfillmentRepository) UpdateSupplierStatus(ctx context.Context, entry *fulfillment.SupplierStatus) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(entry)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&SupplierStatusDTO{}).
		Where("order_id = ? AND supplier_id = ?", dto.OrderID, dto.SupplierID).
		Select("status", "basket_slot", "ready_at", "picked_up", "picked_up_at", "picked_up_by",
			"unavailable_skus", "billable_amount").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(entry.OrderID(), entry)
	return nil
}

// GetSupplierStatus retrieves the ledger entry for one (order, supplier) pair.
func (r *GormFulfillmentRepository) GetSupplierStatus(
	ctx context.Context,
	orderID, supplierID kernel.UUID,
) (*fulfillment.SupplierStatus, error) {
	if err := errors.Join(orderID.Validate(), supplierID.Validate()); err != nil {
		return nil, err
	}

	var dto SupplierStatusDTO
	err := r.db.WithContext(ctx).
		First(&dto, "order_id = ? AND supplier_id = ?", orderID.Bytes(), supplierID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("supplierStatus",
				fmt.Sprintf("%s/%s", orderID.String(), supplierID.String()))
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllForOrder retrieves the order's full ledger sorted by supplier ID.
func (r *GormFulfillmentRepository) GetAllForOrder(
	ctx context.Context,
	orderID kernel.UUID,
) ([]*fulfillment.SupplierStatus, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []SupplierStatusDTO
	err := r.db.WithContext(ctx).
		Order("supplier_id").
		Find(&dtos, "order_id = ?", orderID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*fulfillment.SupplierStatus, 0, len(dtos))
	for _, dto := range dtos {
		entry, entryErr := toDomain(dto)
		if entryErr != nil {
			return nil, entryErr
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// GetAllPendingBefore retrieves Pending and Partial entries dispatched before
// the cutoff. Used by the reminder job to nudge slow suppliers.
func (r *GormFulfillmentRepository) GetAllPendingBefore(
	ctx context.Context,
	cutoff time.Time,
) ([]*fulfillment.SupplierStatus, error) {
	var dtos []SupplierStatusDTO
	err := r.db.WithContext(ctx).
		Where("status IN (?, ?) AND created_at < ?", fulfillment.Pending, fulfillment.Partial, cutoff).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*fulfillment.SupplierStatus, 0, len(dtos))
	for _, dto := range dtos {
		entry, entryErr := toDomain(dto)
		if entryErr != nil {
			return nil, entryErr
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// GetUnavailability retrieves the order's unavailability record, or an empty
// record when nothing was declared yet.
func (r *GormFulfillmentRepository) GetUnavailability(
	ctx context.Context,
	orderID kernel.UUID,
) (*fulfillment.Unavailability, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []UnavailabilityEntryDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "order_id = ?", orderID.Bytes()).Error; err != nil {
		return nil, err
	}

	return recordToDomain(orderID, dtos)
}

// SaveUnavailability persists the order's unavailability record. The record
// is add-only, so existing rows are left untouched and duplicates ignored.
func (r *GormFulfillmentRepository) SaveUnavailability(
	ctx context.Context,
	record *fulfillment.Unavailability,
) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dtos := recordFromDomain(record)
	if len(dtos) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&dtos).Error
}
