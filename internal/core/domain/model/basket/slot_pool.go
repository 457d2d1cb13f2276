package basket

import (
	"errors"
	"fmt"
	"sort"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// DefaultCapacity is the number of basket slots a store is equipped with.
const DefaultCapacity = 3

// ErrSlotPoolIsNotConstructed is returned when a SlotPool was not created
// through its constructors.
var ErrSlotPoolIsNotConstructed = errors.New(
	"SlotPool must be created via NewSlotPool or RestoreSlotPool constructor")

// ErrSlotOccupied is the sentinel for SlotOccupiedError, usable with
// errors.Is.
var ErrSlotOccupied = errors.New("basket slot is occupied")

// SlotOccupiedError is returned when a supplier requests a specific slot
// that another basket already occupies.
type SlotOccupiedError struct {
	Slot int
}

// NewSlotOccupiedError creates a SlotOccupiedError for a slot number.
func NewSlotOccupiedError(slot int) *SlotOccupiedError {
	return &SlotOccupiedError{Slot: slot}
}

func (e *SlotOccupiedError) Error() string {
	return fmt.Sprintf("%s: slot %d", ErrSlotOccupied, e.Slot)
}

func (e *SlotOccupiedError) Unwrap() error {
	return ErrSlotOccupied
}

// Occupant identifies the basket occupying a slot.
type Occupant struct {
	OrderID    kernel.UUID
	SupplierID kernel.UUID
}

// SlotPool is a store's pool of numbered basket slots (1..capacity).
//
// Occupancy rules:
//   - a requested slot that is taken rejects with SlotOccupiedError
//   - with no requested slot, the lowest free slot is assigned
//   - with no requested slot and no free slot, no slot is assigned; the
//     supplier still goes ready and staff resolve the basket by hand
type SlotPool struct {
	storeID  kernel.UUID
	capacity int
	occupied map[int]Occupant

	guard kernel.ConstructorGuard
}

// NewSlotPool creates an empty pool for a store.
func NewSlotPool(storeID kernel.UUID, capacity int) (*SlotPool, error) {
	pool := &SlotPool{
		guard: kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		pool.setStoreID(storeID),
		pool.setCapacity(capacity),
	); err != nil {
		return nil, err
	}

	pool.occupied = make(map[int]Occupant)
	return pool, nil
}

// RestoreSlotPool rehydrates a pool from persistence.
func RestoreSlotPool(storeID kernel.UUID, capacity int, occupied map[int]Occupant) (*SlotPool, error) {
	pool, err := NewSlotPool(storeID, capacity)
	if err != nil {
		return nil, err
	}
	for slot, occupant := range occupied {
		if slot < 1 || slot > capacity {
			return nil, errs.NewValueIsOutOfRangeError("slot", slot, 1, capacity)
		}
		pool.occupied[slot] = occupant
	}
	return pool, nil
}

// StoreID returns the store the pool belongs to.
func (p *SlotPool) StoreID() kernel.UUID {
	return p.storeID
}

// Capacity returns the number of slots the store is equipped with.
func (p *SlotPool) Capacity() int {
	return p.capacity
}

// Occupy assigns a slot to a supplier's basket.
//
// When requested is non-nil the exact slot is taken or the call fails with
// SlotOccupiedError. When requested is nil the lowest free slot is assigned,
// or nil is returned without error when the pool is full.
func (p *SlotPool) Occupy(requested *int, orderID kernel.UUID, supplierID kernel.UUID) (*int, error) {
	if err := errors.Join(orderID.Validate(), supplierID.Validate()); err != nil {
		return nil, err
	}

	if requested != nil {
		slot := *requested
		if slot < 1 || slot > p.capacity {
			return nil, errs.NewValueIsOutOfRangeError("slot", slot, 1, p.capacity)
		}
		if _, taken := p.occupied[slot]; taken {
			return nil, NewSlotOccupiedError(slot)
		}
		p.occupied[slot] = Occupant{OrderID: orderID, SupplierID: supplierID}
		return &slot, nil
	}

	for slot := 1; slot <= p.capacity; slot++ {
		if _, taken := p.occupied[slot]; !taken {
			p.occupied[slot] = Occupant{OrderID: orderID, SupplierID: supplierID}
			return &slot, nil
		}
	}
	return nil, nil
}

// Release frees a slot. Releasing a free slot is a no-op, so pickup of a
// basket that never had a slot stays safe.
func (p *SlotPool) Release(slot int) {
	delete(p.occupied, slot)
}

// IsOccupied reports whether a slot is taken.
func (p *SlotPool) IsOccupied(slot int) bool {
	_, taken := p.occupied[slot]
	return taken
}

// Occupant returns the basket occupying a slot, or false when it is free.
func (p *SlotPool) Occupant(slot int) (Occupant, bool) {
	occupant, taken := p.occupied[slot]
	return occupant, taken
}

// FreeSlots returns the free slot numbers in ascending order.
func (p *SlotPool) FreeSlots() []int {
	result := make([]int, 0, p.capacity)
	for slot := 1; slot <= p.capacity; slot++ {
		if !p.IsOccupied(slot) {
			result = append(result, slot)
		}
	}
	return result
}

// Occupied returns a copy of the occupancy map for persistence mapping.
func (p *SlotPool) Occupied() map[int]Occupant {
	result := make(map[int]Occupant, len(p.occupied))
	for slot, occupant := range p.occupied {
		result[slot] = occupant
	}
	return result
}

// OccupiedSlots returns the taken slot numbers in ascending order.
func (p *SlotPool) OccupiedSlots() []int {
	result := make([]int, 0, len(p.occupied))
	for slot := range p.occupied {
		result = append(result, slot)
	}
	sort.Ints(result)
	return result
}

// Validate ensures the pool was created through a constructor.
func (p *SlotPool) Validate() error {
	return p.guard.Validate(ErrSlotPoolIsNotConstructed)
}

func (p *SlotPool) setStoreID(storeID kernel.UUID) error {
	if err := storeID.Validate(); err != nil {
		return err
	}
	p.storeID = storeID
	return nil
}

func (p *SlotPool) setCapacity(capacity int) error {
	if capacity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"capacity is invalid",
			fmt.Errorf("%d is not greater than 0", capacity),
		)
	}
	p.capacity = capacity
	return nil
}
