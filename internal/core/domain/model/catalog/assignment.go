package catalog

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrAssignmentIsNotConstructed is returned when an Assignment was not
// created through the NewAssignment constructor.
var ErrAssignmentIsNotConstructed = errors.New("Assignment must be created via NewAssignment constructor")

// Assignment is an immutable value object binding a supplier to a product at
// a strict priority within one store. Inactive assignments stay in the
// ladder but never receive dispatches.
type Assignment struct {
	supplierID kernel.UUID
	priority   int
	active     bool

	guard kernel.ConstructorGuard
}

// NewAssignment creates a validated assignment. Priority starts at 1.
func NewAssignment(supplierID kernel.UUID, priority int, active bool) (Assignment, error) {
	assignment := Assignment{
		guard: kernel.NewConstructorGuard(),
	}

	if err := supplierID.Validate(); err != nil {
		return Assignment{}, err
	}
	if priority < 1 {
		return Assignment{}, errs.NewValueIsInvalidErrorWithCause(
			"priority is invalid",
			fmt.Errorf("%d is not greater than 0", priority),
		)
	}

	assignment.supplierID = supplierID
	assignment.priority = priority
	assignment.active = active
	return assignment, nil
}

// SupplierID returns the assigned supplier.
func (a Assignment) SupplierID() kernel.UUID {
	return a.supplierID
}

// Priority returns the assignment's rung on the ladder.
func (a Assignment) Priority() int {
	return a.priority
}

// IsActive reports whether the assignment receives dispatches.
func (a Assignment) IsActive() bool {
	return a.active
}

// Validate ensures the assignment was created through NewAssignment.
func (a Assignment) Validate() error {
	return a.guard.Validate(ErrAssignmentIsNotConstructed)
}

// Assignments is a product's supplier ladder within one store.
type Assignments []Assignment

// At returns the active assignment at exactly the given priority, or false
// when that rung is missing or inactive.
func (as Assignments) At(priority int) (Assignment, bool) {
	for _, a := range as {
		if a.priority == priority && a.active {
			return a, true
		}
	}
	return Assignment{}, false
}

// Primary returns the active priority-1 assignment, or false when the
// product has none.
func (as Assignments) Primary() (Assignment, bool) {
	return as.At(1)
}

// PriorityOf returns the priority of a supplier's assignment regardless of
// its active flag, or false when the supplier is not on the ladder.
func (as Assignments) PriorityOf(supplierID kernel.UUID) (int, bool) {
	for _, a := range as {
		if a.supplierID.IsEqual(supplierID) {
			return a.priority, true
		}
	}
	return 0, false
}
