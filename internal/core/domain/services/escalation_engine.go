package services

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
)

// ErrNoSupplierAvailable is the sentinel for NoSupplierAvailableError,
// usable with errors.Is.
var ErrNoSupplierAvailable = errors.New("no supplier available")

// NoSupplierAvailableError is returned when a product's supplier ladder has
// no active assignment at the next rung. Escalation stops and staff are
// notified; the ladder is never searched past the missing rung.
type NoSupplierAvailableError struct {
	SKU      string
	Priority int
}

// NewNoSupplierAvailableError creates a NoSupplierAvailableError for the
// missing rung.
func NewNoSupplierAvailableError(sku string, priority int) *NoSupplierAvailableError {
	return &NoSupplierAvailableError{SKU: sku, Priority: priority}
}

func (e *NoSupplierAvailableError) Error() string {
	return fmt.Sprintf("%s: product %s has no active assignment at priority %d", ErrNoSupplierAvailable, e.SKU, e.Priority)
}

func (e *NoSupplierAvailableError) Unwrap() error {
	return ErrNoSupplierAvailable
}

// EscalationEngine is a domain service that decides which supplier receives
// a product dispatch after the current supplier declared it unavailable.
//
// Escalation rules:
//   - the next target is the assignment at exactly the current rung plus one
//   - a missing or inactive next rung stops escalation, it is never skipped
//   - the current supplier must be on the product's ladder
type EscalationEngine struct{}

// NewEscalationEngine creates a new EscalationEngine instance.
func NewEscalationEngine() EscalationEngine {
	return EscalationEngine{}
}

// NextSupplier returns the assignment one rung below the current supplier
// on the product's ladder.
//
// Returns fulfillment.ErrProductNotAssigned when the current supplier is not
// on the ladder, and NoSupplierAvailableError when the next rung is missing
// or inactive.
func (e EscalationEngine) NextSupplier(
	sku string, ladder catalog.Assignments, current kernel.UUID,
) (catalog.Assignment, error) {
	priority, ok := ladder.PriorityOf(current)
	if !ok {
		return catalog.Assignment{}, fulfillment.ErrProductNotAssigned
	}

	next, ok := ladder.At(priority + 1)
	if !ok {
		return catalog.Assignment{}, NewNoSupplierAvailableError(sku, priority+1)
	}
	return next, nil
}

// CategoryDispatch names the backup assignment one product of a cancelled
// supplier's category is handed to.
type CategoryDispatch struct {
	SKU    string
	Target catalog.Assignment
}

// CheckAndDispatchCategory resolves the follow-up dispatches after a
// supplier dropped out of an order entirely. Every SKU the supplier was
// assigned in the order escalates one rung down its own ladder, each
// product independently. SKUs whose ladder has no next rung, and SKUs the
// supplier is no longer assigned to, are reported as exhausted.
func (e EscalationEngine) CheckAndDispatchCategory(
	skus []string, ladders map[string]catalog.Assignments, cancelled kernel.UUID,
) ([]CategoryDispatch, []string) {
	dispatches := make([]CategoryDispatch, 0, len(skus))
	exhausted := make([]string, 0)

	for _, sku := range skus {
		next, err := e.NextSupplier(sku, ladders[sku], cancelled)
		if err != nil {
			exhausted = append(exhausted, sku)
			continue
		}
		dispatches = append(dispatches, CategoryDispatch{SKU: sku, Target: next})
	}

	return dispatches, exhausted
}
