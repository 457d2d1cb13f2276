package fulfillment

import (
	"errors"
	"fmt"
)

// Taxonomy errors surfaced by ledger operations. All are rejected
// synchronously with no partial mutation.
var (
	// ErrSupplierNotAssigned indicates the supplier has no active assignment
	// in the referenced order.
	ErrSupplierNotAssigned = errors.New("supplier has no active assignment in this order")

	// ErrProductNotAssigned indicates the product does not belong to the
	// supplier's assigned items in the referenced order.
	ErrProductNotAssigned = errors.New("product is not assigned to this supplier in this order")

	// ErrAlreadyCommitted indicates an unavailability update was attempted
	// after the supplier already committed to ready. Ready is terminal.
	ErrAlreadyCommitted = errors.New("cannot mark products unavailable after supplier is ready")

	// ErrInvalidStatusTransition indicates a supplier status edge that the
	// state machine does not permit.
	ErrInvalidStatusTransition = errors.New("invalid supplier status transition")

	// ErrBasketAlreadyPickedUp indicates a second pickup attempt for the same
	// supplier basket.
	ErrBasketAlreadyPickedUp = errors.New("basket already picked up")
)

// Status is the supplier's preparation state within one order.
//
// State machine:
//
//	Pending ──> Ready                (mark-ready)
//	Pending ──> Partial ──> Ready    (some items unavailable, rest prepared)
//	Pending ──> Cancelled            (every item unavailable)
//	Partial ──> Cancelled            (remaining items also unavailable)
//
// Ready and Cancelled are terminal: no further status or unavailability
// changes are accepted once either is reached.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending is the initial state: the supplier has been assigned items and
	// has not yet reacted.
	Pending

	// Ready means the supplier committed: their available items are prepared
	// and staged in a basket.
	Ready

	// Partial means some, but not all, of the supplier's items are
	// unavailable; the supplier can still prepare the rest.
	Partial

	// Cancelled means every assigned item is unavailable; the supplier no
	// longer participates in the order.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "Pending",
		Ready:     "Ready",
		Partial:   "Partial",
		Cancelled: "Cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "Pending",
		Ready:     "Ready",
		Partial:   "Partial",
		Cancelled: "Cancelled",
	}
}

// Validate checks if the Status value is one of the defined states.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return fmt.Errorf("%w: %d is not a valid supplier status", ErrInvalidStatusTransition, s)
	}
	return nil
}

// String returns the human-readable name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status permits no further changes.
func (s Status) IsTerminal() bool {
	return s == Ready || s == Cancelled
}

// IsActive reports whether the supplier still participates in the order.
// Cancelled suppliers are excluded from readiness aggregation denominators.
func (s Status) IsActive() bool {
	return s != Cancelled && s != Unknown
}

// MarkReady transitions Pending or Partial to Ready.
func (s Status) MarkReady() (Status, error) {
	if s != Pending && s != Partial {
		return 0, fmt.Errorf("%w: %s cannot be marked ready", ErrInvalidStatusTransition, s.String())
	}
	return Ready, nil
}

// ValidateCanRecordUnavailability checks whether an unavailability update is
// still accepted for this status. Ready rejects with ErrAlreadyCommitted;
// Cancelled rejects because every item is already unavailable.
func (s Status) ValidateCanRecordUnavailability() error {
	if s == Ready {
		return ErrAlreadyCommitted
	}
	if s == Cancelled {
		return fmt.Errorf("%w: %s accepts no further unavailability", ErrInvalidStatusTransition, s.String())
	}
	return nil
}
