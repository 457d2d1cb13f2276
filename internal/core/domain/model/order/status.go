package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the order-level lifecycle state. It implements a state
// machine with defined transitions:
//
//	Created -> Accepted -> Preparing -> Ready -> Dispatched -> Delivered
//	    └─────────┴───────────┴──────────┴───────────┴──> Cancelled
//
// Delivered and Cancelled are terminal. Status is a value object; transition
// methods return the next status or an error for invalid edges.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Created is the initial status when an order enters from the marketplace.
	Created

	// Accepted indicates the order has been acknowledged and its suppliers notified.
	Accepted

	// Preparing indicates at least one supplier is working on the order.
	Preparing

	// Ready indicates every basket has been collected and the order awaits the courier.
	Ready

	// Dispatched indicates the courier has picked the order up.
	Dispatched

	// Delivered indicates the order reached the customer. Terminal.
	Delivered

	// Cancelled indicates the order was aborted. Terminal.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		Created:    "Created",
		Accepted:   "Accepted",
		Preparing:  "Preparing",
		Ready:      "Ready",
		Dispatched: "Dispatched",
		Delivered:  "Delivered",
		Cancelled:  "Cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Created:    "Created",
		Accepted:   "Accepted",
		Preparing:  "Preparing",
		Ready:      "Ready",
		Dispatched: "Dispatched",
		Delivered:  "Delivered",
		Cancelled:  "Cancelled",
	}
}

// Validate checks if the Status value is one of the defined states.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
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

// IsFinal reports whether the status permits no further transitions.
func (s Status) IsFinal() bool {
	return s == Delivered || s == Cancelled
}

// Accept transitions Created -> Accepted.
func (s Status) Accept() (Status, error) {
	if s != Created {
		return 0, invalidTransition(s, "accept")
	}
	return Accepted, nil
}

// StartPreparing transitions Accepted -> Preparing.
func (s Status) StartPreparing() (Status, error) {
	if s != Accepted {
		return 0, invalidTransition(s, "start preparing")
	}
	return Preparing, nil
}

// MarkReady transitions Preparing -> Ready. The readiness gate (all suppliers
// ready and all baskets picked up) is enforced by the caller; this method only
// guards the edge itself.
func (s Status) MarkReady() (Status, error) {
	if s != Preparing {
		return 0, invalidTransition(s, "mark ready")
	}
	return Ready, nil
}

// Dispatch transitions Ready -> Dispatched.
func (s Status) Dispatch() (Status, error) {
	if s != Ready {
		return 0, invalidTransition(s, "dispatch")
	}
	return Dispatched, nil
}

// Deliver transitions Dispatched -> Delivered.
func (s Status) Deliver() (Status, error) {
	if s != Dispatched {
		return 0, invalidTransition(s, "deliver")
	}
	return Delivered, nil
}

// Cancel transitions any non-terminal status to Cancelled.
func (s Status) Cancel() (Status, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	if s.IsFinal() {
		return 0, invalidTransition(s, "cancel")
	}
	return Cancelled, nil
}

func invalidTransition(s Status, action string) error {
	return errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%s is not a valid status to %s", s.String(), action),
	)
}
