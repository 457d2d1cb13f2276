package order

import (
	"errors"
	"fmt"
)

// ErrNotAllPickedUp is the sentinel for NotAllPickedUpError, usable with
// errors.Is.
var ErrNotAllPickedUp = errors.New("not all baskets picked up")

// NotAllPickedUpError is returned when the order-level ready-for-pickup
// transition is attempted before every ready supplier's basket has been
// collected. It carries progress counts for UI feedback.
type NotAllPickedUpError struct {
	PickedUp int
	Total    int
}

// NewNotAllPickedUpError creates a NotAllPickedUpError with progress counts.
func NewNotAllPickedUpError(pickedUp, total int) *NotAllPickedUpError {
	return &NotAllPickedUpError{PickedUp: pickedUp, Total: total}
}

func (e *NotAllPickedUpError) Error() string {
	return fmt.Sprintf("%s (%d/%d)", ErrNotAllPickedUp, e.PickedUp, e.Total)
}

func (e *NotAllPickedUpError) Unwrap() error {
	return ErrNotAllPickedUp
}
