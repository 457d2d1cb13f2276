package commands

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRemindPendingSuppliersCommandIsNotConstructed = errors.New(
	"RemindPendingSuppliersCommand must be created via NewRemindPendingSuppliersCommand constructor",
)

// RemindPendingSuppliersCommand represents the periodic sweep that nudges
// suppliers who have not reacted to a dispatched order.
type RemindPendingSuppliersCommand struct { //nolint:recvcheck //using for validation
	olderThan time.Duration

	guard guard.ConstructorGuard
}

// NewRemindPendingSuppliersCommand creates a command for the reminder sweep.
// olderThan is how long a supplier may sit Pending or Partial before the
// reminder fires.
func NewRemindPendingSuppliersCommand(olderThan time.Duration) (RemindPendingSuppliersCommand, error) {
	command := RemindPendingSuppliersCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setOlderThan(olderThan); err != nil {
		return RemindPendingSuppliersCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RemindPendingSuppliersCommand) Validate() error {
	return c.guard.Validate(ErrRemindPendingSuppliersCommandIsNotConstructed)
}

// OlderThan returns the reminder threshold.
func (c RemindPendingSuppliersCommand) OlderThan() time.Duration {
	return c.olderThan
}

func (c *RemindPendingSuppliersCommand) setOlderThan(olderThan time.Duration) error {
	if olderThan <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"olderThan is invalid",
			fmt.Errorf("%s is not greater than 0", olderThan),
		)
	}

	c.olderThan = olderThan
	return nil
}
