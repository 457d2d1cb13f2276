package commands

import (
	"fulfillment/internal/core/domain/model/kernel"
)

// Lock keys serialize in-process mutations per order and per store slot
// pool. Handlers that take both always take the order lock first.
func orderLockKey(orderID kernel.UUID) string {
	return "order/" + orderID.String()
}

func storeLockKey(storeID kernel.UUID) string {
	return "store/" + storeID.String()
}
