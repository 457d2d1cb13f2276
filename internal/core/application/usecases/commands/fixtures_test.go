package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

func testNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func mustMoney(t *testing.T, cents int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoneyFromCents(cents)
	require.NoError(t, err)
	return m
}

func mustItem(t *testing.T, sku string, cents int64, quantity int, supplierID kernel.UUID) order.LineItem {
	t.Helper()
	item, err := order.NewLineItem(sku, "item "+sku, mustMoney(t, cents), quantity, supplierID)
	require.NoError(t, err)
	return item
}

func mustOrder(t *testing.T, orderID, storeID kernel.UUID, items []order.LineItem) *order.Order {
	t.Helper()
	o, err := order.NewOrder(orderID, storeID, "GLV-1", items)
	require.NoError(t, err)
	return o
}

func mustEntry(t *testing.T, orderID, supplierID, storeID kernel.UUID, items []order.LineItem) *fulfillment.SupplierStatus {
	t.Helper()
	entry, err := fulfillment.NewSupplierStatus(orderID, supplierID, storeID, items)
	require.NoError(t, err)
	return entry
}

func mustAssignment(t *testing.T, supplierID kernel.UUID, priority int, active bool) catalog.Assignment {
	t.Helper()
	a, err := catalog.NewAssignment(supplierID, priority, active)
	require.NoError(t, err)
	return a
}
