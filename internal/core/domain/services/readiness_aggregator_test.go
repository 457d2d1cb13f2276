package services_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntry(t *testing.T, orderID kernel.UUID) *fulfillment.SupplierStatus {
	t.Helper()
	supplierID := kernel.NewUUID()
	price, err := kernel.NewMoneyFromCents(250)
	require.NoError(t, err)
	item, err := order.NewLineItem("SKU-1", "Tomatoes", price, 1, supplierID)
	require.NoError(t, err)
	entry, err := fulfillment.NewSupplierStatus(orderID, supplierID, kernel.NewUUID(), []order.LineItem{item})
	require.NoError(t, err)
	return entry
}

func newReadyEntry(t *testing.T, orderID kernel.UUID, pickedUp bool) *fulfillment.SupplierStatus {
	t.Helper()
	entry := newEntry(t, orderID)
	require.NoError(t, entry.MarkReady(nil, time.Now()))
	if pickedUp {
		require.NoError(t, entry.MarkPickedUp(kernel.NewUUID(), time.Now()))
	}
	return entry
}

func newCancelledEntry(t *testing.T, orderID kernel.UUID) *fulfillment.SupplierStatus {
	t.Helper()
	entry := newEntry(t, orderID)
	record, err := fulfillment.NewUnavailability(orderID)
	require.NoError(t, err)
	record.Add("SKU-1", entry.SupplierID())

	price, err := kernel.NewMoneyFromCents(250)
	require.NoError(t, err)
	item, err := order.NewLineItem("SKU-1", "Tomatoes", price, 1, entry.SupplierID())
	require.NoError(t, err)
	require.NoError(t, entry.ApplyUnavailability([]order.LineItem{item}, record))
	require.Equal(t, fulfillment.Cancelled, entry.Status())
	return entry
}

func TestReadinessAggregator_Aggregate(t *testing.T) {
	aggregator := services.NewReadinessAggregator()
	orderID := kernel.NewUUID()

	t.Run("mixed_ledger", func(t *testing.T) {
		entries := []*fulfillment.SupplierStatus{
			newReadyEntry(t, orderID, true),
			newReadyEntry(t, orderID, false),
			newEntry(t, orderID),
			newCancelledEntry(t, orderID),
		}

		report, err := aggregator.Aggregate(entries)

		require.NoError(t, err)
		assert.Equal(t, 4, report.Total)
		assert.Equal(t, 3, report.Active)
		assert.Equal(t, 2, report.Ready)
		assert.Equal(t, 1, report.Cancelled)
		assert.Equal(t, 1, report.PickedUp)
		assert.False(t, report.AllSuppliersReady())
		assert.False(t, report.AllSuppliersCancelled())
	})

	t.Run("cancelled_suppliers_leave_the_denominator", func(t *testing.T) {
		entries := []*fulfillment.SupplierStatus{
			newReadyEntry(t, orderID, false),
			newCancelledEntry(t, orderID),
		}

		report, err := aggregator.Aggregate(entries)

		require.NoError(t, err)
		assert.True(t, report.AllSuppliersReady())
	})

	t.Run("all_cancelled_cancels_the_order", func(t *testing.T) {
		entries := []*fulfillment.SupplierStatus{
			newCancelledEntry(t, orderID),
			newCancelledEntry(t, orderID),
		}

		report, err := aggregator.Aggregate(entries)

		require.NoError(t, err)
		assert.True(t, report.AllSuppliersCancelled())
		assert.False(t, report.AllSuppliersReady())
	})

	t.Run("all_baskets_picked_up", func(t *testing.T) {
		entries := []*fulfillment.SupplierStatus{
			newReadyEntry(t, orderID, true),
			newReadyEntry(t, orderID, true),
			newCancelledEntry(t, orderID),
		}

		report, err := aggregator.Aggregate(entries)

		require.NoError(t, err)
		assert.True(t, report.AllBasketsPickedUp())
	})

	t.Run("empty_ledger_reports_nothing", func(t *testing.T) {
		report, err := aggregator.Aggregate(nil)

		require.NoError(t, err)
		assert.False(t, report.AllSuppliersReady())
		assert.False(t, report.AllSuppliersCancelled())
		assert.False(t, report.AllBasketsPickedUp())
	})

	t.Run("unconstructed_entry_is_rejected", func(t *testing.T) {
		_, err := aggregator.Aggregate([]*fulfillment.SupplierStatus{{}})
		require.ErrorIs(t, err, fulfillment.ErrSupplierStatusIsNotConstructed)
	})
}
