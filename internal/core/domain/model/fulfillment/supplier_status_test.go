package fulfillment_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func mustRecord(t *testing.T, orderID kernel.UUID) *fulfillment.Unavailability {
	t.Helper()
	record, err := fulfillment.NewUnavailability(orderID)
	require.NoError(t, err)
	return record
}

func TestNewSupplierStatus(t *testing.T) {
	orderID := kernel.NewUUID()
	supplierID := kernel.NewUUID()
	storeID := kernel.NewUUID()

	t.Run("creates_pending_entry", func(t *testing.T) {
		items := []order.LineItem{
			mustItem(t, "SKU-1", 250, 2, supplierID),
			mustItem(t, "SKU-2", 1000, 1, supplierID),
		}

		entry, err := fulfillment.NewSupplierStatus(orderID, supplierID, storeID, items)

		require.NoError(t, err)
		assert.Equal(t, fulfillment.Pending, entry.Status())
		assert.Equal(t, "15.00", entry.OriginalTotal().String())
		assert.Equal(t, "15.00", entry.BillableAmount().String())
		assert.Nil(t, entry.BasketSlot())
		assert.False(t, entry.IsPickedUp())
		assert.True(t, entry.IsActive())
		require.NoError(t, entry.Validate())
	})

	t.Run("rejects_empty_item_list", func(t *testing.T) {
		_, err := fulfillment.NewSupplierStatus(orderID, supplierID, storeID, nil)
		require.Error(t, err)
	})

	t.Run("rejects_zero_value_ids", func(t *testing.T) {
		items := []order.LineItem{mustItem(t, "SKU-1", 250, 1, supplierID)}
		_, err := fulfillment.NewSupplierStatus(kernel.UUID{}, supplierID, storeID, items)
		require.Error(t, err)
	})

	t.Run("zero_value_entry_fails_validation", func(t *testing.T) {
		var entry fulfillment.SupplierStatus
		require.ErrorIs(t, entry.Validate(), fulfillment.ErrSupplierStatusIsNotConstructed)
	})
}

func TestSupplierStatus_ApplyUnavailability(t *testing.T) {
	orderID := kernel.NewUUID()
	supplierID := kernel.NewUUID()
	storeID := kernel.NewUUID()

	items := []order.LineItem{
		mustItem(t, "SKU-1", 250, 2, supplierID), // 5.00
		mustItem(t, "SKU-2", 1000, 1, supplierID), // 10.00
	}

	newEntry := func(t *testing.T) *fulfillment.SupplierStatus {
		t.Helper()
		entry, err := fulfillment.NewSupplierStatus(orderID, supplierID, storeID, items)
		require.NoError(t, err)
		return entry
	}

	t.Run("one_of_two_unavailable_is_partial", func(t *testing.T) {
		entry := newEntry(t)
		record := mustRecord(t, orderID)
		record.Add("SKU-1", supplierID)

		require.NoError(t, entry.ApplyUnavailability(items, record))

		assert.Equal(t, fulfillment.Partial, entry.Status())
		assert.Equal(t, "10.00", entry.BillableAmount().String())
		assert.Equal(t, []string{"SKU-1"}, entry.UnavailableSKUs())
		assert.True(t, entry.IsActive())
	})

	t.Run("all_unavailable_is_cancelled_with_zero_billable", func(t *testing.T) {
		entry := newEntry(t)
		record := mustRecord(t, orderID)
		record.Add("SKU-1", supplierID)
		require.NoError(t, entry.ApplyUnavailability(items, record))

		record.Add("SKU-2", supplierID)
		require.NoError(t, entry.ApplyUnavailability(items, record))

		assert.Equal(t, fulfillment.Cancelled, entry.Status())
		assert.True(t, entry.BillableAmount().IsZero())
		assert.Equal(t, []string{"SKU-1", "SKU-2"}, entry.UnavailableSKUs())
		assert.False(t, entry.IsActive())
	})

	t.Run("other_suppliers_entries_do_not_count", func(t *testing.T) {
		entry := newEntry(t)
		record := mustRecord(t, orderID)
		record.Add("SKU-1", kernel.NewUUID())

		require.NoError(t, entry.ApplyUnavailability(items, record))

		assert.Equal(t, fulfillment.Pending, entry.Status())
		assert.Equal(t, "15.00", entry.BillableAmount().String())
		assert.Empty(t, entry.UnavailableSKUs())
	})

	t.Run("ready_entry_rejects_with_already_committed", func(t *testing.T) {
		entry := newEntry(t)
		require.NoError(t, entry.MarkReady(nil, time.Now()))

		record := mustRecord(t, orderID)
		record.Add("SKU-1", supplierID)

		err := entry.ApplyUnavailability(items, record)
		require.ErrorIs(t, err, fulfillment.ErrAlreadyCommitted)
		assert.Equal(t, fulfillment.Ready, entry.Status())
	})

	t.Run("cancelled_entry_rejects_further_updates", func(t *testing.T) {
		entry := newEntry(t)
		record := mustRecord(t, orderID)
		record.Add("SKU-1", supplierID)
		record.Add("SKU-2", supplierID)
		require.NoError(t, entry.ApplyUnavailability(items, record))

		err := entry.ApplyUnavailability(items, record)
		require.ErrorIs(t, err, fulfillment.ErrInvalidStatusTransition)
	})
}

func TestSupplierStatus_MarkReady(t *testing.T) {
	orderID := kernel.NewUUID()
	supplierID := kernel.NewUUID()
	items := []order.LineItem{mustItem(t, "SKU-1", 250, 1, supplierID)}

	newEntry := func(t *testing.T) *fulfillment.SupplierStatus {
		t.Helper()
		entry, err := fulfillment.NewSupplierStatus(orderID, supplierID, kernel.NewUUID(), items)
		require.NoError(t, err)
		return entry
	}

	t.Run("pending_to_ready_with_slot", func(t *testing.T) {
		entry := newEntry(t)
		slot := 2

		require.NoError(t, entry.MarkReady(&slot, time.Now()))

		assert.Equal(t, fulfillment.Ready, entry.Status())
		require.NotNil(t, entry.BasketSlot())
		assert.Equal(t, 2, *entry.BasketSlot())
		assert.NotNil(t, entry.ReadyAt())
	})

	t.Run("ready_without_slot_keeps_nil_slot", func(t *testing.T) {
		entry := newEntry(t)

		require.NoError(t, entry.MarkReady(nil, time.Now()))

		assert.Equal(t, fulfillment.Ready, entry.Status())
		assert.Nil(t, entry.BasketSlot())
	})

	t.Run("partial_to_ready_keeps_reduced_billable", func(t *testing.T) {
		twoItems := []order.LineItem{
			mustItem(t, "SKU-1", 250, 1, supplierID),
			mustItem(t, "SKU-2", 1000, 1, supplierID),
		}
		entry, err := fulfillment.NewSupplierStatus(orderID, supplierID, kernel.NewUUID(), twoItems)
		require.NoError(t, err)

		record := mustRecord(t, orderID)
		record.Add("SKU-2", supplierID)
		require.NoError(t, entry.ApplyUnavailability(twoItems, record))

		require.NoError(t, entry.MarkReady(nil, time.Now()))
		assert.Equal(t, fulfillment.Ready, entry.Status())
		assert.Equal(t, "2.50", entry.BillableAmount().String())
	})

	t.Run("ready_twice_is_invalid", func(t *testing.T) {
		entry := newEntry(t)
		require.NoError(t, entry.MarkReady(nil, time.Now()))

		err := entry.MarkReady(nil, time.Now())
		require.ErrorIs(t, err, fulfillment.ErrInvalidStatusTransition)
	})
}

func TestSupplierStatus_MarkPickedUp(t *testing.T) {
	orderID := kernel.NewUUID()
	supplierID := kernel.NewUUID()
	staffID := kernel.NewUUID()
	items := []order.LineItem{mustItem(t, "SKU-1", 250, 1, supplierID)}

	newReadyEntry := func(t *testing.T) *fulfillment.SupplierStatus {
		t.Helper()
		entry, err := fulfillment.NewSupplierStatus(orderID, supplierID, kernel.NewUUID(), items)
		require.NoError(t, err)
		slot := 1
		require.NoError(t, entry.MarkReady(&slot, time.Now()))
		return entry
	}

	t.Run("pickup_frees_slot_and_records_staff", func(t *testing.T) {
		entry := newReadyEntry(t)

		require.NoError(t, entry.MarkPickedUp(staffID, time.Now()))

		assert.True(t, entry.IsPickedUp())
		assert.Nil(t, entry.BasketSlot())
		require.NotNil(t, entry.PickedUpBy())
		assert.True(t, entry.PickedUpBy().IsEqual(staffID))
		assert.NotNil(t, entry.PickedUpAt())
	})

	t.Run("second_pickup_is_rejected", func(t *testing.T) {
		entry := newReadyEntry(t)
		require.NoError(t, entry.MarkPickedUp(staffID, time.Now()))

		err := entry.MarkPickedUp(staffID, time.Now())
		require.ErrorIs(t, err, fulfillment.ErrBasketAlreadyPickedUp)
	})

	t.Run("pending_entry_cannot_be_picked_up", func(t *testing.T) {
		entry, err := fulfillment.NewSupplierStatus(orderID, supplierID, kernel.NewUUID(), items)
		require.NoError(t, err)

		err = entry.MarkPickedUp(staffID, time.Now())
		require.ErrorIs(t, err, fulfillment.ErrInvalidStatusTransition)
	})
}

func TestRestoreSupplierStatus(t *testing.T) {
	orderID := kernel.NewUUID()
	supplierID := kernel.NewUUID()
	slot := 3
	readyAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("restores_persisted_state", func(t *testing.T) {
		entry, err := fulfillment.RestoreSupplierStatus(
			orderID, supplierID, kernel.NewUUID(),
			fulfillment.Partial, &slot, &readyAt,
			false, nil, nil,
			[]string{"SKU-2"}, mustMoney(t, 1250), mustMoney(t, 250),
		)

		require.NoError(t, err)
		assert.Equal(t, fulfillment.Partial, entry.Status())
		assert.Equal(t, 3, *entry.BasketSlot())
		assert.Equal(t, []string{"SKU-2"}, entry.UnavailableSKUs())
		assert.Equal(t, "2.50", entry.BillableAmount().String())
	})

	t.Run("rejects_invalid_status", func(t *testing.T) {
		_, err := fulfillment.RestoreSupplierStatus(
			orderID, supplierID, kernel.NewUUID(),
			fulfillment.Unknown, nil, nil,
			false, nil, nil,
			nil, kernel.ZeroMoney(), kernel.ZeroMoney(),
		)
		require.Error(t, err)
	})
}
