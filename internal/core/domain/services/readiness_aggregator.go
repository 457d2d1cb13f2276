package services

import (
	"fulfillment/internal/core/domain/model/fulfillment"
)

// ReadinessReport is the order-level view of the supplier ledger. Active
// suppliers are those not Cancelled; Cancelled suppliers leave the
// denominator entirely, so an order whose last active supplier goes ready is
// complete regardless of how many suppliers dropped out before.
type ReadinessReport struct {
	Total     int
	Active    int
	Ready     int
	Cancelled int
	PickedUp  int
}

// AllSuppliersReady reports whether every active supplier has committed.
// False when no supplier is active at all.
func (r ReadinessReport) AllSuppliersReady() bool {
	return r.Active > 0 && r.Ready == r.Active
}

// AllSuppliersCancelled reports whether every supplier dropped out of the
// order, which cancels the order itself.
func (r ReadinessReport) AllSuppliersCancelled() bool {
	return r.Total > 0 && r.Active == 0
}

// AllBasketsPickedUp reports whether staff collected every ready supplier's
// basket.
func (r ReadinessReport) AllBasketsPickedUp() bool {
	return r.Ready > 0 && r.PickedUp == r.Ready
}

// ReadinessAggregator is a domain service that folds an order's supplier
// ledger entries into a ReadinessReport.
//
// Aggregation rules:
//   - every entry counts toward Total
//   - Cancelled entries are excluded from Active
//   - Ready counts committed suppliers, PickedUp their collected baskets
type ReadinessAggregator struct{}

// NewReadinessAggregator creates a new ReadinessAggregator instance.
func NewReadinessAggregator() ReadinessAggregator {
	return ReadinessAggregator{}
}

// Aggregate computes the report for one order's ledger entries.
func (a ReadinessAggregator) Aggregate(entries []*fulfillment.SupplierStatus) (ReadinessReport, error) {
	report := ReadinessReport{Total: len(entries)}

	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return ReadinessReport{}, err
		}

		switch entry.Status() {
		case fulfillment.Cancelled:
			report.Cancelled++
		case fulfillment.Ready:
			report.Active++
			report.Ready++
			if entry.IsPickedUp() {
				report.PickedUp++
			}
		default:
			report.Active++
		}
	}

	return report, nil
}
