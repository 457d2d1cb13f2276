// Package basket contains the per-store pool of physical basket slots that
// ready suppliers stage their prepared items in. Each store has a small fixed
// number of numbered slots; a supplier occupies at most one slot per order and
// the slot is freed when staff collect the basket.
package basket
