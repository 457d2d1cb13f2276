// Package catalog contains the read-side view of product supply: per store
// and product SKU, an ordered ladder of supplier assignments with strict
// priorities. Priority 1 receives the initial dispatch; escalation walks the
// ladder one rung at a time and never skips a missing rung.
package catalog
