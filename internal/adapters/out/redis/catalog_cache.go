// Package redis caches supplier assignment ladders in front of the catalog
// store. Ladders change rarely and are read on every dispatch, so a short
// TTL keeps dispatch off the database without risking stale escalations.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// cachedAssignment is the cache representation of one ladder rung.
type cachedAssignment struct {
	SupplierID string `json:"supplierId"`
	Priority   int    `json:"priority"`
	Active     bool   `json:"active"`
}

// CachingCatalogReader decorates a CatalogReader with a read-through cache.
// Cache failures fall through to the inner reader; a broken cache must not
// break dispatch.
type CachingCatalogReader struct {
	inner  ports.CatalogReader
	client *redis.Client
	ttl    time.Duration
}

// NewCachingCatalogReader wraps the given reader with a redis cache.
func NewCachingCatalogReader(
	inner ports.CatalogReader,
	client *redis.Client,
	ttl time.Duration,
) *CachingCatalogReader {
	return &CachingCatalogReader{
		inner:  inner,
		client: client,
		ttl:    ttl,
	}
}

// NewClient connects to the redis instance at addr.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: addr,
	})
}

// AssignmentsFor returns the cached ladder when present, otherwise loads it
// from the inner reader and caches the result.
func (r *CachingCatalogReader) AssignmentsFor(
	ctx context.Context,
	storeID kernel.UUID,
	sku string,
) (catalog.Assignments, error) {
	key := cacheKey(storeID, sku)

	payload, err := r.client.Get(ctx, key).Result()
	if err == nil {
		if assignments, decodeErr := decodeLadder(payload); decodeErr == nil {
			return assignments, nil
		}
		// Undecodable entry, drop it and reload.
		r.client.Del(ctx, key)
	}

	assignments, err := r.inner.AssignmentsFor(ctx, storeID, sku)
	if err != nil {
		return nil, err
	}

	if payload, encodeErr := encodeLadder(assignments); encodeErr == nil {
		r.client.Set(ctx, key, payload, r.ttl)
	}

	return assignments, nil
}

func cacheKey(storeID kernel.UUID, sku string) string {
	return fmt.Sprintf("catalog:%s:%s", storeID.String(), sku)
}

func encodeLadder(assignments catalog.Assignments) (string, error) {
	cached := make([]cachedAssignment, 0, len(assignments))
	for _, assignment := range assignments {
		cached = append(cached, cachedAssignment{
			SupplierID: assignment.SupplierID().String(),
			Priority:   assignment.Priority(),
			Active:     assignment.IsActive(),
		})
	}

	payload, err := json.Marshal(cached)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func decodeLadder(payload string) (catalog.Assignments, error) {
	var cached []cachedAssignment
	if err := json.Unmarshal([]byte(payload), &cached); err != nil {
		return nil, err
	}

	assignments := make(catalog.Assignments, 0, len(cached))
	for _, entry := range cached {
		supplierID, err := kernel.UUIDFromString(entry.SupplierID)
		if err != nil {
			return nil, err
		}
		assignment, err := catalog.NewAssignment(supplierID, entry.Priority, entry.Active)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}
	return assignments, nil
}
