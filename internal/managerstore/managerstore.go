// Package managerstore persists margin manager records so shared
// managers created in earlier sessions can be reused by id.
package managerstore

import (
	"context"
	"time"

	"github.com/deeparb/deeparb/internal/asset"
)

// Record is one persisted margin manager.
type Record struct {
	ID        asset.Address `json:"id"`
	PoolKey   string        `json:"pool_key"`
	Owner     asset.Address `json:"owner"`
	Network   asset.Network `json:"network"`
	CreatedAt time.Time     `json:"created_at"`
}

// Repository stores manager records keyed by network, owner and pool.
// Writes are last-write-wins; callers coordinate concurrent sessions
// themselves.
type Repository interface {
	// Put stores or replaces the record for its network/owner/pool key.
	Put(ctx context.Context, rec Record) error

	// Get returns the record for a network/owner/pool, or NOT_FOUND.
	Get(ctx context.Context, network asset.Network, owner asset.Address, poolKey string) (Record, error)

	// List returns all records for a network/owner, newest first.
	List(ctx context.Context, network asset.Network, owner asset.Address) ([]Record, error)

	// Delete removes the record for a network/owner/pool. Deleting a
	// missing record is not an error.
	Delete(ctx context.Context, network asset.Network, owner asset.Address, poolKey string) error

	// Close releases the backing store.
	Close() error
}
