// Package app contains application services and port definitions for
// the market data context.
package app

import (
	"context"

	"github.com/deeparb/deeparb/business/marketdata/domain"
)

// BookProvider supplies order-book snapshots per pool key. Fetches
// must honor context cancellation; a snapshot older than the
// provider's staleness budget is refreshed, not served.
type BookProvider interface {
	// Connect warms the provider (streams, subscriptions). Optional
	// for purely request-driven providers.
	Connect(ctx context.Context) error

	// GetBook returns the current book for a pool.
	GetBook(ctx context.Context, poolKey string) (*domain.Book, error)

	// Close releases provider resources.
	Close() error
}
