// Package app contains the scanner and port definitions for the
// arbitrage context.
package app

import (
	"context"

	"github.com/deeparb/deeparb/business/arbitrage/domain"
	mdDomain "github.com/deeparb/deeparb/business/marketdata/domain"
)

// BookSource supplies order-book snapshots for scanning.
type BookSource interface {
	GetBook(ctx context.Context, poolKey string) (*mdDomain.Book, error)
}

// Reporter receives ranked opportunities from each scan pass.
type Reporter interface {
	// Start initializes the reporter.
	Start(ctx context.Context) error

	// Report delivers one opportunity.
	Report(opp *domain.Opportunity)

	// Stop gracefully shuts down the reporter.
	Stop() error
}
