// Package app contains the submission service and port definitions
// for the ledger context.
package app

import (
	"context"

	ledgerDomain "github.com/deeparb/deeparb/business/ledger/domain"
	txDomain "github.com/deeparb/deeparb/business/txcompose/domain"
)

// Submitter signs and broadcasts a finished draft, returning the
// transaction digest. Implementations must respect context
// cancellation before broadcast; after broadcast the transaction is
// committed or reverted by the ledger alone.
type Submitter interface {
	Submit(ctx context.Context, draft *txDomain.Draft) (ledgerDomain.Digest, error)
}
