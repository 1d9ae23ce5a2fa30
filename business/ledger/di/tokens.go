// Package di contains dependency injection tokens for the ledger context.
package di

import (
	"github.com/deeparb/deeparb/business/ledger/app"
	"github.com/deeparb/deeparb/internal/di"
)

// Public service tokens - exposed to other modules
var (
	SubmitService = di.NewToken[*app.SubmitService]("ledger.SubmitService")
)

// Private dependency tokens - internal to ledger module
var (
	Submitter = di.NewToken[app.Submitter]("ledger:submitter")
)

// Helper functions for type-safe access
func GetSubmitService(c di.ServiceRegistry) *app.SubmitService {
	return di.GetToken(c, SubmitService)
}

func GetSubmitter(c di.ServiceRegistry) app.Submitter {
	return di.GetToken(c, Submitter)
}
