// Package ledger implements the ledger bounded context for draft
// submission and digest handling.
package ledger

import (
	"context"

	"github.com/deeparb/deeparb/business/ledger/app"
	ledgerDI "github.com/deeparb/deeparb/business/ledger/di"
	"github.com/deeparb/deeparb/business/ledger/infra"
	"github.com/deeparb/deeparb/internal/asset"
	"github.com/deeparb/deeparb/internal/di"
	"github.com/deeparb/deeparb/internal/logger"
	"github.com/deeparb/deeparb/internal/monolith"
)

// Module implements the ledger bounded context.
type Module struct{}

// RegisterServices registers all ledger services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, ledgerDI.Submitter, func(sr di.ServiceRegistry) app.Submitter {
		log := sr.Get("logger").(logger.LoggerInterface)
		return infra.NewDryRunSubmitter(log)
	})

	di.RegisterToken(c, ledgerDI.SubmitService, func(sr di.ServiceRegistry) *app.SubmitService {
		log := sr.Get("logger").(logger.LoggerInterface)
		registry := sr.Get("assetRegistry").(*asset.Registry)
		return app.NewSubmitService(ledgerDI.GetSubmitter(sr), registry.Network(), log)
	})

	return nil
}

// Startup logs module readiness.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	mono.Logger().Info(ctx, "ledger module started",
		"network", string(mono.AssetRegistry().Network()))
	return nil
}
