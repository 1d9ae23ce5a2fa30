// Package txcompose implements the transaction composition bounded context.
package txcompose

import (
	"context"

	"github.com/deeparb/deeparb/business/txcompose/app"
	txcomposeDI "github.com/deeparb/deeparb/business/txcompose/di"
	"github.com/deeparb/deeparb/internal/asset"
	"github.com/deeparb/deeparb/internal/di"
	"github.com/deeparb/deeparb/internal/logger"
	"github.com/deeparb/deeparb/internal/managerstore"
	"github.com/deeparb/deeparb/internal/monolith"
)

// Module implements the txcompose bounded context.
type Module struct{}

// RegisterServices registers all txcompose services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, txcomposeDI.ComposeService, func(sr di.ServiceRegistry) *app.ComposeService {
		registry := sr.Get("assetRegistry").(*asset.Registry)
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewComposeService(registry, log)
	})

	di.RegisterToken(c, txcomposeDI.ManagerDirectory, func(sr di.ServiceRegistry) *app.ManagerDirectory {
		registry := sr.Get("assetRegistry").(*asset.Registry)
		log := sr.Get("logger").(logger.LoggerInterface)
		store := sr.Get("managerStore").(managerstore.Repository)
		return app.NewManagerDirectory(store, registry, log)
	})
	return nil
}

// Startup initializes the txcompose module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	mono.Logger().Info(ctx, "txcompose module started",
		"network", mono.AssetRegistry().Network())
	return nil
}
