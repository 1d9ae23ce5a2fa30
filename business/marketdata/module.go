// Package marketdata implements the market data bounded context for
// order-book snapshots and depth pricing.
package marketdata

import (
	"context"
	"time"

	"github.com/deeparb/deeparb/business/marketdata/app"
	marketdataDI "github.com/deeparb/deeparb/business/marketdata/di"
	"github.com/deeparb/deeparb/business/marketdata/infra/indexer"
	"github.com/deeparb/deeparb/internal/asset"
	"github.com/deeparb/deeparb/internal/config"
	"github.com/deeparb/deeparb/internal/di"
	"github.com/deeparb/deeparb/internal/logger"
	"github.com/deeparb/deeparb/internal/monolith"
)

// Module implements the marketdata bounded context.
type Module struct{}

// RegisterServices registers all marketdata services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, marketdataDI.BookProvider, func(sr di.ServiceRegistry) app.BookProvider {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		registry := sr.Get("assetRegistry").(*asset.Registry)

		pools := make([]string, 0)
		for _, p := range registry.Pools() {
			pools = append(pools, p.Key())
		}

		providerCfg := indexer.ProviderConfig{
			HTTPURL:           cfg.Indexer.HTTPURL,
			WSURL:             cfg.Indexer.WSURL,
			Pools:             pools,
			SnapshotDepth:     cfg.Indexer.SnapshotDepth,
			StaleTimeout:      cfg.Indexer.StaleTimeout,
			RequestsPerMinute: cfg.Indexer.RequestsPerMinute,
		}
		provider, err := indexer.NewProvider(providerCfg, log)
		if err != nil {
			panic("failed to create indexer provider: " + err.Error())
		}
		return provider
	})

	di.RegisterToken(c, marketdataDI.MarketDataService, func(sr di.ServiceRegistry) *app.MarketDataService {
		provider := marketdataDI.GetBookProvider(sr)
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewMarketDataService(provider, log)
	})

	return nil
}

// Startup connects the book provider. A failed stream connection is
// retried in the background; REST fetches keep working meanwhile.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	provider := marketdataDI.GetBookProvider(mono.Services())

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := provider.Connect(connectCtx); err != nil {
		log.Warn(ctx, "indexer stream connection failed, will retry in background", "error", err)
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-time.After(5 * time.Second):
					if err := provider.Connect(ctx); err != nil {
						log.Warn(ctx, "indexer stream retry failed", "error", err)
					} else {
						log.Info(ctx, "indexer stream connected")
						return
					}
				}
			}
		}()
	}

	log.Info(ctx, "marketdata module started")
	return nil
}
