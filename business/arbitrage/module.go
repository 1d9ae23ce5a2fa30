// Package arbitrage implements the arbitrage bounded context for
// round-trip opportunity scanning across pool pairs.
package arbitrage

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/deeparb/deeparb/business/arbitrage/app"
	arbitrageDI "github.com/deeparb/deeparb/business/arbitrage/di"
	"github.com/deeparb/deeparb/business/arbitrage/domain"
	"github.com/deeparb/deeparb/business/arbitrage/infra"
	marketdataDI "github.com/deeparb/deeparb/business/marketdata/di"
	"github.com/deeparb/deeparb/internal/asset"
	"github.com/deeparb/deeparb/internal/config"
	"github.com/deeparb/deeparb/internal/di"
	"github.com/deeparb/deeparb/internal/logger"
	"github.com/deeparb/deeparb/internal/monolith"
)

// Module implements the arbitrage bounded context.
type Module struct{}

// RegisterServices registers all arbitrage services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, arbitrageDI.Reporter, func(sr di.ServiceRegistry) app.Reporter {
		return infra.NewConsoleReporter()
	})

	di.RegisterToken(c, arbitrageDI.Scanner, func(sr di.ServiceRegistry) *app.Scanner {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		registry := sr.Get("assetRegistry").(*asset.Registry)

		fees := domain.DefaultFeeSchedule()
		if cfg.Scanner.FeeRate > 0 {
			fees.DefaultRate = decimal.NewFromFloat(cfg.Scanner.FeeRate)
		}
		if cfg.Scanner.FixedFee > 0 {
			fees.DefaultFixed = decimal.NewFromFloat(cfg.Scanner.FixedFee)
		}

		scannerCfg := app.ScannerConfig{
			BorrowAmount:     decimal.NewFromFloat(cfg.Scanner.BorrowAmount),
			MinProfitPercent: decimal.NewFromFloat(cfg.Scanner.MinProfitPercent),
			MaxConcurrency:   cfg.Scanner.MaxConcurrency,
			FetchTimeout:     cfg.Scanner.FetchTimeout,
			Fees:             fees,
		}

		scanner, err := app.NewScanner(
			registry,
			marketdataDI.GetMarketDataService(sr),
			arbitrageDI.GetReporter(sr),
			scannerCfg,
			log,
		)
		if err != nil {
			panic("failed to create scanner: " + err.Error())
		}
		return scanner
	})

	return nil
}

// Startup logs module readiness. The scan loop itself is driven from
// main so shutdown ordering stays explicit.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	mono.Logger().Info(ctx, "arbitrage module started",
		"interval", mono.Config().Scanner.Interval.String(),
		"min_profit_percent", mono.Config().Scanner.MinProfitPercent,
	)
	return nil
}
