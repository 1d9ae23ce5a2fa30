// Package di contains dependency injection tokens for the marketdata context.
package di

import (
	"github.com/deeparb/deeparb/business/marketdata/app"
	"github.com/deeparb/deeparb/internal/di"
)

// Public service tokens - exposed to other modules
var (
	MarketDataService = di.NewToken[*app.MarketDataService]("marketdata.MarketDataService")
)

// Private dependency tokens - internal to marketdata module
var (
	BookProvider = di.NewToken[app.BookProvider]("marketdata:bookProvider")
)

// Helper functions for type-safe access
func GetMarketDataService(c di.ServiceRegistry) *app.MarketDataService {
	return di.GetToken(c, MarketDataService)
}

func GetBookProvider(c di.ServiceRegistry) app.BookProvider {
	return di.GetToken(c, BookProvider)
}
