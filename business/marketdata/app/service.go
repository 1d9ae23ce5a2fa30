package app

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/deeparb/deeparb/business/marketdata/domain"
	"github.com/deeparb/deeparb/internal/logger"
)

const tracerName = "github.com/deeparb/deeparb/business/marketdata/app"

// MarketDataService serves validated books and depth-weighted
// execution prices.
type MarketDataService struct {
	provider BookProvider
	logger   logger.LoggerInterface
	tracer   trace.Tracer
}

// NewMarketDataService creates a MarketDataService.
func NewMarketDataService(provider BookProvider, log logger.LoggerInterface) *MarketDataService {
	return &MarketDataService{
		provider: provider,
		logger:   log,
		tracer:   otel.Tracer(tracerName),
	}
}

// GetBook fetches and validates a pool's book.
func (s *MarketDataService) GetBook(ctx context.Context, poolKey string) (*domain.Book, error) {
	ctx, span := s.tracer.Start(ctx, "marketdata.get_book",
		trace.WithAttributes(attribute.String("pool", poolKey)),
	)
	defer span.End()

	book, err := s.provider.GetBook(ctx, poolKey)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := book.Validate(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return book, nil
}

// BuyPrice returns the depth-weighted price for buying size base
// units against the asks.
func (s *MarketDataService) BuyPrice(ctx context.Context, poolKey string, size decimal.Decimal) (decimal.Decimal, error) {
	book, err := s.GetBook(ctx, poolKey)
	if err != nil {
		return decimal.Zero, err
	}
	return domain.EvaluateDepth(book.Asks, size)
}

// SellPrice returns the depth-weighted price for selling size base
// units into the bids.
func (s *MarketDataService) SellPrice(ctx context.Context, poolKey string, size decimal.Decimal) (decimal.Decimal, error) {
	book, err := s.GetBook(ctx, poolKey)
	if err != nil {
		return decimal.Zero, err
	}
	return domain.EvaluateDepth(book.Bids, size)
}
