package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/deeparb/deeparb/business/arbitrage/domain"
	mdDomain "github.com/deeparb/deeparb/business/marketdata/domain"
	"github.com/deeparb/deeparb/internal/apperror"
	"github.com/deeparb/deeparb/internal/asset"
	"github.com/deeparb/deeparb/internal/logger"
)

const (
	tracerName = "github.com/deeparb/deeparb/business/arbitrage/app"
	meterName  = "github.com/deeparb/deeparb/business/arbitrage/app"
)

// ScannerConfig holds scan parameters.
type ScannerConfig struct {
	BorrowAmount     decimal.Decimal // shared-asset size per probe
	MinProfitPercent decimal.Decimal // emit threshold
	MaxConcurrency   int             // parallel book fetches
	FetchTimeout     time.Duration   // per-pool fetch budget
	Fees             domain.FeeSchedule
}

// DefaultScannerConfig returns the reference scan parameters: a 0.1%
// profit floor to absorb execution overhead.
func DefaultScannerConfig() ScannerConfig {
	return ScannerConfig{
		BorrowAmount:     decimal.NewFromInt(100),
		MinProfitPercent: decimal.RequireFromString("0.1"),
		MaxConcurrency:   8,
		FetchTimeout:     5 * time.Second,
		Fees:             domain.DefaultFeeSchedule(),
	}
}

// scannerMetrics holds OTEL metric instruments.
type scannerMetrics struct {
	scanDuration  metric.Float64Histogram
	opportunities metric.Int64Counter
	booksFetched  metric.Int64Counter
	fetchFailures metric.Int64Counter
}

// Scanner probes every ordered pool pair for a profitable round trip.
// Book fetches fan out with bounded concurrency; a pool whose fetch
// fails or times out drops out of the pass without aborting it.
type Scanner struct {
	registry *asset.Registry
	books    BookSource
	reporter Reporter
	config   ScannerConfig
	logger   logger.LoggerInterface

	tracer  trace.Tracer
	metrics *scannerMetrics
}

// NewScanner creates a Scanner.
func NewScanner(registry *asset.Registry, books BookSource, reporter Reporter, cfg ScannerConfig, log logger.LoggerInterface) (*Scanner, error) {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 8
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 5 * time.Second
	}

	s := &Scanner{
		registry: registry,
		books:    books,
		reporter: reporter,
		config:   cfg,
		logger:   log,
		tracer:   otel.Tracer(tracerName),
	}
	if err := s.initMetrics(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scanner) initMetrics() error {
	meter := otel.Meter(meterName)
	s.metrics = &scannerMetrics{}

	var err error
	s.metrics.scanDuration, err = meter.Float64Histogram(
		"arb_scan_duration_ms",
		metric.WithDescription("Duration of a full scan pass"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}
	s.metrics.opportunities, err = meter.Int64Counter(
		"arb_opportunities_total",
		metric.WithDescription("Opportunities above the profit threshold"),
	)
	if err != nil {
		return err
	}
	s.metrics.booksFetched, err = meter.Int64Counter(
		"arb_books_fetched_total",
		metric.WithDescription("Order books fetched during scans"),
	)
	if err != nil {
		return err
	}
	s.metrics.fetchFailures, err = meter.Int64Counter(
		"arb_book_fetch_failures_total",
		metric.WithDescription("Order book fetches that failed or timed out"),
	)
	return err
}

// Run scans on a fixed interval until the context is cancelled.
func (s *Scanner) Run(ctx context.Context, interval time.Duration) error {
	if err := s.reporter.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := s.reporter.Stop(); err != nil {
			s.logger.Warn(ctx, "reporter stop failed", "error", err)
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.Scan(ctx); err != nil {
			s.logger.Error(ctx, "scan pass failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Scan performs one pass: fetch all books, probe every ordered pool
// pair, rank what clears the threshold and hand it to the reporter.
func (s *Scanner) Scan(ctx context.Context) ([]domain.Opportunity, error) {
	ctx, span := s.tracer.Start(ctx, "arbitrage.scan")
	defer span.End()
	start := time.Now()

	pools := s.registry.Pools()
	books := s.fetchBooks(ctx, pools)

	opportunities := make([]domain.Opportunity, 0)
	for _, borrowPool := range pools {
		for _, swapPool := range pools {
			if borrowPool.Key() == swapPool.Key() {
				continue
			}
			opp, ok := s.probePair(ctx, borrowPool, swapPool, books)
			if ok {
				opportunities = append(opportunities, opp)
			}
		}
	}

	sort.Slice(opportunities, func(i, j int) bool {
		return opportunities[i].ProfitPercent.GreaterThan(opportunities[j].ProfitPercent)
	})
	for i := range opportunities {
		s.reporter.Report(&opportunities[i])
	}

	elapsed := time.Since(start)
	s.metrics.scanDuration.Record(ctx, float64(elapsed.Milliseconds()))
	s.metrics.opportunities.Add(ctx, int64(len(opportunities)))
	span.SetAttributes(
		attribute.Int("pools", len(pools)),
		attribute.Int("opportunities", len(opportunities)),
	)
	s.logger.Info(ctx, "scan pass complete",
		"pools", len(pools),
		"books", len(books),
		"opportunities", len(opportunities),
		"elapsed_ms", elapsed.Milliseconds(),
	)
	return opportunities, nil
}

// fetchBooks fans one fetch per pool out through a bounded errgroup.
// Failures are recorded and the pool is left out of the result; the
// group never returns an error.
func (s *Scanner) fetchBooks(ctx context.Context, pools []*asset.Pool) map[string]*mdDomain.Book {
	books := make(map[string]*mdDomain.Book, len(pools))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.MaxConcurrency)

	for _, pool := range pools {
		key := pool.Key()
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(gctx, s.config.FetchTimeout)
			defer cancel()

			book, err := s.books.GetBook(fetchCtx, key)
			if err != nil {
				s.metrics.fetchFailures.Add(gctx, 1)
				s.logger.Warn(gctx, "book fetch failed, excluding pool from pass", "pool", key, "error", err)
				return nil
			}
			s.metrics.booksFetched.Add(gctx, 1)

			mu.Lock()
			books[key] = book
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return books
}

// probePair evaluates one ordered pair: borrow the shared asset on
// borrowPool, convert it on swapPool's book, convert the proceeds
// back on borrowPool's book, and net out the fees.
func (s *Scanner) probePair(ctx context.Context, borrowPool, swapPool *asset.Pool, books map[string]*mdDomain.Book) (domain.Opportunity, bool) {
	borrowBook, ok := books[borrowPool.Key()]
	if !ok {
		return domain.Opportunity{}, false
	}
	swapBook, ok := books[swapPool.Key()]
	if !ok {
		return domain.Opportunity{}, false
	}

	shared, borrowSide, ok := sharedAsset(borrowPool, swapPool)
	if !ok {
		return domain.Opportunity{}, false
	}
	received := swapPool.AssetBySide(otherSide(mustSideOf(swapPool, shared)))
	returnSide, ok := borrowPool.SideOf(received)
	if !ok {
		// The swap pool pays out an asset the borrow pool cannot take
		// back; no closed loop exists for this pair.
		return domain.Opportunity{}, false
	}

	borrowAmount := s.config.BorrowAmount

	proceeds, err := convertOnBook(swapBook, mustSideOf(swapPool, shared), borrowAmount)
	if err != nil {
		s.skipLeg(ctx, borrowPool, swapPool, "outbound", err)
		return domain.Opportunity{}, false
	}
	finalAmount, err := convertOnBook(borrowBook, returnSide, proceeds)
	if err != nil {
		s.skipLeg(ctx, borrowPool, swapPool, "return", err)
		return domain.Opportunity{}, false
	}

	net := domain.RoundTripProfit(finalAmount, borrowAmount,
		s.config.Fees.For(swapPool.Key()), s.config.Fees.For(borrowPool.Key()))
	pct := domain.ProfitPercent(net, borrowAmount)
	if !pct.GreaterThan(s.config.MinProfitPercent) {
		return domain.Opportunity{}, false
	}

	return domain.Opportunity{
		Path:            []string{shared.Symbol(), received.Symbol(), shared.Symbol()},
		BorrowPool:      borrowPool.Key(),
		BorrowAsset:     shared.Symbol(),
		BorrowSide:      borrowSide,
		SwapPool:        swapPool.Key(),
		BorrowAmount:    borrowAmount,
		EstimatedReturn: finalAmount,
		EstimatedProfit: net,
		ProfitPercent:   pct,
		Timestamp:       time.Now(),
	}, true
}

func (s *Scanner) skipLeg(ctx context.Context, borrowPool, swapPool *asset.Pool, leg string, err error) {
	if apperror.HasCode(err, apperror.CodeInsufficientLiquidity) {
		// Absence of depth is absence of an opportunity, not a fault.
		return
	}
	s.logger.Warn(ctx, "pair skipped",
		"borrow_pool", borrowPool.Key(), "swap_pool", swapPool.Key(), "leg", leg, "error", err)
}

// convertOnBook prices converting `amount` of the asset sitting on
// `side` into the pool's other asset. Selling the base crosses the
// bids at their weighted price; spending the quote buys base off the
// asks at the inverse.
func convertOnBook(book *mdDomain.Book, side asset.Side, amount decimal.Decimal) (decimal.Decimal, error) {
	if side == asset.SideBase {
		vwap, err := mdDomain.EvaluateDepth(book.Bids, amount)
		if err != nil {
			return decimal.Zero, err
		}
		return amount.Mul(vwap), nil
	}
	vwap, err := mdDomain.EvaluateDepth(book.Asks, amount)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Div(vwap), nil
}

// sharedAsset returns the first of A's base/quote present in B.
func sharedAsset(a, b *asset.Pool) (*asset.Asset, asset.Side, bool) {
	if b.Has(a.Base()) {
		return a.Base(), asset.SideBase, true
	}
	if b.Has(a.Quote()) {
		return a.Quote(), asset.SideQuote, true
	}
	return nil, "", false
}

func mustSideOf(p *asset.Pool, a *asset.Asset) asset.Side {
	side, _ := p.SideOf(a)
	return side
}

func otherSide(s asset.Side) asset.Side {
	if s == asset.SideBase {
		return asset.SideQuote
	}
	return asset.SideBase
}
