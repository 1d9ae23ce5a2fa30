// Package indexer provides order-book snapshots from the venue's
// indexer, streaming over WebSocket with a REST fallback.
package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/deeparb/deeparb/business/marketdata/app"
	"github.com/deeparb/deeparb/business/marketdata/domain"
	"github.com/deeparb/deeparb/internal/apperror"
	"github.com/deeparb/deeparb/internal/logger"
	"github.com/deeparb/deeparb/internal/wsconn"
)

var _ app.BookProvider = (*Provider)(nil)

// ProviderConfig holds configuration for the indexer provider.
type ProviderConfig struct {
	HTTPURL           string
	WSURL             string        // empty disables the stream
	Pools             []string      // pool keys to keep warm
	SnapshotDepth     int           // levels per side
	StaleTimeout      time.Duration // cached book age before REST refetch
	RequestsPerMinute int           // REST budget; 0 uses the client default
}

// DefaultProviderConfig returns sensible defaults.
func DefaultProviderConfig(httpURL string, pools []string) ProviderConfig {
	return ProviderConfig{
		HTTPURL:       httpURL,
		Pools:         pools,
		SnapshotDepth: 20,
		StaleTimeout:  5 * time.Second,
	}
}

// bookState caches the latest book for one pool.
type bookState struct {
	bids       []domain.Level
	asks       []domain.Level
	lastUpdate time.Time
	mu         sync.RWMutex
}

// Provider keeps one cached book per configured pool, fed by the
// WebSocket stream and refreshed over REST whenever the cache is
// stale or empty.
type Provider struct {
	config ProviderConfig
	logger logger.LoggerInterface
	http   *HTTPClient
	stream *wsconn.Client

	books   map[string]*bookState
	booksMu sync.RWMutex

	tracer trace.Tracer
}

// NewProvider creates an indexer book provider.
func NewProvider(cfg ProviderConfig, log logger.LoggerInterface) (*Provider, error) {
	if cfg.SnapshotDepth <= 0 {
		cfg.SnapshotDepth = 20
	}
	if cfg.StaleTimeout <= 0 {
		cfg.StaleTimeout = 5 * time.Second
	}

	httpClient, err := NewHTTPClient(HTTPClientConfig{
		BaseURL:           cfg.HTTPURL,
		RequestsPerMinute: cfg.RequestsPerMinute,
	}, log)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		config: cfg,
		logger: log,
		http:   httpClient,
		books:  make(map[string]*bookState),
		tracer: otel.Tracer(tracerName),
	}
	for _, key := range cfg.Pools {
		p.books[key] = &bookState{}
	}

	if cfg.WSURL != "" {
		p.stream = wsconn.New(wsconn.DefaultConfig(cfg.WSURL))
	}
	return p, nil
}

// Connect starts the WebSocket stream and subscribes to the
// configured pools. Without a stream URL this is a no-op; books are
// then served purely over REST.
func (p *Provider) Connect(ctx context.Context) error {
	if p.stream == nil {
		return nil
	}
	if err := p.stream.Connect(ctx); err != nil {
		return err
	}

	for _, key := range p.config.Pools {
		sub, err := json.Marshal(map[string]string{"method": "subscribe", "pool": key})
		if err != nil {
			return err
		}
		if err := p.stream.Send(ctx, sub); err != nil {
			return err
		}
	}

	go p.consumeStream(ctx)
	return nil
}

// Close shuts down the stream.
func (p *Provider) Close() error {
	if p.stream == nil {
		return nil
	}
	return p.stream.Close()
}

// GetBook returns the current book for a pool, hitting the REST
// endpoint when the cached copy is stale or missing.
func (p *Provider) GetBook(ctx context.Context, poolKey string) (*domain.Book, error) {
	ctx, span := p.tracer.Start(ctx, "indexer.get_book",
		trace.WithAttributes(attribute.String("pool", poolKey)),
	)
	defer span.End()

	state := p.state(poolKey)

	state.mu.RLock()
	stale := time.Since(state.lastUpdate) > p.config.StaleTimeout
	empty := len(state.bids) == 0 && len(state.asks) == 0
	state.mu.RUnlock()

	if stale || empty {
		span.SetAttributes(attribute.Bool("rest_refresh", true))
		if err := p.refreshViaHTTP(ctx, poolKey, state); err != nil {
			return nil, err
		}
	}

	state.mu.RLock()
	defer state.mu.RUnlock()

	book := &domain.Book{
		PoolKey:   poolKey,
		Bids:      make([]domain.Level, len(state.bids)),
		Asks:      make([]domain.Level, len(state.asks)),
		Timestamp: state.lastUpdate,
	}
	copy(book.Bids, state.bids)
	copy(book.Asks, state.asks)

	span.SetAttributes(
		attribute.Int("bids", len(book.Bids)),
		attribute.Int("asks", len(book.Asks)),
	)
	return book, nil
}

func (p *Provider) refreshViaHTTP(ctx context.Context, poolKey string, state *bookState) error {
	depth, err := p.http.GetDepth(ctx, poolKey, p.config.SnapshotDepth)
	if err != nil {
		return err
	}

	bids, err := parseLevels(depth.Bids)
	if err != nil {
		return apperror.New(apperror.CodeInvalidOrderBook,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("bid levels for %s", poolKey)))
	}
	asks, err := parseLevels(depth.Asks)
	if err != nil {
		return apperror.New(apperror.CodeInvalidOrderBook,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("ask levels for %s", poolKey)))
	}

	state.mu.Lock()
	state.bids = bids
	state.asks = asks
	state.lastUpdate = time.Now()
	state.mu.Unlock()

	p.logger.Debug(ctx, "book refreshed via rest",
		"pool", poolKey, "bids", len(bids), "asks", len(asks))
	return nil
}

// consumeStream applies stream frames to the cache. Frames replace
// the whole book; the indexer sends complete snapshots per update.
func (p *Provider) consumeStream(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-p.stream.Messages():
			if !ok {
				return
			}
			p.applyFrame(ctx, raw)
		}
	}
}

func (p *Provider) applyFrame(ctx context.Context, raw []byte) {
	var event bookEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		p.logger.Debug(ctx, "discarding malformed stream frame", "error", err)
		return
	}
	if event.PoolKey == "" {
		return
	}

	p.booksMu.RLock()
	state, ok := p.books[event.PoolKey]
	p.booksMu.RUnlock()
	if !ok {
		p.logger.Debug(ctx, "stream frame for unknown pool", "pool", event.PoolKey)
		return
	}

	bids, err := parseLevels(event.Bids)
	if err != nil {
		p.logger.Debug(ctx, "bad bid levels in stream frame", "pool", event.PoolKey, "error", err)
		return
	}
	asks, err := parseLevels(event.Asks)
	if err != nil {
		p.logger.Debug(ctx, "bad ask levels in stream frame", "pool", event.PoolKey, "error", err)
		return
	}

	state.mu.Lock()
	state.bids = bids
	state.asks = asks
	state.lastUpdate = time.Now()
	state.mu.Unlock()
}

func (p *Provider) state(poolKey string) *bookState {
	p.booksMu.RLock()
	state, ok := p.books[poolKey]
	p.booksMu.RUnlock()
	if ok {
		return state
	}

	p.booksMu.Lock()
	defer p.booksMu.Unlock()
	if state, ok = p.books[poolKey]; ok {
		return state
	}
	state = &bookState{}
	p.books[poolKey] = state
	return state
}
