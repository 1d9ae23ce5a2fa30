package indexer

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/deeparb/deeparb/internal/apperror"
	"github.com/deeparb/deeparb/internal/circuitbreaker"
	"github.com/deeparb/deeparb/internal/httpclient"
	"github.com/deeparb/deeparb/internal/logger"
	"github.com/deeparb/deeparb/internal/ratelimit"
)

const (
	tracerName = "github.com/deeparb/deeparb/business/marketdata/infra/indexer"

	depthEndpoint = "/orderbook"
	httpTimeout   = 10 * time.Second
)

// HTTPClientConfig holds configuration for the indexer REST client.
type HTTPClientConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
}

// HTTPClient fetches order-book snapshots from the indexer REST API.
// Requests go through a rate limiter and a circuit breaker so one
// misbehaving indexer cannot stall or flood the scanner.
type HTTPClient struct {
	client  *httpclient.Client
	limiter *ratelimit.Limiter
	breaker *circuitbreaker.CircuitBreaker[*depthResponse]
	logger  logger.LoggerInterface
	tracer  trace.Tracer
}

// NewHTTPClient creates an indexer REST client.
func NewHTTPClient(cfg HTTPClientConfig, log logger.LoggerInterface) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, apperror.Configuration("indexer base url not configured")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = httpTimeout
	}
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 300
	}

	client, err := httpclient.New(
		httpclient.WithProviderName("indexer"),
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithTimeout(timeout),
	)
	if err != nil {
		return nil, err
	}

	breakerCfg := circuitbreaker.DefaultConfig("indexer-http")
	breakerCfg.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Warn(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}

	return &HTTPClient{
		client:  client,
		limiter: ratelimit.PerMinute(rpm),
		breaker: circuitbreaker.New[*depthResponse](breakerCfg),
		logger:  log,
		tracer:  otel.Tracer(tracerName),
	}, nil
}

// GetDepth fetches a depth snapshot for one pool.
func (c *HTTPClient) GetDepth(ctx context.Context, poolKey string, levels int) (*depthResponse, error) {
	ctx, span := c.tracer.Start(ctx, "indexer.http.get_depth",
		trace.WithAttributes(
			attribute.String("pool", poolKey),
			attribute.Int("levels", levels),
		),
	)
	defer span.End()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperror.New(apperror.CodeRateLimitExceeded, apperror.WithCause(err))
	}

	result, err := c.breaker.Execute(func() (*depthResponse, error) {
		var out depthResponse
		query := url.Values{}
		query.Set("level", "2")
		query.Set("depth", strconv.Itoa(levels))
		if err := c.client.GetJSON(ctx, depthEndpoint+"/"+poolKey, query, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		span.RecordError(err)
		if apperror.HasCode(err, apperror.CodeCircuitOpen) {
			return nil, err
		}
		return nil, apperror.New(apperror.CodeOrderBookFetchFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("depth snapshot for %s", poolKey)))
	}

	span.SetAttributes(
		attribute.Int("bids", len(result.Bids)),
		attribute.Int("asks", len(result.Asks)),
	)
	c.logger.Debug(ctx, "fetched depth snapshot",
		"pool", poolKey, "bids", len(result.Bids), "asks", len(result.Asks))
	return result, nil
}
