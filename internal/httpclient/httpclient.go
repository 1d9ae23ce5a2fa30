// Package httpclient provides an instrumented HTTP client with OTEL
// tracing and a per-provider request counter.
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/deeparb/deeparb/internal/apperror"
)

const (
	defaultTimeout         = 10 * time.Second
	defaultMaxConnsPerHost = 5
	defaultIdleConnTimeout = 2 * time.Minute
)

// ErrorHandler turns a non-2xx response into a typed error. A nil
// return falls back to the generic external-service error.
type ErrorHandler func(statusCode int, body []byte) error

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the base URL prepended to request paths.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithProviderName names the upstream for metrics and traces.
func WithProviderName(name string) Option {
	return func(c *Client) { c.provider = name }
}

// WithHeaders sets default headers for all requests.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) { c.headers = headers }
}

// WithErrorHandler sets the response error handler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *Client) { c.errorHandler = h }
}

// Client wraps http.Client with an otelhttp-instrumented transport.
type Client struct {
	http         *http.Client
	baseURL      string
	timeout      time.Duration
	provider     string
	headers      map[string]string
	errorHandler ErrorHandler
	requests     metric.Int64Counter
}

// New creates an instrumented client.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		timeout:  defaultTimeout,
		provider: "default",
	}
	for _, o := range opts {
		o(c)
	}

	transport := otelhttp.NewTransport(
		&http.Transport{
			DialContext:     (&net.Dialer{KeepAlive: 10 * time.Second}).DialContext,
			MaxConnsPerHost: defaultMaxConnsPerHost,
			IdleConnTimeout: defaultIdleConnTimeout,
		},
		otelhttp.WithClientTrace(func(ctx context.Context) *httptrace.ClientTrace {
			return otelhttptrace.NewClientTrace(ctx)
		}),
	)
	c.http = &http.Client{Timeout: c.timeout, Transport: transport}

	meter := otel.GetMeterProvider().Meter("deeparb_http_client")
	requests, err := meter.Int64Counter("http_client_requests_total",
		metric.WithDescription("Total number of HTTP requests"))
	if err != nil {
		return nil, err
	}
	c.requests = requests

	return c, nil
}

// GetJSON issues a GET against path with the given query parameters
// and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return apperror.New(apperror.CodeInvalidInput, apperror.WithCause(err))
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	c.count(ctx, path, err)
	if err != nil {
		return apperror.New(apperror.CodeExternalServiceError,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("%s GET %s", c.provider, path)))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperror.New(apperror.CodeExternalServiceError, apperror.WithCause(err))
	}

	if resp.StatusCode >= 400 {
		if c.errorHandler != nil {
			if handled := c.errorHandler(resp.StatusCode, body); handled != nil {
				return handled
			}
		}
		return apperror.New(apperror.CodeExternalServiceError,
			apperror.WithContext(fmt.Sprintf("%s HTTP %d: %s", c.provider, resp.StatusCode, truncate(body, 256))))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperror.New(apperror.CodeInvalidFormat,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("decoding %s response", c.provider)))
	}
	return nil
}

func (c *Client) count(ctx context.Context, path string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", c.provider),
		attribute.String("path", path),
		attribute.String("outcome", outcome),
	))
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
