// Package metrics wires the OpenTelemetry meter provider and the
// Prometheus scrape endpoint.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
)

// MetricProvider owns the meter provider lifecycle.
type MetricProvider interface {
	Meter(name string, options ...metric.MeterOption) metric.Meter
	Shutdown(ctx context.Context) error
}

// Config selects metric readers.
type Config struct {
	ServiceName  string
	Prometheus   bool
	OTLPEndpoint string
	OTLPHeaders  map[string]string
}

// OptionFn mutates the metrics Config.
type OptionFn func(Config) Config

// WithServiceName sets the service.name resource attribute.
func WithServiceName(serviceName string) OptionFn {
	return func(cfg Config) Config {
		cfg.ServiceName = serviceName
		return cfg
	}
}

// WithPrometheus adds a Prometheus pull reader.
func WithPrometheus() OptionFn {
	return func(cfg Config) Config {
		cfg.Prometheus = true
		return cfg
	}
}

// WithOTLP adds a periodic OTLP gRPC push reader.
func WithOTLP(endpoint string, headers map[string]string) OptionFn {
	return func(cfg Config) Config {
		cfg.OTLPEndpoint = endpoint
		cfg.OTLPHeaders = headers
		return cfg
	}
}

func readers(ctx context.Context, cfg Config) ([]sdkmetric.Reader, error) {
	var out []sdkmetric.Reader

	if cfg.Prometheus {
		promExporter, err := prometheus.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		out = append(out, promExporter)
	}

	if cfg.OTLPEndpoint != "" {
		exp, err := otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpointURL(cfg.OTLPEndpoint),
			otlpmetricgrpc.WithHeaders(cfg.OTLPHeaders),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create otlp metric exporter: %w", err)
		}
		out = append(out, sdkmetric.NewPeriodicReader(exp))
	}

	return out, nil
}

// NewMetricProvider builds and installs the global meter provider.
// With no readers configured the provider records nothing but keeps
// all instrument calls valid.
func NewMetricProvider(options ...OptionFn) (MetricProvider, error) {
	ctx := context.Background()

	var cfg Config
	for _, opt := range options {
		cfg = opt(cfg)
	}

	rds, err := readers(ctx, cfg)
	if err != nil {
		return nil, err
	}

	opts := []sdkmetric.Option{
		sdkmetric.WithResource(
			resource.NewSchemaless(semconv.ServiceNameKey.String(cfg.ServiceName)),
		),
	}
	for _, r := range rds {
		opts = append(opts, sdkmetric.WithReader(r))
	}

	meterProvider := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(meterProvider)

	return meterProvider, nil
}

// ServePrometheusMetrics starts the /metrics scrape endpoint and
// returns the server for graceful shutdown.
func ServePrometheusMetrics(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("error serving metrics: %v\n", err)
		}
	}()

	return server
}
