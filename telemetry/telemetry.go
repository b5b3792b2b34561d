// Package telemetry wires the OpenTelemetry SDK and the slog logger the
// server writes to.
//
// With telemetry disabled the tracer and meter are no-ops and logs go to a
// text handler. Enabled, traces, metrics and logs are exported over OTLP/gRPC
// and slog records travel through the otelslog bridge.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

var ErrInvalidEndpoint = errors.New("invalid OTLP endpoint")

// ScopeName is the instrumentation scope used for tracer, meter and logger.
const ScopeName = "github.com/freekieb7/minihttp"

type Config struct {
	Enabled     bool
	ServiceName string
	Endpoint    string
	Insecure    bool

	Level slog.Level

	// Output receives log lines while telemetry is disabled.
	Output io.Writer
}

type Telemetry struct {
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	Logger         *slog.Logger

	shutdownFuncs []func(context.Context) error
}

func (t *Telemetry) Tracer() trace.Tracer {
	return t.TracerProvider.Tracer(ScopeName)
}

func (t *Telemetry) Meter() metric.Meter {
	return t.MeterProvider.Meter(ScopeName)
}

// Setup builds the providers described by cfg and installs them as globals.
func Setup(ctx context.Context, cfg Config) (*Telemetry, error) {
	if !cfg.Enabled {
		return setupDisabled(cfg), nil
	}

	t := &Telemetry{}

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(attribute.String("service.name", cfg.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: building resource: %w", err)
	}

	endpoint, err := resolveEndpoint(cfg.Endpoint, cfg.Insecure)
	if err != nil {
		return nil, err
	}

	traceOpts := []otlptracegrpc.Option{}
	metricOpts := []otlpmetricgrpc.Option{}
	logOpts := []otlploggrpc.Option{}
	switch {
	case endpoint.URL != "":
		// The scheme decides between TLS and plaintext.
		traceOpts = append(traceOpts, otlptracegrpc.WithEndpointURL(endpoint.URL))
		metricOpts = append(metricOpts, otlpmetricgrpc.WithEndpointURL(endpoint.URL))
		logOpts = append(logOpts, otlploggrpc.WithEndpointURL(endpoint.URL))
	case endpoint.HostPort != "":
		traceOpts = append(traceOpts, otlptracegrpc.WithEndpoint(endpoint.HostPort))
		metricOpts = append(metricOpts, otlpmetricgrpc.WithEndpoint(endpoint.HostPort))
		logOpts = append(logOpts, otlploggrpc.WithEndpoint(endpoint.HostPort))
		if endpoint.Insecure {
			traceOpts = append(traceOpts, otlptracegrpc.WithInsecure())
			metricOpts = append(metricOpts, otlpmetricgrpc.WithInsecure())
			logOpts = append(logOpts, otlploggrpc.WithInsecure())
		}
	}

	traceExporter, err := otlptracegrpc.New(ctx, traceOpts...)
	if err != nil {
		return nil, fmt.Errorf("telemetry: creating trace exporter: %w", err)
	}
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	t.shutdownFuncs = append(t.shutdownFuncs, tracerProvider.Shutdown)

	metricExporter, err := otlpmetricgrpc.New(ctx, metricOpts...)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("telemetry: creating metric exporter: %w", err), t.Shutdown(ctx))
	}
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	t.shutdownFuncs = append(t.shutdownFuncs, meterProvider.Shutdown)

	logExporter, err := otlploggrpc.New(ctx, logOpts...)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("telemetry: creating log exporter: %w", err), t.Shutdown(ctx))
	}
	loggerProvider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		sdklog.WithResource(res),
	)
	t.shutdownFuncs = append(t.shutdownFuncs, loggerProvider.Shutdown)

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	global.SetLoggerProvider(loggerProvider)

	t.TracerProvider = tracerProvider
	t.MeterProvider = meterProvider
	t.Logger = slog.New(&levelHandler{
		level:   cfg.Level,
		Handler: otelslog.NewHandler(ScopeName, otelslog.WithLoggerProvider(loggerProvider)),
	})

	return t, nil
}

func setupDisabled(cfg Config) *Telemetry {
	out := cfg.Output
	if out == nil {
		out = io.Discard
	}

	return &Telemetry{
		TracerProvider: tracenoop.NewTracerProvider(),
		MeterProvider:  metricnoop.NewMeterProvider(),
		Logger:         slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.Level})),
	}
}

// exporterEndpoint is where the OTLP exporters send data. With both fields
// empty the exporters fall back to the OTEL_EXPORTER_OTLP_* variables.
type exporterEndpoint struct {
	URL      string
	HostPort string
	Insecure bool
}

// resolveEndpoint accepts either a URL ("http://collector:4317") or a bare
// "host:port". For URLs an http scheme means plaintext.
func resolveEndpoint(endpoint string, insecure bool) (exporterEndpoint, error) {
	if endpoint == "" {
		return exporterEndpoint{}, nil
	}

	if !strings.Contains(endpoint, "://") {
		return exporterEndpoint{HostPort: endpoint, Insecure: insecure}, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return exporterEndpoint{}, fmt.Errorf("telemetry: parsing endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return exporterEndpoint{}, fmt.Errorf("telemetry: %w: %q", ErrInvalidEndpoint, endpoint)
	}

	return exporterEndpoint{URL: endpoint, Insecure: u.Scheme == "http"}, nil
}

// Shutdown flushes and stops every provider, newest first.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var err error
	for i := len(t.shutdownFuncs) - 1; i >= 0; i-- {
		err = errors.Join(err, t.shutdownFuncs[i](ctx))
	}
	t.shutdownFuncs = nil
	return err
}

// levelHandler drops records below level before they reach the bridge.
type levelHandler struct {
	slog.Handler
	level slog.Level
}

func (h *levelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level && h.Handler.Enabled(ctx, level)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{Handler: h.Handler.WithAttrs(attrs), level: h.level}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{Handler: h.Handler.WithGroup(name), level: h.level}
}
