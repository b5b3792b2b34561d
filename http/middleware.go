package http

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type Middleware func(next Handler) Handler

// Chain wraps handler so the first middleware is the outermost.
func Chain(handler Handler, middleware ...Middleware) Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		handler = middleware[i](handler)
	}
	return handler
}

// LogPhase brackets every call with "[phase START]" and "[phase END]".
func LogPhase(logger Logger, phase string) Middleware {
	start := "[" + phase + " START]"
	end := "[" + phase + " END]"

	return func(next Handler) Handler {
		return func(ctx context.Context, req Request) Response {
			logger.InfoContext(ctx, start)
			res := next(ctx, req)
			logger.InfoContext(ctx, end)
			return res
		}
	}
}

// Trace runs each request inside a server span.
func Trace(tracer trace.Tracer) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req Request) Response {
			ctx, span := tracer.Start(ctx, "HTTP "+req.Method,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.request.method", req.Method),
					attribute.String("url.path", req.Path),
					attribute.String("network.protocol.version", req.Version),
				),
			)
			defer span.End()

			res := next(ctx, req)

			span.SetAttributes(attribute.Int("http.response.status_code", res.Status))
			if res.Status >= 500 {
				span.SetStatus(codes.Error, strconv.Itoa(res.Status)+" "+StatusText(res.Status))
			}
			return res
		}
	}
}

// Measure counts requests by status and records their handling time.
func Measure(meter metric.Meter) (Middleware, error) {
	requests, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("The number of handled requests by status code"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	duration, err := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("Time spent resolving a request"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	return func(next Handler) Handler {
		return func(ctx context.Context, req Request) Response {
			started := time.Now()
			res := next(ctx, req)

			attrs := metric.WithAttributes(
				attribute.String("http.request.method", req.Method),
				attribute.Int("http.response.status_code", res.Status),
			)
			requests.Add(ctx, 1, attrs)
			duration.Record(ctx, time.Since(started).Seconds(), attrs)
			return res
		}
	}, nil
}
