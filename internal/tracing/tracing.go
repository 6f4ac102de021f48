// Package tracing instruments editor.Update and router.Route with
// OpenTelemetry spans when --debug or the tracing_enabled config key is set
// (SPEC_FULL.md §2.12), grounded on the teacher's
// internal/orchestration/tracing/tracer.go. Unlike the teacher's provider,
// which can also export OTLP, scrawl's go.mod carries only the stdout
// exporter (github.com/golang-migrate/migrate and the OTLP gRPC exporter
// the teacher additionally imports aren't part of this dependency set — see
// DESIGN.md), so spans go to stdout when enabled and nowhere otherwise.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const serviceName = "scrawl"

// Provider wraps the configured tracer provider, or a no-op one when
// tracing is disabled so instrumented call sites pay zero overhead.
type Provider struct {
	sdkProvider *sdktrace.TracerProvider
	tracer      trace.Tracer
	enabled     bool
}

// NewProvider builds a Provider. When enabled is false, a no-op tracer
// provider is returned; every span Start call becomes a no-op.
func NewProvider(enabled bool) (*Provider, error) {
	if !enabled {
		np := noop.NewTracerProvider()
		return &Provider{tracer: np.Tracer(serviceName), enabled: false}, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("creating stdout trace exporter: %w", err)
	}

	res := resource.NewSchemaless(attribute.String("service.name", serviceName))
	sp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(sp)

	return &Provider{
		sdkProvider: sp,
		tracer:      sp.Tracer(serviceName),
		enabled:     true,
	}, nil
}

// Tracer returns the tracer used to start spans for editor and router
// operations.
func (p *Provider) Tracer() trace.Tracer { return p.tracer }

// Enabled reports whether this provider is exporting real spans.
func (p *Provider) Enabled() bool { return p.enabled }

// Shutdown flushes and releases the underlying provider, if any.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.sdkProvider == nil {
		return nil
	}
	return p.sdkProvider.Shutdown(ctx)
}

// StartEventSpan starts the span wrapping one editor.Update call.
func (p *Provider) StartEventSpan(ctx context.Context, kind string) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, "scrawl.editor.handle_event", trace.WithAttributes(
		attribute.String("event.kind", kind),
	))
}

// StartRouteSpan starts the span wrapping one router.Route call, recording
// the resulting path length once the caller ends the span.
func (p *Provider) StartRouteSpan(ctx context.Context) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, "scrawl.router.route")
}

// SetRouteLength annotates span with the computed route length.
func SetRouteLength(span trace.Span, length int) {
	span.SetAttributes(attribute.Int("route.length", length))
}
