// Package observability provides tracing for typeinfer
package observability

import (
	"context"
	"io"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/ajitpratap0/typeinfer"

var (
	// Global tracer instance; nil until Initialize succeeds
	tracer trace.Tracer
	mu     sync.RWMutex
)

// TracingConfig contains tracing configuration
type TracingConfig struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	Environment    string
	SamplingRate   float64
	// Writer receives exported spans; nil means stderr
	Writer       io.Writer
	PrettyPrint  bool
	BatchTimeout time.Duration
}

// DefaultConfig returns a default tracing configuration
func DefaultConfig() TracingConfig {
	return TracingConfig{
		ServiceName:    "typeinfer",
		ServiceVersion: "dev",
		Environment:    getEnv("ENVIRONMENT", "development"),
		SamplingRate:   1.0,
		PrettyPrint:    true,
		BatchTimeout:   5 * time.Second,
	}
}

// Initialize sets up the global tracer provider. A disabled config leaves the
// otel no-op provider in place.
func Initialize(config TracingConfig) error {
	if !config.Enabled {
		return nil
	}
	return initTracing(config)
}

// Tracer returns the configured tracer, falling back to the global provider.
func Tracer() trace.Tracer {
	mu.RLock()
	defer mu.RUnlock()
	if tracer != nil {
		return tracer
	}
	return otel.Tracer(instrumentationName)
}

// Span wraps an otel span with the helpers the engine needs
type Span struct {
	span      trace.Span
	startTime time.Time
}

// StartSpan starts a span named operationName under ctx.
func StartSpan(ctx context.Context, operationName string, attrs ...attribute.KeyValue) (context.Context, *Span) {
	ctx, span := Tracer().Start(ctx, operationName, trace.WithAttributes(attrs...))
	return ctx, &Span{span: span, startTime: time.Now()}
}

// SetAttribute adds an attribute to the span
func (s *Span) SetAttribute(key string, value interface{}) {
	var attr attribute.KeyValue
	switch v := value.(type) {
	case string:
		attr = attribute.String(key, v)
	case int:
		attr = attribute.Int(key, v)
	case int64:
		attr = attribute.Int64(key, v)
	case float64:
		attr = attribute.Float64(key, v)
	case bool:
		attr = attribute.Bool(key, v)
	default:
		return
	}
	s.span.SetAttributes(attr)
}

// AddEvent adds an event to the span
func (s *Span) AddEvent(name string, attrs ...attribute.KeyValue) {
	s.span.AddEvent(name, trace.WithAttributes(attrs...))
}

// RecordError marks the span failed. A nil error is ignored.
func (s *Span) RecordError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// End ends the span and records its duration
func (s *Span) End() {
	s.span.SetAttributes(attribute.Int64("duration_ms", time.Since(s.startTime).Milliseconds()))
	s.span.End()
}
