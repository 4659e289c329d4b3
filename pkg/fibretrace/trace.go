// Package fibretrace is an OpenTelemetry fibre.TickObserver, built with a
// tracer-name option and an attribute extractor hook, wrapping each
// committed tick in a span and attaching an event per failed fibre.
package fibretrace

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fibretree/fibre"
)

const defaultTracerName = "fibre"

// Config configures the tracing observer.
type Config struct {
	TracerName         string
	AttributeExtractor func(root *fibre.Fibre) []attribute.KeyValue

	tracer trace.Tracer
}

// Option configures a Config.
type Option func(*Config)

func WithTracerName(name string) Option { return func(c *Config) { c.TracerName = name } }
func WithAttributeExtractor(fn func(root *fibre.Fibre) []attribute.KeyValue) Option {
	return func(c *Config) { c.AttributeExtractor = fn }
}

// Observer opens one span per committed tick, named "run_tick", and records
// an event for every fibre left in StatusFailed when the tick settles.
type Observer struct {
	cfg Config
	ctx context.Context
}

// New constructs an Observer. ctx is the base context spans are started
// from — typically context.Background() for a long-running process.
func New(ctx context.Context, opts ...Option) *Observer {
	cfg := Config{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.tracer = otel.Tracer(cfg.TracerName)
	return &Observer{cfg: cfg, ctx: ctx}
}

// OnTickCommitted implements fibre.TickObserver.
func (o *Observer) OnTickCommitted(tick uint64, root *fibre.Fibre) {
	_, span := o.cfg.tracer.Start(o.ctx, "run_tick",
		trace.WithAttributes(attribute.Int64("fibre.tick", int64(tick))))
	defer span.End()

	if o.cfg.AttributeExtractor != nil {
		span.SetAttributes(o.cfg.AttributeExtractor(root)...)
	}

	failures := 0
	fibre.Walk(root, func(f *fibre.Fibre) bool {
		if f.Status() == fibre.StatusFailed {
			failures++
			span.AddEvent("node_failure", trace.WithAttributes(
				attribute.String("fibre.key_path", f.KeyPath().String()),
			))
		}
		return true
	})

	if failures > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d node failure(s)", failures))
		return
	}
	span.SetStatus(codes.Ok, "")
}
