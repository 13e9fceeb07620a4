package app

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/splashseq/internal/sequence"
)

const tracerName = "github.com/agbru/splashseq"

// defaultTracer uses the global provider, a no-op unless the embedding
// program installs one.
func defaultTracer() trace.Tracer {
	return otel.Tracer(tracerName, trace.WithInstrumentationVersion(Version))
}

// runTracer spans one splash run and records every phase change as an
// event on it. It is a sequence.Observer.
type runTracer struct {
	mu    sync.Mutex
	span  trace.Span
	ended bool
}

func startRunTracer(ctx context.Context, tracer trace.Tracer, mode string, generation uint64) *runTracer {
	_, span := tracer.Start(ctx, "splash.run",
		trace.WithAttributes(
			attribute.String("splash.mode", mode),
			attribute.Int64("splash.generation", int64(generation)),
		))
	return &runTracer{span: span}
}

// OnStateChange implements sequence.Observer.
func (r *runTracer) OnStateChange(prev, next sequence.State) {
	if prev.Phase == next.Phase {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ended {
		return
	}
	r.span.AddEvent(next.Phase.String(), trace.WithAttributes(
		attribute.Int64("splash.offset_ms", next.At.Milliseconds()),
		attribute.Int64("splash.version", int64(next.Version)),
	))
	if next.Phase.Terminal() {
		r.span.SetStatus(codes.Ok, "")
		r.endLocked()
	}
}

// End closes the span if the run did not reach the logo. Later calls are
// no-ops.
func (r *runTracer) End() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.ended {
		r.span.SetAttributes(attribute.Bool("splash.interrupted", true))
		r.endLocked()
	}
}

func (r *runTracer) endLocked() {
	r.ended = true
	r.span.End()
}
