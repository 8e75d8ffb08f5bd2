// Package telemetry wraps the orchestrator's state transitions and FX
// fetches with otel spans, grounded in the teacher's HybridCircuitBreaker
// tracing (src/storage/circuit_breaker_hybrid.go): a package-level Tracer
// plus a span per unit of work, with attributes recording the outcome.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/tellimer/econify")

// StartState opens a span for one orchestrator state transition.
func StartState(ctx context.Context, runID, state string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "orchestrator."+state)
	span.SetAttributes(attribute.String("econify.run_id", runID))
	return ctx, span
}

// StartFXFetch opens a span around a single FX rate resolution.
func StartFXFetch(ctx context.Context, base string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "fxsource.resolve")
	span.SetAttributes(attribute.String("econify.fx.base", base))
	return ctx, span
}

// RecordOutcome annotates span with whether the traced operation
// succeeded, recording err on the span when it didn't.
func RecordOutcome(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("econify.outcome", "error"))
		return
	}
	span.SetAttributes(attribute.String("econify.outcome", "success"))
}
