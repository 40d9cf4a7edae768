// Package observability defines the tracing, metrics and structured logging
// interfaces used by the decoders and the CLI.
//
// [Provider] composes [Tracer], [Metrics] and [Logger] into one injectable
// dependency. Callers can hand a Provider to a decoder explicitly or carry it
// on a [context.Context] with [ContextWithObserver]; the active [Span] travels
// the same way through [ContextWithSpan]. Library code treats a missing
// observer as "do not observe".
//
// Attribute keys, span names and metric names live in semconv.go.
package observability
