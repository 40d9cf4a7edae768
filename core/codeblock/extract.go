package codeblock

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/leofalp/chatdecode/core/fragment"
	"github.com/leofalp/chatdecode/core/payload"
	"github.com/leofalp/chatdecode/internal/utils"
	"github.com/leofalp/chatdecode/providers/observability"
)

// Extractor pulls code blocks out of payloads using a Table.
type Extractor struct {
	table    Table
	observer observability.Provider
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTable replaces the rule table. Combine with DefaultTable().Merge to
// keep the built-in types.
func WithTable(table Table) Option {
	return func(e *Extractor) { e.table = table }
}

// WithObserver sets the observability provider. Without it the observer
// carried by the context, if any, is used.
func WithObserver(observer observability.Provider) Option {
	return func(e *Extractor) { e.observer = observer }
}

// New returns an Extractor using DefaultTable unless WithTable is given.
func New(opts ...Option) *Extractor {
	extractor := &Extractor{table: DefaultTable()}
	for _, opt := range opts {
		opt(extractor)
	}
	return extractor
}

// Table returns the extractor's rule table.
func (e *Extractor) Table() Table {
	return e.table
}

// Extract looks for a codeBlockType block in p.
//
// An unknown type returns KindEcho with p untouched, streams included.
// Message and Text inputs return KindExtracted or KindEcho. A stream is
// drained completely and returns KindExtracted, or KindReplay seeded with the
// whole text. A stream error is returned unchanged and the stream closed.
func (e *Extractor) Extract(ctx context.Context, p payload.Payload, codeBlockType string) (payload.Result, error) {
	observer := e.observer
	if observer == nil {
		observer = observability.ObserverFromContext(ctx)
	}

	rules, known := e.table.Lookup(codeBlockType)

	var span observability.Span
	if observer != nil {
		ctx, span = observer.StartSpan(ctx, observability.SpanExtract,
			observability.String(observability.AttrOperationID, uuid.NewString()),
			observability.String(observability.AttrPayloadKind, payload.Describe(p)),
			observability.String(observability.AttrCodeBlockType, codeBlockType),
			observability.Int(observability.AttrRuleCount, len(rules)),
		)
		defer span.End()
	}

	timer := utils.NewTimer()
	result, err := e.extract(span, p, codeBlockType, known)
	timer.Stop()

	if observer != nil {
		observer.Histogram(observability.MetricExtractDuration).Record(ctx, timer.Milliseconds(),
			observability.String(observability.AttrCodeBlockType, codeBlockType))

		if err != nil {
			span.RecordError(err)
			span.SetStatus(observability.StatusError, "extract failed")
			observer.Counter(observability.MetricExtractOutcome).Add(ctx, 1,
				observability.String(observability.AttrStatus, "error"))
			observer.Error(ctx, "extract failed",
				observability.Error(err),
				observability.String(observability.AttrCodeBlockType, codeBlockType),
			)
			return result, err
		}

		kind := result.Kind.String()
		span.SetAttributes(observability.String(observability.AttrResultKind, kind))
		span.SetStatus(observability.StatusOK, "")
		observer.Counter(observability.MetricExtractOutcome).Add(ctx, 1,
			observability.String(observability.AttrStatus, "ok"),
			observability.String(observability.AttrResultKind, kind),
		)
		if !known {
			observer.Warn(ctx, "unknown code block type",
				observability.String(observability.AttrCodeBlockType, codeBlockType),
				observability.StringSlice("known", e.table.Types()),
			)
		}
	}
	return result, err
}

func (e *Extractor) extract(span observability.Span, p payload.Payload, codeBlockType string, known bool) (payload.Result, error) {
	switch v := p.(type) {
	case payload.Message:
		return e.extractComplete(p, v.Text(), codeBlockType), nil
	case payload.Text:
		return e.extractComplete(p, string(v), codeBlockType), nil
	case payload.Stream:
		if v.Sequence == nil {
			return payload.Result{}, fmt.Errorf("%w: stream without a sequence", payload.ErrUnknownPayload)
		}
		if !known {
			return payload.Echo(p), nil
		}
		return e.extractStream(span, v.Sequence, codeBlockType)
	default:
		return payload.Result{}, payload.Unknown(p)
	}
}

func (e *Extractor) extractComplete(p payload.Payload, text, codeBlockType string) payload.Result {
	if code, ok := e.table.ExtractPayload(text, codeBlockType); ok {
		return payload.Result{Kind: payload.KindExtracted, Code: code}
	}
	return payload.Echo(p)
}

func (e *Extractor) extractStream(span observability.Span, seq fragment.Sequence, codeBlockType string) (payload.Result, error) {
	var full strings.Builder
	drained, err := fragment.DrainInto(seq, &full)
	if err != nil {
		seq.Close()
		return payload.Result{}, err
	}
	text := full.String()

	if span != nil {
		span.AddEvent(observability.EventStreamDrained,
			observability.Int(observability.AttrFragmentsDrained, drained),
			observability.Int(observability.AttrTextLength, len(text)),
		)
	}

	if code, ok := e.table.ExtractPayload(text, codeBlockType); ok {
		return payload.Result{Kind: payload.KindExtracted, Code: code}, nil
	}
	return payload.Replay(text, seq), nil
}

// Extract looks for a codeBlockType block in p using DefaultTable.
func Extract(ctx context.Context, p payload.Payload, codeBlockType string) (payload.Result, error) {
	return New().Extract(ctx, p, codeBlockType)
}
