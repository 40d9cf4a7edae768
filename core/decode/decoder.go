package decode

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/leofalp/chatdecode/core/fragment"
	"github.com/leofalp/chatdecode/core/parse"
	"github.com/leofalp/chatdecode/core/payload"
	"github.com/leofalp/chatdecode/internal/utils"
	"github.com/leofalp/chatdecode/providers/observability"
)

// DefaultProbeBudget is the number of stream fragments inspected before the
// decoder gives up looking for a JSON marker.
const DefaultProbeBudget = 10

// previewLength bounds the text copied into debug logs.
const previewLength = 200

// Decoder classifies payloads as JSON or not. A Decoder is immutable and
// safe for concurrent use; each payload it decodes must still have a single
// owner.
type Decoder struct {
	budget   int
	repair   bool
	observer observability.Provider
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithProbeBudget sets how many fragments are probed for a JSON marker.
// Non-positive values select DefaultProbeBudget.
func WithProbeBudget(budget int) Option {
	return func(d *Decoder) {
		if budget > 0 {
			d.budget = budget
		}
	}
}

// WithRepair makes the decoder run JSON candidates that fail strict parsing
// through jsonrepair, and repair documents truncated at the end of the text.
func WithRepair(enabled bool) Option {
	return func(d *Decoder) { d.repair = enabled }
}

// WithObserver sets the observability provider. Without it the decoder uses
// the observer carried by the context passed to Decode, if any.
func WithObserver(observer observability.Provider) Option {
	return func(d *Decoder) { d.observer = observer }
}

// New returns a Decoder with the given options applied.
func New(opts ...Option) *Decoder {
	decoder := &Decoder{budget: DefaultProbeBudget}
	for _, opt := range opts {
		opt(decoder)
	}
	return decoder
}

// ProbeBudget returns the configured probe budget.
func (d *Decoder) ProbeBudget() int {
	return d.budget
}

// DecodeText extracts the first JSON document of text, strictly or with
// repair depending on the decoder's configuration.
func (d *Decoder) DecodeText(text string) (any, bool) {
	if d.repair {
		return parse.RepairText(text)
	}
	return parse.DecodeText(text)
}

// Decode classifies p.
//
// Message and Text inputs yield KindStructured or KindEcho with p itself.
// Stream inputs yield KindStructured or KindReplay; the Result's Probed field
// counts the fragments pulled while probing. An error returned by the
// stream is returned unchanged, without a result, and the stream is closed.
// A Payload variant other than the three of package payload is rejected with
// payload.ErrUnknownPayload.
func (d *Decoder) Decode(ctx context.Context, p payload.Payload) (payload.Result, error) {
	observer := d.observer
	if observer == nil {
		observer = observability.ObserverFromContext(ctx)
	}

	var span observability.Span
	if observer != nil {
		ctx, span = observer.StartSpan(ctx, observability.SpanDecode,
			observability.String(observability.AttrOperationID, uuid.NewString()),
			observability.String(observability.AttrPayloadKind, payload.Describe(p)),
			observability.Int(observability.AttrProbeBudget, d.budget),
			observability.Bool(observability.AttrRepair, d.repair),
		)
		defer span.End()
	}

	timer := utils.NewTimer()
	result, err := d.decode(span, p)
	timer.Stop()

	if observer != nil {
		d.record(ctx, observer, span, timer, result, err)
	}
	return result, err
}

func (d *Decoder) decode(span observability.Span, p payload.Payload) (payload.Result, error) {
	switch v := p.(type) {
	case payload.Message:
		return d.decodeComplete(p, v.Text()), nil
	case payload.Text:
		return d.decodeComplete(p, string(v)), nil
	case payload.Stream:
		return d.decodeStream(span, v.Sequence)
	default:
		return payload.Result{}, payload.Unknown(p)
	}
}

func (d *Decoder) decodeComplete(p payload.Payload, text string) payload.Result {
	if value, ok := d.DecodeText(text); ok {
		return payload.Result{Kind: payload.KindStructured, Value: value}
	}
	return payload.Echo(p)
}

func (d *Decoder) decodeStream(span observability.Span, seq fragment.Sequence) (payload.Result, error) {
	if seq == nil {
		return payload.Result{}, fmt.Errorf("%w: stream without a sequence", payload.ErrUnknownPayload)
	}

	var state probe
	if err := state.run(seq, d.budget); err != nil {
		seq.Close()
		return payload.Result{}, err
	}

	if span != nil {
		span.SetAttributes(
			observability.Int(observability.AttrFragmentsProbed, state.pulled),
			observability.Bool(observability.AttrCandidate, state.candidate),
		)
		if state.candidate {
			span.AddEvent(observability.EventProbeCandidate,
				observability.Int(observability.AttrFragmentsProbed, state.pulled))
		} else if state.pulled == d.budget {
			span.AddEvent(observability.EventProbeExhausted)
		}
	}

	if !state.candidate {
		result := payload.Replay(state.text.String(), seq)
		result.Probed = state.pulled
		return result, nil
	}

	drained, err := state.drain(seq)
	if err != nil {
		seq.Close()
		return payload.Result{}, err
	}
	full := state.text.String()

	if span != nil {
		span.AddEvent(observability.EventStreamDrained,
			observability.Int(observability.AttrFragmentsDrained, drained),
			observability.Int(observability.AttrTextLength, len(full)),
		)
	}

	if value, ok := d.DecodeText(full); ok {
		return payload.Result{Kind: payload.KindStructured, Value: value, Probed: state.pulled}, nil
	}

	if span != nil {
		span.AddEvent(observability.EventFalsePositive,
			observability.String(observability.AttrTextPreview, utils.TruncateString(full, previewLength)))
	}
	result := payload.Replay(full, seq)
	result.Probed = state.pulled
	return result, nil
}

func (d *Decoder) record(ctx context.Context, observer observability.Provider, span observability.Span, timer *utils.Timer, result payload.Result, err error) {
	observer.Histogram(observability.MetricDecodeDuration).Record(ctx, timer.Milliseconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(observability.StatusError, "decode failed")
		observer.Counter(observability.MetricDecodeOutcome).Add(ctx, 1,
			observability.String(observability.AttrStatus, "error"))
		observer.Error(ctx, "decode failed",
			observability.Error(err),
			observability.Duration(observability.AttrDuration, timer.GetDuration()),
		)
		return
	}

	kind := result.Kind.String()
	span.SetAttributes(observability.String(observability.AttrResultKind, kind))
	span.SetStatus(observability.StatusOK, "")
	observer.Counter(observability.MetricDecodeOutcome).Add(ctx, 1,
		observability.String(observability.AttrStatus, "ok"),
		observability.String(observability.AttrResultKind, kind),
	)
	observer.Debug(ctx, "decode completed",
		observability.String(observability.AttrResultKind, kind),
		observability.Int(observability.AttrFragmentsProbed, result.Probed),
		observability.Duration(observability.AttrDuration, timer.GetDuration()),
	)
}

// Decode classifies p with a Decoder probing at most budget fragments.
func Decode(ctx context.Context, p payload.Payload, budget int) (payload.Result, error) {
	return New(WithProbeBudget(budget)).Decode(ctx, p)
}

// DecodeText returns the first strictly parseable JSON document of text.
func DecodeText(text string) (any, bool) {
	return parse.DecodeText(text)
}
