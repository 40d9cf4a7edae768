package observability

// Semantic conventions for observability attributes.
// These constants define standard attribute names so the decoder, the
// extractor and the CLI report the same things under the same keys.

// --- Operation Attributes ---

const (
	// AttrOperationID correlates every record emitted by one decode or extract call
	AttrOperationID = "chatdecode.operation.id"

	// AttrPayloadKind is the input variant: "message", "text" or "stream"
	AttrPayloadKind = "chatdecode.payload.kind"

	// AttrResultKind is the outcome: "echo", "structured", "extracted" or "replay"
	AttrResultKind = "chatdecode.result.kind"

	// AttrTextLength is the length in bytes of the text that was inspected
	AttrTextLength = "chatdecode.text.length"

	// AttrTextPreview is a truncated copy of the inspected text
	AttrTextPreview = "chatdecode.text.preview"
)

// --- Decoder Attributes ---

const (
	// AttrProbeBudget is the maximum number of fragments inspected before committing
	AttrProbeBudget = "chatdecode.probe.budget"

	// AttrFragmentsProbed is how many fragments were pulled while probing
	AttrFragmentsProbed = "chatdecode.fragments.probed"

	// AttrFragmentsDrained is how many fragments were pulled after probing
	AttrFragmentsDrained = "chatdecode.fragments.drained"

	// AttrCandidate reports whether a JSON start marker was seen
	AttrCandidate = "chatdecode.candidate"

	// AttrRepair reports whether jsonrepair mode was enabled
	AttrRepair = "chatdecode.repair"
)

// --- Extractor Attributes ---

const (
	// AttrCodeBlockType is the requested code_block_type
	AttrCodeBlockType = "chatdecode.code_block.type"

	// AttrRuleCount is the number of rules configured for the type
	AttrRuleCount = "chatdecode.code_block.rules"
)

// --- Generic Attributes ---

const (
	// AttrStatus is the status of an operation (e.g., "ok", "error")
	AttrStatus = "status"

	// AttrStatusDescription provides additional status information
	AttrStatusDescription = "status.description"

	// AttrDuration is the wall-clock duration of an operation
	AttrDuration = "duration"

	// AttrInputPath is the file an input was read from ("-" for stdin)
	AttrInputPath = "input.path"

	// AttrInputFormat is the input format ("text", "sse", "openai")
	AttrInputFormat = "input.format"
)

// --- Span Names ---

const (
	// SpanDecode is the span covering one Decoder.Decode call
	SpanDecode = "chatdecode.decode"

	// SpanExtract is the span covering one Extractor.Extract call
	SpanExtract = "chatdecode.extract"
)

// --- Event Names ---

const (
	// EventProbeCandidate marks the fragment at which a JSON marker was first seen
	EventProbeCandidate = "probe.candidate"

	// EventProbeExhausted marks a probe that used its whole budget without a marker
	EventProbeExhausted = "probe.exhausted"

	// EventFalsePositive marks a marker match whose text did not decode
	EventFalsePositive = "probe.false_positive"

	// EventStreamDrained marks the point where the whole sequence was consumed
	EventStreamDrained = "stream.drained"
)

// --- Metric Names ---

const (
	// MetricDecodeDuration measures Decode latency in milliseconds
	MetricDecodeDuration = "chatdecode.decode.duration"

	// MetricDecodeOutcome counts Decode calls by result kind
	MetricDecodeOutcome = "chatdecode.decode.outcome"

	// MetricExtractDuration measures Extract latency in milliseconds
	MetricExtractDuration = "chatdecode.extract.duration"

	// MetricExtractOutcome counts Extract calls by result kind
	MetricExtractOutcome = "chatdecode.extract.outcome"
)
