package payload

import "github.com/leofalp/chatdecode/core/fragment"

// Kind classifies a Result.
type Kind int

const (
	// KindEcho means nothing was found; Payload holds the input unchanged.
	KindEcho Kind = iota
	// KindStructured means Value holds decoded JSON.
	KindStructured
	// KindExtracted means Code holds an extracted code block.
	KindExtracted
	// KindReplay means Sequence replays the consumed prefix and then the
	// rest of the input stream.
	KindReplay
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindEcho:
		return "echo"
	case KindStructured:
		return "structured"
	case KindExtracted:
		return "extracted"
	case KindReplay:
		return "replay"
	default:
		return "unknown"
	}
}

// Result is the outcome of decoding or extracting a Payload.
type Result struct {
	Kind Kind

	// Value is the decoded JSON document (map[string]any or []any) when
	// Kind is KindStructured.
	Value any

	// Code is the extracted payload when Kind is KindExtracted.
	Code string

	// Payload is the original input when Kind is KindEcho.
	Payload Payload

	// Sequence is the replay sequence when Kind is KindReplay. The caller
	// owns it.
	Sequence fragment.Sequence

	// Probed counts fragments pulled before the decoder committed to a
	// classification. Zero for non-stream inputs.
	Probed int
}

// Echo returns a KindEcho result for p.
func Echo(p Payload) Result {
	return Result{Kind: KindEcho, Payload: p}
}

// Replay returns a KindReplay result that first yields prefix and then
// every fragment left in remaining.
func Replay(prefix string, remaining fragment.Sequence) Result {
	replay := fragment.NewReplay(remaining)
	replay.SetFirstFragment(prefix)
	return Result{Kind: KindReplay, Sequence: replay}
}

// Text returns the textual form of the result: the extracted code, the
// echoed text, or "" for structured and replay results.
func (r Result) Text() string {
	switch r.Kind {
	case KindExtracted:
		return r.Code
	case KindEcho:
		switch p := r.Payload.(type) {
		case Message:
			return p.Text()
		case Text:
			return string(p)
		}
	}
	return ""
}
