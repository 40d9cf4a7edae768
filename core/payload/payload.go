package payload

import (
	"errors"
	"fmt"

	"github.com/leofalp/chatdecode/core/fragment"
	"github.com/leofalp/chatdecode/providers/ai"
)

// ErrUnknownPayload is returned by consumers handed a Payload variant they
// do not recognise, including a nil Payload.
var ErrUnknownPayload = errors.New("unknown payload variant")

// Payload is a complete message, a plain string, or a fragment stream.
// The interface is sealed; only the variants of this package implement it.
type Payload interface {
	payload()
}

// Message is a complete, non-streamed model response.
type Message struct {
	Content string
}

// Text returns the message content.
func (m Message) Text() string { return m.Content }

// Text is a plain string input.
type Text string

// Stream is a single-pass sequence of fragments. Whoever receives a Stream
// owns it and is responsible for draining or closing it.
type Stream struct {
	Sequence fragment.Sequence
}

func (Message) payload() {}
func (Text) payload()    {}
func (Stream) payload()  {}

// FromChatResponse wraps a complete chat response. A nil response becomes an
// empty Message.
func FromChatResponse(response *ai.ChatResponse) Message {
	return Message{Content: response.Text()}
}

// FromChatStream exposes the content deltas of a chat stream as fragments.
// Non-content events are skipped and a stream error is returned by the
// sequence's Next, unchanged.
func FromChatStream(stream *ai.ChatStream) Stream {
	return Stream{Sequence: fragment.NewStream(stream.Texts())}
}

// Describe names the variant of p, for logs and error messages.
func Describe(p Payload) string {
	switch p.(type) {
	case Message:
		return "message"
	case Text:
		return "text"
	case Stream:
		return "stream"
	case nil:
		return "nil"
	default:
		return fmt.Sprintf("%T", p)
	}
}

// Unknown wraps ErrUnknownPayload with the offending variant.
func Unknown(p Payload) error {
	return fmt.Errorf("%w: %s", ErrUnknownPayload, Describe(p))
}
