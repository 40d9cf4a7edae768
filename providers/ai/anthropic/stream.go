package anthropic

import (
	"context"
	"fmt"
	"io"

	"github.com/leofalp/chatdecode/internal/utils"
	"github.com/leofalp/chatdecode/providers/ai"
	"github.com/leofalp/chatdecode/providers/observability"
)

// DecodeStream presents a recorded Messages API SSE body as a ChatStream.
// The body is read lazily and closed when iteration ends if it implements
// io.Closer.
//
// Usage is reported once, on message_delta, aggregating the input counters
// of message_start. message_stop yields the done event and ends the stream.
// An in-band "error" event ends the stream with an error.
func DecodeStream(ctx context.Context, body io.Reader) *ai.ChatStream {
	observer := observability.ObserverFromContext(ctx)
	scanner := utils.NewSSEScanner(body)

	return ai.NewChatStream(func(yield func(ai.StreamEvent, error) bool) {
		if closer, ok := body.(io.Closer); ok {
			defer utils.CloseWithLog(closer)
		}

		var usage messageUsage
		finishReason := ""

		for {
			if err := ctx.Err(); err != nil {
				yield(ai.StreamEvent{}, err)
				return
			}

			data, err := scanner.Data()
			if err == io.EOF {
				if observer != nil {
					observer.Trace(ctx, "Anthropic stream ended without message_stop")
				}
				return
			}
			if err != nil {
				yield(ai.StreamEvent{}, fmt.Errorf("SSE read error: %w", err))
				return
			}

			event, err := unmarshalStreamEvent(data)
			if err != nil {
				yield(ai.StreamEvent{}, fmt.Errorf("failed to parse stream event: %w", err))
				return
			}

			switch event.Type {
			case "message_start":
				if event.Message != nil {
					usage = event.Message.Usage
				}

			case "content_block_delta":
				if next, ok := deltaEvent(event.Delta); ok && !yield(next, nil) {
					return
				}

			case "message_delta":
				if event.Usage != nil {
					usage.OutputTokens = event.Usage.OutputTokens
				}
				if event.Delta != nil && event.Delta.StopReason != "" {
					finishReason = event.Delta.StopReason
				}
				if !yield(ai.StreamEvent{Type: ai.StreamEventUsage, Usage: usage.toUsage()}, nil) {
					return
				}

			case "message_stop":
				yield(ai.StreamEvent{Type: ai.StreamEventDone, FinishReason: mapStopReason(finishReason)}, nil)
				return

			case "error":
				if event.Error == nil {
					event.Error = &apiError{Message: "unknown stream error"}
				}
				yield(ai.StreamEvent{}, event.Error)
				return

			default:
				// ping, content_block_start, content_block_stop and future
				// additions carry no text.
			}
		}
	})
}

func deltaEvent(delta *streamDelta) (ai.StreamEvent, bool) {
	if delta == nil {
		return ai.StreamEvent{}, false
	}
	switch delta.Type {
	case "text_delta":
		if delta.Text != "" {
			return ai.StreamEvent{Type: ai.StreamEventContent, Content: delta.Text}, true
		}
	case "thinking_delta":
		if delta.Thinking != "" {
			return ai.StreamEvent{Type: ai.StreamEventReasoning, Reasoning: delta.Thinking}, true
		}
	}
	return ai.StreamEvent{}, false
}
