package openai

import (
	"context"
	"fmt"
	"io"

	"github.com/leofalp/chatdecode/internal/utils"
	"github.com/leofalp/chatdecode/providers/ai"
	"github.com/leofalp/chatdecode/providers/observability"
)

// DecodeStream presents a recorded chat-completions SSE body as a ChatStream.
// The body is read lazily as the stream is iterated and is closed when
// iteration ends if it implements io.Closer.
//
// Cancellation of ctx, SSE read failures, malformed chunks and in-band API
// errors each end the stream with an error.
func DecodeStream(ctx context.Context, body io.Reader) *ai.ChatStream {
	observer := observability.ObserverFromContext(ctx)
	scanner := utils.NewSSEScanner(body)

	return ai.NewChatStream(func(yield func(ai.StreamEvent, error) bool) {
		if closer, ok := body.(io.Closer); ok {
			defer utils.CloseWithLog(closer)
		}

		chunks := 0
		for {
			if err := ctx.Err(); err != nil {
				yield(ai.StreamEvent{}, err)
				return
			}

			data, err := scanner.Data()
			if err == io.EOF {
				if observer != nil {
					observer.Trace(ctx, "OpenAI stream finished", observability.Int("chunks", chunks))
				}
				return
			}
			if err != nil {
				yield(ai.StreamEvent{}, fmt.Errorf("SSE read error: %w", err))
				return
			}

			chunk, err := unmarshalStreamChunk(data)
			if err != nil {
				yield(ai.StreamEvent{}, fmt.Errorf("failed to parse streaming chunk %d: %w", chunks+1, err))
				return
			}
			if chunk.Error != nil {
				yield(ai.StreamEvent{}, chunk.Error)
				return
			}
			chunks++

			for _, event := range chunkToStreamEvents(chunk) {
				if !yield(event, nil) {
					return
				}
			}
		}
	})
}

// chunkToStreamEvents converts one chunk into events. Usage comes first
// since the usage chunk has no choices; within a choice the order is
// content, reasoning, done.
func chunkToStreamEvents(chunk *chatCompletionStreamChunk) []ai.StreamEvent {
	var events []ai.StreamEvent

	if usage := chunk.Usage.toUsage(); usage != nil {
		events = append(events, ai.StreamEvent{Type: ai.StreamEventUsage, Usage: usage})
	}

	for _, choice := range chunk.Choices {
		delta := choice.Delta

		if delta.Content != nil && *delta.Content != "" {
			events = append(events, ai.StreamEvent{Type: ai.StreamEventContent, Content: *delta.Content})
		}
		if delta.Reasoning != nil && *delta.Reasoning != "" {
			events = append(events, ai.StreamEvent{Type: ai.StreamEventReasoning, Reasoning: *delta.Reasoning})
		}
		if choice.FinishReason != nil && *choice.FinishReason != "" {
			events = append(events, ai.StreamEvent{Type: ai.StreamEventDone, FinishReason: *choice.FinishReason})
		}
	}

	return events
}
