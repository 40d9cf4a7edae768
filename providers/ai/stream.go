package ai

import (
	"iter"
	"strings"
)

// StreamEventType identifies the kind of delta carried by a StreamEvent.
type StreamEventType string

const (
	// StreamEventContent indicates a text content delta.
	StreamEventContent StreamEventType = "content"
	// StreamEventReasoning indicates a reasoning/thinking content delta.
	StreamEventReasoning StreamEventType = "reasoning"
	// StreamEventUsage carries token usage metadata (typically the final event).
	StreamEventUsage StreamEventType = "usage"
	// StreamEventDone signals that the stream has finished normally.
	StreamEventDone StreamEventType = "done"
)

// StreamEvent represents a single delta yielded during response streaming.
// Each event carries exactly one type of payload, identified by the Type field.
type StreamEvent struct {
	Type         StreamEventType `json:"type"`
	Content      string          `json:"content,omitempty"`       // Type == StreamEventContent
	Reasoning    string          `json:"reasoning,omitempty"`     // Type == StreamEventReasoning
	Usage        *Usage          `json:"usage,omitempty"`         // Type == StreamEventUsage
	FinishReason string          `json:"finish_reason,omitempty"` // Type == StreamEventDone
}

// ChatStream is a forward-only stream of response deltas.
//
// The underlying iterator may hold open resources (an HTTP response body, a
// transcript file), which are released only when iteration completes or the
// range loop is abandoned. A ChatStream should be consumed exactly once,
// through Iter, Texts or Collect.
type ChatStream struct {
	iterator iter.Seq2[StreamEvent, error]
}

// NewChatStream creates a ChatStream from a raw streaming iterator. A non-nil
// error yielded by the iterator signals a mid-stream failure.
func NewChatStream(iterator iter.Seq2[StreamEvent, error]) *ChatStream {
	return &ChatStream{iterator: iterator}
}

// NewSingleEventStream presents a complete ChatResponse as a stream: one
// content event, then reasoning and usage when present, then done.
func NewSingleEventStream(response *ChatResponse) *ChatStream {
	return NewChatStream(func(yield func(StreamEvent, error) bool) {
		events := []StreamEvent{{Type: StreamEventContent, Content: response.Content}}
		if response.Reasoning != "" {
			events = append(events, StreamEvent{Type: StreamEventReasoning, Reasoning: response.Reasoning})
		}
		if response.Usage != nil {
			events = append(events, StreamEvent{Type: StreamEventUsage, Usage: response.Usage})
		}
		events = append(events, StreamEvent{Type: StreamEventDone, FinishReason: response.FinishReason})

		for _, event := range events {
			if !yield(event, nil) {
				return
			}
		}
	})
}

// Iter returns the underlying iterator for use with range-over-func loops.
func (stream *ChatStream) Iter() iter.Seq2[StreamEvent, error] {
	return stream.iterator
}

// Texts returns an iterator over the content deltas of the stream, in
// order. Reasoning, usage and done events are skipped. A mid-stream error is
// yielded once and ends the iteration.
//
// Empty content deltas are yielded as well, so consumers that count
// iteration steps see every delta the provider emitted.
func (stream *ChatStream) Texts() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for event, err := range stream.iterator {
			if err != nil {
				yield("", err)
				return
			}
			if event.Type != StreamEventContent {
				continue
			}
			if !yield(event.Content, nil) {
				return
			}
		}
	}
}

// Collect consumes the entire stream and returns the accumulated response.
// A mid-stream error stops collection and is returned with the partial
// response gathered so far.
func (stream *ChatStream) Collect() (*ChatResponse, error) {
	accumulated := &ChatResponse{}
	var content, reasoning strings.Builder
	finish := func() *ChatResponse {
		accumulated.Content = content.String()
		accumulated.Reasoning = reasoning.String()
		return accumulated
	}

	for event, err := range stream.iterator {
		if err != nil {
			return finish(), err
		}

		switch event.Type {
		case StreamEventContent:
			content.WriteString(event.Content)
		case StreamEventReasoning:
			reasoning.WriteString(event.Reasoning)
		case StreamEventUsage:
			if event.Usage != nil {
				accumulated.Usage = event.Usage
			}
		case StreamEventDone:
			accumulated.FinishReason = event.FinishReason
		}
	}

	return finish(), nil
}
