package openai

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/leofalp/chatdecode/providers/ai"
)

const transcript = `: keep-alive

data: {"id":"c1","object":"chat.completion.chunk","model":"gpt-4o","choices":[{"index":0,"delta":{"role":"assistant","content":""},"finish_reason":null}]}

data: {"id":"c1","object":"chat.completion.chunk","model":"gpt-4o","choices":[{"index":0,"delta":{"content":"{\"ok\""},"finish_reason":null}]}

data: {"id":"c1","object":"chat.completion.chunk","model":"gpt-4o","choices":[{"index":0,"delta":{"reasoning":"hmm"},"finish_reason":null}]}

data: {"id":"c1","object":"chat.completion.chunk","model":"gpt-4o","choices":[{"index":0,"delta":{"content":": true}"},"finish_reason":"stop"}]}

data: {"id":"c1","object":"chat.completion.chunk","model":"gpt-4o","choices":[],"usage":{"prompt_tokens":5,"completion_tokens":3,"total_tokens":8,"completion_tokens_details":{"reasoning_tokens":1}}}

data: [DONE]

`

// closeTracker records whether the stream closed its body.
type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func collectEvents(t *testing.T, stream *ai.ChatStream) ([]ai.StreamEvent, error) {
	t.Helper()
	var events []ai.StreamEvent
	for event, err := range stream.Iter() {
		if err != nil {
			return events, err
		}
		events = append(events, event)
	}
	return events, nil
}

func TestDecodeStream_Events(t *testing.T) {
	body := &closeTracker{Reader: strings.NewReader(transcript)}
	events, err := collectEvents(t, DecodeStream(context.Background(), body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []ai.StreamEvent{
		{Type: ai.StreamEventContent, Content: `{"ok"`},
		{Type: ai.StreamEventReasoning, Reasoning: "hmm"},
		{Type: ai.StreamEventContent, Content: ": true}"},
		{Type: ai.StreamEventDone, FinishReason: "stop"},
		{Type: ai.StreamEventUsage, Usage: &ai.Usage{PromptTokens: 5, CompletionTokens: 3, TotalTokens: 8, ReasoningTokens: 1}},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if !body.closed {
		t.Error("expected the body to be closed")
	}
}

func TestDecodeStream_Collect(t *testing.T) {
	response, err := DecodeStream(context.Background(), strings.NewReader(transcript)).Collect()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.Content != `{"ok": true}` || response.Reasoning != "hmm" || response.FinishReason != "stop" {
		t.Errorf("unexpected response: %+v", response)
	}
	if response.Usage == nil || response.Usage.TotalTokens != 8 {
		t.Errorf("expected usage, got %+v", response.Usage)
	}
}

func TestDecodeStream_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{
			name:    "malformed chunk",
			body:    "data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n\ndata: {not json}\n\n",
			wantMsg: "failed to parse streaming chunk 2",
		},
		{
			name:    "in-band api error",
			body:    "data: {\"error\":{\"message\":\"rate limited\",\"type\":\"rate_limit_error\"}}\n\n",
			wantMsg: "openai: rate_limit_error: rate limited",
		},
		{
			name:    "oversized line",
			body:    "data: " + strings.Repeat("x", 2*1024*1024) + "\n\n",
			wantMsg: "SSE read error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := collectEvents(t, DecodeStream(context.Background(), strings.NewReader(tt.body)))
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected error containing %q, got %v", tt.wantMsg, err)
			}
		})
	}
}

func TestDecodeStream_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := collectEvents(t, DecodeStream(ctx, strings.NewReader(transcript)))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestDecodeStream_BreakClosesBody(t *testing.T) {
	body := &closeTracker{Reader: strings.NewReader(transcript)}
	for range DecodeStream(context.Background(), body).Iter() {
		break
	}
	if !body.closed {
		t.Error("expected an abandoned stream to close its body")
	}
}

func TestDecodeStream_Texts(t *testing.T) {
	var texts []string
	for text, err := range DecodeStream(context.Background(), strings.NewReader(transcript)).Texts() {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		texts = append(texts, text)
	}
	if diff := cmp.Diff([]string{`{"ok"`, ": true}"}, texts); diff != "" {
		t.Errorf("texts mismatch (-want +got):\n%s", diff)
	}
}
