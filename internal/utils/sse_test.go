package utils

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func drainSSE(t *testing.T, input string) []SSEEvent {
	t.Helper()
	scanner := NewSSEScanner(strings.NewReader(input))
	var events []SSEEvent
	for {
		event, err := scanner.Next()
		if err == io.EOF {
			return events
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		events = append(events, event)
	}
}

func TestSSEScanner_Next(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []SSEEvent
	}{
		{
			name:  "single event",
			input: "data: {\"a\":1}\n\n",
			want:  []SSEEvent{{Data: `{"a":1}`}},
		},
		{
			name:  "multiple events",
			input: "data: one\n\ndata: two\n\n",
			want:  []SSEEvent{{Data: "one"}, {Data: "two"}},
		},
		{
			name:  "multi-line data",
			input: "data: first\ndata: second\n\n",
			want:  []SSEEvent{{Data: "first\nsecond"}},
		},
		{
			name:  "comments skipped",
			input: ": keep-alive\ndata: x\n\n",
			want:  []SSEEvent{{Data: "x"}},
		},
		{
			name:  "done sentinel ends the stream",
			input: "data: x\n\ndata: [DONE]\n\ndata: after\n\n",
			want:  []SSEEvent{{Data: "x"}},
		},
		{
			name:  "empty stream",
			input: "",
			want:  nil,
		},
		{
			name:  "trailing data without blank line",
			input: "data: tail",
			want:  []SSEEvent{{Data: "tail"}},
		},
		{
			name:  "crlf line endings",
			input: "data: x\r\n\r\n",
			want:  []SSEEvent{{Data: "x"}},
		},
		{
			name:  "event name kept, id and retry skipped",
			input: "event: delta\nid: 7\nretry: 100\ndata: x\n\n",
			want:  []SSEEvent{{Event: "delta", Data: "x"}},
		},
		{
			name:  "event without data dropped",
			input: "event: ping\n\ndata: x\n\n",
			want:  []SSEEvent{{Data: "x"}},
		},
		{
			name:  "consecutive blank lines",
			input: "\n\n\ndata: x\n\n\n\n",
			want:  []SSEEvent{{Data: "x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := drainSSE(t, tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("events mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSSEScanner_EOFIsSticky(t *testing.T) {
	scanner := NewSSEScanner(strings.NewReader("data: [DONE]\n\ndata: x\n\n"))
	for i := 0; i < 2; i++ {
		if _, err := scanner.Next(); err != io.EOF {
			t.Fatalf("call %d: expected io.EOF, got %v", i, err)
		}
	}
}

func TestSSEScanner_LineTooLong(t *testing.T) {
	input := "data: " + strings.Repeat("x", maxSSELineSize+1) + "\n\n"
	_, err := NewSSEScanner(strings.NewReader(input)).Next()
	if !errors.Is(err, bufio.ErrTooLong) {
		t.Fatalf("expected bufio.ErrTooLong, got %v", err)
	}
}

func TestSSEScanner_Data(t *testing.T) {
	scanner := NewSSEScanner(strings.NewReader("event: e\ndata: payload\n\n"))
	data, err := scanner.Data()
	if err != nil || data != "payload" {
		t.Fatalf("expected payload, got %q (%v)", data, err)
	}
}
