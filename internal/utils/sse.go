package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxSSELineSize caps a single SSE line at 1 MB. bufio.Scanner defaults to
// 64 KiB, which long completion deltas in recorded transcripts can exceed.
const maxSSELineSize = 1 * 1024 * 1024

// SSEEvent is one dispatched Server-Sent Event.
type SSEEvent struct {
	// Event holds the "event:" field, empty for the default message type.
	Event string
	// Data holds the "data:" lines joined with newlines.
	Data string
}

// SSEScanner reads Server-Sent Events from an io.Reader. It joins multi-line
// data fields, skips comments, and treats the [DONE] sentinel of
// OpenAI-compatible APIs as the end of the stream.
type SSEScanner struct {
	scanner *bufio.Scanner
	done    bool
}

// NewSSEScanner creates an SSEScanner over reader. Lines longer than 1 MB make
// Next return an error wrapping bufio.ErrTooLong.
func NewSSEScanner(reader io.Reader) *SSEScanner {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSSELineSize)
	return &SSEScanner{scanner: scanner}
}

// Next returns the next event carrying data. It returns io.EOF at the end of
// input or once [DONE] has been read; events without data lines are skipped.
func (s *SSEScanner) Next() (SSEEvent, error) {
	if s.done {
		return SSEEvent{}, io.EOF
	}

	var event SSEEvent
	var dataLines []string

	for s.scanner.Scan() {
		line := strings.TrimSuffix(s.scanner.Text(), "\r")

		if line == "" {
			if len(dataLines) > 0 {
				event.Data = strings.Join(dataLines, "\n")
				return event, nil
			}
			event = SSEEvent{}
			continue
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimSpace(value)

		switch field {
		case "data":
			if value == "[DONE]" {
				s.done = true
				return SSEEvent{}, io.EOF
			}
			dataLines = append(dataLines, value)
		case "event":
			event.Event = value
		}
		// id: and retry: carry nothing a transcript replay needs
	}

	if err := s.scanner.Err(); err != nil {
		return SSEEvent{}, fmt.Errorf("SSE scanner error: %w", err)
	}

	s.done = true
	if len(dataLines) > 0 {
		event.Data = strings.Join(dataLines, "\n")
		return event, nil
	}
	return SSEEvent{}, io.EOF
}

// Data returns the data payload of the next event, dropping the event name.
func (s *SSEScanner) Data() (string, error) {
	event, err := s.Next()
	return event.Data, err
}
