package anthropic

import (
	"encoding/json"
	"fmt"

	"github.com/leofalp/chatdecode/providers/ai"
)

/*
	MESSAGES - RESPONSE BODY
*/

type messageResponse struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"` // "message"
	Role       string         `json:"role"`
	Model      string         `json:"model"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      messageUsage   `json:"usage"`
}

// contentBlock is one entry of a message's content. Type selects the
// populated field.
type contentBlock struct {
	Type     string          `json:"type"` // "text", "thinking", "tool_use"
	Text     string          `json:"text,omitempty"`
	Thinking string          `json:"thinking,omitempty"`
	ID       string          `json:"id,omitempty"`
	Name     string          `json:"name,omitempty"`
	Input    json.RawMessage `json:"input,omitempty"`
}

type messageUsage struct {
	InputTokens              int `json:"input_tokens"`
	OutputTokens             int `json:"output_tokens"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens,omitempty"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens,omitempty"`
}

func (u messageUsage) toUsage() *ai.Usage {
	return &ai.Usage{
		PromptTokens:     u.InputTokens,
		CompletionTokens: u.OutputTokens,
		TotalTokens:      u.InputTokens + u.OutputTokens,
		CachedTokens:     u.CacheCreationInputTokens + u.CacheReadInputTokens,
	}
}

type apiError struct {
	Type    string `json:"type"` // "overloaded_error", "api_error", ...
	Message string `json:"message"`
}

func (e *apiError) Error() string {
	if e.Type == "" {
		return "anthropic: " + e.Message
	}
	return "anthropic: " + e.Type + ": " + e.Message
}

/*
	MESSAGES - STREAM EVENTS

	The "type" field of each data payload repeats the SSE event name, so
	events are discriminated from the payload alone.
*/

type streamEvent struct {
	Type         string           `json:"type"`
	Message      *messageResponse `json:"message,omitempty"`       // message_start
	Index        int              `json:"index,omitempty"`         // content_block_*
	ContentBlock *contentBlock    `json:"content_block,omitempty"` // content_block_start
	Delta        *streamDelta     `json:"delta,omitempty"`         // content_block_delta, message_delta
	Usage        *messageUsage    `json:"usage,omitempty"`         // message_delta
	Error        *apiError        `json:"error,omitempty"`         // error
}

type streamDelta struct {
	Type        string `json:"type,omitempty"` // "text_delta", "thinking_delta", "input_json_delta"
	Text        string `json:"text,omitempty"`
	Thinking    string `json:"thinking,omitempty"`
	PartialJSON string `json:"partial_json,omitempty"`
	StopReason  string `json:"stop_reason,omitempty"` // message_delta only
}

func unmarshalStreamEvent(data string) (*streamEvent, error) {
	var event streamEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return nil, err
	}
	if event.Type == "" {
		return nil, fmt.Errorf("missing type field in stream event")
	}
	return &event, nil
}

// mapStopReason converts Anthropic stop reasons to the finish reasons used
// by ai.ChatResponse.
func mapStopReason(stopReason string) string {
	switch stopReason {
	case "tool_use":
		return "tool_calls"
	case "max_tokens":
		return "length"
	default:
		return "stop"
	}
}
