package anthropic

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/leofalp/chatdecode/providers/ai"
)

// ErrNotMessage is returned by DecodeResponse for a body that is neither a
// message nor an error.
var ErrNotMessage = errors.New("anthropic: body is not a message")

// DecodeResponse reads a complete Messages API body. Text blocks are joined
// into Content and thinking blocks into Reasoning.
func DecodeResponse(body io.Reader) (*ai.ChatResponse, error) {
	var envelope struct {
		messageResponse
		Error *apiError `json:"error,omitempty"`
	}
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}
	if envelope.Error != nil {
		return nil, envelope.Error
	}
	if envelope.Type != "message" {
		return nil, ErrNotMessage
	}

	var content, reasoning strings.Builder
	response := &ai.ChatResponse{
		Id:           envelope.ID,
		Model:        envelope.Model,
		Object:       envelope.Type,
		FinishReason: mapStopReason(envelope.StopReason),
		Usage:        envelope.Usage.toUsage(),
	}
	for _, block := range envelope.Content {
		switch block.Type {
		case "text":
			content.WriteString(block.Text)
		case "thinking":
			reasoning.WriteString(block.Thinking)
		case "tool_use":
			response.ToolCalls = append(response.ToolCalls, ai.ToolCall{
				ID:   block.ID,
				Type: "function",
				Function: ai.ToolCallFunction{
					Name:      block.Name,
					Arguments: string(block.Input),
				},
			})
		}
	}
	response.Content = content.String()
	response.Reasoning = reasoning.String()
	return response, nil
}
