package openai

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/leofalp/chatdecode/providers/ai"
)

// ErrNoChoices is returned by DecodeResponse for a body without choices.
var ErrNoChoices = errors.New("openai: response has no choices")

// DecodeResponse reads a complete chat.completion body. Only the first
// choice is kept.
func DecodeResponse(body io.Reader) (*ai.ChatResponse, error) {
	var envelope struct {
		chatCompletionResponse
		Error *apiError `json:"error,omitempty"`
	}
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode chat completion: %w", err)
	}
	if envelope.Error != nil {
		return nil, envelope.Error
	}
	if len(envelope.Choices) == 0 {
		return nil, ErrNoChoices
	}

	choice := envelope.Choices[0]
	response := &ai.ChatResponse{
		Id:           envelope.ID,
		Model:        envelope.Model,
		Object:       envelope.Object,
		Created:      envelope.Created,
		FinishReason: choice.FinishReason,
		Usage:        envelope.Usage.toUsage(),
		Refusal:      choice.Message.Refusal,
		Reasoning:    choice.Message.Reasoning,
	}
	if choice.Message.Content != nil {
		response.Content = *choice.Message.Content
	}
	for _, call := range choice.Message.ToolCalls {
		response.ToolCalls = append(response.ToolCalls, ai.ToolCall{
			ID:   call.ID,
			Type: call.Type,
			Function: ai.ToolCallFunction{
				Name:      call.Function.Name,
				Arguments: call.Function.Arguments,
			},
		})
	}
	return response, nil
}
