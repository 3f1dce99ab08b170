package tools

import (
	"context"
	"time"
)

// TextResponse is the envelope every tool hands back to the agent platform.
// Data is either a plain message string or a JSON-serializable payload.
type TextResponse struct {
	Data any `json:"data"`
}

// Text wraps a plain message.
func Text(message string) *TextResponse {
	return &TextResponse{Data: message}
}

// JSON wraps a structured payload.
func JSON(payload any) *TextResponse {
	return &TextResponse{Data: payload}
}

// Invocation describes one completed tool call.
type Invocation struct {
	RequestID string
	Tool      string
	Args      map[string]interface{}
	Err       error
	Duration  time.Duration
}

// Recorder receives every invocation executed through a Registry.
type Recorder interface {
	Record(ctx context.Context, inv Invocation) error
}
