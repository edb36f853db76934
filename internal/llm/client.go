// Package llm defines the generation service collaborator: the turn and
// option types sent to a hosted model and the streaming Client interface.
package llm

import (
	"context"
	"fmt"
)

// Role tags a conversational turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one role-tagged turn sent as part of a request's contents.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Tool names understood by the Gemini backend.
const (
	ToolURLContext   = "urlContext"
	ToolGoogleSearch = "googleSearch"
)

// Options are the generation settings applied to every call.
type Options struct {
	Temperature       float64  `json:"temperature"`
	TopP              float64  `json:"topP"`
	ThinkingBudget    int      `json:"thinkingBudget"`
	Tools             []string `json:"tools,omitempty"`
	SystemInstruction string   `json:"systemInstruction,omitempty"`
}

// Request is the input to a Stream call.
type Request struct {
	Model    string    `json:"model"`
	Options  Options   `json:"options"`
	Contents []Message `json:"contents"`
}

// Stream event types.
const (
	EventDelta = "delta"
	EventDone  = "done"
	EventError = "error"
)

// StreamEvent is a chunk from a streaming completion.
type StreamEvent struct {
	Type    string `json:"type"`              // "delta", "done", "error"
	Content string `json:"content,omitempty"` // text fragment (type="delta")
	Error   string `json:"error,omitempty"`   // type="error"

	// Set on type="done".
	Response *Response `json:"response,omitempty"`
}

// Response summarizes a finished stream.
type Response struct {
	Content      string `json:"content"`
	Model        string `json:"model,omitempty"`
	FinishReason string `json:"finishReason,omitempty"`
	Chunks       int    `json:"chunks"`
}

// Client is implemented by every generation provider.
type Client interface {
	// Stream starts a generation and returns its fragments in order.
	// The channel is closed after a single "done" or "error" event.
	Stream(ctx context.Context, req Request) (<-chan StreamEvent, error)

	// Name returns the provider name (e.g. "gemini").
	Name() string
}

// ProviderError is returned when a generation provider fails.
type ProviderError struct {
	Provider string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }
