// Package genai is the boundary to the generative language service used by the assistant.
package genai

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned, without any network traffic, when no API key is set
var ErrNotConfigured = errors.New("the AI feature is not configured")

// Roles of chat history entries
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is one turn of a chat history
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// ChatOptions tunes a chat request
type ChatOptions struct {
	// WebSearch lets the model ground its answer on web results
	WebSearch bool
}

// Source is a citation attached to a grounded answer
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Chunk is an incremental piece of a streamed answer
type Chunk struct {
	TextDelta string   `json:"textDelta"`
	Sources   []Source `json:"sources,omitempty"`
}

// Gateway is everything the portal needs from a generative model
type Gateway interface {
	// GenerateText answers prompt, optionally primed with contextText
	GenerateText(ctx context.Context, prompt, contextText string) (string, error)
	// StreamChat continues history with message and streams the reply
	StreamChat(ctx context.Context, history []Message, message, systemPrompt string, opts ChatOptions) (*Stream, error)
	// GenerateImage renders prompt and returns the encoded image
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}
