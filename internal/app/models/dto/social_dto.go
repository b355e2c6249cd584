package dto

import "github.com/yigit/collegeportal/internal/pkg/genai"

// SendMessageRequest sends a direct message
type SendMessageRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

// ConversationResponse is a conversation looked up by peer.
// Exists is false when the two users have not talked yet.
type ConversationResponse struct {
	ID           string      `json:"id"`
	Exists       bool        `json:"exists"`
	Conversation interface{} `json:"conversation,omitempty"`
}

// CreateStoryRequest posts a story
type CreateStoryRequest struct {
	ImageURL string `json:"imageUrl" binding:"required"`
}

// CreateNoteRequest sets the caller's note
type CreateNoteRequest struct {
	Content string `json:"content" binding:"required,max=60"`
}

// AskRequest asks the assistant about the portal
type AskRequest struct {
	Query string `json:"query" binding:"required"`
}

// AskResponse is the assistant's answer
type AskResponse struct {
	Answer string `json:"answer"`
}

// ChatRequest continues a chat with the assistant
type ChatRequest struct {
	History   []genai.Message `json:"history"`
	Message   string          `json:"message" binding:"required"`
	WebSearch bool            `json:"webSearch"`
}

// ImageRequest asks for a generated avatar
type ImageRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// ImageResponse carries a data URL of the generated image
type ImageResponse struct {
	DataURL string `json:"dataUrl"`
}
