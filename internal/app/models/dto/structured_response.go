package dto

import "time"

// StructuredResponse is the envelope of every successful API response
type StructuredResponse struct {
	Success   bool         `json:"success" example:"true"`
	Message   string       `json:"message" example:"Operation completed successfully"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewStructuredResponse creates a standard structured API response
func NewStructuredResponse(data interface{}, message string) StructuredResponse {
	return StructuredResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// CountResponse carries a single number
type CountResponse struct {
	Count int `json:"count"`
}

// ToggleResponse reports the state after a toggle
type ToggleResponse struct {
	Active bool        `json:"active"`
	Item   interface{} `json:"item"`
}
