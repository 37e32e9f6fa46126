package model

import (
	"github.com/Lillian1228/hsa-ai-assistant/internal/domain"
)

// ImageData represents a single attached receipt image in a chat request
type ImageData struct {
	SerializedImage string `json:"serialized_image"` // base64-encoded image bytes
	MimeType        string `json:"mime_type"`
}

// ChatRequest represents an incoming chat turn
type ChatRequest struct {
	Text      string      `json:"text"`
	Files     []ImageData `json:"files"`
	SessionID string      `json:"session_id"`
	UserID    string      `json:"user_id"`
}

// Attachment links a receipt id mentioned in the agent's response to the
// stored image URL
type Attachment struct {
	ReceiptID string `json:"receipt_id"`
	URL       string `json:"url"`
}

// ChatResponse represents the response to a chat turn. Errors are reported
// in-band via the Error field, not through HTTP status codes.
type ChatResponse struct {
	Response        string                `json:"response"`
	ThinkingProcess string                `json:"thinking_process,omitempty"`
	Attachments     []Attachment          `json:"attachments"`
	ReviewRequest   *domain.ReviewRequest `json:"review_request,omitempty"`
	Error           string                `json:"error,omitempty"`
}
