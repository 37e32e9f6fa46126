package service

import (
	"context"

	"github.com/Lillian1228/hsa-ai-assistant/internal/domain"
	"github.com/Lillian1228/hsa-ai-assistant/internal/model"
)

// ExpenseServicer defines the interface for the chat pipeline
type ExpenseServicer interface {
	// Chat processes one chat turn, including image ingestion and the agent call
	Chat(ctx context.Context, request *model.ChatRequest) (*model.ChatResponse, error)

	// Shutdown gracefully shuts down the service
	Shutdown()
}

// ReviewServicer defines the interface for approval and listing operations
type ReviewServicer interface {
	// SubmitReview applies a human approval decision and persists the outcome
	SubmitReview(ctx context.Context, submission *model.ReviewSubmission) (*model.ItemsResponse, error)

	// ListItems returns approved items, optionally constrained to a date range
	ListItems(ctx context.Context, startDate, endDate string) (*model.ItemsResponse, error)

	// GetPendingReview looks up an unexpired pending review request
	GetPendingReview(receiptID string) (*domain.ReviewRequest, bool)
}
