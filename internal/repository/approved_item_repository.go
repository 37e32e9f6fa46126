package repository

import (
	"context"

	"github.com/Lillian1228/hsa-ai-assistant/internal/domain"
)

// ApprovedItemRepository defines operations for persisting human-approved
// HSA-eligible receipt items
type ApprovedItemRepository interface {
	// EnsureSchema creates the approved_items table if it does not exist
	EnsureSchema(ctx context.Context) error

	// InsertApprovedItems stores the given items, skipping any item that is
	// already present with identical field values. Returns the number of
	// items actually inserted.
	InsertApprovedItems(ctx context.Context, items []domain.ApprovedItem) (int, error)

	// GetAllItems retrieves every approved item, newest first
	GetAllItems(ctx context.Context) ([]domain.ApprovedItem, error)

	// GetItemsByDateRange retrieves approved items whose purchase date falls
	// within the inclusive range
	GetItemsByDateRange(ctx context.Context, startDate, endDate string) ([]domain.ApprovedItem, error)
}
