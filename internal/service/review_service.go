package service

import (
	"context"
	"fmt"
	"log"

	"github.com/Lillian1228/hsa-ai-assistant/internal/domain"
	"github.com/Lillian1228/hsa-ai-assistant/internal/model"
	"github.com/Lillian1228/hsa-ai-assistant/internal/repository"
	"github.com/Lillian1228/hsa-ai-assistant/internal/review"
	"github.com/Lillian1228/hsa-ai-assistant/internal/storage"
)

// ReviewService applies human approval decisions: it reconciles the edited
// items back into eligibility buckets and persists the approved HSA-eligible
// ones
type ReviewService struct {
	repo     repository.ApprovedItemRepository
	uploader ImageUploader
	urlStore *storage.ImageURLStore
	pending  *review.PendingStore
}

// NewReviewService creates a new review service
func NewReviewService(repo repository.ApprovedItemRepository, uploader ImageUploader, urlStore *storage.ImageURLStore, pending *review.PendingStore) *ReviewService {
	return &ReviewService{
		repo:     repo,
		uploader: uploader,
		urlStore: urlStore,
		pending:  pending,
	}
}

// SubmitReview stores the approved HSA-eligible items from a review
// submission and returns the full approved-items listing. Failures are
// reported in-band on the response.
func (s *ReviewService) SubmitReview(ctx context.Context, submission *model.ReviewSubmission) (*model.ItemsResponse, error) {
	response := &model.ItemsResponse{
		Items: []domain.ApprovedItem{},
	}

	reconciled := review.Reconcile(flattenSubmission(submission), review.ReceiptMeta{
		StoreName:         submission.StoreName,
		Date:              submission.Date,
		TotalCost:         submission.TotalCost,
		PaymentCard:       submission.PaymentCard,
		CardLastFourDigit: submission.CardLastFourDigit,
	})

	imageURL := s.resolveImageURL(submission.ReceiptID)

	approved := make([]domain.ApprovedItem, 0, len(reconciled.HSAEligibleItems))
	for _, item := range reconciled.HSAEligibleItems {
		approved = append(approved, domain.ApprovedItem{
			Name:              item.Name,
			Description:       item.Description,
			Price:             item.Price,
			Quantity:          item.Quantity,
			StoreName:         reconciled.Meta.StoreName,
			Date:              reconciled.Meta.Date,
			ImageURL:          imageURL,
			PaymentCard:       reconciled.Meta.PaymentCard,
			CardLastFourDigit: reconciled.Meta.CardLastFourDigit,
		})
	}

	inserted, err := s.repo.InsertApprovedItems(ctx, approved)
	if err != nil {
		log.Printf("Failed to store approved items: %v", err)
		response.Error = fmt.Sprintf("Failed to store approved items: %v", err)
		return response, nil
	}
	log.Printf("Stored %d approved items for receipt %s (%d submitted)", inserted, submission.ReceiptID, len(approved))

	// The review is settled either way; drop the pending entry.
	s.pending.Remove(submission.ReceiptID)

	items, err := s.repo.GetAllItems(ctx)
	if err != nil {
		log.Printf("Failed to list approved items: %v", err)
		response.Error = fmt.Sprintf("Failed to list approved items: %v", err)
		return response, nil
	}

	response.Items = items
	return response, nil
}

// ListItems returns approved items, filtered to the inclusive date range when
// both bounds are supplied. Failures are reported in-band on the response.
func (s *ReviewService) ListItems(ctx context.Context, startDate, endDate string) (*model.ItemsResponse, error) {
	response := &model.ItemsResponse{
		Items: []domain.ApprovedItem{},
	}

	var items []domain.ApprovedItem
	var err error
	if startDate != "" && endDate != "" {
		items, err = s.repo.GetItemsByDateRange(ctx, startDate, endDate)
	} else {
		items, err = s.repo.GetAllItems(ctx)
	}
	if err != nil {
		log.Printf("Failed to list approved items: %v", err)
		response.Error = fmt.Sprintf("Failed to list approved items: %v", err)
		return response, nil
	}

	response.Items = items
	return response, nil
}

// GetPendingReview looks up an unexpired pending review request by receipt id
func (s *ReviewService) GetPendingReview(receiptID string) (*domain.ReviewRequest, bool) {
	return s.pending.Get(receiptID)
}

func (s *ReviewService) resolveImageURL(receiptID string) string {
	if url, ok := s.urlStore.Lookup(receiptID); ok {
		return url
	}
	return s.uploader.ReceiptImageURL(receiptID)
}

// flattenSubmission merges the three approved buckets into one
// category-tagged list, defaulting each item's category to its bucket when
// the caller left it blank.
func flattenSubmission(submission *model.ReviewSubmission) []review.SubmittedItem {
	buckets := []struct {
		items    []model.ReviewItemInput
		category string
	}{
		{submission.ApprovedHSAEligibleItems, domain.CategoryHSAEligible},
		{submission.ApprovedNonHSAEligibleItems, domain.CategoryNonHSAEligible},
		{submission.ApprovedUnsureHSAItems, domain.CategoryUnsureHSA},
	}

	var flat []review.SubmittedItem
	for _, bucket := range buckets {
		for _, item := range bucket.items {
			category := item.Category
			if category == "" {
				category = bucket.category
			}
			flat = append(flat, review.SubmittedItem{
				Name:        item.Name,
				Price:       item.Price,
				Quantity:    item.Quantity,
				Category:    category,
				Description: item.Description,
			})
		}
	}
	return flat
}
