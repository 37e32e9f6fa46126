package model

import (
	"github.com/Lillian1228/hsa-ai-assistant/internal/domain"
)

// ReviewItemInput is a single human-edited item in a review submission.
// Price is a pointer so that a missing price can be told apart from 0.
type ReviewItemInput struct {
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Quantity    int      `json:"quantity"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
}

// ReviewSubmission represents the human-approved outcome of a receipt review
type ReviewSubmission struct {
	ReceiptID                   string            `json:"receipt_id"`
	ApprovedHSAEligibleItems    []ReviewItemInput `json:"approved_hsa_eligible_items"`
	ApprovedNonHSAEligibleItems []ReviewItemInput `json:"approved_non_hsa_eligible_items"`
	ApprovedUnsureHSAItems      []ReviewItemInput `json:"approved_unsure_hsa_items"`
	StoreName                   string            `json:"store_name"`
	Date                        string            `json:"date"`
	TotalCost                   float64           `json:"total_cost"`
	PaymentCard                 string            `json:"payment_card"`
	CardLastFourDigit           string            `json:"card_last_four_digit"`
}

// ItemsResponse represents the response to a review submission or an items
// listing. Errors are reported in-band via the Error field.
type ItemsResponse struct {
	Items []domain.ApprovedItem `json:"items"`
	Error string                `json:"error,omitempty"`
}

// ReviewRequestResponse wraps a pending review request lookup
type ReviewRequestResponse struct {
	ReviewRequest *domain.ReviewRequest `json:"review_request,omitempty"`
	Error         string                `json:"error,omitempty"`
}
