package domain

import (
	"time"
)

// Item categories for HSA eligibility. Every reviewed item is in exactly
// one of these buckets.
const (
	CategoryHSAEligible    = "hsa_eligible"
	CategoryNonHSAEligible = "non_hsa_eligible"
	CategoryUnsureHSA      = "unsure_hsa"
)

// ValidCategory reports whether category is one of the three known buckets.
func ValidCategory(category string) bool {
	switch category {
	case CategoryHSAEligible, CategoryNonHSAEligible, CategoryUnsureHSA:
		return true
	}
	return false
}

// ReceiptItem represents a single purchased item extracted from a receipt
type ReceiptItem struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
}

// ReviewRequest is a proposal for how a receipt's items should be
// categorized, pending human approval. It is produced once per agent turn
// that needs review and is not persisted itself.
type ReviewRequest struct {
	ReceiptID           string        `json:"receipt_id"`
	StoreName           string        `json:"store_name"`
	Date                string        `json:"date"`
	TotalCost           float64       `json:"total_cost"`
	PaymentCard         string        `json:"payment_card"`
	CardLastFourDigit   string        `json:"card_last_four_digit"`
	HSAEligibleItems    []ReceiptItem `json:"hsa_eligible_items"`
	NonHSAEligibleItems []ReceiptItem `json:"non_hsa_eligible_items"`
	UnsureHSAItems      []ReceiptItem `json:"unsure_hsa_items"`
}

// ApprovedItem is a persisted approved receipt item row
type ApprovedItem struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Price             float64   `json:"price"`
	Quantity          int       `json:"quantity"`
	StoreName         string    `json:"store_name"`
	Date              string    `json:"date"`
	ImageURL          string    `json:"image_url"`
	PaymentCard       string    `json:"payment_card"`
	CardLastFourDigit string    `json:"card_last_four_digit"`
	CreatedAt         time.Time `json:"created_at"`
}
