package review

import (
	"log"

	"github.com/Lillian1228/hsa-ai-assistant/internal/domain"
)

// SubmittedItem is one human-edited item from an approval submission. Price
// is a pointer so an omitted price can be told apart from a zero price.
type SubmittedItem struct {
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Quantity    int      `json:"quantity"`
	Category    string   `json:"category"`
	Description string   `json:"description,omitempty"`
}

// ReceiptMeta is the receipt-level metadata echoed through the approval
// flow unchanged from what the caller supplied.
type ReceiptMeta struct {
	StoreName         string
	Date              string
	TotalCost         float64
	PaymentCard       string
	CardLastFourDigit string
}

// Reconciliation is the outcome of mapping an approved submission back into
// typed buckets ready for persistence.
type Reconciliation struct {
	Meta                ReceiptMeta
	HSAEligibleItems    []domain.ReceiptItem
	NonHSAEligibleItems []domain.ReceiptItem
	UnsureHSAItems      []domain.ReceiptItem
}

// Reconcile partitions a flat, category-tagged item list back into the three
// eligibility buckets. Items missing a name or price are dropped; items with
// an unrecognized category are excluded entirely, neither stored nor
// reported. The metadata is passed through, not re-derived.
func Reconcile(items []SubmittedItem, meta ReceiptMeta) Reconciliation {
	out := Reconciliation{
		Meta:                meta,
		HSAEligibleItems:    []domain.ReceiptItem{},
		NonHSAEligibleItems: []domain.ReceiptItem{},
		UnsureHSAItems:      []domain.ReceiptItem{},
	}

	for _, item := range items {
		if item.Name == "" || item.Price == nil {
			log.Printf("Warning: dropping approved item with missing name or price (name=%q)", item.Name)
			continue
		}

		record := domain.ReceiptItem{
			Name:        item.Name,
			Price:       *item.Price,
			Quantity:    item.Quantity,
			Category:    item.Category,
			Description: item.Description,
		}
		if record.Quantity < 1 {
			record.Quantity = 1
		}

		switch item.Category {
		case domain.CategoryHSAEligible:
			out.HSAEligibleItems = append(out.HSAEligibleItems, record)
		case domain.CategoryNonHSAEligible:
			out.NonHSAEligibleItems = append(out.NonHSAEligibleItems, record)
		case domain.CategoryUnsureHSA:
			out.UnsureHSAItems = append(out.UnsureHSAItems, record)
		default:
			// Unknown tag: excluded, not an error.
		}
	}

	return out
}
