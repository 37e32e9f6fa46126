package review

import (
	"fmt"

	"github.com/Lillian1228/hsa-ai-assistant/internal/domain"
)

// requiredKeys are the receipt-level fields a review request must carry.
var requiredKeys = []string{
	"receipt_id",
	"store_name",
	"date",
	"total_cost",
	"payment_card",
	"card_last_four_digit",
}

// bucketKeys maps each item-bucket key to the category its items default to.
var bucketKeys = []struct {
	key      string
	category string
}{
	{"hsa_eligible_items", domain.CategoryHSAEligible},
	{"non_hsa_eligible_items", domain.CategoryNonHSAEligible},
	{"unsure_hsa_items", domain.CategoryUnsureHSA},
}

// BuildReviewRequest validates a parsed JSON mapping and coerces it into a
// ReviewRequest. Acceptance is all-or-nothing: a missing required key or a
// single malformed item rejects the whole request.
func BuildReviewRequest(raw map[string]interface{}) (*domain.ReviewRequest, error) {
	for _, key := range requiredKeys {
		if _, present := raw[key]; !present {
			return nil, fmt.Errorf("missing required field %q", key)
		}
	}

	req := &domain.ReviewRequest{}
	for key, dst := range map[string]*string{
		"receipt_id":           &req.ReceiptID,
		"store_name":           &req.StoreName,
		"date":                 &req.Date,
		"payment_card":         &req.PaymentCard,
		"card_last_four_digit": &req.CardLastFourDigit,
	} {
		s, ok := raw[key].(string)
		if !ok {
			return nil, fmt.Errorf("field %q: expected a string, got %T", key, raw[key])
		}
		*dst = s
	}

	totalCost, ok := asNumber(raw["total_cost"])
	if !ok {
		return nil, fmt.Errorf("field %q: expected a number, got %T", "total_cost", raw["total_cost"])
	}
	req.TotalCost = totalCost

	buckets := [3]*[]domain.ReceiptItem{
		&req.HSAEligibleItems,
		&req.NonHSAEligibleItems,
		&req.UnsureHSAItems,
	}
	for i, bucket := range bucketKeys {
		items, err := buildItems(raw[bucket.key], bucket.category)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", bucket.key, err)
		}
		*buckets[i] = items
	}

	return req, nil
}

// buildItems coerces one item-bucket value into typed records. A missing
// bucket means an empty sequence; a malformed item fails the whole bucket.
func buildItems(raw interface{}, defaultCategory string) ([]domain.ReceiptItem, error) {
	if raw == nil {
		return []domain.ReceiptItem{}, nil
	}

	list, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected a list, got %T", raw)
	}

	items := make([]domain.ReceiptItem, 0, len(list))
	for i, entry := range list {
		obj, ok := entry.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("item %d: expected an object, got %T", i, entry)
		}

		name, ok := obj["name"].(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("item %d: missing name", i)
		}

		price, ok := asNumber(obj["price"])
		if !ok {
			return nil, fmt.Errorf("item %d (%s): missing price", i, name)
		}
		if price < 0 {
			return nil, fmt.Errorf("item %d (%s): negative price", i, name)
		}

		item := domain.ReceiptItem{
			Name:     name,
			Price:    price,
			Quantity: 1,
			Category: defaultCategory,
		}
		if qty, ok := asNumber(obj["quantity"]); ok && int(qty) >= 1 {
			item.Quantity = int(qty)
		}
		if category, ok := obj["category"].(string); ok && domain.ValidCategory(category) {
			item.Category = category
		}
		if description, ok := obj["description"].(string); ok {
			item.Description = description
		}
		items = append(items, item)
	}

	return items, nil
}

// asNumber accepts the numeric shapes encoding/json can hand back.
func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
