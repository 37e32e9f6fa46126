package agent

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Lillian1228/hsa-ai-assistant/internal/domain"
)

const reviewToolName = "request_receipt_review"

var validate = validator.New()

// acceptedDateLayouts are the purchase-date formats the tool accepts, with
// any trailing Z stripped first. A date matching none of them is still
// allowed as long as it is non-empty, since store receipts print dates in
// endless variations.
var acceptedDateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999",
}

// reviewToolArgs are the arguments the agent supplies when requesting human
// review of a receipt categorization.
type reviewToolArgs struct {
	ImageID             string                   `json:"image_id" validate:"required"`
	StoreName           string                   `json:"store_name" validate:"required"`
	Date                string                   `json:"date" validate:"required"`
	TotalCost           float64                  `json:"total_cost" validate:"gte=0"`
	HSAEligibleItems    []map[string]interface{} `json:"hsa_eligible_items"`
	NonHSAEligibleItems []map[string]interface{} `json:"non_hsa_eligible_items"`
	UnsureHSAItems      []map[string]interface{} `json:"unsure_hsa_items"`
	PaymentCard         string                   `json:"payment_card"`
	CardLastFourDigit   string                   `json:"card_last_four_digit"`
}

// requestReceiptReview validates the agent's categorization and returns
// instructional text telling it to embed the review-request JSON, fenced, in
// its final response. The backend extracts that JSON; the tool itself
// persists nothing.
func requestReceiptReview(rawArgs []byte) (string, error) {
	var args reviewToolArgs
	if err := json.Unmarshal(rawArgs, &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if err := validate.Struct(&args); err != nil {
		return "", err
	}

	imageID := sanitizeImageID(args.ImageID)

	if err := validateDate(args.Date); err != nil {
		return "", err
	}
	if err := validateCardLastFour(args.CardLastFourDigit); err != nil {
		return "", err
	}

	buckets := []struct {
		items    []map[string]interface{}
		category string
	}{
		{args.HSAEligibleItems, domain.CategoryHSAEligible},
		{args.NonHSAEligibleItems, domain.CategoryNonHSAEligible},
		{args.UnsureHSAItems, domain.CategoryUnsureHSA},
	}
	for _, bucket := range buckets {
		for _, item := range bucket.items {
			if _, ok := item["name"]; !ok {
				return "", fmt.Errorf("invalid %s item format: each item must have 'name' and 'price' keys", bucket.category)
			}
			if _, ok := item["price"]; !ok {
				return "", fmt.Errorf("invalid %s item format: each item must have 'name' and 'price' keys", bucket.category)
			}
			if _, ok := item["quantity"]; !ok {
				item["quantity"] = 1
			}
			if _, ok := item["category"]; !ok {
				item["category"] = bucket.category
			}
		}
	}

	reviewData := map[string]interface{}{
		"review_request": map[string]interface{}{
			"receipt_id":             imageID,
			"store_name":             args.StoreName,
			"date":                   args.Date,
			"total_cost":             args.TotalCost,
			"hsa_eligible_items":     emptyIfNil(args.HSAEligibleItems),
			"non_hsa_eligible_items": emptyIfNil(args.NonHSAEligibleItems),
			"unsure_hsa_items":       emptyIfNil(args.UnsureHSAItems),
			"payment_card":           args.PaymentCard,
			"card_last_four_digit":   args.CardLastFourDigit,
		},
	}

	jsonData, err := json.MarshalIndent(reviewData, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal review request: %w", err)
	}

	return fmt.Sprintf(`Review requested for receipt %s.

IMPORTANT: You MUST include the following JSON in your FINAL RESPONSE section:

%s%s
%s
%s

This JSON must be included exactly as shown above in a JSON code block.`,
		imageID, "```", "json", jsonData, "```"), nil
}

// sanitizeImageID unwraps placeholder forms like "[IMAGE-POSITION 0-ID 12345]"
// down to the bare id.
func sanitizeImageID(imageID string) string {
	if strings.HasPrefix(imageID, "[IMAGE-") {
		if _, after, found := strings.Cut(imageID, "ID "); found {
			imageID, _, _ = strings.Cut(after, "]")
		}
	}
	return strings.TrimSpace(imageID)
}

func validateDate(date string) error {
	trimmed := strings.TrimSuffix(strings.TrimSpace(date), "Z")
	if trimmed == "" {
		return fmt.Errorf("date cannot be empty")
	}
	for _, layout := range acceptedDateLayouts {
		if _, err := time.Parse(layout, trimmed); err == nil {
			return nil
		}
	}
	return nil
}

func validateCardLastFour(digits string) error {
	if digits == "" {
		return nil
	}
	if len(digits) != 4 {
		return fmt.Errorf("card_last_four_digit must be exactly 4 digits")
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return fmt.Errorf("card_last_four_digit must contain only digits")
		}
	}
	return nil
}

func emptyIfNil(items []map[string]interface{}) []map[string]interface{} {
	if items == nil {
		return []map[string]interface{}{}
	}
	return items
}

// toolDefinitions describes the tools exposed to the agent in the
// chat-completions request payload.
func toolDefinitions() []map[string]interface{} {
	itemSchema := map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name":        map[string]interface{}{"type": "string"},
				"price":       map[string]interface{}{"type": "number"},
				"quantity":    map[string]interface{}{"type": "integer", "default": 1},
				"category":    map[string]interface{}{"type": "string"},
				"description": map[string]interface{}{"type": "string"},
			},
			"required": []string{"name", "price"},
		},
	}

	return []map[string]interface{}{
		{
			"type": "function",
			"function": map[string]interface{}{
				"name": reviewToolName,
				"description": "Request human review for receipt item categorization by HSA eligibility. " +
					"This tool MUST be called for every receipt that needs to be stored; human review is " +
					"required for all receipt storage operations. After calling this tool, include the " +
					"returned JSON in the FINAL RESPONSE section.",
				"parameters": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"image_id":               map[string]interface{}{"type": "string", "description": "The unique identifier of the receipt image."},
						"store_name":             map[string]interface{}{"type": "string"},
						"date":                   map[string]interface{}{"type": "string", "description": "Date of purchase, YYYY-MM-DD or ISO format."},
						"total_cost":             map[string]interface{}{"type": "number"},
						"hsa_eligible_items":     itemSchema,
						"non_hsa_eligible_items": itemSchema,
						"unsure_hsa_items":       itemSchema,
						"payment_card":           map[string]interface{}{"type": "string", "description": "Payment card type or name, e.g. Visa."},
						"card_last_four_digit":   map[string]interface{}{"type": "string", "description": "Empty or exactly 4 digits."},
					},
					"required": []string{"image_id", "store_name", "date", "total_cost"},
				},
			},
		},
	}
}
