package agent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toolArgs(overrides map[string]interface{}) []byte {
	args := map[string]interface{}{
		"image_id":   "abc123def456",
		"store_name": "CVS Pharmacy",
		"date":       "2025-03-14",
		"total_cost": 17.48,
		"hsa_eligible_items": []map[string]interface{}{
			{"name": "Aspirin", "price": 5.0},
		},
		"payment_card":         "Visa",
		"card_last_four_digit": "4242",
	}
	for key, value := range overrides {
		if value == nil {
			delete(args, key)
		} else {
			args[key] = value
		}
	}
	raw, _ := json.Marshal(args)
	return raw
}

func TestRequestReceiptReview(t *testing.T) {
	result, err := requestReceiptReview(toolArgs(nil))
	require.NoError(t, err)

	assert.Contains(t, result, "Review requested for receipt abc123def456")
	assert.Contains(t, result, "```json")
	assert.Contains(t, result, `"review_request"`)

	// The embedded JSON carries tool-applied defaults.
	assert.Contains(t, result, `"quantity": 1`)
	assert.Contains(t, result, `"category": "hsa_eligible"`)
	assert.Contains(t, result, `"receipt_id": "abc123def456"`)
}

func TestRequestReceiptReviewSanitizesImageID(t *testing.T) {
	result, err := requestReceiptReview(toolArgs(map[string]interface{}{
		"image_id": "[IMAGE-POSITION 0-ID abc123def456]",
	}))
	require.NoError(t, err)
	assert.Contains(t, result, `"receipt_id": "abc123def456"`)
}

func TestRequestReceiptReviewCardLastFour(t *testing.T) {
	tests := []struct {
		name   string
		digits string
		wantOK bool
	}{
		{"empty is allowed", "", true},
		{"four digits", "4242", true},
		{"too short", "123", false},
		{"non-digit", "12a4", false},
		{"too long", "12345", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := requestReceiptReview(toolArgs(map[string]interface{}{
				"card_last_four_digit": tt.digits,
			}))
			if tt.wantOK {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestRequestReceiptReviewDates(t *testing.T) {
	accepted := []string{
		"2025-03-14",
		"2025-03-14T10:30:00",
		"2025-03-14T10:30:00Z",
		"2025-03-14T10:30:00.123456",
		"March 14, 2025", // unparseable but non-empty
	}
	for _, date := range accepted {
		t.Run(date, func(t *testing.T) {
			_, err := requestReceiptReview(toolArgs(map[string]interface{}{"date": date}))
			assert.NoError(t, err)
		})
	}

	t.Run("missing date", func(t *testing.T) {
		_, err := requestReceiptReview(toolArgs(map[string]interface{}{"date": nil}))
		assert.Error(t, err)
	})
}

func TestRequestReceiptReviewItemShape(t *testing.T) {
	t.Run("missing price", func(t *testing.T) {
		_, err := requestReceiptReview(toolArgs(map[string]interface{}{
			"hsa_eligible_items": []map[string]interface{}{{"name": "Aspirin"}},
		}))
		assert.Error(t, err)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := requestReceiptReview(toolArgs(map[string]interface{}{
			"unsure_hsa_items": []map[string]interface{}{{"price": 5.0}},
		}))
		assert.Error(t, err)
	})

	t.Run("missing required scalar", func(t *testing.T) {
		_, err := requestReceiptReview(toolArgs(map[string]interface{}{"store_name": nil}))
		assert.Error(t, err)
	})

	t.Run("empty buckets serialize as arrays", func(t *testing.T) {
		result, err := requestReceiptReview(toolArgs(map[string]interface{}{
			"hsa_eligible_items": nil,
		}))
		require.NoError(t, err)
		assert.Contains(t, result, `"hsa_eligible_items": []`)
	})
}

func TestSanitizeImageID(t *testing.T) {
	assert.Equal(t, "abc123", sanitizeImageID("abc123"))
	assert.Equal(t, "abc123", sanitizeImageID("[IMAGE-ID abc123]"))
	assert.Equal(t, "abc123", sanitizeImageID("[IMAGE-POSITION 2-ID abc123]"))
	assert.Equal(t, "abc123", sanitizeImageID("  abc123  "))
}
