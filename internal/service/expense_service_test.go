package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lillian1228/hsa-ai-assistant/internal/agent"
	"github.com/Lillian1228/hsa-ai-assistant/internal/model"
	"github.com/Lillian1228/hsa-ai-assistant/internal/review"
	"github.com/Lillian1228/hsa-ai-assistant/internal/storage"
)

// fakeAgent returns a canned response and records the turn it was given
type fakeAgent struct {
	response string
	err      error
	lastTurn agent.TurnInput
}

func (f *fakeAgent) RunTurn(_ context.Context, input agent.TurnInput) (string, error) {
	f.lastTurn = input
	return f.response, f.err
}

// fakeUploader records uploads and returns deterministic URLs
type fakeUploader struct {
	uploaded map[string][]byte
	err      error
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{uploaded: make(map[string][]byte)}
}

func (f *fakeUploader) UploadReceiptImage(imageData []byte, receiptID, mimeType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploaded[receiptID] = imageData
	return "https://cdn.example.com/receipts/" + receiptID, nil
}

func (f *fakeUploader) ReceiptImageURL(receiptID string) string {
	return "https://cdn.example.com/receipts/" + receiptID + ".png"
}

func newTestExpenseService(agentClient AgentRunner, uploader ImageUploader) (*ExpenseService, *storage.ImageURLStore, *review.PendingStore) {
	urlStore := storage.NewImageURLStore(16)
	pending := review.NewPendingStore(0)
	return NewExpenseService(agentClient, uploader, urlStore, pending, 2), urlStore, pending
}

func agentResponseWithReview(receiptID string) string {
	return fmt.Sprintf(`# THINKING PROCESS
Aspirin is an over-the-counter medicine, so it is HSA eligible.

# FINAL RESPONSE
I reviewed your receipt [IMAGE-ID %s]. One item is HSA eligible.
`+"```json"+`
{"review_request": {"receipt_id": %q, "store_name": "CVS Pharmacy", "date": "2025-03-14", "total_cost": 5.0, "payment_card": "Visa", "card_last_four_digit": "4242", "hsa_eligible_items": [{"name": "Aspirin", "price": 5.0, "quantity": 1}]}}
`+"```"+`
Please confirm the categorization.`, receiptID, receiptID)
}

func TestChatWithReviewRequest(t *testing.T) {
	imageBytes := []byte("not-a-real-image")
	receiptID := ReceiptID(imageBytes)

	agentClient := &fakeAgent{response: agentResponseWithReview(receiptID)}
	uploader := newFakeUploader()
	svc, urlStore, pending := newTestExpenseService(agentClient, uploader)

	response, err := svc.Chat(context.Background(), &model.ChatRequest{
		Text: "Please analyze this receipt.",
		Files: []model.ImageData{
			{SerializedImage: base64.StdEncoding.EncodeToString(imageBytes), MimeType: "image/png"},
		},
		SessionID: "session-1",
	})
	require.NoError(t, err)
	require.Empty(t, response.Error)

	// The agent saw the uploaded image keyed by its content hash.
	require.Len(t, agentClient.lastTurn.Images, 1)
	assert.Equal(t, receiptID, agentClient.lastTurn.Images[0].ReceiptID)
	assert.Contains(t, uploader.uploaded, receiptID)

	url, ok := urlStore.Lookup(receiptID)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/receipts/"+receiptID, url)

	assert.Contains(t, response.ThinkingProcess, "HSA eligible")
	assert.Contains(t, response.Response, "One item is HSA eligible.")
	assert.NotContains(t, response.Response, "review_request")
	assert.NotContains(t, response.Response, "[IMAGE-ID")

	require.NotNil(t, response.ReviewRequest)
	assert.Equal(t, receiptID, response.ReviewRequest.ReceiptID)
	require.Len(t, response.ReviewRequest.HSAEligibleItems, 1)
	assert.Equal(t, "Aspirin", response.ReviewRequest.HSAEligibleItems[0].Name)

	require.Len(t, response.Attachments, 1)
	assert.Equal(t, receiptID, response.Attachments[0].ReceiptID)
	assert.Equal(t, url, response.Attachments[0].URL)

	stored, ok := pending.Get(receiptID)
	require.True(t, ok, "review request is held for approval")
	assert.Equal(t, "CVS Pharmacy", stored.StoreName)
}

func TestChatRecoversReviewRequestFromThinkingSection(t *testing.T) {
	agentClient := &fakeAgent{response: `# THINKING PROCESS
Aspirin is HSA eligible.
` + "```json" + `
{"review_request": {"receipt_id": "abc123def456", "store_name": "CVS Pharmacy", "date": "2025-03-14", "total_cost": 5.0, "payment_card": "Visa", "card_last_four_digit": "4242", "hsa_eligible_items": [{"name": "Aspirin", "price": 5.0, "quantity": 1}]}}
` + "```" + `

# FINAL RESPONSE
One item is HSA eligible. Please confirm.`}
	svc, _, pending := newTestExpenseService(agentClient, newFakeUploader())

	response, err := svc.Chat(context.Background(), &model.ChatRequest{Text: "Please analyze this receipt."})
	require.NoError(t, err)
	require.Empty(t, response.Error)

	require.NotNil(t, response.ReviewRequest)
	assert.Equal(t, "abc123def456", response.ReviewRequest.ReceiptID)
	_, ok := pending.Get("abc123def456")
	assert.True(t, ok)

	assert.Contains(t, response.ThinkingProcess, "Aspirin is HSA eligible.")
	assert.NotContains(t, response.ThinkingProcess, "review_request")
	assert.Equal(t, "One item is HSA eligible. Please confirm.", response.Response)
}

func TestChatWithoutReviewRequest(t *testing.T) {
	agentClient := &fakeAgent{response: "# THINKING PROCESS\nGeneral question.\n\n# FINAL RESPONSE\nYes, aspirin is HSA eligible."}
	svc, _, pending := newTestExpenseService(agentClient, newFakeUploader())

	response, err := svc.Chat(context.Background(), &model.ChatRequest{Text: "Is aspirin HSA eligible?"})
	require.NoError(t, err)

	assert.Empty(t, response.Error)
	assert.Nil(t, response.ReviewRequest)
	assert.Equal(t, "Yes, aspirin is HSA eligible.", response.Response)
	assert.Empty(t, response.Attachments)
	assert.Equal(t, 0, pending.Len())
}

func TestChatAgentFailureReportedInBand(t *testing.T) {
	agentClient := &fakeAgent{err: errors.New("upstream unavailable")}
	svc, _, _ := newTestExpenseService(agentClient, newFakeUploader())

	response, err := svc.Chat(context.Background(), &model.ChatRequest{Text: "hello"})
	require.NoError(t, err, "agent failures are in-band, not handler errors")
	assert.Empty(t, response.Response)
	assert.Contains(t, response.Error, "upstream unavailable")
}

func TestChatBadImageReportedInBand(t *testing.T) {
	svc, _, _ := newTestExpenseService(&fakeAgent{response: "ok"}, newFakeUploader())

	response, err := svc.Chat(context.Background(), &model.ChatRequest{
		Text:  "analyze",
		Files: []model.ImageData{{SerializedImage: "not base64!!!", MimeType: "image/png"}},
	})
	require.NoError(t, err)
	assert.Contains(t, response.Error, "decode")
}

func TestChatUploadFailureReportedInBand(t *testing.T) {
	uploader := newFakeUploader()
	uploader.err = errors.New("bucket unreachable")
	svc, _, _ := newTestExpenseService(&fakeAgent{response: "ok"}, uploader)

	response, err := svc.Chat(context.Background(), &model.ChatRequest{
		Text:  "analyze",
		Files: []model.ImageData{{SerializedImage: base64.StdEncoding.EncodeToString([]byte("img")), MimeType: "image/png"}},
	})
	require.NoError(t, err)
	assert.Contains(t, response.Error, "bucket unreachable")
}

func TestReceiptIDStable(t *testing.T) {
	a := ReceiptID([]byte("same bytes"))
	b := ReceiptID([]byte("same bytes"))
	c := ReceiptID([]byte("other bytes"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 12)
}

func TestDecodeSerializedImage(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4e, 0x47}
	encoded := base64.StdEncoding.EncodeToString(raw)

	decoded, err := decodeSerializedImage(encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)

	decoded, err = decodeSerializedImage("data:image/png;base64," + encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}
