package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log"
	"strings"

	"github.com/Lillian1228/hsa-ai-assistant/internal/agent"
	"github.com/Lillian1228/hsa-ai-assistant/internal/imageutil"
	"github.com/Lillian1228/hsa-ai-assistant/internal/model"
	"github.com/Lillian1228/hsa-ai-assistant/internal/review"
	"github.com/Lillian1228/hsa-ai-assistant/internal/storage"
)

// ExpenseServiceError represents an error that occurred during expense
// assistant processing
type ExpenseServiceError struct {
	// Op is the operation that failed
	Op string

	// Err is the underlying error
	Err error
}

// Error returns a string representation of the error
func (e *ExpenseServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

// Unwrap returns the underlying error
func (e *ExpenseServiceError) Unwrap() error {
	return e.Err
}

// AgentRunner runs one conversational turn against the LLM agent
type AgentRunner interface {
	RunTurn(ctx context.Context, input agent.TurnInput) (string, error)
}

// ImageUploader stores receipt images and resolves their public URLs
type ImageUploader interface {
	UploadReceiptImage(imageData []byte, receiptID, mimeType string) (string, error)
	ReceiptImageURL(receiptID string) string
}

// ExpenseService runs the chat pipeline: image ingestion, the agent turn, and
// review-request extraction
type ExpenseService struct {
	agent       AgentRunner
	uploader    ImageUploader
	urlStore    *storage.ImageURLStore
	pending     *review.PendingStore
	maxWorkers  int
	workerQueue chan struct{}
}

// NewExpenseService creates a new expense assistant service
func NewExpenseService(agentClient AgentRunner, uploader ImageUploader, urlStore *storage.ImageURLStore, pending *review.PendingStore, maxWorkers int) *ExpenseService {
	if maxWorkers <= 0 {
		maxWorkers = 5 // Default to 5 workers
	}

	return &ExpenseService{
		agent:       agentClient,
		uploader:    uploader,
		urlStore:    urlStore,
		pending:     pending,
		maxWorkers:  maxWorkers,
		workerQueue: make(chan struct{}, maxWorkers),
	}
}

// Chat processes one chat turn. Agent failures are reported in-band on the
// response, never as a handler-level error.
func (s *ExpenseService) Chat(ctx context.Context, request *model.ChatRequest) (*model.ChatResponse, error) {
	response := &model.ChatResponse{
		Attachments: []model.Attachment{},
	}

	// Acquire a worker from the pool
	select {
	case s.workerQueue <- struct{}{}:
		defer func() {
			// Release the worker back to the pool
			<-s.workerQueue
		}()
	case <-ctx.Done():
		return nil, &ExpenseServiceError{
			Op:  "acquire_worker",
			Err: ctx.Err(),
		}
	}

	images, err := s.ingestImages(request.Files)
	if err != nil {
		log.Printf("Image ingestion failed: %v", err)
		response.Error = fmt.Sprintf("Image ingestion failed: %v", err)
		return response, nil
	}

	raw, err := s.agent.RunTurn(ctx, agent.TurnInput{
		Text:   request.Text,
		Images: images,
	})
	if err != nil {
		log.Printf("Agent turn failed: %v", err)
		response.Error = fmt.Sprintf("Agent turn failed: %v", err)
		return response, nil
	}

	// The review-request JSON, when present, is lifted out of the raw text
	// before the sections are split. The agent sometimes drops the JSON into
	// its thinking section instead of the final response, and it must be
	// recovered from there too.
	remainder, reviewRequest := review.ExtractReviewRequest(raw)
	if reviewRequest != nil {
		s.pending.Put(reviewRequest)
		response.ReviewRequest = reviewRequest
	}

	thinking, final := agent.ExtractThinkingProcess(remainder)
	response.ThinkingProcess = thinking

	cleaned, attachmentIDs := agent.ExtractAttachmentIDs(final)
	response.Response = cleaned
	for _, id := range attachmentIDs {
		response.Attachments = append(response.Attachments, model.Attachment{
			ReceiptID: id,
			URL:       s.resolveImageURL(id),
		})
	}

	return response, nil
}

// ingestImages decodes, downscales and uploads each attached image, returning
// the uploaded images keyed by their content-derived receipt ids.
func (s *ExpenseService) ingestImages(files []model.ImageData) ([]agent.UploadedImage, error) {
	images := make([]agent.UploadedImage, 0, len(files))
	for i, file := range files {
		imageData, err := decodeSerializedImage(file.SerializedImage)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image %d: %w", i, err)
		}

		receiptID := ReceiptID(imageData)

		resized, err := imageutil.Downscale(imageData)
		if err != nil {
			// An undecodable image is still uploadable; keep the original bytes.
			log.Printf("Downscale failed for receipt %s, uploading original: %v", receiptID, err)
			resized = imageData
		}

		url, err := s.uploader.UploadReceiptImage(resized, receiptID, file.MimeType)
		if err != nil {
			return nil, fmt.Errorf("failed to upload image %d: %w", i, err)
		}

		s.urlStore.Track(receiptID, url)
		images = append(images, agent.UploadedImage{
			ReceiptID: receiptID,
			URL:       url,
		})
	}
	return images, nil
}

func (s *ExpenseService) resolveImageURL(receiptID string) string {
	if url, ok := s.urlStore.Lookup(receiptID); ok {
		return url
	}
	return s.uploader.ReceiptImageURL(receiptID)
}

// ReceiptID derives the stable identifier for a receipt image. Identical
// bytes always map to the same id.
func ReceiptID(imageData []byte) string {
	sum := sha256.Sum256(imageData)
	return hex.EncodeToString(sum[:])[:12]
}

// decodeSerializedImage decodes a base64 payload, tolerating a data-URL
// prefix like "data:image/png;base64,".
func decodeSerializedImage(serialized string) ([]byte, error) {
	if idx := strings.Index(serialized, "base64,"); idx != -1 && strings.HasPrefix(serialized, "data:") {
		serialized = serialized[idx+len("base64,"):]
	}
	return base64.StdEncoding.DecodeString(serialized)
}

// Shutdown releases the worker pool
func (s *ExpenseService) Shutdown() {
	close(s.workerQueue)
}
