package handler

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/Lillian1228/hsa-ai-assistant/internal/domain"
	"github.com/Lillian1228/hsa-ai-assistant/internal/model"
	"github.com/Lillian1228/hsa-ai-assistant/internal/service"
)

// ReviewHandler handles HTTP requests for review approval and item listing
type ReviewHandler struct {
	review service.ReviewServicer
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(review service.ReviewServicer) *ReviewHandler {
	return &ReviewHandler{
		review: review,
	}
}

// RegisterRoutes registers the handler's routes with the given router
func (h *ReviewHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/review", h.SubmitReview)
	router.GET("/review/:receiptId", h.GetPendingReview)
	router.GET("/items", h.ListItems)
}

// SubmitReview handles a human approval decision for a pending review
// @Summary Submit an approved review
// @Description Persist the human-approved HSA-eligible items for a receipt. Failures are reported in the response body's error field with HTTP 200.
// @Tags review
// @Accept json
// @Produce json
// @Param request body model.ReviewSubmission true "Approved review outcome"
// @Success 200 {object} model.ItemsResponse "All approved items after the submission"
// @Router /review [post]
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	var submission model.ReviewSubmission
	if err := bindJSON(c, &submission); err != nil {
		respondOK(c, model.ItemsResponse{
			Items: []domain.ApprovedItem{},
			Error: err.Error(),
		})
		return
	}

	log.Printf("Processing review submission for receipt %s", submission.ReceiptID)
	response, err := h.review.SubmitReview(c.Request.Context(), &submission)
	if err != nil {
		logError(c, "submit_review", err)
		respondOK(c, model.ItemsResponse{
			Items: []domain.ApprovedItem{},
			Error: fmt.Sprintf("Review submission failed: %v", err),
		})
		return
	}

	respondOK(c, response)
}

// GetPendingReview returns a pending review request by receipt id
// @Summary Get a pending review request
// @Description Fetch an unexpired pending review request. Absence is reported in the response body's error field with HTTP 200.
// @Tags review
// @Produce json
// @Param receiptId path string true "Receipt id"
// @Success 200 {object} model.ReviewRequestResponse
// @Router /review/{receiptId} [get]
func (h *ReviewHandler) GetPendingReview(c *gin.Context) {
	receiptID, err := getPathParam(c, "receiptId")
	if err != nil {
		respondOK(c, model.ReviewRequestResponse{Error: err.Error()})
		return
	}

	request, ok := h.review.GetPendingReview(receiptID)
	if !ok {
		respondOK(c, model.ReviewRequestResponse{
			Error: fmt.Sprintf("No pending review for receipt %s", receiptID),
		})
		return
	}

	respondOK(c, model.ReviewRequestResponse{ReviewRequest: request})
}

// ListItems returns approved items, optionally filtered by date range
// @Summary List approved items
// @Description List all approved HSA-eligible items, most recent first. Supply both startDate and endDate (YYYY-MM-DD) to filter.
// @Tags review
// @Produce json
// @Param startDate query string false "Inclusive start date (YYYY-MM-DD)"
// @Param endDate query string false "Inclusive end date (YYYY-MM-DD)"
// @Success 200 {object} model.ItemsResponse
// @Failure 400 {object} model.ErrorResponse "Half-open date range"
// @Router /items [get]
func (h *ReviewHandler) ListItems(c *gin.Context) {
	startDate := getQueryString(c, "startDate")
	endDate := getQueryString(c, "endDate")

	if (startDate == "") != (endDate == "") {
		respondBadRequest(c, "startDate and endDate must be supplied together",
			model.ErrorDetail{Field: "startDate", Message: "required when endDate is set"},
			model.ErrorDetail{Field: "endDate", Message: "required when startDate is set"},
		)
		return
	}

	response, err := h.review.ListItems(c.Request.Context(), startDate, endDate)
	if err != nil {
		logError(c, "list_items", err)
		respondOK(c, model.ItemsResponse{
			Items: []domain.ApprovedItem{},
			Error: fmt.Sprintf("Listing approved items failed: %v", err),
		})
		return
	}

	respondOK(c, response)
}
