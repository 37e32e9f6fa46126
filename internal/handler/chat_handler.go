package handler

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/Lillian1228/hsa-ai-assistant/internal/model"
	"github.com/Lillian1228/hsa-ai-assistant/internal/service"
)

// ChatHandler handles HTTP requests for the chat pipeline
type ChatHandler struct {
	expense service.ExpenseServicer
}

// NewChatHandler creates a new chat handler
func NewChatHandler(expense service.ExpenseServicer) *ChatHandler {
	return &ChatHandler{
		expense: expense,
	}
}

// RegisterRoutes registers the handler's routes with the given router
func (h *ChatHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/chat", h.Chat)
}

// Chat handles one chat turn with optional receipt image attachments
// @Summary Send a chat message
// @Description Send a message and optional base64 receipt images to the HSA assistant. Failures are reported in the response body's error field with HTTP 200.
// @Tags chat
// @Accept json
// @Produce json
// @Param request body model.ChatRequest true "Chat turn"
// @Success 200 {object} model.ChatResponse "Assistant response, possibly carrying a review request"
// @Router /chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	var request model.ChatRequest
	if err := bindJSON(c, &request); err != nil {
		respondOK(c, model.ChatResponse{
			Attachments: []model.Attachment{},
			Error:       err.Error(),
		})
		return
	}

	log.Printf("Processing chat turn (session=%s, %d attachments)", request.SessionID, len(request.Files))
	response, err := h.expense.Chat(c.Request.Context(), &request)
	if err != nil {
		logError(c, "chat", err)
		respondOK(c, model.ChatResponse{
			Attachments: []model.Attachment{},
			Error:       fmt.Sprintf("Chat processing failed: %v", err),
		})
		return
	}

	respondOK(c, response)
}
