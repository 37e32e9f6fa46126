package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lillian1228/hsa-ai-assistant/internal/model"
)

// HTTP status codes as constants for consistency
const (
	StatusOK         = http.StatusOK
	StatusBadRequest = http.StatusBadRequest
)

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, message string, details ...model.ErrorDetail) {
	response := model.ErrorResponse{
		Status:  http.StatusText(statusCode),
		Message: message,
		Details: details,
	}
	c.JSON(statusCode, response)
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...model.ErrorDetail) {
	respondWithError(c, StatusBadRequest, message, details...)
}

// respondOK sends a 200 OK response with data
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(StatusOK, data)
}
