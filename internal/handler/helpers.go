package handler

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
)

// getPathParam retrieves a path parameter and validates it's not empty
func getPathParam(c *gin.Context, paramName string) (string, error) {
	value := c.Param(paramName)
	if value == "" {
		return "", fmt.Errorf("%s is required", paramName)
	}
	return value, nil
}

// getQueryString retrieves a string query parameter
func getQueryString(c *gin.Context, paramName string) string {
	return c.Query(paramName)
}

// bindJSON binds JSON request body to a struct
func bindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return fmt.Errorf("invalid JSON format: %v", err)
	}
	return nil
}

// logError logs a handler-level error with request context
func logError(c *gin.Context, op string, err error) {
	requestID := c.GetString("request_id")
	if requestID != "" {
		log.Printf("[%s] %s %s: %s failed: %v", requestID, c.Request.Method, c.Request.URL.Path, op, err)
		return
	}
	log.Printf("%s %s: %s failed: %v", c.Request.Method, c.Request.URL.Path, op, err)
}
