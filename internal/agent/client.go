package agent

import (
	"net/http"
	"time"
)

// AgentError represents an error that occurred during an agent interaction
type AgentError struct {
	Op  string // Operation that caused the error
	Err error  // Original error
}

// Error implements the error interface
func (e *AgentError) Error() string {
	if e.Err == nil {
		return "agent error: " + e.Op
	}
	return "agent error: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *AgentError) Unwrap() error {
	return e.Err
}

// Client talks to an OpenRouter-compatible chat-completions API and drives
// the expense-manager agent loop, including local execution of the
// request_receipt_review tool.
type Client struct {
	apiKey            string
	apiURL            string
	modelID           string
	httpClient        *http.Client
	maxToolIterations int
}

// Config holds configuration for the agent client
type Config struct {
	APIKey  string
	ModelID string
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns a default configuration for the agent client
func DefaultConfig() *Config {
	return &Config{
		ModelID: "google/gemini-2.5-flash",
		BaseURL: "https://openrouter.ai/api/v1",
		Timeout: 120 * time.Second,
	}
}

// NewClient creates a new agent client
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}

	return &Client{
		apiKey:            config.APIKey,
		apiURL:            baseURL + "/chat/completions",
		modelID:           config.ModelID,
		maxToolIterations: 4,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}
