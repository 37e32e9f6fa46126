package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// UploadedImage references one receipt image already stored in object
// storage, identified by its content-hash receipt id.
type UploadedImage struct {
	ReceiptID string
	URL       string
}

// TurnInput is one user turn handed to the agent.
type TurnInput struct {
	Text   string
	Images []UploadedImage
}

type chatMessage struct {
	Role       string      `json:"role"`
	Content    interface{} `json:"content,omitempty"`
	ToolCalls  []toolCall  `json:"tool_calls,omitempty"`
	ToolCallID string      `json:"tool_call_id,omitempty"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type toolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// RunTurn sends one user turn to the agent and awaits its final natural
// language response, executing any request_receipt_review tool calls locally
// and feeding the results back. The turn is awaited to completion; there is
// no retry, and cancellation comes only from ctx or the client timeout.
func (c *Client) RunTurn(ctx context.Context, input TurnInput) (string, error) {
	if c.apiKey == "" {
		return "", &AgentError{
			Op:  "validate_configuration",
			Err: fmt.Errorf("agent API key is not configured. Please set AGENT_API_KEY environment variable"),
		}
	}

	messages := []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildUserContent(input)},
	}

	for iteration := 0; iteration <= c.maxToolIterations; iteration++ {
		message, err := c.complete(ctx, messages)
		if err != nil {
			return "", err
		}

		if len(message.ToolCalls) == 0 {
			text, _ := message.Content.(string)
			return text, nil
		}

		messages = append(messages, *message)
		for _, call := range message.ToolCalls {
			result := c.executeToolCall(call)
			messages = append(messages, chatMessage{
				Role:       "tool",
				ToolCallID: call.ID,
				Content:    result,
			})
		}
	}

	return "", &AgentError{
		Op:  "tool_loop",
		Err: fmt.Errorf("agent exceeded %d tool iterations without a final response", c.maxToolIterations),
	}
}

// complete performs a single chat-completions request.
func (c *Client) complete(ctx context.Context, messages []chatMessage) (*chatMessage, error) {
	requestPayload := map[string]interface{}{
		"model":    c.modelID,
		"messages": messages,
		"tools":    toolDefinitions(),
	}

	requestData, err := json.Marshal(requestPayload)
	if err != nil {
		return nil, &AgentError{
			Op:  "marshal_request",
			Err: fmt.Errorf("failed to marshal request payload: %w", err),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(requestData))
	if err != nil {
		return nil, &AgentError{
			Op:  "create_chat_request",
			Err: fmt.Errorf("failed to create request: %w", err),
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &AgentError{
			Op:  "send_chat_request",
			Err: fmt.Errorf("failed to send request: %w", err),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &AgentError{
			Op:  "read_response",
			Err: fmt.Errorf("failed to read response body: %w", err),
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &AgentError{
			Op:  "check_api_response",
			Err: fmt.Errorf("API error: %s - %s", resp.Status, string(respBody)),
		}
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return nil, &AgentError{
			Op:  "parse_response_json",
			Err: fmt.Errorf("failed to unmarshal response: %w", err),
		}
	}
	if len(completion.Choices) == 0 {
		return nil, &AgentError{
			Op:  "check_response_choices",
			Err: fmt.Errorf("no choices in response"),
		}
	}

	return &completion.Choices[0].Message, nil
}

// buildUserContent assembles the multimodal user message. Each image part is
// followed by its [IMAGE-ID <id>] placeholder so the agent can refer to
// images by id in tool calls and attachments.
func buildUserContent(input TurnInput) []contentPart {
	parts := []contentPart{}
	if input.Text != "" {
		parts = append(parts, contentPart{Type: "text", Text: input.Text})
	}
	for _, img := range input.Images {
		parts = append(parts, contentPart{
			Type:     "image_url",
			ImageURL: &imageURL{URL: img.URL},
		})
		parts = append(parts, contentPart{
			Type: "text",
			Text: fmt.Sprintf("[IMAGE-ID %s]", img.ReceiptID),
		})
	}
	if len(parts) == 0 {
		parts = append(parts, contentPart{Type: "text", Text: ""})
	}
	return parts
}

// executeToolCall dispatches a tool call by name. Tool failures are reported
// back to the agent as text so it can correct its arguments; they never fail
// the turn.
func (c *Client) executeToolCall(call toolCall) string {
	switch call.Function.Name {
	case reviewToolName:
		result, err := requestReceiptReview([]byte(call.Function.Arguments))
		if err != nil {
			return fmt.Sprintf("Error: failed to request receipt review: %v", err)
		}
		return result
	default:
		return fmt.Sprintf("Error: unknown tool %q", call.Function.Name)
	}
}
