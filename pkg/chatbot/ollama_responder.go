// FILE: pkg/chatbot/ollama_responder.go
// PURPOSE: Ollama local LLM integration for the free-text fallback responder.
//          Handles everything the intake router does not route to a flow.

package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"feature-intake-bot/internal/constant"
	"feature-intake-bot/internal/pkg/logger"
)

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "llama3"
	chatEndpoint   = "/api/chat"

	roleUser      = "user"
	roleAssistant = "assistant"
	roleSystem    = "system"
)

// OllamaChatRequest is the request payload for the Ollama chat API.
type OllamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []OllamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  *OllamaOptions  `json:"options,omitempty"`
}

// OllamaMessage represents a single message in Ollama format.
type OllamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OllamaOptions for model configuration.
type OllamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// OllamaChatResponse is the response from the Ollama chat API.
type OllamaChatResponse struct {
	Model     string        `json:"model"`
	CreatedAt time.Time     `json:"created_at"`
	Message   OllamaMessage `json:"message"`
	Done      bool          `json:"done"`
}

// OllamaResponder answers free-text small talk via a local Ollama server.
// Any failure degrades to the canned default reply so the conversation never
// dead-ends; the error is logged, not surfaced to the user.
type OllamaResponder struct {
	baseURL string
	model   string
	client  *http.Client
	logger  logger.ILogger
}

func NewOllamaResponder(baseURL, model string, log logger.ILogger) *OllamaResponder {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	return &OllamaResponder{
		baseURL: baseURL,
		model:   model,
		// Ollama can be slow on first request due to model loading
		client: &http.Client{Timeout: 120 * time.Second},
		logger: log,
	}
}

// Respond implements chat.Responder.
func (r *OllamaResponder) Respond(ctx context.Context, text string) (string, error) {
	reply, err := r.generate(ctx, text)
	if err != nil {
		r.logger.Warn("OllamaResponder", "Fallback generation failed, using default reply", map[string]interface{}{"error": err.Error()})
		return constant.DefaultFallbackReply, nil
	}
	if reply == "" {
		return constant.DefaultFallbackReply, nil
	}
	return reply, nil
}

func (r *OllamaResponder) generate(ctx context.Context, text string) (string, error) {
	payload := OllamaChatRequest{
		Model: r.model,
		Messages: []OllamaMessage{
			{Role: roleSystem, Content: constant.ResponderSystemPrompt},
			{Role: roleUser, Content: text},
		},
		Stream:  false, // Non-streaming for simplicity
		Options: &OllamaOptions{Temperature: 0.7, NumPredict: 160},
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.baseURL+chatEndpoint, bytes.NewBuffer(payloadJSON))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama error: status %d, body: %s", res.StatusCode, string(resBody))
	}

	var ollamaRes OllamaChatResponse
	if err := json.Unmarshal(resBody, &ollamaRes); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	return ollamaRes.Message.Content, nil
}
