// Package llm — llama-server HTTP adapter.
// LlamaServerProvider calls a local llama.cpp llama-server instance over its
// OpenAI-compatible REST API using stdlib net/http.
// Endpoints used:
//   - POST /v1/chat/completions — non-streaming chat completion
//   - GET  /health              — readiness (503 while weights are loading)
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	mimeJSON          = "application/json"
	headerContentType = "Content-Type"
)

// LlamaServerProvider implements Provider against a running llama-server.
type LlamaServerProvider struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewLlamaServerProvider creates a LlamaServerProvider. The timeout is
// generous: CPU-bound generation of 200 tokens can take tens of seconds.
func NewLlamaServerProvider(baseURL, model string) *LlamaServerProvider {
	return &LlamaServerProvider{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// ─── internal llama-server JSON types ───────────────────────────────────────

type llamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type llamaChatRequest struct {
	Model       string             `json:"model"`
	Messages    []llamaChatMessage `json:"messages"`
	Stream      bool               `json:"stream"`
	Temperature float32            `json:"temperature,omitempty"`
	MaxTokens   int                `json:"max_tokens,omitempty"`
	Stop        []string           `json:"stop,omitempty"`
}

type llamaChatChoice struct {
	Message      llamaChatMessage `json:"message"`
	FinishReason string           `json:"finish_reason"`
}

type llamaChatResponse struct {
	Choices []llamaChatChoice `json:"choices"`
	Usage   struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// ─── Provider implementation ────────────────────────────────────────────────

// ChatCompletion performs a non-streaming chat via POST /v1/chat/completions.
func (p *LlamaServerProvider) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	msgs := make([]llamaChatMessage, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = llamaChatMessage(m)
	}

	body, err := json.Marshal(llamaChatRequest{
		Model:       model,
		Messages:    msgs,
		Stream:      false,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stop:        req.Stop,
	})
	if err != nil {
		return nil, err
	}

	respBody, postErr := p.doPost(ctx, "/v1/chat/completions", body)
	if postErr != nil {
		return nil, postErr
	}
	defer respBody.Close() //nolint:errcheck

	var llamaResp llamaChatResponse
	if decodeErr := json.NewDecoder(respBody).Decode(&llamaResp); decodeErr != nil {
		return nil, fmt.Errorf("decode chat response: %w", decodeErr)
	}
	if len(llamaResp.Choices) == 0 {
		return nil, fmt.Errorf("llama-server chat: empty choices")
	}
	return &ChatResponse{
		Content:    llamaResp.Choices[0].Message.Content,
		StopReason: llamaResp.Choices[0].FinishReason,
		Tokens:     llamaResp.Usage.TotalTokens,
	}, nil
}

// ModelInfo returns static metadata for this provider/model.
func (p *LlamaServerProvider) ModelInfo() ModelMeta {
	return ModelMeta{
		ID:        p.model,
		Provider:  "llamacpp",
		Version:   "v1",
		MaxTokens: 4096,
	}
}

// HealthCheck calls GET /health — llama-server answers 503 until the model
// weights are fully loaded, 200 afterwards.
func (p *LlamaServerProvider) HealthCheck(ctx context.Context) error {
	url := p.baseURL + "/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("llama-server healthcheck: build request: %w", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("llama-server healthcheck: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("llama-server healthcheck: status %d", resp.StatusCode)
	}
	return nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// doPost sends a POST request to baseURL+path and returns the response body.
// Caller is responsible for closing the returned ReadCloser.
func (p *LlamaServerProvider) doPost(ctx context.Context, path string, body []byte) (io.ReadCloser, error) {
	url := p.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("llama-server post %s: build request: %w", path, err)
	}
	req.Header.Set(headerContentType, mimeJSON)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llama-server post %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close() //nolint:errcheck
		return nil, fmt.Errorf("llama-server post %s: status %d", path, resp.StatusCode)
	}
	return resp.Body, nil
}
