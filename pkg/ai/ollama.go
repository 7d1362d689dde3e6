package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultOllamaBaseURL is the standard local Ollama endpoint.
const DefaultOllamaBaseURL = "http://localhost:11434"

// DefaultLocalTimeout is generous because a local model server may need a
// cold start before the first token.
const DefaultLocalTimeout = 60 * time.Second

// OllamaProvider calls a local Ollama server's generate endpoint.
type OllamaProvider struct {
	model   string
	baseURL string
	client  *http.Client
}

// NewOllamaProvider builds a provider. An empty baseURL means localhost; a
// zero timeout means DefaultLocalTimeout.
func NewOllamaProvider(model, baseURL string, timeout time.Duration) *OllamaProvider {
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultLocalTimeout
	}
	return &OllamaProvider{
		model:   model,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *OllamaProvider) Name() string { return "ollama" }

// Complete issues a single non-streaming generate request.
func (p *OllamaProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	type generateRequest struct {
		Model  string `json:"model"`
		System string `json:"system,omitempty"`
		Prompt string `json:"prompt"`
		Stream bool   `json:"stream"`
	}
	type generateResponse struct {
		Response string `json:"response"`
		Done     bool   `json:"done"`
	}

	reqData, err := json.Marshal(generateRequest{
		Model:  p.model,
		System: systemPrompt,
		Prompt: userPrompt,
		Stream: false,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(reqData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(respData)))
	}

	var response generateResponse
	if err := json.Unmarshal(respData, &response); err != nil {
		return "", fmt.Errorf("parsing ollama response: %w", err)
	}
	return strings.TrimSpace(response.Response), nil
}
