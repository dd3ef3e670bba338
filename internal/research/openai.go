package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// OpenAIClient calls an OpenAI-compatible API over HTTP.
type OpenAIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewOpenAIClient(baseURL, apiKey string) *OpenAIClient {
	return &OpenAIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// ChatCompletion issues one synchronous completion call with the prompt as
// the sole user message and returns the model's text. The reasoning models
// used for research accept no system message or sampling parameters.
func (c *OpenAIClient) ChatCompletion(ctx context.Context, model, prompt string) (string, error) {
	body, _ := json.Marshal(map[string]any{
		"model":    model,
		"messages": []chatMessage{{Role: "user", Content: prompt}},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ProviderError{Path: "/chat/completions", Err: err}
	}
	defer resp.Body.Close()

	if err := checkResp(resp, "/chat/completions"); err != nil {
		return "", err
	}

	var result chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &ProviderError{Path: "/chat/completions", Err: fmt.Errorf("decode: %w", err)}
	}
	if len(result.Choices) == 0 {
		return "", &ProviderError{Path: "/chat/completions", Err: fmt.Errorf("response contained no choices")}
	}
	return result.Choices[0].Message.Content, nil
}

// Model is one entry of the provider's model list.
type Model struct {
	ID string `json:"id"`
}

type modelListResponse struct {
	Data []Model `json:"data"`
}

// ListModels returns every model id the provider advertises.
func (c *OpenAIClient) ListModels(ctx context.Context) ([]Model, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{Path: "/models", Err: err}
	}
	defer resp.Body.Close()

	if err := checkResp(resp, "/models"); err != nil {
		return nil, err
	}

	var result modelListResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ProviderError{Path: "/models", Err: fmt.Errorf("decode: %w", err)}
	}
	return result.Data, nil
}

// checkResp reads the response body and returns a ProviderError if the
// status is not 2xx, including the upstream body for debugging.
func checkResp(resp *http.Response, path string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	return &ProviderError{Path: path, StatusCode: resp.StatusCode, Body: string(body)}
}
