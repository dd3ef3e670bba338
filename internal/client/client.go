// Package client is the Go client for the api-research backend, used by the
// terminal UI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Dougal-McGuire/api-research/internal/models"
)

// Client calls the research backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	// No client-side timeout: a research call legitimately runs for
	// minutes; the server enforces its own limits.
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: &http.Client{}}
}

// Search submits one research request and returns the backend's result.
func (c *Client) Search(ctx context.Context, req models.SearchRequest) (models.SearchResult, error) {
	body, _ := json.Marshal(req)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/research/search", bytes.NewReader(body))
	if err != nil {
		return models.SearchResult{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return models.SearchResult{}, fmt.Errorf("backend /api/research/search: %w", err)
	}
	defer resp.Body.Close()

	if err := checkResp(resp, "/api/research/search"); err != nil {
		return models.SearchResult{}, err
	}

	var result models.SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return models.SearchResult{}, fmt.Errorf("backend /api/research/search: decode: %w", err)
	}
	return result, nil
}

// Models fetches the web-search-capable model list.
func (c *Client) Models(ctx context.Context) ([]models.ModelInfo, error) {
	var resp models.ModelsResponse
	if err := c.getJSON(ctx, "/api/research/models", &resp); err != nil {
		return nil, err
	}
	return resp.Models, nil
}

// Template fetches the current research prompt template.
func (c *Client) Template(ctx context.Context) (string, error) {
	var resp map[string]string
	if err := c.getJSON(ctx, "/api/research/template", &resp); err != nil {
		return "", err
	}
	return resp["template"], nil
}

// UpdateTemplate replaces the research prompt template.
func (c *Client) UpdateTemplate(ctx context.Context, template string) error {
	body, _ := json.Marshal(map[string]string{"template": template})
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/api/research/template", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend /api/research/template: %w", err)
	}
	defer resp.Body.Close()
	return checkResp(resp, "/api/research/template")
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend %s: %w", path, err)
	}
	defer resp.Body.Close()

	if err := checkResp(resp, path); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// checkResp turns a non-2xx response into an error carrying the backend's
// detail message.
func checkResp(resp *http.Response, path string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	var errResp models.ErrorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Detail != "" {
		return fmt.Errorf("backend %s returned %d: %s", path, resp.StatusCode, errResp.Detail)
	}
	return fmt.Errorf("backend %s returned %d: %s", path, resp.StatusCode, string(body))
}
