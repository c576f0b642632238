// Package imagegen is a thin client for a locally hosted Stable
// Diffusion WebUI txt2img endpoint, used to illustrate documents.
package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultSteps    = 20
	defaultCFGScale = 7.0
	defaultSize     = 512
)

// GenerateRequest describes one image generation call. Zero values fall
// back to the defaults above.
type GenerateRequest struct {
	Prompt   string  `json:"prompt"`
	Steps    int     `json:"steps"`
	CFGScale float64 `json:"cfg_scale"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
}

// Client calls the txt2img endpoint.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			// Image generation on CPU-bound local hosts is slow.
			Timeout: 5 * time.Minute,
		},
	}
}

// Generate renders the prompt and returns the raw bytes of the first
// produced image (PNG, per the WebUI default).
func (c *Client) Generate(ctx context.Context, req GenerateRequest) ([]byte, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("prompt must not be empty")
	}
	if req.Steps <= 0 {
		req.Steps = defaultSteps
	}
	if req.CFGScale <= 0 {
		req.CFGScale = defaultCFGScale
	}
	if req.Width <= 0 {
		req.Width = defaultSize
	}
	if req.Height <= 0 {
		req.Height = defaultSize
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sdapi/v1/txt2img", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("txt2img request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("txt2img returned status %d", resp.StatusCode)
	}

	var apiResp struct {
		Images []string `json:"images"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse txt2img response: %w", err)
	}
	if len(apiResp.Images) == 0 {
		return nil, fmt.Errorf("txt2img returned no images")
	}

	img, err := base64.StdEncoding.DecodeString(apiResp.Images[0])
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
