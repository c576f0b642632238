package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// CustomHTTPEngine queries a self-hosted search endpoint that speaks a
// simple JSON contract: GET {base_url}?q=<query>&limit=<n> returning
// {"results": [{"title", "url", "snippet", "score"}]}. An API key, when
// configured, travels as a bearer token.
type CustomHTTPEngine struct {
	name     string
	apiKey   string
	baseURL  string
	enabled  bool
	priority int
	client   *http.Client
}

func NewCustomHTTPEngine(config EngineConfig) (Engine, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("custom engine %q requires base_url", config.Name)
	}

	return &CustomHTTPEngine{
		name:     config.Name,
		apiKey:   config.APIKey,
		baseURL:  config.BaseURL,
		enabled:  config.Enabled,
		priority: config.Priority,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (e *CustomHTTPEngine) Name() string {
	return e.name
}

func (e *CustomHTTPEngine) Type() string {
	return "custom"
}

func (e *CustomHTTPEngine) IsEnabled() bool {
	return e.enabled
}

func (e *CustomHTTPEngine) Priority() int {
	return e.priority
}

func (e *CustomHTTPEngine) Search(ctx context.Context, query string, limit int) (*Response, error) {
	startTime := time.Now()

	searchURL := fmt.Sprintf("%s?q=%s&limit=%d", e.baseURL, url.QueryEscape(query), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Inkwell/1.0")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("custom engine %s returned status %d", e.name, resp.StatusCode)
	}

	var apiResponse struct {
		Results []struct {
			Title   string  `json:"title"`
			URL     string  `json:"url"`
			Snippet string  `json:"snippet"`
			Score   float64 `json:"score"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	results := make([]Result, 0, len(apiResponse.Results))
	retrievedAt := time.Now()

	for _, r := range apiResponse.Results {
		results = append(results, Result{
			Title:       r.Title,
			URL:         r.URL,
			Snippet:     r.Snippet,
			Source:      e.name,
			RetrievedAt: retrievedAt,
			Score:       r.Score,
		})
	}

	return &Response{
		Query:    query,
		Results:  results,
		Engine:   e.name,
		Duration: time.Since(startTime),
	}, nil
}
