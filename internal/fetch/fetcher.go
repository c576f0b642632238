// Package fetch retrieves readable text for URLs on behalf of the
// relay's fetch/url operation.
package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mkarlin/inkwell/internal/relay"
	"github.com/mkarlin/inkwell/internal/security"
)

const (
	maxBodyBytes    = 100 * 1024
	maxContentRunes = 10000
	userAgent       = "Mozilla/5.0 (compatible; Inkwell/1.0)"
)

// Summarizer condenses fetched content. Optional; when nil, fetch
// results carry no summary.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Config holds fetcher configuration.
type Config struct {
	EnableSSRFProtection bool
	Timeout              time.Duration
}

// Fetcher downloads a page and reduces it to readable text.
type Fetcher struct {
	cfg        Config
	client     *http.Client
	summarizer Summarizer
}

func New(cfg Config, summarizer Summarizer) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Fetcher{
		cfg:        cfg,
		client:     &http.Client{Timeout: cfg.Timeout},
		summarizer: summarizer,
	}
}

// Fetch validates the URL, downloads the page and extracts readable
// text. Syntactically invalid URLs are rejected before any network
// contact; transport and content failures map to fetch errors.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, summarize bool) (relay.FetchResult, error) {
	rawURL = strings.TrimSpace(rawURL)
	if err := validateURL(rawURL); err != nil {
		return relay.FetchResult{}, err
	}

	if f.cfg.EnableSSRFProtection {
		if err := security.ValidateFetchURL(rawURL); err != nil {
			return relay.FetchResult{}, relay.Errorf(relay.KindInvalidArgument, "url blocked: %v", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return relay.FetchResult{}, relay.Errorf(relay.KindInvalidArgument, "invalid url: %v", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return relay.FetchResult{}, relay.Errorf(relay.KindFetch, "fetch failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return relay.FetchResult{}, relay.Errorf(relay.KindFetch, "remote returned status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "text/") &&
		!strings.Contains(contentType, "json") && !strings.Contains(contentType, "xml") {
		return relay.FetchResult{}, relay.Errorf(relay.KindFetch, "unsupported content type: %s", contentType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return relay.FetchResult{}, relay.Errorf(relay.KindFetch, "failed to read response: %v", err)
	}

	title := ""
	content := string(body)
	if strings.Contains(contentType, "text/html") {
		title = extractTitle(content)
		content = extractTextFromHTML(content)
	}
	if runes := []rune(content); len(runes) > maxContentRunes {
		content = string(runes[:maxContentRunes]) + "\n... (truncated)"
	}

	result := relay.FetchResult{
		Title:   title,
		URL:     rawURL,
		Content: content,
	}

	if summarize && f.summarizer != nil {
		summary, err := f.summarizer.Summarize(ctx, content)
		if err != nil {
			// A failed summary never fails the fetch.
			return result, nil
		}
		result.Summary = summary
	}

	return result, nil
}

// validateURL rejects syntactically invalid URLs without touching the
// network.
func validateURL(rawURL string) error {
	if rawURL == "" {
		return relay.Errorf(relay.KindInvalidArgument, "url must not be empty")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return relay.Errorf(relay.KindInvalidArgument, "invalid url: %v", err)
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return relay.Errorf(relay.KindInvalidArgument, "unsupported url scheme: %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return relay.Errorf(relay.KindInvalidArgument, "url host is required")
	}
	return nil
}

// extractTitle pulls the first <title> element, if any.
func extractTitle(html string) string {
	lower := strings.ToLower(html)
	start := strings.Index(lower, "<title")
	if start == -1 {
		return ""
	}
	open := strings.Index(lower[start:], ">")
	if open == -1 {
		return ""
	}
	start += open + 1
	end := strings.Index(lower[start:], "</title>")
	if end == -1 {
		return ""
	}
	return strings.TrimSpace(html[start : start+end])
}

func extractTextFromHTML(html string) string {
	for _, tag := range []string{"script", "style", "noscript"} {
		for {
			start := strings.Index(strings.ToLower(html), "<"+tag)
			if start == -1 {
				break
			}
			end := strings.Index(strings.ToLower(html[start:]), "</"+tag+">")
			if end == -1 {
				break
			}
			html = html[:start] + html[start+end+len("</"+tag+">"):]
		}
	}

	text := stripTags(html)

	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}

func stripTags(s string) string {
	var result strings.Builder
	inTag := false
	for _, r := range s {
		if r == '<' {
			inTag = true
		} else if r == '>' {
			inTag = false
		} else if !inTag {
			result.WriteRune(r)
		}
	}
	return result.String()
}
