package relayserver

import (
	"context"

	"github.com/mkarlin/inkwell/internal/relay"
	"github.com/mkarlin/inkwell/internal/search"
)

// SearchAdapter bridges the search manager to the relay's wire shape.
type SearchAdapter struct {
	manager *search.Manager
}

func NewSearchAdapter(manager *search.Manager) *SearchAdapter {
	return &SearchAdapter{manager: manager}
}

func (a *SearchAdapter) Search(ctx context.Context, query string, limit int) ([]relay.SearchResult, error) {
	resp, err := a.manager.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	results := make([]relay.SearchResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, relay.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Summary: r.Snippet,
		})
	}
	return results, nil
}
