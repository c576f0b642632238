// Package tools exposes the research operations as MCP tools over
// stdio, for editor integrations that prefer MCP to the WebSocket
// relay.
package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mkarlin/inkwell/internal/fetch"
	"github.com/mkarlin/inkwell/internal/search"
)

// Toolset bundles the collaborators the research tools dispatch to.
type Toolset struct {
	manager *search.Manager
	fetcher *fetch.Fetcher
}

func NewToolset(manager *search.Manager, fetcher *fetch.Fetcher) *Toolset {
	return &Toolset{manager: manager, fetcher: fetcher}
}

// Register adds the research tools to an MCP server.
func (t *Toolset) Register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("web_search",
		mcp.WithDescription("Search the web and return titles, URLs and snippets for the top results."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default: 5)"),
		),
	), t.WebSearch)

	s.AddTool(mcp.NewTool("fetch_url",
		mcp.WithDescription("Fetch a URL and return its readable text content."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Absolute http(s) URL to fetch"),
		),
	), t.FetchURL)
}

func (t *Toolset) WebSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, ok := req.Params.Arguments["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	limit := 5
	if l, ok := req.Params.Arguments["limit"].(float64); ok && l > 0 {
		limit = int(l)
	}

	resp, err := t.manager.Search(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	return mcp.NewToolResultText(search.FormatResults(resp)), nil
}

func (t *Toolset) FetchURL(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	urlStr, ok := req.Params.Arguments["url"].(string)
	if !ok || strings.TrimSpace(urlStr) == "" {
		return mcp.NewToolResultError("url is required"), nil
	}

	result, err := t.fetcher.Fetch(ctx, urlStr, false)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fetch failed: %v", err)), nil
	}

	var sb strings.Builder
	if result.Title != "" {
		sb.WriteString(result.Title + "\n\n")
	}
	sb.WriteString(result.Content)
	return mcp.NewToolResultText(sb.String()), nil
}
