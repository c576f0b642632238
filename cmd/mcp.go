package cmd

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/mkarlin/inkwell/internal/tools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the research tools over MCP stdio",
	Long: `Serve web_search and fetch_url as MCP tools over stdio, for
editor integrations that speak MCP instead of the WebSocket relay.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	manager, err := buildSearchManager(cfg)
	if err != nil {
		return err
	}
	fetcher := buildFetcher(cfg)

	s := server.NewMCPServer("inkwell-research", Version)
	tools.NewToolset(manager, fetcher).Register(s)

	return server.ServeStdio(s)
}
