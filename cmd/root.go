package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkarlin/inkwell/internal/config"
	"github.com/mkarlin/inkwell/internal/fetch"
	"github.com/mkarlin/inkwell/internal/llm"
	"github.com/mkarlin/inkwell/internal/search"
)

var (
	configPath   string
	tavilyAPIKey string
	serverURL    string
)

var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "inkwell document-authoring research toolchain",
	Long: `inkwell drafts, templates and researches documents with a locally
hosted language model.

Commands:
  inkwell serve      Run the research relay server
  inkwell search     Search the web through the relay
  inkwell fetch      Fetch a URL's readable text through the relay
  inkwell draft      Manage document drafts
  inkwell export     Export a draft to Markdown or HTML
  inkwell mcp        Serve the research tools over MCP stdio`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file path (default: $INKWELL_CONFIG or ~/.inkwell.yaml)")
	rootCmd.PersistentFlags().StringVar(&tavilyAPIKey, "tavily-api-key", "",
		"Tavily search API key (overrides config)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server-url", "",
		"Relay server WebSocket URL (overrides config)")
}

// loadConfig reads the config file and applies flag/env overrides.
// Precedence: command line flag > environment variable > config file.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	key := tavilyAPIKey
	if key == "" {
		key = os.Getenv("TAVILY_API_KEY")
	}
	if key != "" {
		found := false
		for i := range cfg.Search.Engines {
			if cfg.Search.Engines[i].Type == "tavily" {
				cfg.Search.Engines[i].APIKey = key
				cfg.Search.Engines[i].Enabled = true
				found = true
			}
		}
		if !found {
			cfg.Search.Engines = append(cfg.Search.Engines, search.EngineConfig{
				Name: "tavily", Type: "tavily", APIKey: key, Enabled: true, Priority: 1,
			})
		}
	}

	if serverURL != "" {
		cfg.Relay.ServerURL = serverURL
	} else if env := os.Getenv("INKWELL_SERVER_URL"); env != "" {
		cfg.Relay.ServerURL = env
	}

	return cfg, nil
}

// buildSearchManager wires the configured engines.
func buildSearchManager(cfg *config.Config) (*search.Manager, error) {
	return search.NewManager(cfg.Search.PrimaryEngine, cfg.Search.Engines, search.NewRegistry())
}

// buildFetcher wires the URL fetcher, with LLM summarization when a
// provider is configured.
func buildFetcher(cfg *config.Config) *fetch.Fetcher {
	var summarizer fetch.Summarizer
	if provider, err := llm.New(cfg.LLM); err == nil {
		summarizer = llm.NewSummarizer(provider)
	}
	return fetch.New(fetch.Config{
		EnableSSRFProtection: cfg.Fetch.EnableSSRFProtection,
	}, summarizer)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
