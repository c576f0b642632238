package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkarlin/inkwell/internal/relay"
)

var fetchSummarize bool

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Fetch a URL's readable text through the relay",
	Args:  cobra.ExactArgs(1),
	RunE:  runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().BoolVar(&fetchSummarize, "summarize", false,
		"Summarize the fetched content with the configured LLM")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := relay.NewClient(relay.Config{ServerURL: cfg.Relay.ServerURL})
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	if err := client.Connect(ctx); err != nil {
		return err
	}

	raw, err := client.Call(ctx, relay.MethodFetchURL, relay.FetchParams{
		URL:       args[0],
		Summarize: fetchSummarize,
	})
	if err != nil {
		return err
	}

	var result relay.FetchResult
	if err := decodeResult(raw, &result); err != nil {
		return err
	}

	if result.Title != "" {
		fmt.Printf("%s\n\n", result.Title)
	}
	if result.Summary != "" {
		fmt.Printf("Summary: %s\n\n", result.Summary)
	}
	fmt.Println(result.Content)
	return nil
}

func decodeResult(raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("malformed relay result: %w", err)
	}
	return nil
}
