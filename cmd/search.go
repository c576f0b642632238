package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkarlin/inkwell/internal/relay"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the web through the relay",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVar(&searchLimit, "limit", 5, "Max results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := relay.NewClient(relay.Config{ServerURL: cfg.Relay.ServerURL})
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 45*time.Second)
	defer cancel()

	if err := client.Connect(ctx); err != nil {
		return err
	}

	query := args[0]
	for _, extra := range args[1:] {
		query += " " + extra
	}

	raw, err := client.Call(ctx, relay.MethodSearch, relay.SearchParams{
		Query: query,
		Limit: searchLimit,
	})
	if err != nil {
		return err
	}

	var set relay.SearchResultSet
	if err := decodeResult(raw, &set); err != nil {
		return err
	}

	if len(set.Results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	for i, r := range set.Results {
		fmt.Printf("%d. %s\n   %s\n", i+1, r.Title, r.URL)
		if r.Summary != "" {
			fmt.Printf("   %s\n", r.Summary)
		}
		fmt.Println()
	}
	return nil
}
