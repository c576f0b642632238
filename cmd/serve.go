package cmd

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkarlin/inkwell/internal/persist"
	"github.com/mkarlin/inkwell/internal/relayserver"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the research relay server",
	Long: `Start the research relay server.

The server exposes:
  - a WebSocket endpoint (/ws) dispatching search/web and fetch/url
  - CORS-enabled control endpoints (/health, /api/status)`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8532)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Relay.ListenAddr
	}
	if addr == "" {
		addr = ":8532"
	}

	manager, err := buildSearchManager(cfg)
	if err != nil {
		return err
	}
	fetcher := buildFetcher(cfg)

	srv := relayserver.New(relayserver.Config{
		Addr:          addr,
		AllowedOrigin: cfg.Relay.AllowedOrigin,
	}, relayserver.NewSearchAdapter(manager), fetcher)

	// Draft retention runs alongside the server since it is the only
	// long-lived process.
	if cfg.Store.RetentionDays > 0 {
		store, err := persist.NewStore(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		sweeper := persist.NewSweeper(store, time.Duration(cfg.Store.RetentionDays)*24*time.Hour)
		if err := sweeper.Start(); err != nil {
			return err
		}
		defer sweeper.Stop()
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	log.Println("Server stopped")
	return nil
}
