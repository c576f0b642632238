package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkarlin/inkwell/internal/doc"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export <draft-id>",
	Short: "Export a draft to Markdown or HTML",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "markdown", "Output format: markdown, html")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file path (default: <draft-id>.<ext>)")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	d, err := store.GetDraft(args[0])
	if err != nil {
		return err
	}

	document := doc.Document{Title: d.Title, Body: d.Body}

	format := strings.ToLower(exportFormat)
	out := exportOut

	switch format {
	case "markdown", "md":
		if out == "" {
			out = d.ID + ".md"
		}
		err = doc.ExportMarkdown(document, out)
	case "html":
		if out == "" {
			out = d.ID + ".html"
		}
		err = doc.ExportHTML(document, out)
	default:
		return fmt.Errorf("unknown format: %s (want markdown or html)", exportFormat)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Exported %s to %s\n", d.ID, out)
	return nil
}
