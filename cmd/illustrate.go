package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkarlin/inkwell/internal/imagegen"
)

var (
	illustrateOut   string
	illustrateSteps int
	illustrateSize  int
)

var illustrateCmd = &cobra.Command{
	Use:   "illustrate <prompt>",
	Short: "Generate an illustration with the local image endpoint",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIllustrate,
}

func init() {
	rootCmd.AddCommand(illustrateCmd)
	illustrateCmd.Flags().StringVarP(&illustrateOut, "out", "o", "illustration.png", "Output file path")
	illustrateCmd.Flags().IntVar(&illustrateSteps, "steps", 0, "Sampling steps (default 20)")
	illustrateCmd.Flags().IntVar(&illustrateSize, "size", 0, "Square image size in pixels (default 512)")
}

func runIllustrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	prompt := args[0]
	for _, extra := range args[1:] {
		prompt += " " + extra
	}

	client := imagegen.NewClient(cfg.ImageGen.BaseURL)
	img, err := client.Generate(cmd.Context(), imagegen.GenerateRequest{
		Prompt: prompt,
		Steps:  illustrateSteps,
		Width:  illustrateSize,
		Height: illustrateSize,
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(illustrateOut, img, 0o644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	fmt.Printf("Wrote %d bytes to %s\n", len(img), illustrateOut)
	return nil
}
