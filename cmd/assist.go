package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkarlin/inkwell/internal/llm"
	"github.com/mkarlin/inkwell/internal/persist"
)

var assistDraftID string

var assistCmd = &cobra.Command{
	Use:   "assist <instruction>",
	Short: "Ask the configured LLM for drafting help",
	Long: `Send an instruction to the configured completion endpoint. With
--draft, the draft body is included as context.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAssist,
}

func init() {
	rootCmd.AddCommand(assistCmd)
	assistCmd.Flags().StringVar(&assistDraftID, "draft", "", "Draft id to include as context")
}

func runAssist(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	provider, err := llm.New(cfg.LLM)
	if err != nil {
		return err
	}

	instruction := args[0]
	for _, extra := range args[1:] {
		instruction += " " + extra
	}

	prompt := instruction
	if assistDraftID != "" {
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		d, err := store.GetDraft(assistDraftID)
		if err != nil {
			if errors.Is(err, persist.ErrNotFound) {
				return fmt.Errorf("draft not found: %s", assistDraftID)
			}
			return err
		}
		prompt = fmt.Sprintf("Current draft:\n\n%s\n\nInstruction: %s", d.Body, instruction)
	}

	out, err := provider.Complete(cmd.Context(), llm.CompletionRequest{
		System: "You are a document-writing assistant. Be concise and concrete.",
		Prompt: prompt,
	})
	if err != nil {
		return err
	}

	fmt.Println(out)
	return nil
}
