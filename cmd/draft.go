package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkarlin/inkwell/internal/config"
	"github.com/mkarlin/inkwell/internal/doc"
	"github.com/mkarlin/inkwell/internal/persist"
)

var (
	draftTemplate string
	draftTitle    string
	draftVars     []string
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Manage document drafts",
}

var draftNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a draft from a template",
	RunE:  runDraftNew,
}

var draftListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved drafts",
	RunE:  runDraftList,
}

var draftShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftShow,
}

var draftRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftRm,
}

var draftTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available templates and their variables",
	RunE:  runDraftTemplates,
}

func init() {
	rootCmd.AddCommand(draftCmd)
	draftCmd.AddCommand(draftNewCmd, draftListCmd, draftShowCmd, draftRmCmd, draftTemplatesCmd)

	draftNewCmd.Flags().StringVar(&draftTemplate, "template", "", "Template name (see 'draft templates')")
	draftNewCmd.Flags().StringVar(&draftTitle, "title", "", "Draft title")
	draftNewCmd.Flags().StringArrayVar(&draftVars, "var", nil,
		"Template variable as name=value (repeatable)")
}

func openStore(cfg *config.Config) (*persist.Store, error) {
	return persist.NewStore(cfg.Store.Path)
}

func runDraftNew(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if draftTemplate == "" {
		return fmt.Errorf("--template is required")
	}

	tmpl, err := doc.FindTemplate(draftTemplate, cfg.Templates)
	if err != nil {
		return err
	}

	vars := make(map[string]string, len(draftVars))
	for _, kv := range draftVars {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid --var %q, want name=value", kv)
		}
		vars[name] = value
	}

	body, missing := tmpl.Render(vars)

	title := draftTitle
	if title == "" {
		title = tmpl.Name
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	draft, err := store.SaveDraft(persist.Draft{
		Title:    title,
		Body:     body,
		Template: tmpl.Name,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created draft %s (%s)\n", draft.ID, draft.Title)
	if len(missing) > 0 {
		fmt.Printf("Unfilled variables: %s\n", strings.Join(missing, ", "))
	}
	return nil
}

func runDraftList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	drafts, err := store.ListDrafts()
	if err != nil {
		return err
	}
	if len(drafts) == 0 {
		fmt.Println("No drafts.")
		return nil
	}
	for _, d := range drafts {
		fmt.Printf("%s  %-30s  %s  (%s)\n",
			d.ID, d.Title, d.UpdatedAt.Local().Format(time.DateTime), d.Template)
	}
	return nil
}

func runDraftShow(cmd *cobra.Command, args []string) error {
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
	fmt.Printf("# %s\n\n%s\n", d.Title, d.Body)
	return nil
}

func runDraftRm(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteDraft(args[0]); err != nil {
		return err
	}
	fmt.Println("Deleted.")
	return nil
}

func runDraftTemplates(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	templates := append(doc.BuiltinTemplates(), cfg.Templates...)
	for _, t := range templates {
		fmt.Printf("%-20s %s\n", t.Name, t.Description)
		if vars := t.Variables(); len(vars) > 0 {
			fmt.Printf("%-20s variables: %s\n", "", strings.Join(vars, ", "))
		}
	}
	return nil
}
