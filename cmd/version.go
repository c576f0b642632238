package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the semantic version of this build.
const Version = "0.3.0"

var build = "unknown"

// SetBuild records the build identifier injected via ldflags.
func SetBuild(b string) {
	if b != "" {
		build = b
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("inkwell v%s (build %s)\n", Version, build)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
