package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Flags shared across commands.
var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "draftcommit",
	Short: "Commit message generator for staged changes",
	Long: `Draftcommit generates a structured commit message from your staged changes,
either deterministically from templates (fully offline) or through an AI
provider with a guaranteed offline fallback.`,
	// Running without a subcommand generates, like plain "git commit" would.
	Run: func(cmd *cobra.Command, args []string) {
		if err := generateCmd.RunE(cmd, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file (default: ~/.draftcommitrc)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log generation diagnostics")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
