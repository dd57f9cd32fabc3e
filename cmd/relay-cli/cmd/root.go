package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "relay-cli",
	Short: "Chatrelay CLI tool",
	Long: `Chatrelay CLI is a command-line interface for operating a chatrelay deployment.

Available commands:
  history    Inspect or clear a room's persisted message history

Use "relay-cli [command] --help" for more information about a specific command.`,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
