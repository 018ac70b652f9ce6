// Package cmd wires the junction CLI's cobra commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
)

// rootCmd represents the base command for the junction application.
var rootCmd = &cobra.Command{
	Use:   "junction",
	Short: "Aggregate multiple MCP servers behind a single upstream connection",
	Long: `junction dials a fleet of downstream MCP servers and exposes them to a
single upstream client as two tools, describe_tools and use_tool, plus any
forwarded prompts and configured skills.`,
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "junction version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitCodeError)
	}
}
