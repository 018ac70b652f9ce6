package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/junction-mcp/junction/internal/aggregator"
	"github.com/junction-mcp/junction/internal/config"
	"github.com/junction-mcp/junction/pkg/logging"
)

var serveDebug bool
var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the aggregating proxy over stdio",
	Long: `serve locates mcp-config.{yaml,yml,json} (via --config, PROJECT_PATH, or the
current directory), dials every configured server, and serves the upstream
MCP facade over stdio.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	level := logging.LevelInfo
	if serveDebug {
		level = logging.LevelDebug
	}
	logging.InitForCLI(level, os.Stderr)

	path := serveConfigPath
	if path == "" {
		var err error
		path, err = config.LocateConfigFile()
		if err != nil {
			return fmt.Errorf("locating configuration: %w", err)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading configuration %s: %w", path, err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	srv, err := aggregator.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("starting aggregator: %w", err)
	}
	defer srv.Close()

	return srv.Serve()
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to mcp-config.{yaml,yml,json} (overrides PROJECT_PATH/cwd lookup)")
}
