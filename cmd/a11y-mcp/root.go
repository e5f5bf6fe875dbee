package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/a11y-scan-mcp/internal/config"
	"github.com/ironsheep/a11y-scan-mcp/internal/logging"
)

var (
	configPath string
	logFormat  string
	logLevel   string
	logOutput  string

	// cfg is loaded before any command runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "a11y-mcp",
	Short: "Screenshot-based accessibility scanner with an MCP server",
	Long: `a11y-mcp renders web pages in headless Chrome, looks for low-contrast
regions and undersized touch targets in the screenshot, and writes annotated
screenshots plus JSON and Markdown reports.

Run without a subcommand to start the MCP server on stdin/stdout.

Examples:
  a11y-mcp
  a11y-mcp scan https://example.com --format markdown
  a11y-mcp analyze shot.png --elements elements.json`,
	SilenceUsage:       true,
	PersistentPreRunE:  loadConfig,
	RunE:               runServe,
	PersistentPostRunE: closeLog,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Config file (default "+config.ConfigDir()+"/"+config.DefaultConfigFile+")")
	flags.StringVar(&logFormat, "log-format", "", "Log format (text, json)")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&logOutput, "log-output", "", "Log output (stderr or a file path)")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-format") {
		loaded.Log.Format = logFormat
	}
	if cmd.Flags().Changed("log-level") {
		loaded.Log.Level = logLevel
	}
	if cmd.Flags().Changed("log-output") {
		loaded.Log.Output = logOutput
	}

	if err := logging.Configure(loaded.Log.Format, loaded.Log.Level, loaded.Log.Output); err != nil {
		return err
	}
	cfg = loaded
	return nil
}

func closeLog(*cobra.Command, []string) error {
	return logging.Close()
}
