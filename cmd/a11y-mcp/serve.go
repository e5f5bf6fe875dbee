package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironsheep/a11y-scan-mcp/internal/logging"
	"github.com/ironsheep/a11y-scan-mcp/internal/server"
)

// drainTimeout bounds the wait for running scans on shutdown.
const drainTimeout = 30 * time.Second

var maxWait time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdin/stdout (default)",
	Long: `Run the MCP server on stdin/stdout.

The server owns stdout for protocol frames, so logs always go to stderr or
the configured log file.`,
	RunE: runServe,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, serveCmd} {
		c.Flags().DurationVar(&maxWait, "max-wait", 10*time.Minute, "Upper bound for a11y_scan_wait timeouts")
	}
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.Default()
	ctx = logging.With(ctx, logger)

	d, err := buildDeps(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := d.Close(); err != nil {
			logger.Warn("failed to close store", "error", err)
		}
	}()

	logger.Info("starting MCP server",
		"version", Version,
		"commit", GitCommit,
		"built", BuildTime,
	)

	srv := server.New(d.orch, d.store,
		server.WithVersion(Version),
		server.WithMaxWait(maxWait),
	)
	runErr := srv.Run(ctx)

	drainCtx, cancel := context.WithTimeout(logging.Detach(ctx), drainTimeout)
	defer cancel()
	if err := d.orch.Drain(drainCtx); err != nil {
		logger.Warn("scans still running at shutdown", "error", err)
	}

	if runErr != nil && ctx.Err() == nil {
		return runErr
	}
	return nil
}
