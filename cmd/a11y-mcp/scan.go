package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"

	"github.com/ironsheep/a11y-scan-mcp/internal/logging"
	"github.com/ironsheep/a11y-scan-mcp/internal/report"
	"github.com/ironsheep/a11y-scan-mcp/internal/scan"
	"github.com/ironsheep/a11y-scan-mcp/internal/server"
)

// Output formats for scan and analyze.
const (
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

var (
	outputFormat string
	scanTimeout  time.Duration

	elementsPath string
	pageURL      string
)

var scanCmd = &cobra.Command{
	Use:   "scan <url>",
	Short: "Scan one page and print its report",
	Long: `Render a page, analyze the screenshot and print the report.

The scan is recorded in the configured store and its artifacts are written
like any scan submitted through the MCP server.

Examples:
  a11y-mcp scan https://example.com
  a11y-mcp scan https://example.com --format markdown --timeout 2m`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <image>",
	Short: "Analyze a saved screenshot and print its report",
	Long: `Run the analyzers over an existing PNG or JPEG screenshot.

An optional JSON array of page elements (selector, tag, bbox, styles) is
used to attach DOM context to the issues.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	for _, c := range []*cobra.Command{scanCmd, analyzeCmd} {
		c.Flags().StringVarP(&outputFormat, "format", "f", formatJSON, "Output format (json, markdown)")
	}
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 5*time.Minute, "Give up on the scan after this long")
	analyzeCmd.Flags().StringVarP(&elementsPath, "elements", "e", "", "JSON file with page elements")
	analyzeCmd.Flags().StringVar(&pageURL, "url", "", "Page URL to show in the report (default file://<image>)")

	rootCmd.AddCommand(scanCmd, analyzeCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := checkFormat(outputFormat); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(logging.With(cmd.Context(), logging.Default()), scanTimeout)
	defer cancel()

	d, err := buildDeps(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()

	h, err := d.orch.Submit(ctx, args[0])
	if err != nil {
		return err
	}
	sc, err := h.Wait(ctx)
	if err != nil {
		return goerr.Wrap(err, "scan did not finish", goerr.V("scan_id", h.ID()))
	}
	if sc.Status == scan.StatusError {
		return goerr.New(sc.Error.Message,
			goerr.V("scan_id", sc.ID),
			goerr.V("kind", sc.Error.Kind),
		)
	}

	return writeResult(cmd.OutOrStdout(), outputFormat, sc.URL, sc.Result)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := checkFormat(outputFormat); err != nil {
		return err
	}
	ctx := logging.With(cmd.Context(), logging.Default())

	data, err := os.ReadFile(args[0]) // #nosec G304 -- user-chosen screenshot
	if err != nil {
		return goerr.Wrap(err, "failed to read screenshot", goerr.V("path", args[0]))
	}
	elements, err := server.LoadElements(elementsPath)
	if err != nil {
		return err
	}

	d, err := buildDeps(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()

	url := pageURL
	if url == "" {
		url = "file://" + args[0]
	}
	res, err := d.orch.AnalyzeScreenshot(ctx, data, elements, url)
	if err != nil {
		return err
	}
	return writeResult(cmd.OutOrStdout(), outputFormat, url, res)
}

func checkFormat(format string) error {
	if format != formatJSON && format != formatMarkdown {
		return goerr.New("unknown output format", goerr.V("format", format))
	}
	return nil
}

func writeResult(w io.Writer, format, url string, res *scan.Result) error {
	if format == formatMarkdown {
		return report.WriteMarkdown(w, report.Input{
			URL:            url,
			PageInfo:       res.PageInfo,
			Issues:         res.Issues,
			Summary:        res.Summary,
			ScreenshotPath: res.ScreenshotPath,
			AnnotatedPath:  res.AnnotatedScreenshotPath,
		})
	}
	return report.WriteJSON(w, report.Document{
		URL:              url,
		PageInfo:         res.PageInfo,
		Issues:           res.Issues,
		Summary:          res.Summary,
		ElementsAnalyzed: res.Summary.ElementsAnalyzed,
		ScreenshotPath:   res.ScreenshotPath,
	})
}
