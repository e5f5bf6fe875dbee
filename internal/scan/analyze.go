package scan

import (
	"bytes"
	"context"
	"image"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/a11y-scan-mcp/internal/artifact"
	"github.com/ironsheep/a11y-scan-mcp/internal/detection"
	"github.com/ironsheep/a11y-scan-mcp/internal/imaging"
	"github.com/ironsheep/a11y-scan-mcp/internal/logging"
	"github.com/ironsheep/a11y-scan-mcp/internal/report"
)

// DefaultAnalyzers returns the contrast and target-size analyzers with default options.
func DefaultAnalyzers() []detection.Analyzer {
	return []detection.Analyzer{
		detection.NewContrastAnalyzer(detection.ContrastOptions{}),
		detection.NewTargetSizeAnalyzer(detection.TargetSizeOptions{}),
	}
}

// Analyze runs every analyzer over img in parallel and concatenates their issues in
// analyzer order. A failing or panicking analyzer fails the whole call.
func Analyze(ctx context.Context, img image.Image, analyzers []detection.Analyzer) ([]detection.Issue, error) {
	results := make([][]detection.Issue, len(analyzers))

	var g errgroup.Group
	for i, a := range analyzers {
		g.Go(func() error {
			issues, err := runAnalyzer(a, img)
			if err != nil {
				return err
			}
			results[i] = issues
			logging.From(ctx).Debug("analyzer finished", "analyzer", a.Name(), "issues", len(issues))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []detection.Issue
	for _, issues := range results {
		all = append(all, issues...)
	}
	if all == nil {
		all = []detection.Issue{}
	}
	return all, nil
}

func runAnalyzer(a detection.Analyzer, img image.Image) (issues []detection.Issue, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = goerr.New("analyzer panicked",
				goerr.V("analyzer", a.Name()),
				goerr.V("panic", r),
			)
		}
	}()

	issues, err = a.Analyze(img)
	if err != nil {
		return nil, goerr.Wrap(err, "analyzer failed", goerr.V("analyzer", a.Name()))
	}
	return issues, nil
}

// SaveReports writes the annotated screenshot and the JSON and Markdown reports for res
// under prefix, filling in the matching paths of res. Failures are logged and leave the
// path empty.
func SaveReports(ctx context.Context, store artifact.Store, prefix, url string, img image.Image, res *Result) {
	logger := logging.From(ctx)

	put := func(name, kind string, data []byte, err error) string {
		if err != nil {
			logger.Warn("failed to build report", "report", kind, "error", err)
			return ""
		}
		location, err := store.Put(ctx, artifact.Key(prefix, name), data, artifact.ContentType(name))
		if err != nil {
			logger.Warn("failed to store report", "report", kind, "error", err)
			return ""
		}
		return location
	}

	annotated, err := overlayPNG(img, res.Issues)
	res.AnnotatedScreenshotPath = put(artifact.Annotated, "overlay", annotated, err)

	var jsonDoc bytes.Buffer
	err = report.WriteJSON(&jsonDoc, report.Document{
		URL:              url,
		PageInfo:         res.PageInfo,
		Issues:           res.Issues,
		Summary:          res.Summary,
		ElementsAnalyzed: res.Summary.ElementsAnalyzed,
		ScreenshotPath:   res.ScreenshotPath,
	})
	res.ReportPath = put(artifact.JSONReport, "json", jsonDoc.Bytes(), err)

	var md bytes.Buffer
	err = report.WriteMarkdown(&md, report.Input{
		URL:            url,
		PageInfo:       res.PageInfo,
		Issues:         res.Issues,
		Summary:        res.Summary,
		ScreenshotPath: res.ScreenshotPath,
		AnnotatedPath:  res.AnnotatedScreenshotPath,
	})
	res.MarkdownReportPath = put(artifact.MarkdownReport, "markdown", md.Bytes(), err)
}

func overlayPNG(img image.Image, issues []detection.Issue) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = goerr.New("overlay panicked", goerr.V("panic", r))
		}
	}()
	return imaging.EncodePNG(report.Overlay(img, issues))
}
