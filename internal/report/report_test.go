package report_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/ironsheep/a11y-scan-mcp/internal/detection"
	"github.com/ironsheep/a11y-scan-mcp/internal/imaging"
	"github.com/ironsheep/a11y-scan-mcp/internal/report"
)

func sampleIssues() []detection.Issue {
	return []detection.Issue{
		{
			ID: "A11Y-LOWCON-0", Rule: detection.RuleLowContrast, WCAG: []string{"1.4.3", "1.4.6"},
			Severity: detection.SeverityCritical, Confidence: 0.75,
			Message: "Low contrast detected.",
			BBox:    detection.BBox{X: 10, Y: 10, W: 60, H: 30},
			Details: &detection.LowContrastDetails{
				ContrastRatio:   2.1,
				ForegroundColor: imaging.RGBColor{R: 200, G: 200, B: 200},
				BackgroundColor: imaging.RGBColor{R: 255, G: 255, B: 255},
				Recommendation:  "Increase contrast to at least 4.5:1",
				HowToFix:        []string{"Darken the text color"},
			},
		},
		{
			ID: "A11Y-SMALLTARGET-0", Rule: detection.RuleTargetSize, WCAG: []string{"2.5.8"},
			Severity: detection.SeveritySerious, Confidence: 0.65,
			Message: "Small interactive target detected.",
			BBox:    detection.BBox{X: 250, Y: 150, W: 20, H: 20},
			Details: &detection.TargetSizeDetails{
				CurrentSize: detection.Size{Width: 20, Height: 20},
				WCAGLevel:   "AA (Level 2.5.8)",
				Element:     &detection.ElementContext{Selector: "#close", Tag: "button"},
			},
		},
	}
}

func TestOverlay_DrawsSeverityColors(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 300, 200))
	for i := range img.Pix {
		img.Pix[i] = 255
	}

	out := report.Overlay(img, sampleIssues())
	gt.V(t, out.Bounds()).Equal(img.Bounds())

	// Bottom edge of the target-size outline, below the caption and clear of the legend.
	c := out.NRGBAAt(260, 169)
	want := report.SeverityColors[detection.SeveritySerious]
	gt.V(t, color.NRGBA{c.R, c.G, c.B, 255}).Equal(want)

	// Source image is untouched.
	gt.V(t, img.RGBAAt(260, 169)).Equal(color.RGBA{255, 255, 255, 255})
}

func TestOverlay_NoIssues(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 300))
	out := report.Overlay(img, nil)
	gt.V(t, out.Bounds().Dx()).Equal(400)
	gt.V(t, out.Bounds().Dy()).Equal(300)
}

func TestWriteJSON(t *testing.T) {
	issues := sampleIssues()
	doc := report.Document{
		URL:              "https://example.com",
		PageInfo:         detection.DefaultPageInfo("https://example.com"),
		Issues:           issues,
		Summary:          detection.Summarize(issues, 3),
		ElementsAnalyzed: 3,
		ScreenshotPath:   "/tmp/shot.png",
	}

	var buf bytes.Buffer
	gt.NoError(t, report.WriteJSON(&buf, doc))

	var raw map[string]any
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	gt.V(t, raw["url"]).Equal("https://example.com")
	gt.V(t, raw["elements_analyzed"]).Equal(float64(3))
	gt.V(t, raw["screenshot_path"]).Equal("/tmp/shot.png")

	var decoded report.Document
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	gt.A(t, decoded.Issues).Length(2)
	gt.V(t, decoded.Summary.Critical).Equal(1)
	gt.V(t, decoded.Issues[1].Details.ElementInfo().Selector).Equal("#close")
}

func TestWriteJSON_EmptyIssuesIsArray(t *testing.T) {
	var buf bytes.Buffer
	gt.NoError(t, report.WriteJSON(&buf, report.Document{URL: "u"}))
	gt.S(t, buf.String()).Contains(`"issues": []`)
}

func TestWriteMarkdown(t *testing.T) {
	issues := sampleIssues()
	var buf bytes.Buffer
	gt.NoError(t, report.WriteMarkdown(&buf, report.Input{
		URL:            "https://example.com",
		PageInfo:       detection.DefaultPageInfo("https://example.com"),
		Issues:         issues,
		Summary:        detection.Summarize(issues, 5),
		ScreenshotPath: "/tmp/shot.png",
	}))

	out := buf.String()
	gt.S(t, out).Contains("# Accessibility Scan Report")
	gt.S(t, out).Contains("https://example.com")
	gt.S(t, out).Contains("mermaid")
	gt.S(t, out).Contains("A11Y-LOWCON-0")
	gt.S(t, out).Contains("2.10:1")
	gt.S(t, out).Contains("#C8C8C8")
	gt.S(t, out).Contains("`#close`")
	gt.S(t, out).Contains("Darken the text color")
	gt.S(t, out).Contains("[!CAUTION]")
}

func TestWriteMarkdown_NoIssues(t *testing.T) {
	var buf bytes.Buffer
	gt.NoError(t, report.WriteMarkdown(&buf, report.Input{URL: "https://example.com"}))

	out := buf.String()
	gt.S(t, out).Contains("No issues detected.")
	gt.S(t, out).Contains("[!TIP]")
	gt.S(t, out).NotContains("mermaid")
}
