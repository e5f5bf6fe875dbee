package report

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ironsheep/a11y-scan-mcp/internal/detection"
	"github.com/ironsheep/a11y-scan-mcp/internal/imaging"
)

// SeverityColors maps each severity to its overlay color.
var SeverityColors = map[detection.Severity]color.NRGBA{
	detection.SeverityCritical: {220, 38, 38, 255},
	detection.SeveritySerious:  {251, 146, 60, 255},
	detection.SeverityMinor:    {250, 204, 21, 255},
	detection.SeverityModerate: {59, 130, 246, 255},
}

var unknownSeverityColor = color.NRGBA{128, 128, 128, 255}

// Overlay draws a numbered, severity-colored box for every issue on a copy of img and
// adds a severity legend. Boxes show the contrast ratio or the target size as a caption.
func Overlay(img image.Image, issues []detection.Issue) *image.NRGBA {
	notes := make([]imaging.Annotation, 0, len(issues))
	for i, issue := range issues {
		c, ok := SeverityColors[issue.Severity]
		if !ok {
			c = unknownSeverityColor
		}
		notes = append(notes, imaging.Annotation{
			Rect:    issue.BBox.Rect(),
			Color:   c,
			Label:   fmt.Sprintf("#%d: %s", i+1, issue.Rule),
			Caption: caption(issue),
		})
	}

	legend := make([]imaging.LegendEntry, 0, len(detection.Severities))
	for _, sev := range detection.Severities {
		legend = append(legend, imaging.LegendEntry{Color: SeverityColors[sev], Text: legendText(sev)})
	}
	return imaging.Annotate(img, notes, legend)
}

func legendText(sev detection.Severity) string {
	switch sev {
	case detection.SeverityCritical:
		return "Critical - Must fix"
	case detection.SeveritySerious:
		return "Serious - Should fix"
	case detection.SeverityModerate:
		return "Moderate - Consider fixing"
	default:
		return "Minor - Nice to fix"
	}
}

func caption(issue detection.Issue) string {
	switch d := issue.Details.(type) {
	case *detection.LowContrastDetails:
		return fmt.Sprintf("%.2f:1", d.ContrastRatio)
	case *detection.TargetSizeDetails:
		return fmt.Sprintf("%dx%dpx", d.CurrentSize.Width, d.CurrentSize.Height)
	}
	return ""
}
