package detection

import (
	"fmt"
	"image"
	"strings"

	"github.com/ironsheep/a11y-scan-mcp/internal/imaging"
)

// WCAG contrast thresholds for normal text.
const (
	ContrastAA  = 4.5
	ContrastAAA = 7.0
)

// ContrastOptions tunes the low-contrast heuristic. Zero fields take the defaults.
type ContrastOptions struct {
	// Window is the side of the square neighborhood used for the local range. Default 15.
	Window int `json:"window" yaml:"window"`

	// Delta is the local range (0-255) below which a pixel counts as flat. Default 18.
	Delta int `json:"delta" yaml:"delta"`

	// MinArea is the smallest region bounding-box area reported. Default 500.
	MinArea int `json:"min_area" yaml:"min_area"`

	// FailingOnly drops regions whose ratio already passes WCAG AA.
	FailingOnly bool `json:"failing_only" yaml:"failing_only"`
}

// DefaultContrastOptions returns the standard settings.
func DefaultContrastOptions() ContrastOptions {
	return ContrastOptions{
		Window:  15,
		Delta:   18,
		MinArea: 500,
	}
}

func (o ContrastOptions) withDefaults() ContrastOptions {
	d := DefaultContrastOptions()
	if o.Window > 0 {
		d.Window = o.Window
	}
	if o.Delta > 0 {
		d.Delta = minInt(o.Delta, 255)
	}
	if o.MinArea > 0 {
		d.MinArea = o.MinArea
	}
	d.FailingOnly = o.FailingOnly
	return d
}

// ContrastAnalyzer reports low-contrast regions.
type ContrastAnalyzer struct {
	opts ContrastOptions
}

// NewContrastAnalyzer creates a ContrastAnalyzer. Zero option fields take the defaults.
func NewContrastAnalyzer(opts ContrastOptions) *ContrastAnalyzer {
	return &ContrastAnalyzer{opts: opts.withDefaults()}
}

func (a *ContrastAnalyzer) Name() string { return "contrast" }

// Options returns the effective options.
func (a *ContrastAnalyzer) Options() ContrastOptions { return a.opts }

var contrastHowToFix = []string{
	"Use a color contrast checker tool to find compliant color combinations",
	"Darken the text color or lighten the background color",
	"Consider using bold text to improve readability",
	"Test with different color blindness simulations",
}

const contrastRecommendation = "Increase color contrast to meet WCAG 2.1 Level AA requirements (4.5:1 for normal text, 3:1 for large text)"

// Analyze finds flat regions and scores each one with the WCAG contrast ratio.
//
// # Algorithm
//
//  1. Grayscale plane, then local range (max - min) over a Window x Window square
//  2. Pixels with local range below Delta are flat
//  3. Outermost 8-connected flat regions; regions nested inside another region's hole
//     are skipped, and bounding boxes smaller than MinArea are dropped
//  4. Per region, the per-channel maximum and minimum colors of the box are taken as
//     foreground and background
//  5. Ratio below 3.0 is critical, anything else serious
//
// Issues are returned in raster order of their regions with IDs A11Y-LOWCON-0, -1, ...
func (a *ContrastAnalyzer) Analyze(img image.Image) ([]Issue, error) {
	if img == nil {
		return nil, fmt.Errorf("contrast: nil image")
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	issues := make([]Issue, 0)
	if width == 0 || height == 0 {
		return issues, nil
	}

	gray := imaging.GrayPlane(img)
	flat := imaging.BelowMask(imaging.LocalRange(gray, a.opts.Window), uint8(a.opts.Delta))

	for _, region := range imaging.OuterComponents(flat) {
		r := region.Bounds
		if r.Dx()*r.Dy() < a.opts.MinArea {
			continue
		}

		fg, bg, err := imaging.ChannelExtremes(img, r)
		if err != nil {
			return nil, fmt.Errorf("contrast: region %v: %w", r, err)
		}

		ratio := imaging.ContrastRatio(fg, bg)
		aa := ratio >= ContrastAA
		if a.opts.FailingOnly && aa {
			continue
		}

		severity := SeveritySerious
		if ratio < 3.0 {
			severity = SeverityCritical
		}

		pos := positionOf(r, width, height)
		issues = append(issues, Issue{
			ID:         fmt.Sprintf("A11Y-LOWCON-%d", len(issues)),
			Rule:       RuleLowContrast,
			WCAG:       []string{"1.4.3", "1.4.6"},
			Severity:   severity,
			Confidence: 0.75,
			Message:    contrastMessage(ratio, fg, bg, pos),
			BBox:       BBoxFromRect(r),
			Details: &LowContrastDetails{
				ContrastRatio:   round(ratio, 2),
				ForegroundColor: fg,
				BackgroundColor: bg,
				WCAGAAPass:      aa,
				WCAGAAAPass:     ratio >= ContrastAAA,
				Position:        pos,
				Recommendation:  contrastRecommendation,
				HowToFix:        append([]string(nil), contrastHowToFix...),
			},
		})
	}

	return issues, nil
}

func contrastMessage(ratio float64, fg, bg imaging.RGBColor, pos Position) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Low contrast detected (ratio: %.2f:1). ", ratio)
	if ratio < ContrastAA {
		b.WriteString("Fails WCAG AA (requires 4.5:1 minimum). ")
	}
	if ratio < ContrastAAA {
		b.WriteString("Fails WCAG AAA (requires 7:1). ")
	}
	fmt.Fprintf(&b, "Foreground: %s, Background: %s. ", fg, bg)
	fmt.Fprintf(&b, "Location: %.1f%% from left, %.1f%% from top. ", pos.XPercent, pos.YPercent)
	b.WriteString("Recommendation: Increase contrast between text and background to at least 4.5:1 for normal text or 3:1 for large text (18pt+).")
	return b.String()
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
