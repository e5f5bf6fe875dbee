package detection

import (
	"fmt"
	"image"
	"sort"

	"github.com/ironsheep/a11y-scan-mcp/internal/imaging"
)

// Target sizes in pixels.
const (
	// TargetMinimum is the WCAG 2.5.8 (AA) minimum.
	TargetMinimum = 24

	// TargetRecommended is the enhanced (AAA) touch target size.
	TargetRecommended = 44

	// targetNoise is the largest dimension treated as noise rather than a target.
	targetNoise = 8
)

// TargetSizeOptions tunes the target-size heuristic. Zero fields take the defaults.
type TargetSizeOptions struct {
	// EdgeLow and EdgeHigh are the Canny hysteresis thresholds. Defaults 50 and 150.
	EdgeLow  int `json:"edge_low" yaml:"edge_low"`
	EdgeHigh int `json:"edge_high" yaml:"edge_high"`

	// BrightAbove marks pixels brighter than this value as candidates. Default 220.
	BrightAbove int `json:"bright_above" yaml:"bright_above"`

	// DarkAtMost marks pixels at or below this value as candidates. Default 50.
	DarkAtMost int `json:"dark_at_most" yaml:"dark_at_most"`

	// MergeCoverage is the fraction of a candidate that must lie inside an already
	// reported box (grown by 2px) for the candidate to be dropped as a duplicate.
	// Default 0.8.
	MergeCoverage float64 `json:"merge_coverage" yaml:"merge_coverage"`
}

// DefaultTargetSizeOptions returns the standard settings.
func DefaultTargetSizeOptions() TargetSizeOptions {
	return TargetSizeOptions{
		EdgeLow:       50,
		EdgeHigh:      150,
		BrightAbove:   220,
		DarkAtMost:    50,
		MergeCoverage: 0.8,
	}
}

func (o TargetSizeOptions) withDefaults() TargetSizeOptions {
	d := DefaultTargetSizeOptions()
	if o.EdgeLow > 0 {
		d.EdgeLow = o.EdgeLow
	}
	if o.EdgeHigh > 0 {
		d.EdgeHigh = o.EdgeHigh
	}
	if o.BrightAbove > 0 && o.BrightAbove < 255 {
		d.BrightAbove = o.BrightAbove
	}
	if o.DarkAtMost > 0 && o.DarkAtMost < 255 {
		d.DarkAtMost = o.DarkAtMost
	}
	if o.MergeCoverage > 0 && o.MergeCoverage <= 1 {
		d.MergeCoverage = o.MergeCoverage
	}
	return d
}

// TargetSizeAnalyzer reports regions that look like undersized interactive targets.
type TargetSizeAnalyzer struct {
	opts TargetSizeOptions
}

// NewTargetSizeAnalyzer creates a TargetSizeAnalyzer. Zero option fields take the defaults.
func NewTargetSizeAnalyzer(opts TargetSizeOptions) *TargetSizeAnalyzer {
	return &TargetSizeAnalyzer{opts: opts.withDefaults()}
}

func (a *TargetSizeAnalyzer) Name() string { return "target-size" }

// Options returns the effective options.
func (a *TargetSizeAnalyzer) Options() TargetSizeOptions { return a.opts }

var targetHowToFix = []string{
	"Add CSS padding to increase the clickable area",
	"Use min-width and min-height CSS properties",
	"Ensure adequate spacing (at least 8px) between adjacent targets",
	"Consider making the entire parent container clickable",
	"Test on mobile devices with actual finger taps",
}

const targetRecommendation = "Increase clickable/tappable area to minimum 44x44 pixels"

// Analyze finds target-sized regions and scores them against the minimum target size.
//
// # Algorithm
//
//  1. Candidate masks: the union of very bright and very dark pixels, and a Canny edge map
//  2. Bounding boxes of the 8-connected components of each mask
//  3. A box is flagged when either side is strictly between 8 and 44 pixels
//  4. Flagged boxes are de-duplicated: brightness boxes first, then edge boxes, larger
//     first within each group; a box mostly covered by an accepted box is dropped
//  5. Smaller side below 24 is serious (AA), otherwise minor (AAA)
//
// Issues are sorted top-to-bottom, then left-to-right, with IDs A11Y-SMALLTARGET-0, -1, ...
func (a *TargetSizeAnalyzer) Analyze(img image.Image) ([]Issue, error) {
	if img == nil {
		return nil, fmt.Errorf("target-size: nil image")
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	issues := make([]Issue, 0)
	if width == 0 || height == 0 {
		return issues, nil
	}

	gray := imaging.GrayPlane(img)
	bright := imaging.ThresholdMask(gray, uint8(a.opts.BrightAbove+1), false)
	dark := imaging.ThresholdMask(gray, uint8(a.opts.DarkAtMost+1), true)
	edges := imaging.Canny(gray, a.opts.EdgeLow, a.opts.EdgeHigh)

	maskBoxes := flaggedBoxes(imaging.Components(bright.Or(dark)))
	edgeBoxes := flaggedBoxes(imaging.Components(edges))

	accepted := make([]image.Rectangle, 0, len(maskBoxes))
	for _, r := range append(maskBoxes, edgeBoxes...) {
		if coveredBy(r, accepted, a.opts.MergeCoverage) {
			continue
		}
		accepted = append(accepted, r)
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		if accepted[i].Min.Y != accepted[j].Min.Y {
			return accepted[i].Min.Y < accepted[j].Min.Y
		}
		return accepted[i].Min.X < accepted[j].Min.X
	})

	for i, r := range accepted {
		issues = append(issues, targetIssue(i, r, width, height))
	}
	return issues, nil
}

// isTargetSized reports whether either side is strictly between 8 and 44 pixels.
func isTargetSized(w, h int) bool {
	return (w > targetNoise && w < TargetRecommended) || (h > targetNoise && h < TargetRecommended)
}

// flaggedBoxes keeps target-sized component boxes, largest area first.
func flaggedBoxes(components []imaging.Component) []image.Rectangle {
	out := make([]image.Rectangle, 0)
	for _, c := range components {
		if isTargetSized(c.Bounds.Dx(), c.Bounds.Dy()) {
			out = append(out, c.Bounds)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return rectArea(out[i]) > rectArea(out[j])
	})
	return out
}

// coveredBy reports whether at least coverage of r lies inside one accepted box grown by 2px.
func coveredBy(r image.Rectangle, accepted []image.Rectangle, coverage float64) bool {
	area := rectArea(r)
	if area == 0 {
		return false
	}
	for _, a := range accepted {
		inter := r.Intersect(a.Inset(-2))
		if float64(rectArea(inter)) >= coverage*float64(area) {
			return true
		}
	}
	return false
}

func rectArea(r image.Rectangle) int {
	if r.Empty() {
		return 0
	}
	return r.Dx() * r.Dy()
}

func targetIssue(n int, r image.Rectangle, width, height int) Issue {
	w, h := r.Dx(), r.Dy()
	shortage := Size{
		Width:  maxInt(0, TargetRecommended-w),
		Height: maxInt(0, TargetRecommended-h),
	}

	severity, level := SeverityMinor, "AAA (Enhanced)"
	if minInt(w, h) < TargetMinimum {
		severity, level = SeveritySerious, "AA (Level 2.5.8)"
	}

	pos := positionOf(r, width, height)
	message := fmt.Sprintf("Small interactive target detected (%dx%dpx). ", w, h) +
		"WCAG 2.5.8 requires minimum 24x24px, recommended 44x44px for touch targets. " +
		fmt.Sprintf("Current target is %dpx too narrow and %dpx too short. ", shortage.Width, shortage.Height) +
		fmt.Sprintf("Location: %.1f%% from left, %.1f%% from top. ", pos.XPercent, pos.YPercent) +
		"Recommendation: Increase tap/click target size to at least 44x44 pixels with adequate spacing."

	return Issue{
		ID:         fmt.Sprintf("A11Y-SMALLTARGET-%d", n),
		Rule:       RuleTargetSize,
		WCAG:       []string{"2.5.8"},
		Severity:   severity,
		Confidence: 0.65,
		Message:    message,
		BBox:       BBoxFromRect(r),
		Details: &TargetSizeDetails{
			CurrentSize:     Size{Width: w, Height: h},
			RequiredSize:    Size{Width: TargetMinimum, Height: TargetMinimum},
			RecommendedSize: Size{Width: TargetRecommended, Height: TargetRecommended},
			Shortage:        shortage,
			Position:        pos,
			WCAGLevel:       level,
			Recommendation:  targetRecommendation,
			HowToFix:        append([]string(nil), targetHowToFix...),
		},
	}
}
