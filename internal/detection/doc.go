// Package detection finds likely accessibility defects in a rendered page screenshot.
//
// Two pixel heuristics are provided, each implementing Analyzer:
//
//   - ContrastAnalyzer: flat regions found by morphological local range, scored with the
//     WCAG contrast ratio of their two dominant colors (WCAG 1.4.3 / 1.4.6)
//   - TargetSizeAnalyzer: small candidate regions from edge and brightness masks, scored
//     against minimum target sizes (WCAG 2.5.8)
//
// Enrich then correlates issue boxes with the DOM elements captured by the renderer.
//
// # Algorithm Overview
//
// Both analyzers follow the same pipeline:
//
//  1. Mask: build a binary mask of interesting pixels (flat, edge, very bright, very dark)
//  2. Regions: extract 8-connected components and their bounding boxes
//  3. Filter: drop regions that are too small (contrast) or not target sized (target size)
//  4. Score: compute severity, confidence and rule-specific details for each region
//
// # Coordinate System
//
// All boxes are in screenshot pixels:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - BBox is {X, Y, W, H}; boxes always lie inside the image
//
// # Confidence Scores
//
// Confidence is fixed per rule: 0.75 for low contrast and 0.65 for target size. Both
// heuristics work on pixels only and cannot see CSS, so results are candidates for a
// human reviewer rather than verdicts.
//
// # Limitations
//
// The contrast heuristic approximates the two colors of a region by the per-channel
// maximum and minimum, which is accurate for text on a solid background and less so for
// photographs or gradients with embedded text. The target-size heuristic flags any region
// of button-like size, interactive or not.
package detection
