// Package imaging provides the pixel-level primitives used by the accessibility analyzers.
//
// This package implements the low-level image operations the detectors are built from:
// grayscale conversion, square morphological max/min filtering, threshold and edge masks,
// connected-component extraction, WCAG color math, overlay drawing and region crops. All operations
// work with standard Go image.Image types and use a coordinate system where (0,0) is at
// the top-left corner, X increases rightward, and Y increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Rectangles use image.Rectangle semantics: Min is inclusive, Max is exclusive
//
// Images whose bounds do not start at the origin are normalized to the origin before
// processing, so every Plane, Mask and rectangle returned here is origin-based.
//
// # Planes and Masks
//
// A Plane is a single 8-bit channel stored row-major; a Mask is a binary image of the
// same layout. Both are plain slices so the analyzers can run tight loops without
// going through the image.Image interface for every pixel.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Every other function is stateless and
// can be called concurrently on different images; none of them mutate their inputs.
//
// # Color Math
//
// RelativeLuminance and ContrastRatio follow the WCAG 2.x definitions exactly, including
// the 0.03928 linear-segment threshold, so black on white yields 21:1.
package imaging
