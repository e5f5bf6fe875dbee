package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Annotation is one box to draw on an overlay.
type Annotation struct {
	// Rect is the box in image coordinates (Max exclusive).
	Rect image.Rectangle

	// Color is used for the outline, a translucent fill and the label background.
	Color color.NRGBA

	// Label is drawn above the box (e.g. "#3: low-contrast").
	Label string

	// Caption is drawn inside the top-left corner of the box (e.g. "2.31:1").
	Caption string
}

// LegendEntry is one row of the overlay legend.
type LegendEntry struct {
	Color color.NRGBA
	Text  string
}

const (
	outlineWidth = 3
	fillAlpha    = 70
	lineHeight   = 13
	glyphWidth   = 7
)

// Annotate draws boxes, labels and a legend over a copy of img.
//
// The source image is never modified. The returned image is origin-based NRGBA.
//
// Each annotation gets a 3px outline, a translucent fill, a label above the box (moved
// inside when the box touches the top edge) and an optional caption in its corner.
// When legend is non-empty a white panel listing the entries is placed in the
// top-left corner.
func Annotate(img image.Image, notes []Annotation, legend []LegendEntry) *image.NRGBA {
	dst := imaging.Clone(img)
	bounds := dst.Bounds()

	for _, n := range notes {
		r := n.Rect.Intersect(bounds)
		if r.Empty() {
			continue
		}

		fill := n.Color
		fill.A = fillAlpha
		draw.Draw(dst, r, image.NewUniform(fill), image.Point{}, draw.Over)
		drawOutline(dst, r, n.Color)

		if n.Label != "" {
			ly := r.Min.Y - lineHeight - 4
			if ly < 0 {
				ly = r.Min.Y + 2
			}
			drawLabel(dst, r.Min.X, ly, n.Label, color.NRGBA{255, 255, 255, 255}, opaque(n.Color))
		}
		if n.Caption != "" {
			drawText(dst, r.Min.X+5, r.Min.Y+5, n.Caption, color.NRGBA{255, 255, 255, 255})
		}
	}

	if len(legend) > 0 {
		dst = drawLegend(dst, legend)
	}
	return dst
}

// drawOutline strokes the inside edge of r.
func drawOutline(dst *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	src := image.NewUniform(opaque(c))
	t := outlineWidth
	if r.Dx() < 2*t || r.Dy() < 2*t {
		t = 1
	}
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t), src, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y), src, image.Point{}, draw.Src)
}

// drawLabel draws text on a solid background box whose top-left corner is (x, y).
func drawLabel(dst *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
	box := image.Rect(x-2, y-2, x+len(text)*glyphWidth+2, y+lineHeight+2).Intersect(dst.Bounds())
	draw.Draw(dst, box, image.NewUniform(bg), image.Point{}, draw.Src)
	drawText(dst, x, y, text, fg)
}

// drawText renders text with the 7x13 basic font; (x, y) is the top-left corner.
func drawText(dst *image.NRGBA, x, y int, text string, fg color.NRGBA) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fg),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y+basicfont.Face7x13.Ascent),
	}
	d.DrawString(text)
}

// drawLegend composites a legend panel onto the top-left corner of dst.
func drawLegend(dst *image.NRGBA, entries []LegendEntry) *image.NRGBA {
	const title = "Accessibility Issues Legend:"

	width := len(title)*glyphWidth + 20
	for _, e := range entries {
		if w := len(e.Text)*glyphWidth + 45; w > width {
			width = w
		}
	}
	height := 25 + len(entries)*20 + 5

	panel := imaging.New(width, height, color.NRGBA{255, 255, 255, 255})
	black := color.NRGBA{0, 0, 0, 255}
	drawOutlineWidth(panel, panel.Bounds(), black, 1)
	drawText(panel, 10, 5, title, black)

	y := 25
	for _, e := range entries {
		swatch := image.Rect(10, y, 30, y+15)
		draw.Draw(panel, swatch, image.NewUniform(opaque(e.Color)), image.Point{}, draw.Src)
		drawOutlineWidth(panel, swatch, black, 1)
		drawText(panel, 35, y+1, e.Text, black)
		y += 20
	}

	return imaging.Overlay(dst, panel, image.Pt(10, 10), 0.9)
}

func drawOutlineWidth(dst *image.NRGBA, r image.Rectangle, c color.NRGBA, t int) {
	src := image.NewUniform(c)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t), src, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y), src, image.Point{}, draw.Src)
}

func opaque(c color.NRGBA) color.NRGBA {
	c.A = 255
	return c
}
