package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where:
//   - 0 represents no intensity (black for all components)
//   - 255 represents full intensity (white for all components)
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// Hex returns the color as "#RRGGBB".
func (c RGBColor) Hex() string {
	return strings.ToUpper(c.colorful().Hex())
}

// String implements fmt.Stringer as "RGB(r, g, b)".
func (c RGBColor) String() string {
	return fmt.Sprintf("RGB(%d, %d, %d)", c.R, c.G, c.B)
}

func (c RGBColor) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// ParseHex parses "#RRGGBB" or "#RGB" (the leading '#' is optional).
func ParseHex(s string) (RGBColor, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGBColor{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGBColor{R: r, G: g, B: b}, nil
}

// RelativeLuminance computes the WCAG relative luminance of a color.
//
// Each channel is normalized to 0-1 and linearized with the sRGB transfer function
// as written in WCAG 2.x:
//
//	c <= 0.03928: c / 12.92
//	otherwise:    ((c + 0.055) / 1.055) ^ 2.4
//
// The linear channels are then combined as 0.2126*R + 0.7152*G + 0.0722*B.
// The result ranges from 0 (black) to 1 (white).
func RelativeLuminance(c RGBColor) float64 {
	linear := func(v uint8) float64 {
		f := float64(v) / 255.0
		if f <= 0.03928 {
			return f / 12.92
		}
		return math.Pow((f+0.055)/1.055, 2.4)
	}
	return 0.2126*linear(c.R) + 0.7152*linear(c.G) + 0.0722*linear(c.B)
}

// ContrastRatio returns the WCAG contrast ratio between two colors.
//
// ratio = (L_lighter + 0.05) / (L_darker + 0.05)
//
// The result ranges from 1 (identical colors) to 21 (black on white), and does not
// depend on argument order.
func ContrastRatio(a, b RGBColor) float64 {
	l1 := RelativeLuminance(a)
	l2 := RelativeLuminance(b)
	lighter, darker := math.Max(l1, l2), math.Min(l1, l2)
	return (lighter + 0.05) / (darker + 0.05)
}

// ChannelExtremes returns the per-channel maximum and minimum colors inside a region.
//
// This is a cheap two-cluster approximation of the dominant colors of a block: for
// text on a background the block is bimodal, and the channel extremes land on (or very
// near) the two modes. The region is clipped to the image bounds.
//
// Returns an error if the clipped region is empty.
func ChannelExtremes(img image.Image, region image.Rectangle) (hi, lo RGBColor, err error) {
	region = region.Add(img.Bounds().Min).Intersect(img.Bounds())
	if region.Empty() {
		return RGBColor{}, RGBColor{}, fmt.Errorf("region %v outside image bounds %v", region, img.Bounds())
	}

	block := imaging.Crop(img, region)
	w, h := block.Bounds().Dx(), block.Bounds().Dy()

	hi = RGBColor{}
	lo = RGBColor{R: 255, G: 255, B: 255}
	for y := 0; y < h; y++ {
		row := block.Pix[y*block.Stride : y*block.Stride+w*4]
		for x := 0; x < w; x++ {
			r, g, b := row[x*4], row[x*4+1], row[x*4+2]
			hi.R, lo.R = maxUint8(hi.R, r), minUint8(lo.R, r)
			hi.G, lo.G = maxUint8(hi.G, g), minUint8(lo.G, g)
			hi.B, lo.B = maxUint8(hi.B, b), minUint8(lo.B, b)
		}
	}
	return hi, lo, nil
}

// SampleColor returns the color of the pixel at (x, y), relative to the image origin.
// Alpha is dropped after un-premultiplying.
func SampleColor(img image.Image, x, y int) (RGBColor, error) {
	b := img.Bounds()
	p := image.Pt(x, y).Add(b.Min)
	if !p.In(b) {
		return RGBColor{}, fmt.Errorf("point (%d, %d) outside image bounds %dx%d", x, y, b.Dx(), b.Dy())
	}
	c := color.NRGBAModel.Convert(img.At(p.X, p.Y)).(color.NRGBA)
	return RGBColor{R: c.R, G: c.G, B: c.B}, nil
}
