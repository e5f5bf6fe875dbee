package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
)

// Plane is a single 8-bit channel image stored row-major.
//
// Pix[y*Width+x] holds the value of pixel (x, y).
type Plane struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewPlane allocates a zeroed plane of the given size.
func NewPlane(width, height int) *Plane {
	return &Plane{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// At returns the value at (x, y). No bounds checking is performed.
func (p *Plane) At(x, y int) uint8 {
	return p.Pix[y*p.Width+x]
}

// GrayPlane converts an image to a grayscale plane using ITU-R BT.601 luminance weights.
//
// Formula: Y = 0.299*R + 0.587*G + 0.114*B, rounded to the nearest integer.
//
// Brightness masks and the Canny edge map are all computed from this plane.
func GrayPlane(img image.Image) *Plane {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := NewPlane(w, h)
	if w == 0 || h == 0 {
		return out
	}

	gray := effect.GrayscaleWithWeights(img, 0.299, 0.587, 0.114)
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w*4]
		for x := 0; x < w; x++ {
			out.Pix[y*w+x] = row[x*4]
		}
	}
	return out
}

// LocalRange computes, for every pixel, the difference between the maximum and the
// minimum value inside a size×size square window centered on it.
//
// This is the morphological gradient (dilate minus erode) with a rectangular structuring
// element. It measures local busyness independently of absolute brightness, which is
// why smooth gradients come out as "flat" rather than as low contrast.
//
// Windows are clipped at the image border, so border pixels only see in-image neighbors.
// An even size is rounded up to the next odd size.
func LocalRange(p *Plane, size int) *Plane {
	radius := size / 2
	if radius < 0 {
		radius = 0
	}
	hi := filterSquare(p, radius, maxUint8)
	lo := filterSquare(p, radius, minUint8)

	out := NewPlane(p.Width, p.Height)
	for i := range out.Pix {
		out.Pix[i] = hi.Pix[i] - lo.Pix[i]
	}
	return out
}

// filterSquare applies a separable square rank filter: first along rows, then along
// columns. Max and min filters are separable for square windows.
func filterSquare(p *Plane, radius int, pick func(a, b uint8) uint8) *Plane {
	w, h := p.Width, p.Height
	tmp := NewPlane(w, h)
	for y := 0; y < h; y++ {
		row := p.Pix[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			lo, hi := clamp(x-radius, 0, w-1), clamp(x+radius, 0, w-1)
			v := row[lo]
			for i := lo + 1; i <= hi; i++ {
				v = pick(v, row[i])
			}
			tmp.Pix[y*w+x] = v
		}
	}

	out := NewPlane(w, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			lo, hi := clamp(y-radius, 0, h-1), clamp(y+radius, 0, h-1)
			v := tmp.Pix[lo*w+x]
			for i := lo + 1; i <= hi; i++ {
				v = pick(v, tmp.Pix[i*w+x])
			}
			out.Pix[y*w+x] = v
		}
	}
	return out
}

func maxUint8(a, b uint8) uint8 {
	if a > b {
		return a
	}
	return b
}

func minUint8(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in window and convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
