package imaging

import (
	"math"
)

// Canny performs Canny-style edge detection on a grayscale plane.
//
// The result is a binary mask where on pixels represent detected edges. It is used to
// find outlines of buttons, icons and links whose fill does not stand out in the
// brightness thresholds.
//
// Parameters:
//   - p: Source grayscale plane.
//   - thresholdLow: Low threshold for edge detection (0-255). Edges with gradient
//     magnitude below this are discarded. Typical value: 50.
//   - thresholdHigh: High threshold for edge detection (0-255). Edges above this
//     are always kept. Typical value: 150.
//
// # Algorithm
//
//  1. Gaussian blur: 5x5 kernel to reduce noise
//
//  2. Gradient computation: Sobel operators for X and Y gradients
//     magnitude = sqrt(Gx² + Gy²)
//     direction = atan2(Gy, Gx)
//
//  3. Non-maximum suppression: Thin edges by keeping only local maxima in the
//     gradient direction
//
//  4. Hysteresis thresholding:
//     - Pixels above thresholdHigh are strong edges (always kept)
//     - Pixels between thresholdLow and thresholdHigh are weak edges
//     (kept only if adjacent to a strong edge)
//     - Pixels below thresholdLow are discarded
//
// Intensities are normalized to 0-1 before filtering, so the thresholds are divided by
// 255 before being compared with gradient magnitudes.
func Canny(p *Plane, thresholdLow, thresholdHigh int) *Mask {
	width, height := p.Width, p.Height
	out := NewMask(width, height)
	if width < 3 || height < 3 {
		return out
	}

	gray := make([]float32, width*height)
	for i, v := range p.Pix {
		gray[i] = float32(v) / 255.0
	}

	blurred := gaussianBlur(gray, width, height)

	magnitude := make([]float32, width*height)
	direction := make([]float32, width*height)

	sobelX := [3][3]float32{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float32{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var gx, gy float32
			for ky := -1; ky <= 1; ky++ {
				py := clamp(y+ky, 0, height-1)
				for kx := -1; kx <= 1; kx++ {
					px := clamp(x+kx, 0, width-1)
					v := blurred[py*width+px]
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y*width+x] = float32(math.Sqrt(float64(gx*gx + gy*gy)))
			direction[y*width+x] = float32(math.Atan2(float64(gy), float64(gx)))
		}
	}

	// Non-maximum suppression
	suppressed := make([]float32, width*height)
	mag := func(x, y int) float32 { return magnitude[y*width+x] }
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			angle := float64(direction[y*width+x])
			m := mag(x, y)

			var n1, n2 float32
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = mag(x-1, y), mag(x+1, y)
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = mag(x+1, y-1), mag(x-1, y+1)
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = mag(x, y-1), mag(x, y+1)
			default:
				n1, n2 = mag(x-1, y-1), mag(x+1, y+1)
			}

			if m >= n1 && m >= n2 {
				suppressed[y*width+x] = m
			}
		}
	}

	// Double threshold and edge tracking by hysteresis
	lowThresh := float32(thresholdLow) / 255.0
	highThresh := float32(thresholdHigh) / 255.0

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			val := suppressed[y*width+x]
			if val >= highThresh {
				out.Set(x, y, true)
				continue
			}
			if val < lowThresh || val == 0 {
				continue
			}
			hasStrongNeighbor := false
			for ky := -1; ky <= 1 && !hasStrongNeighbor; ky++ {
				for kx := -1; kx <= 1 && !hasStrongNeighbor; kx++ {
					py := clamp(y+ky, 0, height-1)
					px := clamp(x+kx, 0, width-1)
					if suppressed[py*width+px] >= highThresh {
						hasStrongNeighbor = true
					}
				}
			}
			if hasStrongNeighbor {
				out.Set(x, y, true)
			}
		}
	}

	return out
}

// gaussianBlur applies a 5x5 Gaussian blur to reduce noise before edge detection.
//
// Uses a standard 5x5 Gaussian kernel with sigma ≈ 1.4:
//
//	1  4  7  4  1
//	4 16 26 16  4
//	7 26 41 26  7
//	4 16 26 16  4
//	1  4  7  4  1
//
// Total kernel sum = 273, used for normalization.
// Border pixels use clamped (replicated) edge values.
func gaussianBlur(img []float32, width, height int) []float32 {
	kernel := [5][5]float32{
		{1, 4, 7, 4, 1},
		{4, 16, 26, 16, 4},
		{7, 26, 41, 26, 7},
		{4, 16, 26, 16, 4},
		{1, 4, 7, 4, 1},
	}
	const kernelSum = 273.0

	result := make([]float32, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float32
			for ky := -2; ky <= 2; ky++ {
				py := clamp(y+ky, 0, height-1)
				for kx := -2; kx <= 2; kx++ {
					px := clamp(x+kx, 0, width-1)
					sum += img[py*width+px] * kernel[ky+2][kx+2]
				}
			}
			result[y*width+x] = sum / kernelSum
		}
	}
	return result
}
