package imaging

// Mask is a binary image stored row-major. Pix[y*Width+x] is true for "on" pixels.
type Mask struct {
	Width  int
	Height int
	Pix    []bool
}

// NewMask allocates an all-off mask of the given size.
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Pix:    make([]bool, width*height),
	}
}

// Get reports whether (x, y) is on. Out-of-range coordinates are off.
func (m *Mask) Get(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x]
}

// Set switches (x, y) on or off. No bounds checking is performed.
func (m *Mask) Set(x, y int, on bool) {
	m.Pix[y*m.Width+x] = on
}

// Count returns the number of on pixels.
func (m *Mask) Count() int {
	n := 0
	for _, on := range m.Pix {
		if on {
			n++
		}
	}
	return n
}

// Or returns the union of two masks of the same size.
// If the sizes differ, the result covers the overlapping area only.
func (m *Mask) Or(other *Mask) *Mask {
	w, h := minInt(m.Width, other.Width), minInt(m.Height, other.Height)
	out := NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Pix[y*w+x] = m.Pix[y*m.Width+x] || other.Pix[y*other.Width+x]
		}
	}
	return out
}

// BelowMask marks every pixel whose plane value is strictly below limit.
func BelowMask(p *Plane, limit uint8) *Mask {
	out := NewMask(p.Width, p.Height)
	for i, v := range p.Pix {
		out.Pix[i] = v < limit
	}
	return out
}

// ThresholdMask binarizes a plane at level.
//
// Pixels whose value is at least level are on. With invert set, the mask is flipped so
// pixels strictly below level are on.
//
// Typical use:
//   - ThresholdMask(gray, 221, false): very bright pixels (> 220)
//   - ThresholdMask(gray, 51, true): very dark pixels (<= 50)
func ThresholdMask(p *Plane, level uint8, invert bool) *Mask {
	out := NewMask(p.Width, p.Height)
	for i, v := range p.Pix {
		out.Pix[i] = (v >= level) != invert
	}
	return out
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
