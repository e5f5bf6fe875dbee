package imaging

import "image"

// Component is one 8-connected group of on pixels in a Mask.
type Component struct {
	// Bounds is the bounding box of the group (Max exclusive).
	Bounds image.Rectangle `json:"bounds"`

	// Pixels is the number of on pixels in the group.
	Pixels int `json:"pixels"`
}

// Components finds the connected components (8-connectivity) of a mask.
//
// Components are returned in raster order of their first pixel (top-to-bottom,
// left-to-right), which makes the output deterministic for a given mask.
//
// # Algorithm
//
// Iterative flood fill with an explicit stack of pixel indices, so very large regions
// (a page background can cover millions of pixels) cannot overflow the goroutine stack.
// Neighbors are checked before being pushed, keeping the stack bounded by the region
// size rather than eight times the region size.
func Components(m *Mask) []Component {
	out, _ := label(m, nil)
	return out
}

// OuterComponents returns only the outermost components of m: those that touch the
// image border or the background reachable from it. A component lying inside a hole of
// another component is skipped, as is anything nested deeper.
//
// The background is flooded with 4-connectivity, the dual of the 8-connected
// foreground, so an 8-connected ring closes its hole.
func OuterComponents(m *Mask) []Component {
	all, outer := label(m, outsideMask(m))
	out := make([]Component, 0, len(all))
	for i, c := range all {
		if outer[i] {
			out = append(out, c)
		}
	}
	return out
}

// outsideMask marks the off pixels 4-connected to an off pixel on the image border.
func outsideMask(m *Mask) *Mask {
	w, h := m.Width, m.Height
	outside := NewMask(w, h)
	stack := make([]int, 0, 1024)

	push := func(x, y int) {
		idx := y*w + x
		if !m.Pix[idx] && !outside.Pix[idx] {
			outside.Pix[idx] = true
			stack = append(stack, idx)
		}
	}
	for x := 0; x < w; x++ {
		push(x, 0)
		push(x, h-1)
	}
	for y := 0; y < h; y++ {
		push(0, y)
		push(w-1, y)
	}

	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := idx%w, idx/w
		if x > 0 {
			push(x-1, y)
		}
		if x < w-1 {
			push(x+1, y)
		}
		if y > 0 {
			push(x, y-1)
		}
		if y < h-1 {
			push(x, y+1)
		}
	}
	return outside
}

// label runs the flood fill. When outside is non-nil, the second result reports for each
// component whether it touches the border or a 4-neighbor in outside.
func label(m *Mask, outside *Mask) ([]Component, []bool) {
	w, h := m.Width, m.Height
	visited := make([]bool, w*h)
	out := make([]Component, 0)
	var outer []bool
	stack := make([]int, 0, 1024)

	for start := range m.Pix {
		if !m.Pix[start] || visited[start] {
			continue
		}

		minX, minY := w, h
		maxX, maxY := -1, -1
		pixels := 0
		touches := false

		visited[start] = true
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			x, y := idx%w, idx/w
			pixels++
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
			if outside != nil && !touches {
				touches = x == 0 || y == 0 || x == w-1 || y == h-1 ||
					outside.Get(x-1, y) || outside.Get(x+1, y) ||
					outside.Get(x, y-1) || outside.Get(x, y+1)
			}

			// 8-connected neighbors
			for dy := -1; dy <= 1; dy++ {
				ny := y + dy
				if ny < 0 || ny >= h {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					nx := x + dx
					if (dx == 0 && dy == 0) || nx < 0 || nx >= w {
						continue
					}
					n := ny*w + nx
					if m.Pix[n] && !visited[n] {
						visited[n] = true
						stack = append(stack, n)
					}
				}
			}
		}

		out = append(out, Component{
			Bounds: image.Rect(minX, minY, maxX+1, maxY+1),
			Pixels: pixels,
		})
		outer = append(outer, touches)
	}

	return out, outer
}
