package imaging

import (
	"image"
	"testing"
)

func maskFromRows(rows ...string) *Mask {
	m := NewMask(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, ch := range row {
			m.Set(x, y, ch == '#')
		}
	}
	return m
}

func TestComponents(t *testing.T) {
	m := maskFromRows(
		"##......",
		"##....#.",
		".......#",
		"#.......",
	)

	got := Components(m)
	want := []Component{
		{Bounds: image.Rect(0, 0, 2, 2), Pixels: 4},
		{Bounds: image.Rect(6, 1, 8, 3), Pixels: 2}, // diagonal neighbors join
		{Bounds: image.Rect(0, 3, 1, 4), Pixels: 1},
	}

	if len(got) != len(want) {
		t.Fatalf("components: got %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("component %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestComponents_Empty(t *testing.T) {
	if got := Components(NewMask(10, 10)); len(got) != 0 {
		t.Errorf("expected no components, got %d", len(got))
	}
}

func TestComponents_LargeRegion(t *testing.T) {
	m := NewMask(800, 600)
	for i := range m.Pix {
		m.Pix[i] = true
	}
	got := Components(m)
	if len(got) != 1 {
		t.Fatalf("expected one component, got %d", len(got))
	}
	if got[0].Bounds != image.Rect(0, 0, 800, 600) || got[0].Pixels != 800*600 {
		t.Errorf("got %+v", got[0])
	}
}

func TestOuterComponents(t *testing.T) {
	m := maskFromRows(
		"##########",
		"#........#",
		"#.###....#",
		"#.#.#..#.#",
		"#.###....#",
		"#........#",
		"##########",
		"..........",
		"......##..",
	)

	got := OuterComponents(m)
	want := []Component{
		{Bounds: image.Rect(0, 0, 10, 7), Pixels: 30},
		{Bounds: image.Rect(6, 8, 8, 9), Pixels: 2},
	}

	if len(got) != len(want) {
		t.Fatalf("components: got %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("component %d: got %+v, want %+v", i, got[i], want[i])
		}
	}

	if all := Components(m); len(all) != 4 {
		t.Errorf("Components should still return nested regions, got %d", len(all))
	}
}

func TestOuterComponents_DiagonalRingClosesHole(t *testing.T) {
	m := maskFromRows(
		"...#...",
		"..#.#..",
		".#...#.",
		"#..#..#",
		".#...#.",
		"..#.#..",
		"...#...",
	)

	if all := Components(m); len(all) != 2 {
		t.Fatalf("expected ring and center, got %+v", all)
	}
	got := OuterComponents(m)
	if len(got) != 1 || got[0].Bounds != image.Rect(0, 0, 7, 7) || got[0].Pixels != 12 {
		t.Errorf("got %+v, want only the ring", got)
	}
}

func TestOuterComponents_BorderTouching(t *testing.T) {
	m := NewMask(6, 6)
	for i := range m.Pix {
		m.Pix[i] = true
	}
	if got := OuterComponents(m); len(got) != 1 {
		t.Errorf("full mask: got %d components, want 1", len(got))
	}
	if got := OuterComponents(NewMask(6, 6)); len(got) != 0 {
		t.Errorf("empty mask: got %d components, want 0", len(got))
	}
}
