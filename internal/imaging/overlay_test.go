package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestAnnotate_DrawsOutlineAndKeepsSource(t *testing.T) {
	src := createInMemoryImage(200, 200, color.RGBA{255, 255, 255, 255})
	red := color.NRGBA{220, 38, 38, 255}

	out := Annotate(src, []Annotation{
		{Rect: image.Rect(50, 80, 150, 150), Color: red, Label: "#1: low-contrast"},
	}, nil)

	if out.Bounds() != src.Bounds() {
		t.Fatalf("bounds: got %v, want %v", out.Bounds(), src.Bounds())
	}

	// Outline pixel
	if got := out.NRGBAAt(50, 120); got != red {
		t.Errorf("outline: got %v, want %v", got, red)
	}

	// Fill is translucent: tinted but not fully red
	inside := out.NRGBAAt(100, 140)
	if inside.R != 255 && inside.R < 230 {
		t.Errorf("fill red channel too dark: %v", inside)
	}
	if inside.G >= 255 || inside.G < 100 {
		t.Errorf("fill should tint the background: %v", inside)
	}

	// Outside untouched
	if got := out.NRGBAAt(10, 190); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("outside pixel changed: %v", got)
	}

	// Source untouched
	if got := src.RGBAAt(50, 120); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("source image was modified: %v", got)
	}
}

func TestAnnotate_ClipsBoxes(t *testing.T) {
	src := createInMemoryImage(40, 40, color.RGBA{0, 0, 0, 255})
	out := Annotate(src, []Annotation{
		{Rect: image.Rect(30, 30, 90, 90), Color: color.NRGBA{0, 0, 255, 255}},
		{Rect: image.Rect(100, 100, 120, 120), Color: color.NRGBA{0, 255, 0, 255}},
	}, nil)

	if got := out.NRGBAAt(39, 35); got != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("clipped outline: got %v", got)
	}
}

func TestAnnotate_Legend(t *testing.T) {
	src := createInMemoryImage(400, 300, color.RGBA{0, 0, 0, 255})
	out := Annotate(src, nil, []LegendEntry{
		{Color: color.NRGBA{220, 38, 38, 255}, Text: "Critical"},
		{Color: color.NRGBA{251, 146, 60, 255}, Text: "Serious"},
	})

	// The legend panel is mostly white at 90% opacity over black.
	p := out.NRGBAAt(15, 60)
	if p.R < 200 || p.G < 200 || p.B < 200 {
		t.Errorf("legend background: got %v", p)
	}
	if got := out.NRGBAAt(390, 290); got != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("pixel outside legend changed: %v", got)
	}
}
