package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestGrayPlane(t *testing.T) {
	tests := []struct {
		name  string
		color color.RGBA
		want  uint8
	}{
		{"white", color.RGBA{255, 255, 255, 255}, 255},
		{"black", color.RGBA{0, 0, 0, 255}, 0},
		{"red", color.RGBA{255, 0, 0, 255}, 76},
		{"green", color.RGBA{0, 255, 0, 255}, 150},
		{"blue", color.RGBA{0, 0, 255, 255}, 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := GrayPlane(createInMemoryImage(4, 3, tt.color))
			if p.Width != 4 || p.Height != 3 {
				t.Fatalf("dimensions: got %dx%d, want 4x3", p.Width, p.Height)
			}
			if got := p.At(2, 1); got != tt.want {
				t.Errorf("gray value: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGrayPlane_SubImage(t *testing.T) {
	img := createInMemoryImage(10, 10, color.RGBA{0, 0, 0, 255})
	fillRect(img, image.Rect(5, 5, 10, 10), color.RGBA{255, 255, 255, 255})

	p := GrayPlane(img.SubImage(image.Rect(4, 4, 8, 8)))
	if p.Width != 4 || p.Height != 4 {
		t.Fatalf("dimensions: got %dx%d, want 4x4", p.Width, p.Height)
	}
	if got := p.At(0, 0); got != 0 {
		t.Errorf("origin: got %d, want 0", got)
	}
	if got := p.At(1, 1); got != 255 {
		t.Errorf("inner corner: got %d, want 255", got)
	}
}

func TestLocalRange_FlatImage(t *testing.T) {
	p := GrayPlane(createInMemoryImage(30, 30, color.RGBA{90, 90, 90, 255}))
	r := LocalRange(p, 15)
	for i, v := range r.Pix {
		if v != 0 {
			t.Fatalf("pixel %d: got range %d, want 0", i, v)
		}
	}
}

func TestLocalRange_StepEdge(t *testing.T) {
	img := createInMemoryImage(60, 10, color.RGBA{0, 0, 0, 255})
	fillRect(img, image.Rect(30, 0, 60, 10), color.RGBA{255, 255, 255, 255})

	r := LocalRange(GrayPlane(img), 15)

	tests := []struct {
		x    int
		want uint8
	}{
		{0, 0},    // window [0,7] all black
		{22, 0},   // window [15,29] all black
		{23, 255}, // window [16,30] reaches the white half
		{36, 255}, // window [29,43] spans the edge
		{37, 0},   // window [30,44] all white
		{59, 0},
	}
	for _, tt := range tests {
		if got := r.At(tt.x, 5); got != tt.want {
			t.Errorf("x=%d: got %d, want %d", tt.x, got, tt.want)
		}
	}
}

func TestLocalRange_GradientStaysFlat(t *testing.T) {
	// One gray level per column: a 15 wide window sees a range of 14.
	img := image.NewRGBA(image.Rect(0, 0, 200, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 200; x++ {
			v := uint8(20 + x)
			img.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}
	r := LocalRange(GrayPlane(img), 15)
	for i, v := range r.Pix {
		if v >= 18 {
			t.Fatalf("pixel %d: gradient range %d should stay below 18", i, v)
		}
	}
}
