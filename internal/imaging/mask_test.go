package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestMask_GetSetCount(t *testing.T) {
	m := NewMask(5, 4)
	m.Set(1, 1, true)
	m.Set(4, 3, true)

	if !m.Get(1, 1) || !m.Get(4, 3) {
		t.Error("expected set pixels to be on")
	}
	if m.Get(0, 0) {
		t.Error("expected unset pixel to be off")
	}
	if m.Get(-1, 0) || m.Get(5, 0) || m.Get(0, 4) {
		t.Error("out-of-range pixels must be off")
	}
	if got := m.Count(); got != 2 {
		t.Errorf("Count: got %d, want 2", got)
	}
}

func TestMask_Or(t *testing.T) {
	a := NewMask(3, 3)
	b := NewMask(3, 3)
	a.Set(0, 0, true)
	b.Set(2, 2, true)
	b.Set(0, 0, true)

	u := a.Or(b)
	if u.Count() != 2 || !u.Get(0, 0) || !u.Get(2, 2) {
		t.Errorf("union: got %d on pixels", u.Count())
	}
}

func TestBelowMask(t *testing.T) {
	p := NewPlane(4, 1)
	p.Pix = []uint8{0, 17, 18, 255}

	m := BelowMask(p, 18)
	want := []bool{true, true, false, false}
	for i, w := range want {
		if m.Pix[i] != w {
			t.Errorf("pixel %d: got %v, want %v", i, m.Pix[i], w)
		}
	}
}

func TestThresholdMask(t *testing.T) {
	img := createInMemoryImage(30, 30, color.RGBA{30, 30, 30, 255})
	fillRect(img, image.Rect(5, 5, 15, 15), color.RGBA{240, 240, 240, 255})
	fillRect(img, image.Rect(20, 20, 25, 25), color.RGBA{128, 128, 128, 255})

	gray := GrayPlane(img)
	bright := ThresholdMask(gray, 221, false)
	if got := bright.Count(); got != 100 {
		t.Errorf("bright pixels: got %d, want 100", got)
	}
	if !bright.Get(5, 5) || bright.Get(22, 22) {
		t.Error("bright mask should only cover the light square")
	}

	dark := ThresholdMask(gray, 51, true)
	if got, want := dark.Count(), 30*30-100-25; got != want {
		t.Errorf("dark pixels: got %d, want %d", got, want)
	}
	if dark.Get(22, 22) || dark.Get(6, 6) || !dark.Get(0, 0) {
		t.Error("dark mask should only cover the background")
	}
}

func TestThresholdMask_FollowsGrayPlane(t *testing.T) {
	// Saturated colors sit close to the thresholds: BT.601 puts this yellow at 220
	// and this violet at 53, so neither is a brightness candidate.
	tests := []struct {
		name  string
		color color.RGBA
		gray  uint8
	}{
		{"yellow", color.RGBA{255, 245, 0, 255}, 220},
		{"violet", color.RGBA{80, 0, 255, 255}, 53},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gray := GrayPlane(createInMemoryImage(8, 8, tt.color))
			if got := gray.At(3, 3); got != tt.gray {
				t.Fatalf("gray value: got %d, want %d", got, tt.gray)
			}
			if n := ThresholdMask(gray, 221, false).Count(); n != 0 {
				t.Errorf("bright pixels: got %d, want 0", n)
			}
			if n := ThresholdMask(gray, 51, true).Count(); n != 0 {
				t.Errorf("dark pixels: got %d, want 0", n)
			}
		})
	}
}
