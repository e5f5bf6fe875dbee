package imaging

import (
	"image"
	"image/color"
	"math"
	"testing"
)

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// fillRect paints r on img with c.
func fillRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

func TestRelativeLuminance(t *testing.T) {
	tests := []struct {
		name  string
		color RGBColor
		want  float64
	}{
		{"black", RGBColor{0, 0, 0}, 0},
		{"white", RGBColor{255, 255, 255}, 1},
		{"pure red", RGBColor{255, 0, 0}, 0.2126},
		{"pure green", RGBColor{0, 255, 0}, 0.7152},
		{"pure blue", RGBColor{0, 0, 255}, 0.0722},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RelativeLuminance(tt.color)
			if math.Abs(got-tt.want) > 1e-4 {
				t.Errorf("RelativeLuminance(%v) = %f, want %f", tt.color, got, tt.want)
			}
		})
	}
}

func TestRelativeLuminance_LinearSegment(t *testing.T) {
	// 10/255 = 0.0392 falls under the 0.03928 threshold
	got := RelativeLuminance(RGBColor{10, 10, 10})
	want := (10.0 / 255.0) / 12.92
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestContrastRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b RGBColor
		want float64
	}{
		{"black on white", RGBColor{0, 0, 0}, RGBColor{255, 255, 255}, 21.0},
		{"white on black", RGBColor{255, 255, 255}, RGBColor{0, 0, 0}, 21.0},
		{"identical", RGBColor{120, 30, 200}, RGBColor{120, 30, 200}, 1.0},
		{"gray 777 on white", RGBColor{0x77, 0x77, 0x77}, RGBColor{255, 255, 255}, 4.48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ContrastRatio(tt.a, tt.b)
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("ContrastRatio(%v, %v) = %.3f, want %.2f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRGBColor_Format(t *testing.T) {
	c := RGBColor{255, 128, 64}
	if got := c.Hex(); got != "#FF8040" {
		t.Errorf("Hex: got %s, want #FF8040", got)
	}
	if got := c.String(); got != "RGB(255, 128, 64)" {
		t.Errorf("String: got %s", got)
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    RGBColor
		wantErr bool
	}{
		{"#FF8040", RGBColor{255, 128, 64}, false},
		{"ff8040", RGBColor{255, 128, 64}, false},
		{"#fff", RGBColor{255, 255, 255}, false},
		{"  #000000 ", RGBColor{0, 0, 0}, false},
		{"#12345", RGBColor{}, true},
		{"zzz", RGBColor{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHex(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseHex(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestChannelExtremes(t *testing.T) {
	img := createInMemoryImage(40, 40, color.RGBA{200, 210, 220, 255})
	fillRect(img, image.Rect(10, 10, 12, 30), color.RGBA{10, 250, 5, 255})

	hi, lo, err := ChannelExtremes(img, image.Rect(0, 0, 40, 40))
	if err != nil {
		t.Fatalf("ChannelExtremes failed: %v", err)
	}
	if hi != (RGBColor{200, 250, 220}) {
		t.Errorf("hi: got %v", hi)
	}
	if lo != (RGBColor{10, 210, 5}) {
		t.Errorf("lo: got %v", lo)
	}
}

func TestChannelExtremes_ClipsAndRejectsEmpty(t *testing.T) {
	img := createInMemoryImage(20, 20, color.RGBA{50, 50, 50, 255})

	hi, lo, err := ChannelExtremes(img, image.Rect(15, 15, 100, 100))
	if err != nil {
		t.Fatalf("clipped region should succeed: %v", err)
	}
	if hi != lo || hi != (RGBColor{50, 50, 50}) {
		t.Errorf("uniform block: got hi=%v lo=%v", hi, lo)
	}

	if _, _, err := ChannelExtremes(img, image.Rect(30, 30, 40, 40)); err == nil {
		t.Error("expected error for region outside the image")
	}
}

func TestChannelExtremes_NonZeroOrigin(t *testing.T) {
	base := createInMemoryImage(40, 40, color.RGBA{0, 0, 0, 255})
	fillRect(base, image.Rect(20, 20, 40, 40), color.RGBA{255, 255, 255, 255})
	sub := base.SubImage(image.Rect(20, 20, 40, 40))

	hi, lo, err := ChannelExtremes(sub, image.Rect(0, 0, 10, 10))
	if err != nil {
		t.Fatalf("ChannelExtremes failed: %v", err)
	}
	if hi != (RGBColor{255, 255, 255}) || lo != (RGBColor{255, 255, 255}) {
		t.Errorf("region should be relative to the image origin: hi=%v lo=%v", hi, lo)
	}
}

func TestSampleColor(t *testing.T) {
	img := createInMemoryImage(10, 10, color.RGBA{10, 20, 30, 255})
	fillRect(img, image.Rect(4, 4, 5, 5), color.RGBA{200, 100, 50, 255})

	got, err := SampleColor(img, 4, 4)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}
	if got != (RGBColor{200, 100, 50}) {
		t.Errorf("got %v", got)
	}

	if _, err := SampleColor(img, 10, 0); err == nil {
		t.Error("expected error outside bounds")
	}
	if _, err := SampleColor(img, -1, 0); err == nil {
		t.Error("expected error for negative coordinate")
	}
}
