package detection

import (
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestTargetSizeAnalyzer_SmallBrightSquareOnBlack(t *testing.T) {
	img := createTestImage(200, 200, color.RGBA{0, 0, 0, 255})
	fillRect(img, image.Rect(90, 90, 110, 110), color.RGBA{255, 255, 255, 255})

	issues, err := NewTargetSizeAnalyzer(TargetSizeOptions{}).Analyze(img)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("expected exactly one issue, got %d: %+v", len(issues), issues)
	}

	issue := issues[0]
	if issue.Rule != RuleTargetSize || issue.ID != "A11Y-SMALLTARGET-0" {
		t.Errorf("rule/id: got %s/%s", issue.Rule, issue.ID)
	}
	if issue.Severity != SeveritySerious {
		t.Errorf("severity: got %s, want serious", issue.Severity)
	}
	if issue.Confidence != 0.65 {
		t.Errorf("confidence: got %v", issue.Confidence)
	}

	want := image.Rect(90, 90, 110, 110)
	got := issue.BBox.Rect()
	if absInt(got.Min.X-want.Min.X) > 3 || absInt(got.Min.Y-want.Min.Y) > 3 ||
		absInt(got.Max.X-want.Max.X) > 3 || absInt(got.Max.Y-want.Max.Y) > 3 {
		t.Errorf("bbox: got %v, want about %v", got, want)
	}

	d := issue.Details.(*TargetSizeDetails)
	if d.WCAGLevel != "AA (Level 2.5.8)" {
		t.Errorf("wcag level: got %s", d.WCAGLevel)
	}
	checkIssueInvariants(t, issue, img.Bounds())
}

func TestTargetSizeAnalyzer_SquareOnGrayField(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		severity Severity
		level    string
	}{
		{"20px serious", 20, SeveritySerious, "AA (Level 2.5.8)"},
		{"30px minor", 30, SeverityMinor, "AAA (Enhanced)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createTestImage(200, 200, color.RGBA{90, 90, 90, 255})
			fillRect(img, image.Rect(50, 60, 50+tt.size, 60+tt.size), color.RGBA{250, 250, 250, 255})

			issues, err := NewTargetSizeAnalyzer(TargetSizeOptions{}).Analyze(img)
			if err != nil {
				t.Fatalf("Analyze failed: %v", err)
			}
			if len(issues) != 1 {
				t.Fatalf("expected one issue, got %d", len(issues))
			}

			issue := issues[0]
			if issue.BBox != (BBox{X: 50, Y: 60, W: tt.size, H: tt.size}) {
				t.Errorf("bbox: got %+v", issue.BBox)
			}
			if issue.Severity != tt.severity {
				t.Errorf("severity: got %s, want %s", issue.Severity, tt.severity)
			}

			d := issue.Details.(*TargetSizeDetails)
			if d.WCAGLevel != tt.level {
				t.Errorf("wcag level: got %s, want %s", d.WCAGLevel, tt.level)
			}
			wantShort := 44 - tt.size
			if d.Shortage != (Size{Width: wantShort, Height: wantShort}) {
				t.Errorf("shortage: got %+v", d.Shortage)
			}
			if d.RequiredSize != (Size{24, 24}) || d.RecommendedSize != (Size{44, 44}) {
				t.Errorf("sizes: got %+v / %+v", d.RequiredSize, d.RecommendedSize)
			}
			if d.Position.XPx != 50 || d.Position.YPx != 60 || d.Position.XPercent != 25.0 || d.Position.YPercent != 30.0 {
				t.Errorf("position: got %+v", d.Position)
			}
			if !strings.Contains(issue.Message, "Small interactive target detected") {
				t.Errorf("message: %s", issue.Message)
			}
		})
	}
}

func TestTargetSizeAnalyzer_LargeAndUniform(t *testing.T) {
	uniform := createTestImage(120, 120, color.RGBA{128, 128, 128, 255})
	large := createTestImage(200, 200, color.RGBA{90, 90, 90, 255})
	fillRect(large, image.Rect(50, 50, 150, 150), color.RGBA{250, 250, 250, 255})

	for name, img := range map[string]image.Image{"uniform": uniform, "large": large} {
		issues, err := NewTargetSizeAnalyzer(TargetSizeOptions{}).Analyze(img)
		if err != nil {
			t.Fatalf("%s: Analyze failed: %v", name, err)
		}
		if len(issues) != 0 {
			t.Errorf("%s: expected no issues, got %d", name, len(issues))
		}
	}
}

func TestTargetSizeAnalyzer_SortedTopToBottom(t *testing.T) {
	img := createTestImage(200, 200, color.RGBA{90, 90, 90, 255})
	fillRect(img, image.Rect(30, 120, 50, 140), color.RGBA{250, 250, 250, 255})
	fillRect(img, image.Rect(150, 30, 166, 46), color.RGBA{250, 250, 250, 255})
	fillRect(img, image.Rect(100, 120, 120, 150), color.RGBA{250, 250, 250, 255})

	issues, err := NewTargetSizeAnalyzer(TargetSizeOptions{}).Analyze(img)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(issues) != 3 {
		t.Fatalf("expected three issues, got %d", len(issues))
	}

	wantXY := [][2]int{{150, 30}, {30, 120}, {100, 120}}
	for i, issue := range issues {
		if issue.BBox.X != wantXY[i][0] || issue.BBox.Y != wantXY[i][1] {
			t.Errorf("issue %d: got (%d,%d), want %v", i, issue.BBox.X, issue.BBox.Y, wantXY[i])
		}
		if want := "A11Y-SMALLTARGET-" + string(rune('0'+i)); issue.ID != want {
			t.Errorf("issue %d: id %s, want %s", i, issue.ID, want)
		}
		checkIssueInvariants(t, issue, img.Bounds())
	}
}

func TestIsTargetSized(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{8, 8, false},
		{9, 9, true},
		{43, 100, true},
		{100, 43, true},
		{44, 44, false},
		{4, 200, false},
		{200, 20, true},
		{8, 44, false},
	}
	for _, tt := range tests {
		if got := isTargetSized(tt.w, tt.h); got != tt.want {
			t.Errorf("isTargetSized(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestCoveredBy(t *testing.T) {
	accepted := []image.Rectangle{image.Rect(10, 10, 30, 30)}

	tests := []struct {
		name string
		r    image.Rectangle
		want bool
	}{
		{"ring just outside", image.Rect(9, 9, 31, 31), true},
		{"inside", image.Rect(12, 12, 20, 20), true},
		{"half outside", image.Rect(20, 10, 40, 30), false},
		{"disjoint", image.Rect(50, 50, 60, 60), false},
		{"empty", image.Rect(5, 5, 5, 5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coveredBy(tt.r, accepted, 0.8); got != tt.want {
				t.Errorf("coveredBy(%v) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}
