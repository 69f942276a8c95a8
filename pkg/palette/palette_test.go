package palette

import (
	"image/color"
	"testing"

	"github.com/matzehuels/placer/pkg/errors"
)

func TestNearestExactColors(t *testing.T) {
	for _, metric := range []Metric{MetricRGB, MetricLab} {
		p := Default().WithMetric(metric)
		for _, e := range p.Entries() {
			if got := p.Nearest(e.RGB); got != e.Index {
				t.Errorf("%s: Nearest(%s) = %d, want %d", metric, e.Hex(), got, e.Index)
			}
			if d := Distance(e.RGB, e.RGB); d != 0 {
				t.Errorf("Distance(%s, %s) = %v, want 0", e.Hex(), e.Hex(), d)
			}
		}
	}
}

func TestNearest(t *testing.T) {
	p := Default()
	tests := []struct {
		name  string
		color RGB
		want  int
	}{
		{"black maps to dark gray", RGB{0, 0, 0}, 3},
		{"near white", RGB{250, 250, 250}, 0},
		{"light gray", RGB{220, 220, 220}, 1},
		{"pure red", RGB{255, 0, 0}, 5},
		{"pure blue", RGB{0, 0, 255}, 13},
		{"pure green", RGB{0, 200, 0}, 10},
		{"purple", RGB{120, 10, 120}, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Nearest(tt.color); got != tt.want {
				t.Errorf("Nearest(%v) = %d, want %d", tt.color, got, tt.want)
			}
		})
	}
}

// defaultHexes returns the default palette as hex strings.
func defaultHexes() []string {
	hexes := make([]string, 0, Size)
	for _, e := range Default().Entries() {
		hexes = append(hexes, e.Hex())
	}
	return hexes
}

func TestNearestTieBreaksOnFirstEntry(t *testing.T) {
	p := Palette{entries: []Entry{{RGB{0, 0, 0}, 0}, {RGB{2, 2, 2}, 1}}}
	if got := p.Nearest(RGB{1, 1, 1}); got != 0 {
		t.Errorf("Nearest() = %d, want 0 (first minimum)", got)
	}

	reversed := Palette{entries: []Entry{{RGB{2, 2, 2}, 0}, {RGB{0, 0, 0}, 1}}}
	if got := reversed.Nearest(RGB{1, 1, 1}); got != 0 {
		t.Errorf("Nearest() on reversed = %d, want 0 (first minimum)", got)
	}
}

func TestDefault(t *testing.T) {
	p := Default()
	if p.Len() != Size {
		t.Fatalf("Len() = %d, want %d", p.Len(), Size)
	}
	for i, e := range p.Entries() {
		if e.Index != i {
			t.Errorf("entry %d has index %d", i, e.Index)
		}
	}
	if p.Metric() != MetricRGB {
		t.Errorf("Metric() = %q, want %q", p.Metric(), MetricRGB)
	}

	// Entries returns a copy.
	entries := p.Entries()
	entries[0].R = 0
	if e, _ := p.Color(0); e.R != 255 {
		t.Error("Entries() should not expose the backing table")
	}
}

func TestColor(t *testing.T) {
	p := Default()
	e, ok := p.Color(5)
	if !ok || e.Hex() != "#e50000" {
		t.Errorf("Color(5) = %v, %v; want #e50000, true", e.Hex(), ok)
	}
	if _, ok := p.Color(16); ok {
		t.Error("Color(16) should be out of range")
	}
	if _, ok := p.Color(-1); ok {
		t.Error("Color(-1) should be out of range")
	}
}

func TestParse(t *testing.T) {
	hexes := defaultHexes()
	hexes[0] = "#FFFFFF"
	hexes[5] = "#c80a0a"

	p, err := Parse(hexes)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if p.Len() != Size {
		t.Fatalf("Len() = %d, want %d", p.Len(), Size)
	}
	if got := p.Nearest(RGB{200, 10, 10}); got != 5 {
		t.Errorf("Nearest() = %d, want 5", got)
	}

	bad := defaultHexes()
	bad[3] = "not-a-color"
	tests := []struct {
		name  string
		hexes []string
	}{
		{"nil", nil},
		{"too few", defaultHexes()[:3]},
		{"too many", append(defaultHexes(), "#010101", "#020202")},
		{"bad color", bad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.hexes); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Parse() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestParseMetric(t *testing.T) {
	tests := []struct {
		in      string
		want    Metric
		wantErr bool
	}{
		{"", MetricRGB, false},
		{"rgb", MetricRGB, false},
		{"lab", MetricLab, false},
		{"hsv", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMetric(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMetric(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseMetric(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFromColor(t *testing.T) {
	got := FromColor(color.NRGBA{R: 10, G: 20, B: 30, A: 128})
	if got != (RGB{10, 20, 30}) {
		t.Errorf("FromColor(NRGBA) = %v, want {10 20 30}", got)
	}
	got = FromColor(color.RGBA{R: 255, G: 0, B: 0, A: 255})
	if got != (RGB{255, 0, 0}) {
		t.Errorf("FromColor(RGBA) = %v, want {255 0 0}", got)
	}
}
