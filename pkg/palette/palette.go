package palette

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/placer/pkg/errors"
)

// Size is the number of colors in the canvas palette.
const Size = 16

// RGB is an opaque 8-bit color.
type RGB struct {
	R, G, B uint8
}

// FromColor converts any color.Color to RGB, dropping alpha.
// The color is un-premultiplied first so semi-transparent pixels keep their hue.
func FromColor(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Entry is one palette color and its canvas index.
type Entry struct {
	RGB
	Index int
}

// Metric selects the distance function used by Nearest.
type Metric string

const (
	MetricRGB Metric = "rgb"
	MetricLab Metric = "lab"
)

// ParseMetric validates a metric name. The empty string selects MetricRGB.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case "", MetricRGB:
		return MetricRGB, nil
	case MetricLab:
		return MetricLab, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "unknown color metric %q (want rgb or lab)", s)
}

// Palette is an ordered, immutable list of entries.
type Palette struct {
	entries []Entry
	metric  Metric
}

var defaultEntries = []Entry{
	{RGB{255, 255, 255}, 0},
	{RGB{228, 228, 228}, 1},
	{RGB{136, 136, 136}, 2},
	{RGB{34, 34, 34}, 3},
	{RGB{255, 167, 209}, 4},
	{RGB{229, 0, 0}, 5},
	{RGB{229, 149, 0}, 6},
	{RGB{160, 106, 66}, 7},
	{RGB{229, 217, 0}, 8},
	{RGB{148, 224, 68}, 9},
	{RGB{2, 190, 1}, 10},
	{RGB{0, 211, 211}, 11},
	{RGB{0, 131, 199}, 12},
	{RGB{0, 0, 234}, 13},
	{RGB{207, 110, 228}, 14},
	{RGB{130, 0, 128}, 15},
}

// Default returns the canvas palette using MetricRGB.
func Default() Palette {
	return Palette{entries: defaultEntries, metric: MetricRGB}
}

// Parse builds a palette from exactly [Size] "#rrggbb" strings; the slice
// position is the index.
func Parse(hexes []string) (Palette, error) {
	if len(hexes) != Size {
		return Palette{}, errors.New(errors.ErrCodeInvalidConfig, "palette needs %d colors, got %d", Size, len(hexes))
	}
	entries := make([]Entry, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return Palette{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "palette color %d", i)
		}
		r, g, b := c.RGB255()
		entries[i] = Entry{RGB: RGB{r, g, b}, Index: i}
	}
	return Palette{entries: entries, metric: MetricRGB}, nil
}

// WithMetric returns a copy of p that measures distance with m.
func (p Palette) WithMetric(m Metric) Palette {
	p.metric = m
	return p
}

// Metric returns the distance metric in use.
func (p Palette) Metric() Metric {
	if p.metric == "" {
		return MetricRGB
	}
	return p.metric
}

// Entries returns a copy of the palette entries in index order.
func (p Palette) Entries() []Entry {
	return append([]Entry(nil), p.entries...)
}

// Len returns the number of entries.
func (p Palette) Len() int { return len(p.entries) }

// Color returns the entry with the given index.
func (p Palette) Color(index int) (Entry, bool) {
	if index < 0 || index >= len(p.entries) {
		return Entry{}, false
	}
	return p.entries[index], true
}

// Nearest returns the index of the entry closest to c.
// Ties go to the first minimum in enumeration order.
func (p Palette) Nearest(c RGB) int {
	best, bestDist := 0, math.Inf(1)
	for _, e := range p.entries {
		if d := p.distance(c, e.RGB); d < bestDist {
			best, bestDist = e.Index, d
		}
	}
	return best
}

func (p Palette) distance(a, b RGB) float64 {
	if p.metric == MetricLab {
		return a.colorful().DistanceLab(b.colorful())
	}
	return Distance(a, b)
}

// Distance is the Euclidean distance between a and b in RGB space.
func Distance(a, b RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}
