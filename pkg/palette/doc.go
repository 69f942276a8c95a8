// Package palette maps arbitrary colors onto the fixed canvas palette.
//
// # Overview
//
// The canvas accepts only 16 colors, addressed by index 0–15. [Default]
// returns that table; [Palette.Nearest] quantizes any RGB triple to the index
// of the closest entry:
//
//	p := palette.Default()
//	idx := p.Nearest(palette.RGB{R: 250, G: 10, B: 10}) // 5 (red)
//
// # Distance
//
// [MetricRGB] (the default) is plain Euclidean distance in RGB space.
// [MetricLab] measures CIE76 distance in L*a*b* space instead, which tends to
// pick perceptually closer colors for photographs. Both metrics resolve ties
// by the first minimum in enumeration (index) order, so the mapping is a total,
// deterministic function.
//
// # Custom palettes
//
// [Parse] builds a palette from [Size] "#rrggbb" strings, where the position
// of each string is its canvas index. Any other length is rejected, since the
// canvas only accepts indexes 0 through 15:
//
//	p, err := palette.Parse(hexes) // len(hexes) == palette.Size
package palette
