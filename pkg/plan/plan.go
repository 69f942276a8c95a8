// Package plan builds the randomized visitation order for one image pass.
//
// Writes are not submitted in raster order: [New] lays out every grid
// coordinate and permutes them with [Shuffle], keeping the grid shape so
// the driver can still address the plan by (x, y).
package plan

import (
	"math/rand/v2"
	"time"
)

// Coord is a grid-relative or absolute canvas coordinate.
type Coord struct {
	X, Y int
}

// Add translates c by the origin o.
func (c Coord) Add(o Coord) Coord {
	return Coord{X: c.X + o.X, Y: c.Y + o.Y}
}

// Plan is a shuffled height×width grid of coordinates. It is never
// mutated after New returns.
type Plan struct {
	rows          [][]Coord
	width, height int
}

// New builds a plan covering every coordinate of a width×height grid,
// permuted with rng.
func New(width, height int, rng *rand.Rand) Plan {
	grid := make([][]Coord, height)
	for y := range height {
		row := make([]Coord, width)
		for x := range width {
			row[x] = Coord{X: x, Y: y}
		}
		grid[y] = row
	}
	return Plan{rows: Shuffle(grid, rng), width: width, height: height}
}

// Width returns the grid width.
func (p Plan) Width() int { return p.width }

// Height returns the grid height.
func (p Plan) Height() int { return p.height }

// Len returns the number of coordinates in the plan.
func (p Plan) Len() int { return p.width * p.height }

// At returns the coordinate stored at canonical position (x, y).
func (p Plan) At(x, y int) Coord {
	return p.rows[y][x]
}

// Each calls fn for every coordinate, iterating x outer and y inner,
// and stops early when fn returns false.
func (p Plan) Each(fn func(Coord) bool) {
	for x := range p.width {
		for y := range p.height {
			if !fn(p.At(x, y)) {
				return
			}
		}
	}
}

// NewRand returns a PCG-backed generator. A zero seed draws one from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}
