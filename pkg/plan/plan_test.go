package plan

import (
	"math/rand/v2"
	"reflect"
	"slices"
	"testing"
)

func fixedRand() *rand.Rand {
	return rand.New(rand.NewPCG(42, 7))
}

func TestShufflePermutation(t *testing.T) {
	tests := []struct {
		name string
		grid [][]int
	}{
		{"square", [][]int{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}},
		{"ragged", [][]int{{1}, {2, 3, 4}, {}, {5, 6}}},
		{"single row", [][]int{{1, 2, 3, 4, 5, 6, 7, 8}}},
		{"duplicates", [][]int{{1, 1}, {2, 2}}},
		{"empty", [][]int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Shuffle(tt.grid, fixedRand())

			if len(out) != len(tt.grid) {
				t.Fatalf("got %d rows, want %d", len(out), len(tt.grid))
			}
			for i := range tt.grid {
				if len(out[i]) != len(tt.grid[i]) {
					t.Errorf("row %d has length %d, want %d", i, len(out[i]), len(tt.grid[i]))
				}
			}

			if got, want := flatten(out), flatten(tt.grid); !reflect.DeepEqual(got, want) {
				t.Errorf("multiset changed: got %v, want %v", got, want)
			}
		})
	}
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	grid := [][]int{{1, 2, 3}, {4, 5, 6}}
	Shuffle(grid, fixedRand())
	if !reflect.DeepEqual(grid, [][]int{{1, 2, 3}, {4, 5, 6}}) {
		t.Errorf("input mutated: %v", grid)
	}
}

func TestShuffleReproducible(t *testing.T) {
	grid := [][]int{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10, 11, 12}}
	a := Shuffle(grid, fixedRand())
	b := Shuffle(grid, fixedRand())
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed produced different orders: %v vs %v", a, b)
	}
}

func TestShuffleRowsDoNotAlias(t *testing.T) {
	out := Shuffle([][]int{{1, 2}, {3, 4}}, fixedRand())
	out[0] = append(out[0], 99)
	if len(out[1]) != 2 || slices.Contains(out[1], 99) {
		t.Errorf("appending to row 0 leaked into row 1: %v", out)
	}
}

func TestShuffleNilRandPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Shuffle(nil rng) should panic")
		}
	}()
	Shuffle([][]int{{1}}, nil)
}

func TestNewCoversEveryCoordinate(t *testing.T) {
	p := New(4, 3, fixedRand())

	if p.Width() != 4 || p.Height() != 3 || p.Len() != 12 {
		t.Fatalf("dims = %dx%d (%d), want 4x3 (12)", p.Width(), p.Height(), p.Len())
	}

	seen := make(map[Coord]int)
	p.Each(func(c Coord) bool {
		seen[c]++
		return true
	})
	if len(seen) != 12 {
		t.Fatalf("visited %d distinct coordinates, want 12", len(seen))
	}
	for c, n := range seen {
		if n != 1 {
			t.Errorf("%v visited %d times", c, n)
		}
		if c.X < 0 || c.X >= 4 || c.Y < 0 || c.Y >= 3 {
			t.Errorf("%v out of bounds", c)
		}
	}
}

func TestEachOrderAndStop(t *testing.T) {
	p := New(2, 3, fixedRand())

	var got []Coord
	p.Each(func(c Coord) bool {
		got = append(got, c)
		return true
	})
	var want []Coord
	for x := range 2 {
		for y := range 3 {
			want = append(want, p.At(x, y))
		}
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Each order = %v, want x-outer order %v", got, want)
	}

	calls := 0
	p.Each(func(Coord) bool {
		calls++
		return calls < 2
	})
	if calls != 2 {
		t.Errorf("Each continued after false: %d calls", calls)
	}
}

func TestCoordAdd(t *testing.T) {
	got := Coord{X: 1, Y: 0}.Add(Coord{X: 10, Y: 10})
	if got != (Coord{X: 11, Y: 10}) {
		t.Errorf("Add() = %v, want {11 10}", got)
	}
}

func TestNewRand(t *testing.T) {
	a, b := NewRand(5), NewRand(5)
	if a.Uint64() != b.Uint64() {
		t.Error("NewRand with equal seeds should agree")
	}
	if NewRand(0) == nil {
		t.Error("NewRand(0) returned nil")
	}
}

func flatten(grid [][]int) []int {
	var out []int
	for _, row := range grid {
		out = append(out, row...)
	}
	slices.Sort(out)
	return out
}
