package plan

import "math/rand/v2"

// Shuffle returns a grid with the same row lengths as grid whose flattened
// contents are a uniform random permutation of grid's. Rows may be ragged.
// grid itself is left untouched. rng must not be nil.
func Shuffle[T any](grid [][]T, rng *rand.Rand) [][]T {
	if rng == nil {
		panic("plan: Shuffle requires a random source")
	}

	var flat []T
	bounds := make([][2]int, len(grid))
	for i, row := range grid {
		start := len(flat)
		flat = append(flat, row...)
		bounds[i] = [2]int{start, len(flat)}
	}

	rng.Shuffle(len(flat), func(i, j int) {
		flat[i], flat[j] = flat[j], flat[i]
	})

	out := make([][]T, len(grid))
	for i, b := range bounds {
		out[i] = flat[b[0]:b[1]:b[1]]
	}
	return out
}
