// Package engine implements the visibility scoring core: the grid index,
// the bilinear spatial interpolator with longitude wrap-around, the
// continuous darkness model, the score combiner, the freshness/fallback
// controller, and the alert gate.
package engine

import "auroracast/internal/types"

// GridKey identifies one cell corner in the probability grid.
// Lon is 0-359 degrees east, Lat is -90..90.
type GridKey struct {
	Lon int
	Lat int
}

// Grid maps integer (lon, lat) pairs to aurora probability values 0-100.
// A Grid is built once per fetch cycle and never merged with a previous
// grid, so stale sample points cannot accumulate across ticks.
type Grid map[GridKey]int

// BuildGrid indexes a list of sample points into a queryable Grid.
// Duplicate coordinates resolve last-write-wins. O(n), no ordering
// guarantees, no side effects.
func BuildGrid(points []types.GridPoint) Grid {
	grid := make(Grid, len(points))
	for _, p := range points {
		grid[GridKey{Lon: p.Lon, Lat: p.Lat}] = p.Probability
	}
	return grid
}
