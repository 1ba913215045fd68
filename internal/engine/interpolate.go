package engine

import "math"

// NormalizeLongitude maps any finite longitude into [0,360). The double
// modulo keeps the result non-negative for negative inputs, matching the
// grid's native 0-359 east indexing.
func NormalizeLongitude(lon float64) float64 {
	return math.Mod(math.Mod(lon, 360)+360, 360)
}

// ProbabilityAt bilinearly interpolates the grid at an arbitrary
// coordinate. Longitude wraps at the 360/0 seam, latitude is clamped to
// [-90,90]. Grid gaps read as probability 0 ("no signal"), never as an
// error, so an empty grid yields 0 for any coordinate. The result is
// clamped to [0,100] to guard against float error.
func ProbabilityAt(grid Grid, lat, lon float64) float64 {
	lon = NormalizeLongitude(lon)
	lat = clampFloat(lat, -90, 90)

	lonFloor := int(math.Floor(lon)) % 360
	lonCeil := (lonFloor + 1) % 360
	latFloor := clampInt(int(math.Floor(lat)), -90, 89)
	latCeil := clampInt(latFloor+1, -90, 90)

	fx := lon - math.Floor(lon)
	fy := lat - float64(latFloor)

	q00 := float64(grid[GridKey{Lon: lonFloor, Lat: latFloor}])
	q10 := float64(grid[GridKey{Lon: lonCeil, Lat: latFloor}])
	q01 := float64(grid[GridKey{Lon: lonFloor, Lat: latCeil}])
	q11 := float64(grid[GridKey{Lon: lonCeil, Lat: latCeil}])

	result := q00*(1-fx)*(1-fy) + q10*fx*(1-fy) + q01*(1-fx)*fy + q11*fx*fy

	return clampFloat(result, 0, 100)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
