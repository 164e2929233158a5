package zodiac

import "math"

// Shared circular arithmetic over ecliptic longitudes. Classification,
// house assignment, and period building all route wrap-around handling
// through these three functions.

// Normalize wraps an angle in degrees to the range [0, 360).
func Normalize(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Distance returns the minimal circular separation of two longitudes in
// degrees, always in [0, 180].
func Distance(a, b float64) float64 {
	d := math.Abs(Normalize(a) - Normalize(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// Within reports whether lon lies in the half-open span [start, end),
// wrap-aware: a span whose end precedes its start crosses 0°. A span with
// start == end is empty and contains nothing.
func Within(lon, start, end float64) bool {
	lon = Normalize(lon)
	start = Normalize(start)
	end = Normalize(end)
	if start < end {
		return lon >= start && lon < end
	}
	if start > end {
		return lon >= start || lon < end
	}
	return false
}
