// Package zodiac implements the 13-constellation ecliptic partition used
// throughout the engine: an ordered set of unequal arcs keyed by start
// longitude, point-in-arc classification, and dual-threshold boundary
// proximity detection. Boundary status is measured against the nearest of
// all arc start points; for a partition of the circle this is equivalent to
// measuring against the two edges of the containing arc, since no other
// boundary can be nearer than the nearer bounding edge.
package zodiac

import "fmt"

// Proximity thresholds in degrees. A longitude closer than HardThreshold to
// an arc boundary is a hard trigger; closer than SoftThreshold, soft
// proximity. Comparisons are strict.
const (
	HardThreshold = 0.01 // 36 arc-seconds
	SoftThreshold = 0.5  // 30 arc-minutes
)

// Status classifies a longitude's proximity to the nearest arc boundary.
type Status string

const (
	Stable        Status = "STABLE"
	SoftProximity Status = "SOFT_PROXIMITY"
	HardTrigger   Status = "HARD_TRIGGER"
)

// Names of the arcs in the canonical table, in ecliptic order.
const (
	Aries       = "Aries"
	Taurus      = "Taurus"
	Gemini      = "Gemini"
	Cancer      = "Cancer"
	Leo         = "Leo"
	Virgo       = "Virgo"
	Libra       = "Libra"
	Scorpius    = "Scorpius"
	Ophiuchus   = "Ophiuchus"
	Sagittarius = "Sagittarius"
	Capricornus = "Capricornus"
	Aquarius    = "Aquarius"
	Pisces      = "Pisces"
)

// Boundary is one entry of a partition table: an arc name and the ecliptic
// longitude at which the arc begins.
type Boundary struct {
	Name  string
	Start float64
}

// defaultBoundaries is the canonical 13-constellation calibration. Each
// arc runs from its start to the next entry's start; Pisces wraps to Aries.
var defaultBoundaries = []Boundary{
	{Aries, 0.0},
	{Taurus, 29.1},
	{Gemini, 53.4},
	{Cancer, 90.1},
	{Leo, 118.0},
	{Virgo, 138.1},
	{Libra, 173.9},
	{Scorpius, 217.8},
	{Ophiuchus, 247.1},
	{Sagittarius, 265.3},
	{Capricornus, 299.7},
	{Aquarius, 327.9},
	{Pisces, 351.6},
}

// DefaultBoundaries returns a copy of the canonical 13-constellation table.
func DefaultBoundaries() []Boundary {
	return append([]Boundary(nil), defaultBoundaries...)
}

// Arc is one segment of the partition. Length is derived from the next
// arc's start at construction; End wraps past 360 back to [0,360).
type Arc struct {
	Name   string  `json:"name"`
	Start  float64 `json:"start"`
	Length float64 `json:"length"`
}

// End returns the arc's end longitude, normalized to [0,360).
func (a Arc) End() float64 {
	return Normalize(a.Start + a.Length)
}

// Classification is the result of classifying a single longitude.
type Classification struct {
	Arc              Arc     `json:"arc"`
	ArcIndex         int     `json:"arc_index"`
	Status           Status  `json:"status"`
	DegreesInto      float64 `json:"degrees_into"`
	BoundaryDistance float64 `json:"boundary_distance"`
}

// Zodiac is an immutable partition of the ecliptic circle. Construct once
// with New (or Default) and share by reference; it is safe for concurrent
// use.
type Zodiac struct {
	arcs []Arc
}

// New builds a Zodiac from a boundary table. The table must hold at least
// two entries with unique non-empty names and strictly ascending start
// longitudes in [0,360); any such table tiles the circle exactly once, the
// final arc wrapping through 0°. A table failing validation is a fatal
// configuration error for every downstream computation.
func New(bounds []Boundary) (*Zodiac, error) {
	if len(bounds) < 2 {
		return nil, fmt.Errorf("boundary table needs at least 2 arcs, got %d", len(bounds))
	}
	seen := make(map[string]bool, len(bounds))
	for i, b := range bounds {
		if b.Name == "" {
			return nil, fmt.Errorf("boundary %d has an empty name", i)
		}
		if seen[b.Name] {
			return nil, fmt.Errorf("duplicate arc name %q", b.Name)
		}
		seen[b.Name] = true
		if b.Start < 0 || b.Start >= 360 {
			return nil, fmt.Errorf("arc %q start %.4f outside [0,360)", b.Name, b.Start)
		}
		if i > 0 && b.Start <= bounds[i-1].Start {
			return nil, fmt.Errorf("arc %q start %.4f not strictly after %q at %.4f",
				b.Name, b.Start, bounds[i-1].Name, bounds[i-1].Start)
		}
	}

	arcs := make([]Arc, len(bounds))
	for i, b := range bounds {
		end := bounds[0].Start + 360
		if i < len(bounds)-1 {
			end = bounds[i+1].Start
		}
		arcs[i] = Arc{Name: b.Name, Start: b.Start, Length: end - b.Start}
	}
	return &Zodiac{arcs: arcs}, nil
}

// Default returns a Zodiac built from the canonical 13-constellation table.
func Default() *Zodiac {
	z, err := New(defaultBoundaries)
	if err != nil {
		// the canonical table is a compile-time constant and always valid
		panic(err)
	}
	return z
}

// Count returns the number of arcs in the partition.
func (z *Zodiac) Count() int {
	return len(z.arcs)
}

// Arc returns the arc at index i in ecliptic order.
func (z *Zodiac) Arc(i int) Arc {
	return z.arcs[i]
}

// Arcs returns a copy of the arc table in ecliptic order.
func (z *Zodiac) Arcs() []Arc {
	return append([]Arc(nil), z.arcs...)
}

// IndexOf returns the index of the named arc, or -1 if the name is unknown.
func (z *Zodiac) IndexOf(name string) int {
	for i, a := range z.arcs {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// Classify locates the arc containing the given ecliptic longitude and
// reports its boundary proximity status. The longitude is normalized to
// [0,360) first, so any multiple of 360 classifies identically.
func (z *Zodiac) Classify(longitude float64) Classification {
	lon := Normalize(longitude)

	idx := len(z.arcs) - 1 // the wrapping arc catches anything before arcs[0].Start
	for i, a := range z.arcs {
		if Within(lon, a.Start, a.End()) {
			idx = i
			break
		}
	}
	arc := z.arcs[idx]

	nearest := 360.0
	for _, a := range z.arcs {
		if d := Distance(lon, a.Start); d < nearest {
			nearest = d
		}
	}

	status := Stable
	switch {
	case nearest < HardThreshold:
		status = HardTrigger
	case nearest < SoftThreshold:
		status = SoftProximity
	}

	return Classification{
		Arc:              arc,
		ArcIndex:         idx,
		Status:           status,
		DegreesInto:      Normalize(lon - arc.Start),
		BoundaryDistance: nearest,
	}
}
