// Package dasha builds the proportional period timeline. The arc holding
// the Moon at a reference instant seeds a chain of top-level periods
// ("Maha"), one per arc in ecliptic order, each lasting the arc's share of
// a 120-year cycle. Any top-level period subdivides on demand into
// sub-periods ("Bhukti") using the same arc-length ratios, rotated from the
// period's own arc. Sub-periods are recomputed per query, never stored.
package dasha

import (
	"time"

	"github.com/skyasground/truenorth/pkg/zodiac"
)

// CycleYears is the length of the full top-level cycle.
const CycleYears = 120

// yearDuration is one timeline year: exactly 365.25 days.
const yearDuration = time.Duration(365.25 * 24 * float64(time.Hour))

// Period is one top-level span of the timeline. Spans are half-open:
// [Start, End).
type Period struct {
	Arc      zodiac.Arc    `json:"arc"`
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	Duration time.Duration `json:"duration"`
}

// Years returns the period length in 365.25-day years.
func (p Period) Years() float64 {
	return float64(p.Duration) / float64(yearDuration)
}

// SubPeriod is one proportional subdivision of a Period.
type SubPeriod struct {
	Arc      zodiac.Arc    `json:"arc"`
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	Duration time.Duration `json:"duration"`
}

// Years returns the sub-period length in 365.25-day years.
func (s SubPeriod) Years() float64 {
	return float64(s.Duration) / float64(yearDuration)
}

// Position is the pair of spans containing one instant.
type Position struct {
	Period    Period    `json:"period"`
	SubPeriod SubPeriod `json:"sub_period"`
}

// Timeline is the ordered, contiguous chain of top-level periods derived
// from one Moon longitude at one reference instant. It is immutable after
// Build and safe for concurrent use.
type Timeline struct {
	Reference     time.Time `json:"reference"`
	MoonLongitude float64   `json:"moon_longitude"`
	Periods       []Period  `json:"periods"`

	zod *zodiac.Zodiac
}

// Build derives the timeline. The Moon's arc supplies the first period:
// the elapsed fraction of that arc has already passed, so the first period
// starts elapsed-duration before the reference and may be partial at the
// reference. The remaining arcs follow in ecliptic order, each period
// chained exactly onto the previous one.
func Build(z *zodiac.Zodiac, moonLongitude float64, reference time.Time) *Timeline {
	c := z.Classify(moonLongitude)

	total := arcDuration(c.Arc)
	elapsed := time.Duration(c.DegreesInto / c.Arc.Length * float64(total))

	n := z.Count()
	periods := make([]Period, n)
	start := reference.Add(-elapsed)
	for k := 0; k < n; k++ {
		arc := z.Arc((c.ArcIndex + k) % n)
		d := arcDuration(arc)
		periods[k] = Period{Arc: arc, Start: start, End: start.Add(d), Duration: d}
		start = periods[k].End
	}

	return &Timeline{
		Reference:     reference,
		MoonLongitude: zodiac.Normalize(moonLongitude),
		Periods:       periods,
		zod:           z,
	}
}

// SubPeriods computes the proportional subdivisions of p, starting with
// p's own arc and rotating through the full sequence. The chain tiles
// [p.Start, p.End) exactly: the final sub-period absorbs the float
// rounding of the proportional durations.
func (tl *Timeline) SubPeriods(p Period) []SubPeriod {
	n := tl.zod.Count()
	idx := tl.zod.IndexOf(p.Arc.Name)
	if idx < 0 {
		return nil
	}

	subs := make([]SubPeriod, n)
	start := p.Start
	for k := 0; k < n; k++ {
		arc := tl.zod.Arc((idx + k) % n)
		d := time.Duration(arc.Length / 360 * float64(p.Duration))
		end := start.Add(d)
		if k == n-1 {
			end = p.End
			d = end.Sub(start)
		}
		subs[k] = SubPeriod{Arc: arc, Start: start, End: end, Duration: d}
		start = end
	}
	return subs
}

// At locates the period and sub-period containing t. The second return is
// false when t lies outside the built cycle; that is an expected
// out-of-cycle condition the caller reports, not an error.
func (tl *Timeline) At(t time.Time) (Position, bool) {
	for _, p := range tl.Periods {
		if t.Before(p.Start) || !t.Before(p.End) {
			continue
		}
		for _, sp := range tl.SubPeriods(p) {
			if !t.Before(sp.Start) && t.Before(sp.End) {
				return Position{Period: p, SubPeriod: sp}, true
			}
		}
	}
	return Position{}, false
}

// arcDuration is an arc's share of the cycle: arcLength/360 × 120 years.
func arcDuration(a zodiac.Arc) time.Duration {
	return time.Duration(a.Length / 360 * CycleYears * float64(yearDuration))
}
