// Package chart assembles natal charts: per-body placements classified
// against the arc table, chart angles, whole-sign houses, and the period
// timeline seeded by the Moon. A failing provider never aborts a chart;
// bodies that cannot be computed are omitted and recorded.
package chart

import (
	"fmt"
	"time"

	"github.com/skyasground/truenorth/pkg/dasha"
	"github.com/skyasground/truenorth/pkg/ephemeris"
	"github.com/skyasground/truenorth/pkg/lunar"
	"github.com/skyasground/truenorth/pkg/zodiac"
)

// Chart angle names. They ride the Body type so angle placements share the
// placement shape, but they are never passed to a provider's Position.
const (
	BodyAscendant ephemeris.Body = "Ascendant"
	BodyMidheaven ephemeris.Body = "Midheaven"
)

// Placement is one body's computed position on a chart.
type Placement struct {
	Body        ephemeris.Body `json:"body"`
	Longitude   float64        `json:"longitude"`
	Latitude    float64        `json:"latitude"`
	DailyMotion float64        `json:"daily_motion"`
	Arc         zodiac.Arc     `json:"arc"`
	Status      zodiac.Status  `json:"status"`
	DegreesInto float64        `json:"degrees_into"`
	Retrograde  bool           `json:"retrograde"`
	House       int            `json:"house,omitempty"`
}

// Angles are the chart axes, classified like bodies.
type Angles struct {
	Ascendant Placement `json:"ascendant"`
	Midheaven Placement `json:"midheaven"`
}

// House is one whole-sign house: its span is exactly its ruling arc's span.
type House struct {
	Number int        `json:"number"`
	Arc    zodiac.Arc `json:"arc"`
	Start  float64    `json:"start"`
	End    float64    `json:"end"`
}

// Chart is an immutable snapshot of the sky over one place at one instant.
// Angles is nil and Houses empty when the axes could not be computed;
// Timeline is nil when the Moon was omitted, MoonPhase when either
// luminary was.
type Chart struct {
	Instant    time.Time                    `json:"instant"`
	Latitude   float64                      `json:"latitude"`
	Longitude  float64                      `json:"longitude"`
	Placements map[ephemeris.Body]Placement `json:"placements"`
	Angles     *Angles                      `json:"angles,omitempty"`
	Houses     []House                      `json:"houses,omitempty"`
	MoonPhase  *lunar.MoonPhase             `json:"moon_phase,omitempty"`
	Timeline   *dasha.Timeline              `json:"timeline,omitempty"`
	Omitted    map[ephemeris.Body]string    `json:"omitted,omitempty"`
}

// Builder computes charts from an ephemeris provider and an arc table. It
// is stateless and safe for concurrent use.
type Builder struct {
	provider ephemeris.Provider
	zod      *zodiac.Zodiac
}

// NewBuilder returns a Builder over the given provider and arc table.
func NewBuilder(p ephemeris.Provider, z *zodiac.Zodiac) *Builder {
	return &Builder{provider: p, zod: z}
}

// Build computes the chart for an instant and geographic position. Bodies
// the provider cannot supply are omitted with their reason recorded; a
// failed Angles call leaves Angles nil, Houses empty, and every placement's
// House zero. Build errors only when no body position could be computed
// at all.
func (b *Builder) Build(instant time.Time, latitude, longitude float64) (*Chart, error) {
	utc := instant.UTC()
	ch := &Chart{
		Instant:    utc,
		Latitude:   latitude,
		Longitude:  longitude,
		Placements: make(map[ephemeris.Body]Placement, len(ephemeris.Bodies())+1),
	}

	for _, body := range ephemeris.Bodies() {
		pos, err := b.provider.Position(utc, body)
		if err != nil {
			ch.omit(body, err)
			continue
		}
		ch.Placements[body] = b.placement(body, pos)
	}

	// Ketu mirrors Rahu across the ecliptic. It is derived, never queried,
	// and classified independently in its own arc.
	if rahu, ok := ch.Placements[ephemeris.Rahu]; ok {
		ch.Placements[ephemeris.Ketu] = b.placement(ephemeris.Ketu, ephemeris.Position{
			Longitude:   zodiac.Normalize(rahu.Longitude + 180),
			DailyMotion: -rahu.DailyMotion,
		})
	}

	if len(ch.Placements) == 0 {
		return nil, fmt.Errorf("no body positions available at %s", utc.Format(time.RFC3339))
	}

	if ang, err := b.provider.Angles(utc, latitude, longitude); err != nil {
		ch.omit(BodyAscendant, err)
	} else {
		asc := b.placement(BodyAscendant, ephemeris.Position{Longitude: ang.Ascendant})
		mc := b.placement(BodyMidheaven, ephemeris.Position{Longitude: ang.Midheaven})
		ch.Houses = b.houses(asc.Arc)
		asc.House = 1
		mc.House = houseOf(ch.Houses, mc.Arc)
		ch.Angles = &Angles{Ascendant: asc, Midheaven: mc}
		for body, p := range ch.Placements {
			p.House = houseOf(ch.Houses, p.Arc)
			ch.Placements[body] = p
		}
	}

	if moon, ok := ch.Placements[ephemeris.Moon]; ok {
		ch.Timeline = dasha.Build(b.zod, moon.Longitude, utc)
		if sun, ok := ch.Placements[ephemeris.Sun]; ok {
			phase := lunar.FromLongitudes(sun.Longitude, moon.Longitude)
			ch.MoonPhase = &phase
		}
	}

	return ch, nil
}

// placement classifies a raw position into a chart placement.
func (b *Builder) placement(body ephemeris.Body, pos ephemeris.Position) Placement {
	c := b.zod.Classify(pos.Longitude)
	return Placement{
		Body:        body,
		Longitude:   zodiac.Normalize(pos.Longitude),
		Latitude:    pos.Latitude,
		DailyMotion: pos.DailyMotion,
		Arc:         c.Arc,
		Status:      c.Status,
		DegreesInto: c.DegreesInto,
		Retrograde:  pos.DailyMotion < 0,
	}
}

// houses lays out the whole-sign houses: house 1 is the rising arc in full
// and the rest follow in ecliptic order.
func (b *Builder) houses(rising zodiac.Arc) []House {
	idx := b.zod.IndexOf(rising.Name)
	if idx < 0 {
		return nil
	}
	n := b.zod.Count()
	hs := make([]House, n)
	for k := 0; k < n; k++ {
		arc := b.zod.Arc((idx + k) % n)
		hs[k] = House{Number: k + 1, Arc: arc, Start: arc.Start, End: arc.End()}
	}
	return hs
}

// houseOf returns the house number ruling the given arc, or 0 when houses
// are unavailable. Under whole-sign houses a body's house is exactly the
// house of its arc.
func houseOf(houses []House, arc zodiac.Arc) int {
	for _, h := range houses {
		if h.Arc.Name == arc.Name {
			return h.Number
		}
	}
	return 0
}

// omit records a body the chart had to leave out and why.
func (c *Chart) omit(body ephemeris.Body, err error) {
	if c.Omitted == nil {
		c.Omitted = make(map[ephemeris.Body]string)
	}
	c.Omitted[body] = err.Error()
}

// PeriodAt locates t in the chart's timeline. The second return is false
// when the chart carries no timeline or t lies outside the built cycle.
func (c *Chart) PeriodAt(t time.Time) (dasha.Position, bool) {
	if c.Timeline == nil {
		return dasha.Position{}, false
	}
	return c.Timeline.At(t)
}

// OrderedPlacements returns the chart's placements in canonical body order,
// Ketu following Rahu. Map iteration order is unfit for reports.
func (c *Chart) OrderedPlacements() []Placement {
	order := append(ephemeris.Bodies(), ephemeris.Ketu)
	out := make([]Placement, 0, len(c.Placements))
	for _, body := range order {
		if p, ok := c.Placements[body]; ok {
			out = append(out, p)
		}
	}
	return out
}
