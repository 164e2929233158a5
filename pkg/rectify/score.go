package rectify

import (
	"fmt"
	"time"

	"github.com/skyasground/truenorth/pkg/chart"
	"github.com/skyasground/truenorth/pkg/ephemeris"
	"github.com/skyasground/truenorth/pkg/zodiac"
)

// Scoring weights. Natal and transit boundary hits score per placement;
// the special patterns recognize identity-level configurations.
const (
	WeightNatalHard   = 8
	WeightNatalSoft   = 4
	WeightTransitHard = 6
	WeightTransitSoft = 3

	WeightPeriodStart    = 10 // event within the orb of a period or sub-period start
	WeightAffinity       = 5  // period arc appears in the event type's affinity set
	WeightIntensityBonus = 3  // intensity >= HighIntensity on an already-matching event

	WeightMercuryOphiuchus = 20
	WeightSunBoundary      = 15
	WeightMoonBoundary     = 12
	WeightAscendantHit     = 18

	// TransitionOrbDays is how far an event may sit from a period start and
	// still count as synchronized with the transition.
	TransitionOrbDays = 30

	// ConjunctionOrb is the maximum separation, in degrees, for a transiting
	// body to count as conjunct a natal one.
	ConjunctionOrb = 2.0

	// AscendantOrb is the maximum separation, in degrees, between a
	// transiting hard trigger and the natal Ascendant for an Ascendant hit.
	AscendantOrb = 1.0

	// HighIntensity is the floor of the intensity bonus band.
	HighIntensity = 8
)

// Breakdown books every scored point into one of five fixed buckets. The
// candidate's total score is exactly their sum.
type Breakdown struct {
	DashaCorrelation  int `json:"dasha_correlation"`
	EventTypeMatch    int `json:"event_type_match"`
	NatalBoundaries   int `json:"natal_boundaries"`
	TransitBoundaries int `json:"transit_boundaries"`
	SpecialPatterns   int `json:"special_patterns"`
}

// Total sums the buckets.
func (b Breakdown) Total() int {
	return b.DashaCorrelation + b.EventTypeMatch + b.NatalBoundaries +
		b.TransitBoundaries + b.SpecialPatterns
}

// NatalTrigger records a natal placement at or near an arc boundary.
type NatalTrigger struct {
	Body      ephemeris.Body `json:"body"`
	Longitude float64        `json:"longitude"`
	Arc       string         `json:"arc"`
}

// TransitTrigger records a transiting body at or near an arc boundary on
// an event date. Longitude is the transiting body's own position, which
// the Ascendant-hit check compares against the natal Ascendant.
type TransitTrigger struct {
	Body      ephemeris.Body `json:"body"`
	Longitude float64        `json:"longitude"`
	Arc       string         `json:"arc"`
	EventDate time.Time      `json:"event_date"`
	Pattern   string         `json:"pattern,omitempty"`
}

// Conjunction records a transiting body within ConjunctionOrb of a natal
// body. Conjunctions are reported, not scored.
type Conjunction struct {
	Transit    ephemeris.Body `json:"transit"`
	Natal      ephemeris.Body `json:"natal"`
	Separation float64        `json:"separation"`
	EventDate  time.Time      `json:"event_date"`
}

// Triggers collects everything notable a candidate's scoring pass found.
type Triggers struct {
	NatalHard    []NatalTrigger   `json:"natal_hard"`
	NatalSoft    []NatalTrigger   `json:"natal_soft"`
	TransitHard  []TransitTrigger `json:"transit_hard"`
	TransitSoft  []TransitTrigger `json:"transit_soft"`
	Special      []string         `json:"special"`
	Conjunctions []Conjunction    `json:"conjunctions"`
}

// EventMatch explains how one event contributed to a candidate's score.
type EventMatch struct {
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Score       int       `json:"score"`
	Period      string    `json:"period,omitempty"`
	SubPeriod   string    `json:"sub_period,omitempty"`
	Factors     []string  `json:"factors,omitempty"`
}

func (m *EventMatch) add(points int, factor string) {
	m.Score += points
	m.Factors = append(m.Factors, factor)
}

// score evaluates a candidate chart against the validated events.
func (s *Scanner) score(ch *chart.Chart, events []Event) (Breakdown, Triggers, []EventMatch) {
	var bd Breakdown
	var tr Triggers

	for _, p := range ch.OrderedPlacements() {
		switch p.Status {
		case zodiac.HardTrigger:
			bd.NatalBoundaries += WeightNatalHard
			tr.NatalHard = append(tr.NatalHard, NatalTrigger{Body: p.Body, Longitude: p.Longitude, Arc: p.Arc.Name})
		case zodiac.SoftProximity:
			bd.NatalBoundaries += WeightNatalSoft
			tr.NatalSoft = append(tr.NatalSoft, NatalTrigger{Body: p.Body, Longitude: p.Longitude, Arc: p.Arc.Name})
		}
	}

	if merc, ok := ch.Placements[ephemeris.Mercury]; ok && merc.Arc.Name == zodiac.Ophiuchus {
		bd.SpecialPatterns += WeightMercuryOphiuchus
		tr.Special = append(tr.Special, fmt.Sprintf("Mercury in Ophiuchus at %.2f°", merc.Longitude))
	}
	if sun, ok := ch.Placements[ephemeris.Sun]; ok && sun.Status != zodiac.Stable {
		bd.SpecialPatterns += WeightSunBoundary
		tr.Special = append(tr.Special, fmt.Sprintf("Sun at the %s boundary", sun.Arc.Name))
	}
	if moon, ok := ch.Placements[ephemeris.Moon]; ok && moon.Status != zodiac.Stable {
		bd.SpecialPatterns += WeightMoonBoundary
		tr.Special = append(tr.Special, fmt.Sprintf("Moon at the %s boundary", moon.Arc.Name))
	}

	matches := make([]EventMatch, 0, len(events))
	for _, ev := range events {
		matches = append(matches, s.scoreEvent(ch, ev, &bd, &tr))
	}
	return bd, tr, matches
}

// scoreEvent books one event's contributions. Period correlation applies
// only when the event falls inside the chart's timeline; transits are
// surveyed either way.
func (s *Scanner) scoreEvent(ch *chart.Chart, ev Event, bd *Breakdown, tr *Triggers) EventMatch {
	m := EventMatch{Date: ev.Date, Type: ev.Type, Description: ev.Description}

	if pos, ok := ch.PeriodAt(ev.Date); ok {
		m.Period = pos.Period.Arc.Name
		m.SubPeriod = pos.SubPeriod.Arc.Name

		if withinDays(ev.Date, pos.Period.Start, TransitionOrbDays) {
			m.add(WeightPeriodStart, fmt.Sprintf("within %d days of the %s period start", TransitionOrbDays, pos.Period.Arc.Name))
			bd.DashaCorrelation += WeightPeriodStart
		}
		if withinDays(ev.Date, pos.SubPeriod.Start, TransitionOrbDays) {
			m.add(WeightPeriodStart, fmt.Sprintf("within %d days of the %s/%s sub-period start",
				TransitionOrbDays, pos.Period.Arc.Name, pos.SubPeriod.Arc.Name))
			bd.DashaCorrelation += WeightPeriodStart
		}

		if arcs, known := Affinities(ev.Type); known {
			if containsArc(arcs, pos.Period.Arc.Name) {
				m.add(WeightAffinity, fmt.Sprintf("%s period matches event type %s", pos.Period.Arc.Name, ev.Type))
				bd.EventTypeMatch += WeightAffinity
			}
			if containsArc(arcs, pos.SubPeriod.Arc.Name) {
				m.add(WeightAffinity, fmt.Sprintf("%s sub-period matches event type %s", pos.SubPeriod.Arc.Name, ev.Type))
				bd.EventTypeMatch += WeightAffinity
			}
		}

		// The intensity bonus rewards strong events that already matched
		// the timeline; transit points never qualify an event for it.
		if ev.Intensity >= HighIntensity && m.Score > 0 {
			m.add(WeightIntensityBonus, "high-intensity event")
			bd.DashaCorrelation += WeightIntensityBonus
		}
	}

	sv := s.surveyTransits(ev.Date, ch)
	for _, t := range sv.hard {
		factor := fmt.Sprintf("transit %s at the %s boundary", t.Body, t.Arc)
		if t.Pattern != "" {
			factor = fmt.Sprintf("transit %s: %s", t.Body, t.Pattern)
		}
		m.add(WeightTransitHard, factor)
		bd.TransitBoundaries += WeightTransitHard
		tr.TransitHard = append(tr.TransitHard, t)
	}
	for _, t := range sv.soft {
		m.add(WeightTransitSoft, fmt.Sprintf("transit %s near the %s boundary", t.Body, t.Arc))
		bd.TransitBoundaries += WeightTransitSoft
		tr.TransitSoft = append(tr.TransitSoft, t)
	}
	tr.Conjunctions = append(tr.Conjunctions, sv.conjunctions...)

	if ch.Angles != nil {
		asc := ch.Angles.Ascendant.Longitude
		for _, t := range sv.hard {
			if zodiac.Distance(t.Longitude, asc) < AscendantOrb {
				m.add(WeightAscendantHit, fmt.Sprintf("transit %s conjunct the Ascendant", t.Body))
				bd.SpecialPatterns += WeightAscendantHit
				tr.Special = append(tr.Special, fmt.Sprintf("%s: Ascendant hit by %s",
					ev.Date.UTC().Format("2006-01-02"), t.Body))
				break
			}
		}
	}

	return m
}

// transitSurvey is one event date's worth of transit observations.
type transitSurvey struct {
	hard         []TransitTrigger
	soft         []TransitTrigger
	conjunctions []Conjunction
}

// surveyTransits samples the queryable bodies at noon UTC of the event
// date, classifies each against the arc table, and checks conjunctions
// with every natal placement. A transiting Mercury in Ophiuchus conjunct
// the natal Moon joins the hard triggers as a named pattern. A body the
// provider cannot supply is skipped.
func (s *Scanner) surveyTransits(eventDate time.Time, ch *chart.Chart) transitSurvey {
	d := eventDate.UTC()
	noon := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC)

	var sv transitSurvey
	for _, body := range ephemeris.Bodies() {
		pos, err := s.provider.Position(noon, body)
		if err != nil {
			continue
		}
		lon := zodiac.Normalize(pos.Longitude)
		c := s.zod.Classify(lon)

		switch c.Status {
		case zodiac.HardTrigger:
			sv.hard = append(sv.hard, TransitTrigger{Body: body, Longitude: lon, Arc: c.Arc.Name, EventDate: d})
		case zodiac.SoftProximity:
			sv.soft = append(sv.soft, TransitTrigger{Body: body, Longitude: lon, Arc: c.Arc.Name, EventDate: d})
		}

		for _, natal := range ch.OrderedPlacements() {
			sep := zodiac.Distance(lon, natal.Longitude)
			if sep > ConjunctionOrb {
				continue
			}
			sv.conjunctions = append(sv.conjunctions, Conjunction{
				Transit: body, Natal: natal.Body, Separation: sep, EventDate: d,
			})
			if body == ephemeris.Mercury && c.Arc.Name == zodiac.Ophiuchus && natal.Body == ephemeris.Moon {
				sv.hard = append(sv.hard, TransitTrigger{
					Body: body, Longitude: lon, Arc: c.Arc.Name, EventDate: d,
					Pattern: "Ophiuchus Mercury conjunct natal Moon",
				})
			}
		}
	}
	return sv
}

// withinDays reports whether two instants lie within the given number of
// 24-hour days of each other.
func withinDays(t, ref time.Time, days int) bool {
	d := t.Sub(ref)
	if d < 0 {
		d = -d
	}
	return d <= time.Duration(days)*24*time.Hour
}

func containsArc(arcs []string, name string) bool {
	for _, a := range arcs {
		if a == name {
			return true
		}
	}
	return false
}
