// Package ephemeris supplies tropical ecliptic positions for the tracked
// celestial bodies and the chart angles (Ascendant, Midheaven). The engine
// consumes positions through the Provider interface; the shipped Meeus
// provider computes them from published analytic models and needs no
// external data files. Longitudes are ecliptic of date, degrees in [0,360),
// the same frame the boundary calibration is defined in.
package ephemeris

import (
	"errors"
	"time"
)

// Body identifies a celestial body by its canonical name.
type Body string

// The tracked bodies. Rahu is the mean ascending lunar node; Ketu, the
// descending node, is never queried from a provider but derived by the
// chart builder as Rahu + 180° with negated motion.
const (
	Sun     Body = "Sun"
	Moon    Body = "Moon"
	Mercury Body = "Mercury"
	Venus   Body = "Venus"
	Mars    Body = "Mars"
	Jupiter Body = "Jupiter"
	Saturn  Body = "Saturn"
	Uranus  Body = "Uranus"
	Neptune Body = "Neptune"
	Pluto   Body = "Pluto"
	Rahu    Body = "Rahu"
	Ketu    Body = "Ketu"
)

// Bodies returns the queryable bodies in canonical order. Ketu is absent:
// providers do not serve it.
func Bodies() []Body {
	return []Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto, Rahu}
}

// ErrUnknownBody is returned for a body a provider cannot serve.
var ErrUnknownBody = errors.New("unknown body")

// Position is one body's state at an instant.
type Position struct {
	Longitude   float64 `json:"longitude"`    // ecliptic longitude, degrees [0,360)
	Latitude    float64 `json:"latitude"`     // ecliptic latitude, degrees
	Distance    float64 `json:"distance"`     // geocentric distance, AU
	DailyMotion float64 `json:"daily_motion"` // degrees/day, negative while retrograde
}

// Angles are the two chart angles for an observer.
type Angles struct {
	Ascendant float64 `json:"ascendant"` // ecliptic longitude rising in the east, degrees
	Midheaven float64 `json:"midheaven"` // ecliptic longitude culminating, degrees
}

// Provider computes positions and angles. Implementations are pure
// synchronous functions of their inputs, safe for concurrent use. A failed
// lookup is reported per call; callers recover by omitting that body.
type Provider interface {
	Position(t time.Time, body Body) (Position, error)
	Angles(t time.Time, latitude, longitude float64) (Angles, error)
}
