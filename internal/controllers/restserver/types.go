package restserver

import (
	"time"

	"github.com/skyasground/truenorth/pkg/chart"
	"github.com/skyasground/truenorth/pkg/dasha"
)

// ChartRequest describes a birth moment and place. Date and time are
// separate fields so clients never have to guess a timezone: both are
// interpreted as UTC.
type ChartRequest struct {
	Date      string  `json:"date"`           // YYYY-MM-DD
	Time      string  `json:"time,omitempty"` // HH:MM:SS or HH:MM, defaults to 12:00:00
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// TimelineRequest asks for the timeline of a chart, optionally resolved
// at a specific instant instead of now.
type TimelineRequest struct {
	ChartRequest
	At string `json:"at,omitempty"` // RFC 3339 or YYYY-MM-DD
}

// EventInput is one dated life event submitted for rectification.
type EventInput struct {
	Date        string `json:"date"` // YYYY-MM-DD
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Intensity   int    `json:"intensity,omitempty"`
}

// RectifyRequest describes a rectification scan: the approximate birth
// moment, the half-window and step to search with, and the events to
// score candidates against.
type RectifyRequest struct {
	Date        string       `json:"date"`
	Time        string       `json:"time,omitempty"`
	Latitude    float64      `json:"latitude"`
	Longitude   float64      `json:"longitude"`
	WindowHours float64      `json:"window_hours,omitempty"` // half-width, default 2
	StepMinutes float64      `json:"step_minutes,omitempty"` // default 10
	Events      []EventInput `json:"events"`
}

// HealthResponse reports service liveness
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	StartedAt time.Time `json:"started_at"`
	Uptime    string    `json:"uptime"`
}

// ChartResponse carries a computed chart plus the timeline position
// in effect right now, when the timeline is available.
type ChartResponse struct {
	Chart   *chart.Chart    `json:"chart"`
	Current *dasha.Position `json:"current_period,omitempty"`
}

// TimelineResponse carries the full major-period table and, when the
// requested instant falls inside the cycle, the resolved position with
// its sub-periods.
type TimelineResponse struct {
	Reference     time.Time         `json:"reference"`
	MoonLongitude float64           `json:"moon_longitude"`
	Periods       []dasha.Period    `json:"periods"`
	At            time.Time         `json:"at"`
	Found         bool              `json:"found"`
	Position      *dasha.Position   `json:"position,omitempty"`
	SubPeriods    []dasha.SubPeriod `json:"sub_periods,omitempty"`
}
