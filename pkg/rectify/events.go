package rectify

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultIntensity replaces an unspecified event intensity.
const DefaultIntensity = 5

// Event is one reported life event. Only the date matters for scoring;
// transits are sampled at noon UTC of that date.
type Event struct {
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Intensity   int       `json:"intensity,omitempty"`
}

// RejectedEvent pairs an event that failed validation with the reason it
// was rejected.
type RejectedEvent struct {
	Event  Event  `json:"event"`
	Reason string `json:"reason"`
}

// ValidateEvent checks one event and returns it normalized: a zero
// intensity means unspecified and becomes DefaultIntensity. An unknown
// event type is not an error; it simply matches no affinity set.
func ValidateEvent(ev Event) (Event, error) {
	switch {
	case ev.Date.IsZero():
		return ev, errors.New("event date is missing")
	case strings.TrimSpace(ev.Type) == "":
		return ev, errors.New("event type is empty")
	case ev.Intensity < 0 || ev.Intensity > 10:
		return ev, fmt.Errorf("intensity %d outside 0..10", ev.Intensity)
	}
	if ev.Intensity == 0 {
		ev.Intensity = DefaultIntensity
	}
	return ev, nil
}

// splitEvents validates a batch, separating the scorable remainder from
// the rejects.
func splitEvents(events []Event) ([]Event, []RejectedEvent) {
	var valid []Event
	var rejected []RejectedEvent
	for _, ev := range events {
		v, err := ValidateEvent(ev)
		if err != nil {
			rejected = append(rejected, RejectedEvent{Event: ev, Reason: err.Error()})
			continue
		}
		valid = append(valid, v)
	}
	return valid, rejected
}
