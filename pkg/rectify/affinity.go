package rectify

import (
	"sort"

	"github.com/skyasground/truenorth/pkg/zodiac"
)

// eventSignatures maps an event type to the arcs whose periods resonate
// with it. When the period or sub-period active at an event's date rules
// one of the listed arcs, the event scores an affinity match.
var eventSignatures = map[string][]string{
	// Action, conflict, initiation.
	"career_launch": {zodiac.Aries, zodiac.Leo, zodiac.Sagittarius},
	"conflict":      {zodiac.Aries, zodiac.Scorpius},
	"surgery":       {zodiac.Aries, zodiac.Scorpius, zodiac.Ophiuchus},
	"competition":   {zodiac.Aries, zodiac.Leo},

	// Relationship, beauty, resources.
	"relationship_start":     {zodiac.Taurus, zodiac.Libra, zodiac.Pisces},
	"relationship_end":       {zodiac.Libra, zodiac.Scorpius, zodiac.Aquarius},
	"artistic_breakthrough":  {zodiac.Taurus, zodiac.Libra, zodiac.Pisces},
	"financial_gain":         {zodiac.Taurus, zodiac.Leo, zodiac.Sagittarius},

	// Structure, restriction, responsibility.
	"restriction":     {zodiac.Capricornus, zodiac.Aquarius, zodiac.Virgo},
	"responsibility":  {zodiac.Capricornus, zodiac.Virgo, zodiac.Cancer},
	"financial_reset": {zodiac.Capricornus, zodiac.Scorpius, zodiac.Aquarius},
	"career_setback":  {zodiac.Capricornus, zodiac.Scorpius},

	// Disruption, awakening, loss.
	"disruption":          {zodiac.Ophiuchus, zodiac.Aquarius, zodiac.Scorpius},
	"spiritual_awakening": {zodiac.Ophiuchus, zodiac.Pisces, zodiac.Sagittarius},
	"loss":                {zodiac.Scorpius, zodiac.Pisces, zodiac.Cancer},
	"radical_change":      {zodiac.Ophiuchus, zodiac.Aquarius, zodiac.Aries},

	// Communication, learning, travel.
	"education":     {zodiac.Gemini, zodiac.Virgo, zodiac.Sagittarius},
	"travel":        {zodiac.Gemini, zodiac.Sagittarius, zodiac.Pisces},
	"communication": {zodiac.Gemini, zodiac.Libra, zodiac.Aquarius},
	"writing":       {zodiac.Gemini, zodiac.Virgo, zodiac.Pisces},

	// Expansion, philosophy, teaching.
	"expansion":   {zodiac.Sagittarius, zodiac.Pisces, zodiac.Leo},
	"teaching":    {zodiac.Sagittarius, zodiac.Gemini, zodiac.Virgo},
	"philosophy":  {zodiac.Sagittarius, zodiac.Aquarius, zodiac.Pisces},
	"recognition": {zodiac.Leo, zodiac.Sagittarius, zodiac.Capricornus},

	// Emotional life, home, family.
	"home_change":      {zodiac.Cancer, zodiac.Taurus, zodiac.Capricornus},
	"emotional_crisis": {zodiac.Cancer, zodiac.Scorpius, zodiac.Pisces},
	"mother_event":     {zodiac.Cancer, zodiac.Virgo, zodiac.Pisces},
	"nurturing_role":   {zodiac.Cancer, zodiac.Virgo, zodiac.Taurus},

	// Healing, transmutation, identity.
	"healing_crisis":        {zodiac.Ophiuchus, zodiac.Virgo, zodiac.Scorpius},
	"identity_realization":  {zodiac.Ophiuchus, zodiac.Leo, zodiac.Aquarius},
	"transmutation":         {zodiac.Ophiuchus, zodiac.Scorpius, zodiac.Pisces},
	"health_breakthrough":   {zodiac.Ophiuchus, zodiac.Virgo, zodiac.Sagittarius},
}

// Affinities returns the arc names associated with an event type.
func Affinities(eventType string) ([]string, bool) {
	arcs, ok := eventSignatures[eventType]
	if !ok {
		return nil, false
	}
	return append([]string(nil), arcs...), true
}

// EventTypes returns every known event type in sorted order.
func EventTypes() []string {
	types := make([]string, 0, len(eventSignatures))
	for t := range eventSignatures {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
