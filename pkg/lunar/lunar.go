// Package lunar derives the Moon's phase from the ecliptic longitudes of
// the Sun and Moon. The phase is a pure function of their elongation, so
// the same provider that feeds chart placements feeds this; any longitude
// frame works as long as both bodies share it.
package lunar

import "math"

// SynodicMonth is the average length of the lunar cycle in days.
const SynodicMonth = 29.530588853

// MoonPhase describes the Moon's phase at an instant.
type MoonPhase struct {
	Elongation   float64 `json:"elongation"`   // Sun-to-Moon angle, degrees [0,360)
	Phase        float64 `json:"phase"`        // phase fraction [0,1): 0=new, 0.5=full
	Illumination float64 `json:"illumination"` // illuminated fraction [0,1]: 0=new, 1=full
	AgeDays      float64 `json:"age_days"`     // days since new moon [0,SynodicMonth)
	Waxing       bool    `json:"waxing"`       // true while the Moon gains light
	Name         string  `json:"name"`         // eight-phase name
}

// FromLongitudes computes the phase from the ecliptic longitudes of the
// Sun and Moon, in degrees.
func FromLongitudes(sunLon, moonLon float64) MoonPhase {
	elongation := normalizeAngle(moonLon - sunLon)
	phase := elongation / 360.0
	illumination := (1 - math.Cos(degToRad(elongation))) / 2
	waxing := elongation < 180

	return MoonPhase{
		Elongation:   elongation,
		Phase:        phase,
		Illumination: illumination,
		AgeDays:      phase * SynodicMonth,
		Waxing:       waxing,
		Name:         phaseName(illumination, waxing),
	}
}

// phaseName returns the 8-phase name based on illumination fraction and direction
func phaseName(illumination float64, waxing bool) string {
	switch {
	case illumination < 0.01:
		return "New Moon"
	case illumination > 0.99:
		return "Full Moon"
	case illumination >= 0.49 && illumination <= 0.51:
		if waxing {
			return "First Quarter"
		}
		return "Third Quarter"
	case illumination < 0.50:
		if waxing {
			return "Waxing Crescent"
		}
		return "Waning Crescent"
	default:
		if waxing {
			return "Waxing Gibbous"
		}
		return "Waning Gibbous"
	}
}

// normalizeAngle wraps an angle to the range [0, 360)
func normalizeAngle(angle float64) float64 {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	return angle
}

// degToRad converts degrees to radians
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}
