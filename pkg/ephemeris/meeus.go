package ephemeris

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"
)

// kmPerAU converts the lunar distance returned in kilometers.
const kmPerAU = 1.495978707e8

// Latitudes closer to a pole than this have no well-defined Ascendant.
const maxObserverLatitude = 89.9

// Meeus is the shipped Provider. Sun and Moon come from the Meeus apparent
// longitude series, Rahu from the mean lunar node polynomial, and the
// planets from JPL mean orbital elements (see planets.go). Typical accuracy
// is arc-second class for the Sun, well under an arc-minute for the Moon,
// and arc-minute class for the classical planets inside the 1800–2050
// element fit (a few tenths of a degree for Jupiter and Saturn). Input
// times are treated as UT; the TT-UT offset is far below those tolerances.
type Meeus struct{}

// NewMeeus returns the analytic-model provider. It is stateless and safe
// to share.
func NewMeeus() *Meeus {
	return &Meeus{}
}

// Position computes body's state at t. Daily motion is a wrap-aware central
// difference over ±12 hours, so its sign tracks retrograde station changes.
func (m *Meeus) Position(t time.Time, body Body) (Position, error) {
	jd := julian.TimeToJD(t.UTC())

	lon, lat, dist, err := eclipticAt(jd, body)
	if err != nil {
		return Position{}, err
	}
	before, _, _, _ := eclipticAt(jd-0.5, body)
	after, _, _, _ := eclipticAt(jd+0.5, body)

	return Position{
		Longitude:   lon,
		Latitude:    lat,
		Distance:    dist,
		DailyMotion: signedDelta(after, before),
	}, nil
}

// Angles computes the Ascendant and Midheaven for an observer at the given
// geographic latitude and east-positive longitude.
func (m *Meeus) Angles(t time.Time, latitude, longitude float64) (Angles, error) {
	if math.Abs(latitude) > maxObserverLatitude {
		return Angles{}, fmt.Errorf("latitude %.4f too close to a pole for an ascendant", latitude)
	}
	jd := julian.TimeToJD(t.UTC())

	// RAMC: apparent sidereal time at Greenwich plus the observer's longitude
	ramc := (sidereal.Apparent(jd).Angle() + unit.AngleFromDeg(longitude)).Mod1()

	// true obliquity = mean obliquity + nutation in obliquity
	_, deltaEps := nutation.Nutation(jd)
	eps := nutation.MeanObliquity(jd) + deltaEps

	sinRAMC, cosRAMC := ramc.Sincos()
	sinEps, cosEps := eps.Sincos()
	phi := unit.AngleFromDeg(latitude)

	// Midheaven: the ecliptic longitude on the meridian (Meeus eq. 14.1 form)
	mc := math.Atan2(sinRAMC, cosRAMC*cosEps)

	// Ascendant: the ecliptic longitude on the eastern horizon
	asc := math.Atan2(cosRAMC, -(sinRAMC*cosEps + phi.Tan()*sinEps))

	return Angles{
		Ascendant: normDeg(radToDeg(asc)),
		Midheaven: normDeg(radToDeg(mc)),
	}, nil
}

// eclipticAt dispatches to the per-body model. Longitude is ecliptic of
// date in [0,360), latitude in degrees, distance in AU.
func eclipticAt(jd float64, body Body) (lon, lat, dist float64, err error) {
	T := (jd - base.J2000) / 36525

	switch body {
	case Sun:
		return normDeg(solar.ApparentLongitude(T).Deg()), 0, solar.Radius(T), nil
	case Moon:
		lam, beta, deltaKM := moonposition.Position(jd)
		// apparent longitude: add nutation in longitude
		dPsi, _ := nutation.Nutation(jd)
		return normDeg((lam + dPsi).Deg()), beta.Deg(), deltaKM / kmPerAU, nil
	case Rahu:
		return normDeg(moonposition.Node(jd).Deg()), 0, 0, nil
	case Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto:
		lon, lat, dist = planetEcliptic(jd, body)
		return lon, lat, dist, nil
	}
	return 0, 0, 0, fmt.Errorf("%w: %q", ErrUnknownBody, body)
}

// signedDelta returns a-b wrapped to (-180,180], the shortest signed arc.
func signedDelta(a, b float64) float64 {
	d := math.Mod(a-b, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

// normDeg wraps an angle in degrees to [0,360).
func normDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
