package ephemeris

import (
	"math"

	"github.com/soniakeys/meeus/v3/base"
)

// Planetary positions from mean Keplerian elements and their secular rates
// (JPL "Approximate Positions of the Planets", 1800–2050 fit, J2000
// ecliptic frame). Heliocentric state vectors for the planet and the
// Earth-Moon barycenter are differenced into a geocentric vector, then the
// longitude is precessed from J2000 to the ecliptic of date. The EM
// barycenter stands in for the Earth's center; the offset is a few
// arc-seconds, far below the element-fit accuracy.

// elements holds one body's mean orbital elements at J2000 and their
// per-Julian-century rates. Angles in degrees, distances in AU.
type elements struct {
	a, aDot float64 // semi-major axis
	e, eDot float64 // eccentricity
	i, iDot float64 // inclination
	l, lDot float64 // mean longitude
	p, pDot float64 // longitude of perihelion
	o, oDot float64 // longitude of ascending node
}

// emBary is the Earth-Moon barycenter, the origin for geocentric vectors.
var emBary = elements{
	1.00000261, 0.00000562,
	0.01671123, -0.00004392,
	-0.00001531, -0.01294668,
	100.46457166, 35999.37244981,
	102.93768193, 0.32327364,
	0.0, 0.0,
}

var planetTable = map[Body]elements{
	Mercury: {
		0.38709927, 0.00000037,
		0.20563593, 0.00001906,
		7.00497902, -0.00594749,
		252.25032350, 149472.67411175,
		77.45779628, 0.16047689,
		48.33076593, -0.12534081,
	},
	Venus: {
		0.72333566, 0.00000390,
		0.00677672, -0.00004107,
		3.39467605, -0.00078890,
		181.97909950, 58517.81538729,
		131.60246718, 0.00268329,
		76.67984255, -0.27769418,
	},
	Mars: {
		1.52371034, 0.00001847,
		0.09339410, 0.00007882,
		1.84969142, -0.00813131,
		-4.55343205, 19140.30268499,
		-23.94362959, 0.44441088,
		49.55953891, -0.29257343,
	},
	Jupiter: {
		5.20288700, -0.00011607,
		0.04838624, -0.00013253,
		1.30439695, -0.00183714,
		34.39644051, 3034.74612775,
		14.72847983, 0.21252668,
		100.47390909, 0.20469106,
	},
	Saturn: {
		9.53667594, -0.00125060,
		0.05386179, -0.00050991,
		2.48599187, 0.00193609,
		49.95424423, 1222.49362201,
		92.59887831, -0.41897216,
		113.66242448, -0.28867794,
	},
	Uranus: {
		19.18916464, -0.00196176,
		0.04725744, -0.00004397,
		0.77263783, -0.00242939,
		313.23810451, 428.48202785,
		170.95427630, 0.40805281,
		74.01692503, 0.04240589,
	},
	Neptune: {
		30.06992276, 0.00026291,
		0.00859048, 0.00005105,
		1.77004347, 0.00035372,
		-55.12002969, 218.45945325,
		44.96476227, -0.32241464,
		131.78422574, -0.00508664,
	},
	Pluto: {
		39.48211675, -0.00031596,
		0.24882730, 0.00005170,
		17.14001206, 0.00004818,
		238.92903833, 145.20780515,
		224.06891629, -0.04062942,
		110.30393684, -0.01183482,
	},
}

// planetEcliptic returns a planet's geocentric ecliptic-of-date longitude
// and latitude in degrees and its distance in AU. body must be a key of
// planetTable.
func planetEcliptic(jd float64, body Body) (lon, lat, dist float64) {
	T := (jd - base.J2000) / 36525

	px, py, pz := heliocentric(planetTable[body], T)
	ex, ey, ez := heliocentric(emBary, T)

	gx, gy, gz := px-ex, py-ey, pz-ez
	dist = math.Sqrt(gx*gx + gy*gy + gz*gz)
	lon = radToDeg(math.Atan2(gy, gx))
	lat = radToDeg(math.Atan2(gz, math.Hypot(gx, gy)))

	// general precession in longitude, J2000 ecliptic to ecliptic of date
	lon += (5029.0966*T + 1.11113*T*T) / 3600

	return normDeg(lon), lat, dist
}

// heliocentric evaluates the mean elements at T Julian centuries from
// J2000 and returns the heliocentric J2000-ecliptic state vector in AU.
func heliocentric(el elements, T float64) (x, y, z float64) {
	a := el.a + el.aDot*T
	e := el.e + el.eDot*T
	incl := degToRad(el.i + el.iDot*T)
	L := el.l + el.lDot*T
	peri := el.p + el.pDot*T
	node := el.o + el.oDot*T

	// argument of perihelion and mean anomaly
	w := degToRad(peri - node)
	M := signedDelta(L-peri, 0)
	E := degToRad(solveKepler(M, e))

	// position in the orbital plane, perihelion along +x
	xp := a * (math.Cos(E) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(E)

	sinW, cosW := math.Sincos(w)
	sinO, cosO := math.Sincos(degToRad(node))
	sinI, cosI := math.Sincos(incl)

	x = (cosW*cosO-sinW*sinO*cosI)*xp + (-sinW*cosO-cosW*sinO*cosI)*yp
	y = (cosW*sinO+sinW*cosO*cosI)*xp + (-sinW*sinO+cosW*cosO*cosI)*yp
	z = sinW*sinI*xp + cosW*sinI*yp
	return x, y, z
}

// solveKepler solves M = E - e·sin(E) by Newton's method, everything in
// degrees, seeded and iterated the way the JPL note prescribes.
func solveKepler(M, e float64) float64 {
	eStar := radToDeg(e) // eccentricity expressed in degrees
	E := M + eStar*math.Sin(degToRad(M))
	for iter := 0; iter < 20; iter++ {
		dM := M - (E - eStar*math.Sin(degToRad(E)))
		dE := dM / (1 - e*math.Cos(degToRad(E)))
		E += dE
		if math.Abs(dE) < 1e-9 {
			break
		}
	}
	return E
}
