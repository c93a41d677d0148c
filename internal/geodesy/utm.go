// Package geodesy converts geographic polygons into metrically correct
// planar areas by projecting WGS84 coordinates into a locally accurate
// UTM zone before measuring.
package geodesy

import "math"

// WGS84 ellipsoid.
const (
	semiMajorAxis = 6378137.0
	flattening    = 1 / 298.257223563

	scaleFactor   = 0.9996 // UTM central meridian scale
	falseEasting  = 500000.0
	falseNorthing = 10000000.0 // southern hemisphere offset
)

// Zone returns the 6°-wide UTM zone index for a longitude, clamped to the
// standard [1, 60] range.
func Zone(lng float64) int {
	zone := int(math.Floor((lng+180)/6)) + 1
	if zone < 1 {
		zone = 1
	}
	if zone > 60 {
		zone = 60
	}
	return zone
}

// centralMeridian returns the zone's central meridian in degrees.
func centralMeridian(zone int) float64 {
	return float64(zone-1)*6 - 180 + 3
}

// projectUTM projects a WGS84 coordinate into UTM easting/northing meters
// for the given zone and hemisphere, using the standard transverse
// Mercator series expansion.
func projectUTM(lat, lng float64, zone int, northern bool) (x, y float64) {
	e2 := flattening * (2 - flattening)
	ep2 := e2 / (1 - e2)

	phi := lat * math.Pi / 180
	lambda0 := centralMeridian(zone) * math.Pi / 180
	lambda := lng * math.Pi / 180

	sinPhi := math.Sin(phi)
	cosPhi := math.Cos(phi)
	tanPhi := math.Tan(phi)

	n := semiMajorAxis / math.Sqrt(1-e2*sinPhi*sinPhi)
	t := tanPhi * tanPhi
	c := ep2 * cosPhi * cosPhi
	a := (lambda - lambda0) * cosPhi

	// Meridional arc length from the equator.
	m := semiMajorAxis * ((1-e2/4-3*e2*e2/64-5*e2*e2*e2/256)*phi -
		(3*e2/8+3*e2*e2/32+45*e2*e2*e2/1024)*math.Sin(2*phi) +
		(15*e2*e2/256+45*e2*e2*e2/1024)*math.Sin(4*phi) -
		(35*e2*e2*e2/3072)*math.Sin(6*phi))

	x = scaleFactor*n*(a+(1-t+c)*a*a*a/6+
		(5-18*t+t*t+72*c-58*ep2)*a*a*a*a*a/120) + falseEasting

	y = scaleFactor * (m + n*tanPhi*(a*a/2+
		(5-t+9*c+4*c*c)*a*a*a*a/24+
		(61-58*t+t*t+600*c-330*ep2)*a*a*a*a*a*a/720))
	if !northern {
		y += falseNorthing
	}
	return x, y
}
