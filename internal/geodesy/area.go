package geodesy

import (
	"math"

	"github.com/twpayne/go-geom"

	"github.com/sells-group/campus-atlas/internal/model"
)

// Unit conversion constants.
const (
	squareMetersPerAcre = 4046.8564224
	sqFtPerSquareMeter  = 10.7639
)

// Acres converts square meters to acres.
func Acres(m2 float64) float64 {
	return m2 / squareMetersPerAcre
}

// SquareFeet converts square meters to square feet.
func SquareFeet(m2 float64) float64 {
	return m2 * sqFtPerSquareMeter
}

// PolygonArea returns the area in square meters of the polygon described
// by an open ring of WGS84 coordinates. Fewer than three vertices is a
// degenerate input and yields 0. The vertices are projected into the UTM
// zone of their centroid, so the result is invariant to ring rotation and
// winding direction; polygons straddling a zone boundary pick up small
// systematic distortion, and self-intersecting rings are not validated.
func PolygonArea(coords []model.Coordinate) float64 {
	if len(coords) < 3 {
		return 0
	}

	var sumLat, sumLng float64
	for _, c := range coords {
		sumLat += c.Lat
		sumLng += c.Lng
	}
	centerLat := sumLat / float64(len(coords))
	centerLng := sumLng / float64(len(coords))

	zone := Zone(centerLng)
	northern := centerLat >= 0

	// Projected closed ring, flat XY layout.
	flat := make([]float64, 0, (len(coords)+1)*2)
	for _, c := range coords {
		x, y := projectUTM(c.Lat, c.Lng, zone, northern)
		flat = append(flat, x, y)
	}
	flat = append(flat, flat[0], flat[1])

	ring := geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})
	return math.Abs(ring.Area())
}
