package geodesy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/campus-atlas/internal/model"
)

// equatorTriangle is a right triangle with two ~111m legs at the
// equator; its true geodesic area is close to 6170 m².
func equatorTriangle() []model.Coordinate {
	return []model.Coordinate{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 0.001},
		{Lat: 0.001, Lng: 0},
	}
}

func TestPolygonAreaTriangle(t *testing.T) {
	t.Parallel()
	got := PolygonArea(equatorTriangle())
	assert.InEpsilon(t, 6170.0, got, 0.02)
}

func TestPolygonAreaDegenerate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		coords []model.Coordinate
	}{
		{"nil", nil},
		{"single point", []model.Coordinate{{Lat: 40, Lng: -83}}},
		{"two points", []model.Coordinate{{Lat: 40, Lng: -83}, {Lat: 40.001, Lng: -83}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Zero(t, PolygonArea(tt.coords))
		})
	}
}

func TestPolygonAreaRingInvariance(t *testing.T) {
	t.Parallel()

	// An irregular quad in central Ohio.
	quad := []model.Coordinate{
		{Lat: 40.0010, Lng: -83.0200},
		{Lat: 40.0012, Lng: -83.0180},
		{Lat: 40.0025, Lng: -83.0185},
		{Lat: 40.0022, Lng: -83.0210},
	}
	want := PolygonArea(quad)
	assert.Greater(t, want, 0.0)

	rotated := append(quad[1:len(quad):len(quad)], quad[0])
	assert.InDelta(t, want, PolygonArea(rotated), 1e-6)

	reversed := make([]model.Coordinate, len(quad))
	for i, c := range quad {
		reversed[len(quad)-1-i] = c
	}
	assert.InDelta(t, want, PolygonArea(reversed), 1e-6)
}

func TestPolygonAreaSouthernHemisphere(t *testing.T) {
	t.Parallel()

	// Same triangle mirrored below the equator should have the same area.
	south := []model.Coordinate{
		{Lat: -33.9000, Lng: 151.2000},
		{Lat: -33.9000, Lng: 151.2010},
		{Lat: -33.9010, Lng: 151.2000},
	}
	got := PolygonArea(south)
	assert.Greater(t, got, 0.0)

	north := make([]model.Coordinate, len(south))
	for i, c := range south {
		north[i] = model.Coordinate{Lat: -c.Lat, Lng: c.Lng}
	}
	assert.InEpsilon(t, PolygonArea(north), got, 0.001)
}

func TestConversions(t *testing.T) {
	t.Parallel()
	assert.InDelta(t, 1.0, Acres(4046.8564224), 1e-9)
	assert.InDelta(t, 10.7639, SquareFeet(1), 1e-9)
	assert.Zero(t, Acres(0))
}
