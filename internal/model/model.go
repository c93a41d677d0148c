// Package model defines the typed records exchanged between the area
// calculator, the site store, and the HTTP surface.
package model

import (
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// Coordinate is a WGS84 geographic point in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Category classifies a drawn polygon by land use.
type Category string

const (
	CategoryBoundary Category = "boundary"
	CategoryBuilding Category = "building"
	CategoryField    Category = "field"
	CategoryParking  Category = "parking"
	CategoryOther    Category = "other"
)

// Categories lists all valid categories in display order.
var Categories = []Category{
	CategoryBoundary,
	CategoryBuilding,
	CategoryField,
	CategoryParking,
	CategoryOther,
}

// ParseCategory validates a raw category string. Unknown values are
// rejected rather than bucketed into "other".
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryBoundary, CategoryBuilding, CategoryField, CategoryParking, CategoryOther:
		return Category(s), nil
	}
	return "", eris.Errorf("model: unknown category %q", s)
}

// AreaRecord is one user-drawn polygon with its classification and
// computed metrics. ID is stable across updates; external callers address
// records by position within their site.
type AreaRecord struct {
	ID             string       `json:"id"`
	Coordinates    []Coordinate `json:"coordinates"`
	Category       Category     `json:"category"`
	Floors         int          `json:"floors"`
	AreaM2         float64      `json:"area_m2"`
	AreaAcres      float64      `json:"area_acres"`
	AreaSqFt       float64      `json:"area_sqft"`
	TotalFloorSqFt float64      `json:"total_floor_area_sqft"`
}

// NewRecordID returns a fresh stable identifier for an AreaRecord.
func NewRecordID() string {
	return uuid.New().String()
}

// SiteAnalysis is the full analysis state for one campus, keyed by its
// resolved address. Per-category acre totals are cached here but are
// always a pure function of Areas.
type SiteAnalysis struct {
	Address string       `json:"address"`
	Lat     float64      `json:"lat"`
	Lng     float64      `json:"lng"`
	Areas   []AreaRecord `json:"areas"`
	Notes   string       `json:"notes"`

	TotalBoundaryAcres float64 `json:"total_boundary_acres"`
	BuildingAcres      float64 `json:"building_acres"`
	FieldAcres         float64 `json:"field_acres"`
	ParkingAcres       float64 `json:"parking_acres"`
	OtherAcres         float64 `json:"other_acres"`
}

// Totals is the rounded summary returned to callers: acreages at two
// decimals, percentages at one.
type Totals struct {
	TotalBoundaryAcres  float64 `json:"total_boundary_acres"`
	BuildingAcres       float64 `json:"building_acres"`
	FieldAcres          float64 `json:"field_acres"`
	ParkingAcres        float64 `json:"parking_acres"`
	OtherAcres          float64 `json:"other_acres"`
	OutdoorAcres        float64 `json:"outdoor_acres"`
	FieldUtilizationPct float64 `json:"field_utilization_pct"`
	BuildingCoveragePct float64 `json:"building_coverage_pct"`
}
