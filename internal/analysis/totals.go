package analysis

import (
	"math"

	"github.com/sells-group/campus-atlas/internal/model"
)

// epsilonAcres guards the ratio denominators against division by zero
// without turning an empty site into an error.
const epsilonAcres = 0.001

// recompute refreshes the cached per-category acre totals from the
// current record set. The cached fields are never mutated anywhere else.
func recompute(a *model.SiteAnalysis) {
	a.TotalBoundaryAcres = 0
	a.BuildingAcres = 0
	a.FieldAcres = 0
	a.ParkingAcres = 0
	a.OtherAcres = 0

	for _, rec := range a.Areas {
		switch rec.Category {
		case model.CategoryBoundary:
			a.TotalBoundaryAcres += rec.AreaAcres
		case model.CategoryBuilding:
			a.BuildingAcres += rec.AreaAcres
		case model.CategoryField:
			a.FieldAcres += rec.AreaAcres
		case model.CategoryParking:
			a.ParkingAcres += rec.AreaAcres
		case model.CategoryOther:
			a.OtherAcres += rec.AreaAcres
		}
	}
}

// summarize builds the rounded Totals for an analysis. Outdoor acres may
// go negative when buildings exceed the declared boundary, and the
// percentages may exceed 100 when categories overlap; neither is clamped.
func summarize(a *model.SiteAnalysis) model.Totals {
	outdoor := a.TotalBoundaryAcres - a.BuildingAcres
	fieldUtilization := a.FieldAcres / math.Max(outdoor, epsilonAcres) * 100
	buildingCoverage := a.BuildingAcres / math.Max(a.TotalBoundaryAcres, epsilonAcres) * 100

	return model.Totals{
		TotalBoundaryAcres:  round2(a.TotalBoundaryAcres),
		BuildingAcres:       round2(a.BuildingAcres),
		FieldAcres:          round2(a.FieldAcres),
		ParkingAcres:        round2(a.ParkingAcres),
		OtherAcres:          round2(a.OtherAcres),
		OutdoorAcres:        round2(outdoor),
		FieldUtilizationPct: round1(fieldUtilization),
		BuildingCoveragePct: round1(buildingCoverage),
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
