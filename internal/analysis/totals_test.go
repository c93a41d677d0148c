package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/campus-atlas/internal/model"
)

func analysisWithAcres(boundary, building, field, parking, other float64) model.SiteAnalysis {
	a := model.SiteAnalysis{Address: "x"}
	add := func(cat model.Category, acres float64) {
		if acres > 0 {
			a.Areas = append(a.Areas, model.AreaRecord{Category: cat, AreaAcres: acres})
		}
	}
	add(model.CategoryBoundary, boundary)
	add(model.CategoryBuilding, building)
	add(model.CategoryField, field)
	add(model.CategoryParking, parking)
	add(model.CategoryOther, other)
	recompute(&a)
	return a
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    model.SiteAnalysis
		want model.Totals
	}{
		{
			name: "typical campus",
			a:    analysisWithAcres(10, 2, 4, 1, 0.5),
			want: model.Totals{
				TotalBoundaryAcres:  10,
				BuildingAcres:       2,
				FieldAcres:          4,
				ParkingAcres:        1,
				OtherAcres:          0.5,
				OutdoorAcres:        8,
				FieldUtilizationPct: 50,
				BuildingCoveragePct: 20,
			},
		},
		{
			name: "empty site",
			a:    analysisWithAcres(0, 0, 0, 0, 0),
			want: model.Totals{},
		},
		{
			name: "building exceeds boundary goes negative",
			a:    analysisWithAcres(1, 3, 0, 0, 0),
			want: model.Totals{
				TotalBoundaryAcres:  1,
				BuildingAcres:       3,
				OutdoorAcres:        -2,
				FieldUtilizationPct: 0,
				BuildingCoveragePct: 300,
			},
		},
		{
			name: "rounding",
			a:    analysisWithAcres(3.14159, 1.23456, 0.99999, 0, 0),
			want: model.Totals{
				TotalBoundaryAcres:  3.14,
				BuildingAcres:       1.23,
				FieldAcres:          1,
				OutdoorAcres:        1.91,
				FieldUtilizationPct: 52.4, // 0.99999/1.90703*100
				BuildingCoveragePct: 39.3, // 1.23456/3.14159*100
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := tt.a
			got := summarize(&a)
			assert.InDelta(t, tt.want.TotalBoundaryAcres, got.TotalBoundaryAcres, 1e-9)
			assert.InDelta(t, tt.want.BuildingAcres, got.BuildingAcres, 1e-9)
			assert.InDelta(t, tt.want.FieldAcres, got.FieldAcres, 1e-9)
			assert.InDelta(t, tt.want.ParkingAcres, got.ParkingAcres, 1e-9)
			assert.InDelta(t, tt.want.OtherAcres, got.OtherAcres, 1e-9)
			assert.InDelta(t, tt.want.OutdoorAcres, got.OutdoorAcres, 1e-9)
			assert.InDelta(t, tt.want.FieldUtilizationPct, got.FieldUtilizationPct, 1e-9)
			assert.InDelta(t, tt.want.BuildingCoveragePct, got.BuildingCoveragePct, 1e-9)
		})
	}
}

func TestRecomputeResetsStaleBuckets(t *testing.T) {
	t.Parallel()

	a := analysisWithAcres(5, 1, 0, 0, 0)
	a.FieldAcres = 42 // stale cached value with no backing record
	recompute(&a)
	assert.Zero(t, a.FieldAcres)
	assert.InDelta(t, 5.0, a.TotalBoundaryAcres, 1e-9)
}
