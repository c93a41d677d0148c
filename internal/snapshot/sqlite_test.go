package snapshot

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/campus-atlas/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "atlas.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleAnalyses() []model.SiteAnalysis {
	return []model.SiteAnalysis{
		{
			Address: "100 Campus Dr, Columbus, OH",
			Lat:     39.9995,
			Lng:     -83.0125,
			Notes:   "north lot",
			Areas: []model.AreaRecord{
				{
					ID: "rec-1",
					Coordinates: []model.Coordinate{
						{Lat: 40.0, Lng: -83.0},
						{Lat: 40.0, Lng: -82.999},
						{Lat: 40.001, Lng: -83.0},
					},
					Category:       model.CategoryBuilding,
					Floors:         2,
					AreaM2:         3100,
					AreaAcres:      0.766,
					AreaSqFt:       33368,
					TotalFloorSqFt: 66736,
				},
			},
		},
		{
			Address: "200 Oak Ave, Portland, OR",
			Lat:     45.5231,
			Lng:     -122.6765,
			Areas:   []model.AreaRecord{},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	want := sampleAnalyses()
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Load orders by address.
	assert.Equal(t, want[0].Address, got[0].Address)
	assert.Equal(t, want[1].Address, got[1].Address)
	assert.InDelta(t, want[0].Lat, got[0].Lat, 1e-9)
	assert.Equal(t, "north lot", got[0].Notes)

	require.Len(t, got[0].Areas, 1)
	assert.Equal(t, want[0].Areas[0], got[0].Areas[0])
	assert.Empty(t, got[1].Areas)
}

func TestSaveReplacesPrevious(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleAnalyses()))

	// Second save wholly replaces the first.
	require.NoError(t, s.Save(ctx, sampleAnalyses()[:1]))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "100 Campus Dr, Columbus, OH", got[0].Address)
}

func TestLoadEmpty(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMigrateIdempotent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	assert.NoError(t, s.Migrate(context.Background()))
}
