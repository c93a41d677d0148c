// Package analysis owns the per-site collections of classified polygons
// and keeps their derived totals consistent with every add, update, and
// delete.
package analysis

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/campus-atlas/internal/geodesy"
	"github.com/sells-group/campus-atlas/internal/model"
	"github.com/sells-group/campus-atlas/pkg/geocode"
)

// Geocoder resolves an address to its anchor point. Satisfied by
// geocode.Client.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*geocode.Result, error)
}

// Store maps site keys to their analyses. The outer lock guards the map;
// each site carries its own lock so mutations to one site serialize while
// distinct sites proceed in parallel.
type Store struct {
	mu       sync.RWMutex
	sites    map[string]*site
	geocoder Geocoder
	timeout  time.Duration
}

type site struct {
	mu       sync.Mutex
	analysis model.SiteAnalysis
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithResolveTimeout bounds the geocoder call made by RegisterSite.
func WithResolveTimeout(d time.Duration) StoreOption {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewStore creates an empty Store backed by the given geocoder.
func NewStore(geocoder Geocoder, opts ...StoreOption) *Store {
	s := &Store{
		sites:    make(map[string]*site),
		geocoder: geocoder,
		timeout:  25 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExportRow is one site's line in the tabular export.
type ExportRow struct {
	Address string
	Lat     float64
	Lng     float64
	Totals  model.Totals
	Notes   string
}

// RegisterSite returns the existing analysis for an address or creates
// one by resolving its anchor point. Resolution failures, timeouts, and
// non-matches all surface as ErrUpstreamUnavailable; a stuck upstream is
// cut off by the configured timeout.
func (s *Store) RegisterSite(ctx context.Context, address string) (model.SiteAnalysis, error) {
	s.mu.RLock()
	existing, ok := s.sites[address]
	s.mu.RUnlock()
	if ok {
		existing.mu.Lock()
		defer existing.mu.Unlock()
		return cloneAnalysis(&existing.analysis), nil
	}

	resolveCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.geocoder.Geocode(resolveCtx, address)
	if err != nil {
		zap.L().Warn("analysis: geocode failed", zap.String("address", address), zap.Error(err))
		return model.SiteAnalysis{}, eris.Wrapf(ErrUpstreamUnavailable, "resolve %q", address)
	}
	if !result.Matched {
		zap.L().Info("analysis: address not matched", zap.String("address", address))
		return model.SiteAnalysis{}, eris.Wrapf(ErrUpstreamUnavailable, "no match for %q", address)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A concurrent registration may have won; keep the first analysis.
	if existing, ok := s.sites[address]; ok {
		existing.mu.Lock()
		defer existing.mu.Unlock()
		return cloneAnalysis(&existing.analysis), nil
	}

	entry := &site{analysis: model.SiteAnalysis{
		Address: address,
		Lat:     result.Latitude,
		Lng:     result.Longitude,
		Areas:   []model.AreaRecord{},
	}}
	s.sites[address] = entry

	zap.L().Info("analysis: site registered",
		zap.String("address", address),
		zap.Float64("lat", result.Latitude),
		zap.Float64("lng", result.Longitude),
		zap.String("source", result.Source),
	)
	return cloneAnalysis(&entry.analysis), nil
}

// AddRecord computes the polygon's area, appends a new record to the
// site, and returns the record with the refreshed totals. Floors defaults
// to 1 when nil.
func (s *Store) AddRecord(siteKey string, coords []model.Coordinate, category model.Category, floors *int) (model.AreaRecord, model.Totals, error) {
	var rec model.AreaRecord
	totals, err := s.mutate(siteKey, func(a *model.SiteAnalysis) error {
		rec = buildRecord(model.NewRecordID(), coords, category, floorsOrDefault(floors, 1))
		a.Areas = append(a.Areas, rec)
		return nil
	})
	if err != nil {
		return model.AreaRecord{}, model.Totals{}, err
	}
	return rec, totals, nil
}

// UpdateRecord replaces the polygon and classification of the record at a
// positional index and recomputes its derived fields. Floors is replaced
// only when explicitly supplied; otherwise the existing count is kept.
func (s *Store) UpdateRecord(siteKey string, index int, coords []model.Coordinate, category model.Category, floors *int) (model.AreaRecord, model.Totals, error) {
	var rec model.AreaRecord
	totals, err := s.mutate(siteKey, func(a *model.SiteAnalysis) error {
		if index < 0 || index >= len(a.Areas) {
			return eris.Wrapf(ErrIndexOutOfRange, "index %d of %d", index, len(a.Areas))
		}
		existing := a.Areas[index]
		rec = buildRecord(existing.ID, coords, category, floorsOrDefault(floors, existing.Floors))
		a.Areas[index] = rec
		return nil
	})
	if err != nil {
		return model.AreaRecord{}, model.Totals{}, err
	}
	return rec, totals, nil
}

// UpdateFloors sets the floor count on the record at a positional index.
// Total floor square footage only diverges from the base footprint for
// buildings.
func (s *Store) UpdateFloors(siteKey string, index, floors int) (model.AreaRecord, model.Totals, error) {
	var rec model.AreaRecord
	totals, err := s.mutate(siteKey, func(a *model.SiteAnalysis) error {
		if index < 0 || index >= len(a.Areas) {
			return eris.Wrapf(ErrIndexOutOfRange, "index %d of %d", index, len(a.Areas))
		}
		a.Areas[index].Floors = floors
		a.Areas[index].TotalFloorSqFt = totalFloorSqFt(a.Areas[index].Category, a.Areas[index].AreaSqFt, floors)
		rec = cloneRecord(&a.Areas[index])
		return nil
	})
	if err != nil {
		return model.AreaRecord{}, model.Totals{}, err
	}
	return rec, totals, nil
}

// DeleteRecord removes the record at a positional index; later records
// shift down by one. An invalid index is an explicit error, not a no-op.
func (s *Store) DeleteRecord(siteKey string, index int) (model.Totals, error) {
	return s.mutate(siteKey, func(a *model.SiteAnalysis) error {
		if index < 0 || index >= len(a.Areas) {
			return eris.Wrapf(ErrIndexOutOfRange, "index %d of %d", index, len(a.Areas))
		}
		a.Areas = append(a.Areas[:index], a.Areas[index+1:]...)
		return nil
	})
}

// SetNotes replaces the free-text notes for a site.
func (s *Store) SetNotes(siteKey, notes string) error {
	_, err := s.mutate(siteKey, func(a *model.SiteAnalysis) error {
		a.Notes = notes
		return nil
	})
	return err
}

// Totals returns the rounded summary for a site.
func (s *Store) Totals(siteKey string) (model.Totals, error) {
	entry, err := s.lookup(siteKey)
	if err != nil {
		return model.Totals{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return summarize(&entry.analysis), nil
}

// Analysis returns a deep snapshot of a site's full state.
func (s *Store) Analysis(siteKey string) (model.SiteAnalysis, error) {
	entry, err := s.lookup(siteKey)
	if err != nil {
		return model.SiteAnalysis{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return cloneAnalysis(&entry.analysis), nil
}

// Sites returns all registered site keys in sorted order.
func (s *Store) Sites() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.sites))
	for k := range s.sites {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ExportRows builds one summary row per site, sorted by site key. An
// empty store is an explicit error.
func (s *Store) ExportRows() ([]ExportRow, error) {
	analyses := s.Snapshot()
	if len(analyses) == 0 {
		return nil, ErrNothingToExport
	}

	rows := make([]ExportRow, 0, len(analyses))
	for i := range analyses {
		a := &analyses[i]
		rows = append(rows, ExportRow{
			Address: a.Address,
			Lat:     a.Lat,
			Lng:     a.Lng,
			Totals:  summarize(a),
			Notes:   a.Notes,
		})
	}
	return rows, nil
}

// Snapshot returns deep copies of every analysis, sorted by site key.
// It is a point-in-time read; concurrent mutations are not blocked
// across sites.
func (s *Store) Snapshot() []model.SiteAnalysis {
	keys := s.Sites()
	out := make([]model.SiteAnalysis, 0, len(keys))
	for _, k := range keys {
		entry, err := s.lookup(k)
		if err != nil {
			continue // deleted between listing and lookup
		}
		entry.mu.Lock()
		out = append(out, cloneAnalysis(&entry.analysis))
		entry.mu.Unlock()
	}
	return out
}

// ReplaceAll rebuilds the store contents from saved analyses, recomputing
// every cached total rather than trusting the stored ones.
func (s *Store) ReplaceAll(analyses []model.SiteAnalysis) {
	fresh := make(map[string]*site, len(analyses))
	for i := range analyses {
		a := cloneAnalysis(&analyses[i])
		recompute(&a)
		fresh[a.Address] = &site{analysis: a}
	}

	s.mu.Lock()
	s.sites = fresh
	s.mu.Unlock()
}

// lookup fetches the site entry for a key.
func (s *Store) lookup(siteKey string) (*site, error) {
	s.mu.RLock()
	entry, ok := s.sites[siteKey]
	s.mu.RUnlock()
	if !ok {
		return nil, eris.Wrapf(ErrSiteNotFound, "site %q", siteKey)
	}
	return entry, nil
}

// mutate runs fn against a site's analysis as one atomic step, then
// recomputes the cached totals and returns the fresh summary.
func (s *Store) mutate(siteKey string, fn func(*model.SiteAnalysis) error) (model.Totals, error) {
	entry, err := s.lookup(siteKey)
	if err != nil {
		return model.Totals{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := fn(&entry.analysis); err != nil {
		return model.Totals{}, err
	}
	recompute(&entry.analysis)
	return summarize(&entry.analysis), nil
}

// buildRecord computes all derived fields for a polygon.
func buildRecord(id string, coords []model.Coordinate, category model.Category, floors int) model.AreaRecord {
	if floors < 1 {
		floors = 1
	}
	m2 := geodesy.PolygonArea(coords)
	sqft := geodesy.SquareFeet(m2)

	return model.AreaRecord{
		ID:             id,
		Coordinates:    append([]model.Coordinate(nil), coords...),
		Category:       category,
		Floors:         floors,
		AreaM2:         m2,
		AreaAcres:      geodesy.Acres(m2),
		AreaSqFt:       sqft,
		TotalFloorSqFt: totalFloorSqFt(category, sqft, floors),
	}
}

// totalFloorSqFt applies the building rule: floor-adjusted footage for
// buildings, plain footprint for everything else.
func totalFloorSqFt(category model.Category, sqft float64, floors int) float64 {
	if category == model.CategoryBuilding {
		return sqft * float64(floors)
	}
	return sqft
}

func floorsOrDefault(floors *int, fallback int) int {
	if floors == nil {
		return fallback
	}
	return *floors
}

func cloneRecord(rec *model.AreaRecord) model.AreaRecord {
	out := *rec
	out.Coordinates = append([]model.Coordinate(nil), rec.Coordinates...)
	return out
}

func cloneAnalysis(a *model.SiteAnalysis) model.SiteAnalysis {
	out := *a
	out.Areas = make([]model.AreaRecord, len(a.Areas))
	for i := range a.Areas {
		out.Areas[i] = cloneRecord(&a.Areas[i])
	}
	return out
}
