// Package geocode resolves free-form addresses to WGS84 anchor points via
// the Census Geocoder (primary) and Google (fallback), with an optional
// Postgres result cache.
package geocode

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/campus-atlas/internal/db"
)

// Client resolves addresses to coordinates.
type Client interface {
	// Geocode resolves a single one-line address.
	Geocode(ctx context.Context, address string) (*Result, error)

	// BatchGeocode resolves multiple addresses with bounded parallelism.
	// Individual misses do not fail the batch.
	BatchGeocode(ctx context.Context, addresses []string) ([]Result, error)
}

// Result holds the resolution outcome for an address.
type Result struct {
	Latitude  float64
	Longitude float64
	Source    string // "census", "google", or "cache"
	Quality   string // "rooftop", "range", "centroid", "approximate"
	Matched   bool
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithGoogleAPIKey enables the Google Geocoding API as a fallback.
func WithGoogleAPIKey(key string) Option {
	return func(g *geocoder) {
		g.googleKey = key
	}
}

// WithHTTPClient sets a custom HTTP client for all providers. The client's
// timeout bounds every upstream call.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithRateLimit sets the requests-per-second limit for upstream calls.
func WithRateLimit(rps float64) Option {
	return func(g *geocoder) {
		g.limiter = rate.NewLimiter(rate.Limit(rps), int(rps))
	}
}

// WithCache enables the Postgres-backed result cache. A ttlDays of 0
// keeps entries forever.
func WithCache(pool db.Pool, ttlDays int) Option {
	return func(g *geocoder) {
		g.cachePool = pool
		g.cacheTTLDays = ttlDays
	}
}

// WithBatchConcurrency sets the max parallel lookups for BatchGeocode.
func WithBatchConcurrency(n int) Option {
	return func(g *geocoder) {
		if n > 0 {
			g.batchConcurrency = n
		}
	}
}

type geocoder struct {
	httpClient       *http.Client
	googleKey        string
	limiter          *rate.Limiter
	cachePool        db.Pool
	cacheTTLDays     int
	batchConcurrency int
}

// NewClient creates a geocoding Client with the given options.
func NewClient(opts ...Option) Client {
	g := &geocoder{
		httpClient:       &http.Client{Timeout: 25 * time.Second},
		limiter:          rate.NewLimiter(10, 10),
		batchConcurrency: 10,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Geocode resolves an address, trying the cache, then Census, then Google
// if configured. A miss from every provider is not an error, just
// Matched=false.
func (g *geocoder) Geocode(ctx context.Context, address string) (*Result, error) {
	key := cacheKey(address)

	if g.cachePool != nil {
		if cached, err := g.checkCache(ctx, key); err == nil && cached != nil {
			return cached, nil
		}
	}

	result, censusErr := g.geocodeCensus(ctx, address)
	if censusErr == nil && result.Matched {
		g.cacheStore(ctx, key, result)
		return result, nil
	}

	if g.googleKey != "" {
		googleResult, googleErr := g.geocodeGoogle(ctx, address)
		if googleErr == nil && googleResult.Matched {
			g.cacheStore(ctx, key, googleResult)
			return googleResult, nil
		}
	}

	if censusErr != nil {
		return nil, censusErr
	}

	noMatch := &Result{Matched: false, Source: result.Source}
	g.cacheStore(ctx, key, noMatch)
	return noMatch, nil
}

// BatchGeocode resolves addresses in parallel, preserving input order.
func (g *geocoder) BatchGeocode(ctx context.Context, addresses []string) ([]Result, error) {
	if len(addresses) == 0 {
		return nil, nil
	}

	results := make([]Result, len(addresses))

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.batchConcurrency)

	for i, address := range addresses {
		eg.Go(func() error {
			r, err := g.Geocode(gCtx, address)
			if err != nil || r == nil {
				results[i] = Result{Matched: false}
				return nil //nolint:nilerr // individual misses don't fail the batch
			}
			results[i] = *r
			return nil
		})
	}

	_ = eg.Wait()
	return results, nil
}
