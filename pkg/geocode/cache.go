package geocode

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// cacheKey returns SHA-256 hex of the normalized address for cache lookup.
func cacheKey(address string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(address), " "))
	h := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", h)
}

// checkCache looks up a cached result, respecting TTL if configured.
// Cached non-matches (matched=false) are returned too, so repeated bad
// addresses skip the upstream providers.
func (g *geocoder) checkCache(ctx context.Context, key string) (*Result, error) {
	var lat, lng float64
	var quality string
	var matched bool

	query := "SELECT latitude, longitude, quality, matched FROM public.geocode_cache WHERE address_hash = $1"
	if g.cacheTTLDays > 0 {
		query += fmt.Sprintf(" AND cached_at > now() - interval '%d days'", g.cacheTTLDays)
	}

	row := g.cachePool.QueryRow(ctx, query, key)
	if err := row.Scan(&lat, &lng, &quality, &matched); err != nil {
		return nil, err // no row or scan error — caller falls through to providers
	}

	keyPrefix := key
	if len(keyPrefix) > 12 {
		keyPrefix = keyPrefix[:12]
	}
	zap.L().Debug("geocode cache hit", zap.String("key", keyPrefix), zap.Bool("matched", matched))

	return &Result{
		Latitude:  lat,
		Longitude: lng,
		Source:    "cache",
		Quality:   quality,
		Matched:   matched,
	}, nil
}

// cacheStore upserts a result (match or non-match) if caching is enabled.
// Failures are logged and swallowed; the cache is best effort.
func (g *geocoder) cacheStore(ctx context.Context, key string, result *Result) {
	if g.cachePool == nil {
		return
	}
	if err := g.storeCache(ctx, key, result); err != nil {
		zap.L().Debug("geocode cache store failed", zap.Error(err))
	}
}

func (g *geocoder) storeCache(ctx context.Context, key string, result *Result) error {
	_, err := g.cachePool.Exec(ctx, `
		INSERT INTO public.geocode_cache (address_hash, latitude, longitude, quality, matched, cached_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (address_hash) DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			quality = EXCLUDED.quality,
			matched = EXCLUDED.matched,
			cached_at = now()`,
		key, result.Latitude, result.Longitude, result.Quality, result.Matched,
	)
	if err != nil {
		return eris.Wrap(err, "geocode: store cache")
	}
	return nil
}
