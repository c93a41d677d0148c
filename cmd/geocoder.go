package main

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/campus-atlas/pkg/geocode"
)

// newGeocoder builds the geocoding client from config. The returned
// cleanup closes the cache pool when one was opened.
func newGeocoder(ctx context.Context) (geocode.Client, func(), error) {
	opts := []geocode.Option{
		geocode.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Geocode.TimeoutSecs) * time.Second,
		}),
		geocode.WithRateLimit(cfg.Geocode.RateLimit),
	}
	if cfg.Geocode.GoogleAPIKey != "" {
		opts = append(opts, geocode.WithGoogleAPIKey(cfg.Geocode.GoogleAPIKey))
	}

	cleanup := func() {}
	if cfg.Geocode.Cache.Enabled {
		if cfg.Geocode.Cache.DatabaseURL == "" {
			return nil, nil, eris.New("geocode cache enabled but no database_url configured")
		}
		pool, err := pgxpool.New(ctx, cfg.Geocode.Cache.DatabaseURL)
		if err != nil {
			return nil, nil, eris.Wrap(err, "open geocode cache pool")
		}
		opts = append(opts, geocode.WithCache(pool, cfg.Geocode.Cache.TTLDays))
		cleanup = pool.Close
		zap.L().Info("geocode cache enabled", zap.Int("ttl_days", cfg.Geocode.Cache.TTLDays))
	}

	return geocode.NewClient(opts...), cleanup, nil
}
