package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/campus-atlas/internal/addrlist"
	"github.com/sells-group/campus-atlas/internal/analysis"
	"github.com/sells-group/campus-atlas/internal/httpapi"
	"github.com/sells-group/campus-atlas/internal/legend"
	"github.com/sells-group/campus-atlas/internal/snapshot"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the map-tracing API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		geocoder, cleanup, err := newGeocoder(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		store := analysis.NewStore(geocoder,
			analysis.WithResolveTimeout(time.Duration(cfg.Geocode.TimeoutSecs)*time.Second),
		)

		// Candidate addresses are optional; the UI can still register
		// sites typed in by hand.
		addresses, err := addrlist.Load(cfg.Addresses.Path, cfg.Addresses.Encoding)
		if err != nil {
			zap.L().Warn("address list unavailable", zap.String("path", cfg.Addresses.Path), zap.Error(err))
		}

		legendEntries, err := legend.Load(cfg.Legend.Path)
		if err != nil {
			return err
		}

		// Optional snapshot persistence: restore on start, save on
		// graceful shutdown.
		var snap *snapshot.Store
		if cfg.Snapshot.Path != "" {
			snap, err = snapshot.New(cfg.Snapshot.Path)
			if err != nil {
				return err
			}
			defer snap.Close() //nolint:errcheck
			if err := snap.Migrate(ctx); err != nil {
				return err
			}
			saved, err := snap.Load(ctx)
			if err != nil {
				return err
			}
			if len(saved) > 0 {
				store.ReplaceAll(saved)
				zap.L().Info("restored snapshot", zap.Int("sites", len(saved)))
			}
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: httpapi.NewServer(store, addresses, legendEntries).Router(),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port), zap.Int("addresses", len(addresses)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		if snap != nil {
			saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := snap.Save(saveCtx, store.Snapshot()); err != nil {
				return err
			}
			zap.L().Info("snapshot saved", zap.String("path", cfg.Snapshot.Path))
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
