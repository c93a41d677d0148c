package main

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/campus-atlas/internal/analysis"
	"github.com/sells-group/campus-atlas/internal/export"
	"github.com/sells-group/campus-atlas/internal/snapshot"
)

var (
	exportOutput    string
	exportXLSX      string
	exportShapefile string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved site analyses to CSV, XLSX, or shapefile",
	Long:  "Reads the SQLite snapshot written by `serve` and renders per-site totals (and optionally the raw polygons) to disk.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("export"); err != nil {
			return err
		}

		snap, err := snapshot.New(cfg.Snapshot.Path)
		if err != nil {
			return err
		}
		defer snap.Close() //nolint:errcheck
		if err := snap.Migrate(cmd.Context()); err != nil {
			return err
		}

		saved, err := snap.Load(cmd.Context())
		if err != nil {
			return err
		}

		store := analysis.NewStore(nil)
		store.ReplaceAll(saved)

		rows, err := store.ExportRows()
		if err != nil {
			return err
		}

		output := exportOutput
		if output == "" {
			output = cfg.Export.Output
		}

		if strings.HasSuffix(strings.ToLower(output), ".xlsx") {
			if err := export.WriteXLSX(output, rows); err != nil {
				return err
			}
		} else {
			f, err := os.Create(output)
			if err != nil {
				return eris.Wrapf(err, "create %s", output)
			}
			defer f.Close() //nolint:errcheck
			if err := export.WriteCSV(f, rows); err != nil {
				return err
			}
		}
		zap.L().Info("totals exported", zap.String("path", output), zap.Int("sites", len(rows)))

		if exportXLSX != "" {
			if err := export.WriteXLSX(exportXLSX, rows); err != nil {
				return err
			}
			zap.L().Info("xlsx exported", zap.String("path", exportXLSX))
		}

		if exportShapefile != "" {
			if err := export.WriteShapefile(exportShapefile, store.Snapshot()); err != nil {
				return err
			}
			zap.L().Info("shapefile exported", zap.String("path", exportShapefile))
		}

		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output path (default from config; .xlsx extension switches format)")
	exportCmd.Flags().StringVar(&exportXLSX, "xlsx", "", "also write an XLSX workbook to this path")
	exportCmd.Flags().StringVar(&exportShapefile, "shapefile", "", "also write drawn polygons to this shapefile path")
	rootCmd.AddCommand(exportCmd)
}
