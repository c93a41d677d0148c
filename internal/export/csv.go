// Package export renders site summaries and drawn polygons to CSV, XLSX,
// and ESRI shapefile outputs.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/campus-atlas/internal/analysis"
)

// Header is the fixed column order of the tabular export.
var Header = []string{
	"address",
	"lat",
	"lng",
	"total_boundary_acres",
	"building_acres",
	"field_acres",
	"parking_acres",
	"other_acres",
	"outdoor_acres",
	"field_utilization_pct",
	"building_coverage_pct",
	"notes",
}

// WriteCSV writes one row per site to w.
func WriteCSV(w io.Writer, rows []analysis.ExportRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, row := range rows {
		if err := cw.Write(csvRow(row)); err != nil {
			return eris.Wrapf(err, "export: write csv row %s", row.Address)
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

func csvRow(row analysis.ExportRow) []string {
	t := row.Totals
	return []string{
		row.Address,
		strconv.FormatFloat(row.Lat, 'f', -1, 64),
		strconv.FormatFloat(row.Lng, 'f', -1, 64),
		formatAcres(t.TotalBoundaryAcres),
		formatAcres(t.BuildingAcres),
		formatAcres(t.FieldAcres),
		formatAcres(t.ParkingAcres),
		formatAcres(t.OtherAcres),
		formatAcres(t.OutdoorAcres),
		formatPct(t.FieldUtilizationPct),
		formatPct(t.BuildingCoveragePct),
		row.Notes,
	}
}

func formatAcres(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
