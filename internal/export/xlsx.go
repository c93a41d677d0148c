package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/campus-atlas/internal/analysis"
)

// WriteXLSX writes the site summaries as a single-sheet workbook.
func WriteXLSX(path string, rows []analysis.ExportRow) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Campus Totals")
	if err != nil {
		return eris.Wrap(err, "export: add xlsx sheet")
	}

	headerRow := sheet.AddRow()
	for _, name := range Header {
		headerRow.AddCell().SetString(name)
	}

	for _, row := range rows {
		t := row.Totals
		r := sheet.AddRow()
		r.AddCell().SetString(row.Address)
		r.AddCell().SetFloat(row.Lat)
		r.AddCell().SetFloat(row.Lng)
		r.AddCell().SetFloatWithFormat(t.TotalBoundaryAcres, "0.00")
		r.AddCell().SetFloatWithFormat(t.BuildingAcres, "0.00")
		r.AddCell().SetFloatWithFormat(t.FieldAcres, "0.00")
		r.AddCell().SetFloatWithFormat(t.ParkingAcres, "0.00")
		r.AddCell().SetFloatWithFormat(t.OtherAcres, "0.00")
		r.AddCell().SetFloatWithFormat(t.OutdoorAcres, "0.00")
		r.AddCell().SetFloatWithFormat(t.FieldUtilizationPct, "0.0")
		r.AddCell().SetFloatWithFormat(t.BuildingCoveragePct, "0.0")
		r.AddCell().SetString(row.Notes)
	}

	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "export: save xlsx %s", path)
	}
	return nil
}
