package export

import (
	"os"
	"strconv"
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"

	"github.com/sells-group/campus-atlas/internal/model"
)

// WriteShapefile writes every drawn polygon as a POLYGON shape with
// address, category, floor count, and acreage attributes. Rings are
// closed on the way out; winding order is left as drawn.
func WriteShapefile(path string, analyses []model.SiteAnalysis) error {
	writer, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		return eris.Wrapf(err, "export: create shapefile %s", path)
	}

	writeErr := writeShapeRecords(writer, analyses)
	writer.Close()
	if writeErr != nil {
		return writeErr
	}

	return fixDBFSidecar(path)
}

func writeShapeRecords(writer *shp.Writer, analyses []model.SiteAnalysis) error {
	fields := []shp.Field{
		shp.StringField("ADDRESS", 120),
		shp.StringField("CATEGORY", 16),
		shp.NumberField("FLOORS", 4),
		shp.FloatField("ACRES", 16, 4),
	}
	if err := writer.SetFields(fields); err != nil {
		return eris.Wrap(err, "export: shapefile fields")
	}

	row := 0
	for _, a := range analyses {
		for _, rec := range a.Areas {
			if len(rec.Coordinates) < 3 {
				continue // degenerate polygons have no shape
			}
			writer.Write(recordShape(rec))

			if err := writer.WriteAttribute(row, 0, a.Address); err != nil {
				return eris.Wrap(err, "export: shapefile address attribute")
			}
			if err := writer.WriteAttribute(row, 1, string(rec.Category)); err != nil {
				return eris.Wrap(err, "export: shapefile category attribute")
			}
			if err := writer.WriteAttribute(row, 2, strconv.Itoa(rec.Floors)); err != nil {
				return eris.Wrap(err, "export: shapefile floors attribute")
			}
			if err := writer.WriteAttribute(row, 3, strconv.FormatFloat(rec.AreaAcres, 'f', 4, 64)); err != nil {
				return eris.Wrap(err, "export: shapefile acres attribute")
			}
			row++
		}
	}
	return nil
}

// fixDBFSidecar renames the attribute table to the name shapefile
// readers expect. go-shp writes it to "<base>dbf" (no dot), while
// shp.Open and GIS tools look for "<base>.dbf".
func fixDBFSidecar(path string) error {
	base := strings.TrimSuffix(path, ".shp")
	err := os.Rename(base+"dbf", base+".dbf")
	if err != nil && !os.IsNotExist(err) {
		return eris.Wrap(err, "export: rename dbf sidecar")
	}
	return nil
}

// recordShape converts a record's open ring into a closed shapefile
// polygon. Shapefile points are X=lng, Y=lat.
func recordShape(rec model.AreaRecord) *shp.Polygon {
	points := make([]shp.Point, 0, len(rec.Coordinates)+1)
	for _, c := range rec.Coordinates {
		points = append(points, shp.Point{X: c.Lng, Y: c.Lat})
	}
	points = append(points, points[0])

	poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{points}))
	return &poly
}
