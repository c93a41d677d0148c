// Package legend describes how each land-use category is drawn on the
// map UI. The legend is cosmetic; the closed category set itself lives in
// the model package.
package legend

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/campus-atlas/internal/model"
)

// Entry is the display style for one category.
type Entry struct {
	Category    model.Category `yaml:"category" json:"category"`
	Label       string         `yaml:"label" json:"label"`
	StrokeColor string         `yaml:"stroke_color" json:"stroke_color"`
	FillColor   string         `yaml:"fill_color" json:"fill_color"`
	FillOpacity float64        `yaml:"fill_opacity" json:"fill_opacity"`
}

// Default returns the built-in legend, one entry per category in display
// order.
func Default() []Entry {
	return []Entry{
		{Category: model.CategoryBoundary, Label: "Campus Boundary", StrokeColor: "#1565c0", FillColor: "#1565c0", FillOpacity: 0.08},
		{Category: model.CategoryBuilding, Label: "Building", StrokeColor: "#c62828", FillColor: "#c62828", FillOpacity: 0.35},
		{Category: model.CategoryField, Label: "Field", StrokeColor: "#2e7d32", FillColor: "#2e7d32", FillOpacity: 0.30},
		{Category: model.CategoryParking, Label: "Parking", StrokeColor: "#616161", FillColor: "#616161", FillOpacity: 0.35},
		{Category: model.CategoryOther, Label: "Other", StrokeColor: "#ef6c00", FillColor: "#ef6c00", FillOpacity: 0.25},
	}
}

// Load reads a legend from a YAML file. An empty path returns the
// defaults. Entries naming unknown categories are rejected; categories
// absent from the file fall back to their default entry.
func Load(path string) ([]Entry, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "legend: read %s", path)
	}

	var wrapper struct {
		Legend []Entry `yaml:"legend"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "legend: parse yaml")
	}

	overrides := make(map[model.Category]Entry, len(wrapper.Legend))
	for _, e := range wrapper.Legend {
		if _, err := model.ParseCategory(string(e.Category)); err != nil {
			return nil, eris.Wrapf(err, "legend: entry %q", e.Label)
		}
		overrides[e.Category] = e
	}

	out := Default()
	for i := range out {
		if e, ok := overrides[out[i].Category]; ok {
			out[i] = e
		}
	}
	return out, nil
}
