package kmlgen

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/rs/zerolog/log"
	kml "github.com/twpayne/go-kml"

	"github.com/maplemark/vec2kml/internal/config"
	"github.com/maplemark/vec2kml/internal/vector"
)

// Options control labeling, styling and output formatting for one run.
type Options struct {
	LabelColumn string // empty means no labels
	ShowLabels  bool
	Style       config.Style
	Minify      bool
}

// Transcode builds the KML document for a collection. Records keep
// their source order; a polygon record with a visible label is followed
// immediately by its centroid label placemark. Records with a nil
// geometry are skipped silently, unsupported kinds with a warning.
func Transcode(col *vector.Collection, opts Options) *kml.CompoundElement {
	doc := kml.Document()

	for _, rec := range col.Records {
		if rec.Geometry == nil {
			continue
		}

		kind := Classify(rec.Geometry)
		if kind == KindUnsupported {
			log.Warn().
				Str("kind", rec.Geometry.GeoJSONType()).
				Msg("Unsupported geometry type skipped")
			continue
		}

		label := opts.label(rec)
		hasVisibleLabel := opts.ShowLabels && label != ""

		doc.Add(buildFeature(kind, rec.Geometry, label, hasVisibleLabel, opts.Style))

		if kind.IsArea() && hasVisibleLabel {
			doc.Add(centroidLabel(rec.Geometry, label, opts.Style))
		}
	}

	return kml.KML(doc)
}

// label resolves the record's label text from the configured column.
// A missing column or nil value means no label.
func (o Options) label(rec vector.Record) string {
	if o.LabelColumn == "" {
		return ""
	}
	v, ok := rec.Tags[o.LabelColumn]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// centroidLabel places the polygon label at the area-weighted centroid
// (holes subtracted, multi-part geometries weighted by part area), the
// same centroid definition GEOS-backed tools report. The icon is hidden
// so only the label text renders.
func centroidLabel(g orb.Geometry, label string, st config.Style) kml.Element {
	c, _ := planar.CentroidArea(g)
	return kml.Placemark(
		kml.Name(label),
		centroidStyle(st),
		pointGeometry(c),
	)
}
