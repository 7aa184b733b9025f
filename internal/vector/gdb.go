//go:build gdal

package vector

import (
	"fmt"

	"github.com/airbusgeo/godal"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"

	"github.com/maplemark/vec2kml/internal/crs"
)

// loadGDB reads one feature class from a file geodatabase through
// OGR's OpenFileGDB driver.
func loadGDB(container, class string) (*Collection, error) {
	godal.RegisterAll()

	ds, err := godal.Open(container, godal.VectorOnly())
	if err != nil {
		return nil, fmt.Errorf("open geodatabase: %w", err)
	}
	defer func() {
		if closeErr := ds.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", container).Msg("Failed to close geodatabase")
		}
	}()

	var layer *godal.Layer
	for _, l := range ds.Layers() {
		if l.Name() == class {
			layer = &l
			break
		}
	}
	if layer == nil {
		return nil, fmt.Errorf("feature class %q not found in %s", class, container)
	}

	col := &Collection{}
	layer.ResetReading()
	for {
		f := layer.NextFeature()
		if f == nil {
			break
		}

		rec := Record{Tags: make(map[string]interface{})}
		for name, field := range f.Fields() {
			rec.Tags[name] = fieldValue(field)
		}
		if g := f.Geometry(); g != nil && !g.Empty() {
			if col.EPSG == 0 {
				col.EPSG = geometryEPSG(g)
			}
			rec.Geometry = orbGeometry(g)
		}

		col.Records = append(col.Records, rec)
	}

	return col, nil
}

// orbGeometry bridges an OGR geometry through its GeoJSON encoding.
func orbGeometry(g *godal.Geometry) orb.Geometry {
	js, err := g.GeoJSON()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to encode geometry, skipping")
		return nil
	}
	geom, err := geojson.UnmarshalGeometry([]byte(js))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to decode geometry, skipping")
		return nil
	}
	return geom.Geometry()
}

// geometryEPSG resolves the geometry's spatial reference through the
// same WKT authority lookup used for .prj sidecars.
func geometryEPSG(g *godal.Geometry) int {
	sr := g.SpatialRef()
	if sr == nil {
		return 0
	}
	wkt, err := sr.WKT()
	if err != nil {
		return 0
	}
	return crs.EPSGFromWKT(wkt)
}

func fieldValue(f godal.Field) interface{} {
	switch f.Type() {
	case godal.FTInt, godal.FTInt64:
		return f.Int()
	case godal.FTReal:
		return f.Float()
	default:
		return f.String()
	}
}
