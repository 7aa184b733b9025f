package vector

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/rs/zerolog/log"

	"github.com/maplemark/vec2kml/internal/crs"
)

// loadShapefile reads a shapefile and its dbf attribute table. Column
// values arrive as strings, the way dbf stores them.
func loadShapefile(path string) (*Collection, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open shapefile: %w", err)
	}
	defer func() {
		if closeErr := r.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close shapefile")
		}
	}()

	fields := r.Fields()
	names := make([]string, len(fields))
	for i := range fields {
		names[i] = fields[i].String()
	}

	col := &Collection{EPSG: shapefileEPSG(path)}
	for r.Next() {
		n, shape := r.Shape()

		rec := Record{Tags: make(map[string]interface{}, len(names))}
		for i, name := range names {
			rec.Tags[name] = r.ReadAttribute(n, i)
		}
		rec.Geometry = shapeGeometry(shape)

		col.Records = append(col.Records, rec)
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("read shapefile: %w", err)
	}

	return col, nil
}

// shapefileEPSG reads the .prj sidecar next to the .shp file. A missing
// sidecar leaves the reference system unknown.
func shapefileEPSG(path string) int {
	prj := strings.TrimSuffix(path, filepath.Ext(path)) + ".prj"
	data, err := os.ReadFile(prj)
	if err != nil {
		return 0
	}
	return crs.EPSGFromWKT(string(data))
}

// shapeGeometry converts a shapefile shape into the matching geometry.
// Measured and 3D variants collapse onto their 2D kinds. Null shapes
// and shape types outside the supported set map to nil.
func shapeGeometry(s shp.Shape) orb.Geometry {
	switch s := s.(type) {
	case *shp.Point:
		return orb.Point{s.X, s.Y}
	case *shp.PointM:
		return orb.Point{s.X, s.Y}
	case *shp.PointZ:
		return orb.Point{s.X, s.Y}
	case *shp.MultiPoint:
		return multiPoint(s.Points)
	case *shp.MultiPointM:
		return multiPoint(s.Points)
	case *shp.MultiPointZ:
		return multiPoint(s.Points)
	case *shp.PolyLine:
		return polyline(s.Parts, s.Points)
	case *shp.PolyLineM:
		return polyline(s.Parts, s.Points)
	case *shp.PolyLineZ:
		return polyline(s.Parts, s.Points)
	case *shp.Polygon:
		return polygonShape(s.Parts, s.Points)
	case *shp.PolygonM:
		return polygonShape(s.Parts, s.Points)
	case *shp.PolygonZ:
		return polygonShape(s.Parts, s.Points)
	}
	return nil
}

func multiPoint(pts []shp.Point) orb.MultiPoint {
	mp := make(orb.MultiPoint, len(pts))
	for i, p := range pts {
		mp[i] = orb.Point{p.X, p.Y}
	}
	return mp
}

// polyline returns a LineString for single-part shapes and a
// MultiLineString otherwise, parts in file order.
func polyline(parts []int32, pts []shp.Point) orb.Geometry {
	lines := make(orb.MultiLineString, 0, len(parts))
	for _, part := range splitParts(parts, pts) {
		ls := make(orb.LineString, len(part))
		for i, p := range part {
			ls[i] = orb.Point{p.X, p.Y}
		}
		lines = append(lines, ls)
	}

	if len(lines) == 1 {
		return lines[0]
	}
	return lines
}

// polygonShape groups shapefile rings into polygons. Outer rings are
// clockwise per the ESRI spec; each counter-clockwise ring is a hole,
// attached to the first outer ring containing its first vertex, falling
// back to the most recent outer ring.
func polygonShape(parts []int32, pts []shp.Point) orb.Geometry {
	var polys []orb.Polygon
	for _, part := range splitParts(parts, pts) {
		ring := make(orb.Ring, len(part))
		for i, p := range part {
			ring[i] = orb.Point{p.X, p.Y}
		}

		if ring.Orientation() == orb.CW || len(polys) == 0 {
			polys = append(polys, orb.Polygon{ring})
			continue
		}

		owner := len(polys) - 1
		for i, poly := range polys {
			if planar.RingContains(poly[0], ring[0]) {
				owner = i
				break
			}
		}
		polys[owner] = append(polys[owner], ring)
	}

	if len(polys) == 0 {
		return nil
	}
	if len(polys) == 1 {
		return polys[0]
	}
	return orb.MultiPolygon(polys)
}

// splitParts slices the flat point array at the part offsets.
func splitParts(parts []int32, pts []shp.Point) [][]shp.Point {
	if len(parts) == 0 {
		if len(pts) == 0 {
			return nil
		}
		return [][]shp.Point{pts}
	}

	out := make([][]shp.Point, 0, len(parts))
	for i, start := range parts {
		end := int32(len(pts))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || int(end) > len(pts) || start >= end {
			continue
		}
		out = append(out, pts[start:end])
	}
	return out
}
