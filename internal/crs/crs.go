// Package crs detects coordinate reference systems and reprojects
// geometries between EPSG codes.
package crs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/wroge/wgs84"
)

// WGS84 is the reference system all output coordinates are expressed in.
const WGS84 = 4326

var authorityRe = regexp.MustCompile(`AUTHORITY\[\s*"EPSG"\s*,\s*"(\d+)"\s*\]`)

// EPSGFromWKT extracts the EPSG code from a WKT1 CRS definition, as
// found in shapefile .prj sidecars. The last AUTHORITY clause in WKT1
// names the whole CRS. Returns 0 when no code can be determined.
func EPSGFromWKT(wkt string) int {
	matches := authorityRe.FindAllStringSubmatch(wkt, -1)
	if len(matches) > 0 {
		code, err := strconv.Atoi(matches[len(matches)-1][1])
		if err == nil {
			return code
		}
	}

	// ESRI-flavored WKT often omits the authority entirely.
	if !strings.Contains(wkt, "PROJCS") &&
		strings.Contains(wkt, "GEOGCS") &&
		(strings.Contains(wkt, "WGS_1984") || strings.Contains(wkt, "WGS 84") || strings.Contains(wkt, "WGS84")) {
		return WGS84
	}

	return 0
}

// Func transforms a single coordinate pair.
type Func func(x, y float64) (float64, float64)

// Transformer returns a coordinate transform between two EPSG codes.
// An EPSG code outside the supported set is an error; callers treat it
// as a precondition failure before any transcoding starts.
func Transformer(from, to int) (Func, error) {
	src := wgs84.EPSG().Code(from)
	if src == nil {
		return nil, fmt.Errorf("unsupported source reference system EPSG:%d", from)
	}
	dst := wgs84.EPSG().Code(to)
	if dst == nil {
		return nil, fmt.Errorf("unsupported target reference system EPSG:%d", to)
	}

	t := wgs84.Transform(src, dst)
	return func(x, y float64) (float64, float64) {
		a, b, _ := t(x, y, 0)
		return a, b
	}, nil
}

// Apply transforms every coordinate of a geometry, returning a new
// geometry of the same kind with parts and rings in original order.
func Apply(g orb.Geometry, f Func) orb.Geometry {
	switch g := g.(type) {
	case orb.Point:
		return point(g, f)
	case orb.MultiPoint:
		out := make(orb.MultiPoint, len(g))
		for i, p := range g {
			out[i] = point(p, f)
		}
		return out
	case orb.LineString:
		return orb.LineString(points(g, f))
	case orb.MultiLineString:
		out := make(orb.MultiLineString, len(g))
		for i, ls := range g {
			out[i] = orb.LineString(points(ls, f))
		}
		return out
	case orb.Ring:
		return orb.Ring(points(g, f))
	case orb.Polygon:
		return polygon(g, f)
	case orb.MultiPolygon:
		out := make(orb.MultiPolygon, len(g))
		for i, p := range g {
			out[i] = polygon(p, f)
		}
		return out
	case orb.Collection:
		out := make(orb.Collection, len(g))
		for i, c := range g {
			out[i] = Apply(c, f)
		}
		return out
	}
	return g
}

func point(p orb.Point, f Func) orb.Point {
	x, y := f(p[0], p[1])
	return orb.Point{x, y}
}

func points(ps []orb.Point, f Func) []orb.Point {
	out := make([]orb.Point, len(ps))
	for i, p := range ps {
		out[i] = point(p, f)
	}
	return out
}

func polygon(p orb.Polygon, f Func) orb.Polygon {
	out := make(orb.Polygon, len(p))
	for i, r := range p {
		out[i] = orb.Ring(points(r, f))
	}
	return out
}
