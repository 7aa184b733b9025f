package kmlgen

import (
	"github.com/paulmach/orb"
	kml "github.com/twpayne/go-kml"

	"github.com/maplemark/vec2kml/internal/config"
)

// buildFeature dispatches one geometry to its kind-specific builder.
// The kind must be one of the six supported kinds.
func buildFeature(kind Kind, g orb.Geometry, label string, visible bool, st config.Style) kml.Element {
	name := ""
	if visible {
		name = label
	}
	scale := labelScale(st, visible)

	switch kind {
	case KindPoint:
		return buildPoint(g.(orb.Point), name, scale, st)
	case KindMultiPoint:
		return buildMultiPoint(g.(orb.MultiPoint), name, scale, st)
	case KindLineString:
		return buildLineString(g.(orb.LineString), name, scale, st)
	case KindMultiLineString:
		return buildMultiLineString(g.(orb.MultiLineString), name, scale, st)
	case KindPolygon:
		return buildPolygon(g.(orb.Polygon), st)
	case KindMultiPolygon:
		return buildMultiPolygon(g.(orb.MultiPolygon), st)
	}
	return nil
}

func buildPoint(p orb.Point, name string, scale float64, st config.Style) kml.Element {
	return kml.Placemark(
		kml.Name(name),
		pointStyle(st, scale),
		pointGeometry(p),
	)
}

func buildMultiPoint(mp orb.MultiPoint, name string, scale float64, st config.Style) kml.Element {
	parts := make([]kml.Element, len(mp))
	for i, p := range mp {
		parts[i] = pointGeometry(p)
	}
	return kml.Placemark(
		kml.Name(name),
		pointStyle(st, scale),
		kml.MultiGeometry(parts...),
	)
}

func buildLineString(ls orb.LineString, name string, scale float64, st config.Style) kml.Element {
	return kml.Placemark(
		kml.Name(name),
		lineStyle(st, scale),
		lineGeometry(ls),
	)
}

func buildMultiLineString(mls orb.MultiLineString, name string, scale float64, st config.Style) kml.Element {
	parts := make([]kml.Element, len(mls))
	for i, ls := range mls {
		parts[i] = lineGeometry(ls)
	}
	return kml.Placemark(
		kml.Name(name),
		lineStyle(st, scale),
		kml.MultiGeometry(parts...),
	)
}

// buildPolygon never attaches a name: polygon label rendering anchors
// at a vertex, so labels are delegated to the centroid placemark.
func buildPolygon(p orb.Polygon, st config.Style) kml.Element {
	return kml.Placemark(
		polygonStyle(st),
		polygonGeometry(p),
	)
}

func buildMultiPolygon(mp orb.MultiPolygon, st config.Style) kml.Element {
	parts := make([]kml.Element, len(mp))
	for i, p := range mp {
		parts[i] = polygonGeometry(p)
	}
	return kml.Placemark(
		polygonStyle(st),
		kml.MultiGeometry(parts...),
	)
}

func pointGeometry(p orb.Point) kml.Element {
	return kml.Point(
		kml.Coordinates(kml.Coordinate{Lon: p[0], Lat: p[1]}),
	)
}

func lineGeometry(ls orb.LineString) kml.Element {
	return kml.LineString(
		kml.Coordinates(coordinates(ls)...),
	)
}

// polygonGeometry emits the outer ring first, then each hole in source
// order, exactly as the input encodes them.
func polygonGeometry(p orb.Polygon) kml.Element {
	if len(p) == 0 {
		return kml.Polygon()
	}

	els := make([]kml.Element, 0, len(p))
	els = append(els, kml.OuterBoundaryIs(
		kml.LinearRing(kml.Coordinates(coordinates(p[0])...)),
	))
	for _, hole := range p[1:] {
		els = append(els, kml.InnerBoundaryIs(
			kml.LinearRing(kml.Coordinates(coordinates(hole)...)),
		))
	}
	return kml.Polygon(els...)
}

func coordinates(pts []orb.Point) []kml.Coordinate {
	out := make([]kml.Coordinate, len(pts))
	for i, p := range pts {
		out[i] = kml.Coordinate{Lon: p[0], Lat: p[1]}
	}
	return out
}
