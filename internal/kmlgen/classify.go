// Package kmlgen converts vector records into a styled KML document.
package kmlgen

import "github.com/paulmach/orb"

// Kind identifies one of the six supported geometry kinds.
type Kind int

const (
	KindPoint Kind = iota
	KindMultiPoint
	KindLineString
	KindMultiLineString
	KindPolygon
	KindMultiPolygon
	KindUnsupported
)

// Classify resolves the kind of a geometry. Anything outside the six
// supported kinds, geometry collections included, is KindUnsupported.
func Classify(g orb.Geometry) Kind {
	switch g.(type) {
	case orb.Point:
		return KindPoint
	case orb.MultiPoint:
		return KindMultiPoint
	case orb.LineString:
		return KindLineString
	case orb.MultiLineString:
		return KindMultiLineString
	case orb.Polygon:
		return KindPolygon
	case orb.MultiPolygon:
		return KindMultiPolygon
	default:
		return KindUnsupported
	}
}

// IsArea reports whether features of this kind get centroid labels.
func (k Kind) IsArea() bool {
	return k == KindPolygon || k == KindMultiPolygon
}

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "Point"
	case KindMultiPoint:
		return "MultiPoint"
	case KindLineString:
		return "LineString"
	case KindMultiLineString:
		return "MultiLineString"
	case KindPolygon:
		return "Polygon"
	case KindMultiPolygon:
		return "MultiPolygon"
	default:
		return "Unsupported"
	}
}
