package kmlgen

import (
	kml "github.com/twpayne/go-kml"
	"github.com/twpayne/go-kml/icon"

	"github.com/maplemark/vec2kml/internal/config"
)

// pointIconHref pins point icons to a concrete palette icon so icon
// color and scale render consistently across earth browsers.
var pointIconHref = icon.PaletteHref(4, 49)

// labelScale forces hidden labels to scale 0 so an empty label never
// renders a stray glyph, regardless of the configured scale.
func labelScale(st config.Style, hasVisibleLabel bool) float64 {
	if !hasVisibleLabel {
		return 0
	}
	return st.LabelScale
}

func pointStyle(st config.Style, scale float64) kml.Element {
	return kml.Style(
		kml.IconStyle(
			kml.Scale(st.IconScale),
			kml.Color(st.IconColor),
			kml.Icon(kml.Href(pointIconHref)),
		),
		kml.LabelStyle(
			kml.Color(st.LabelColor),
			kml.Scale(scale),
		),
	)
}

func lineStyle(st config.Style, scale float64) kml.Element {
	return kml.Style(
		kml.LineStyle(
			kml.Color(st.LineColor),
			kml.Width(st.LineWidth),
		),
		kml.LabelStyle(
			kml.Color(st.LabelColor),
			kml.Scale(scale),
		),
	)
}

// polygonStyle carries line and fill only. A fill color is emitted iff
// the fill flag is on AND a color was supplied; with the flag on and no
// color the polygon falls back to the viewer's transparent default.
// Label scale is pinned to 0 unconditionally: polygon labels are drawn
// by separate centroid placemarks.
func polygonStyle(st config.Style) kml.Element {
	poly := []kml.Element{kml.Fill(st.PolyFill)}
	if st.PolyFill && st.PolyColor != nil {
		poly = append(poly, kml.Color(*st.PolyColor))
	}

	return kml.Style(
		kml.LineStyle(
			kml.Color(st.LineColor),
			kml.Width(st.LineWidth),
		),
		kml.PolyStyle(poly...),
		kml.LabelStyle(
			kml.Scale(0),
		),
	)
}

// centroidStyle hides the icon and shows only the label text.
func centroidStyle(st config.Style) kml.Element {
	return kml.Style(
		kml.IconStyle(
			kml.Scale(0),
		),
		kml.LabelStyle(
			kml.Color(st.LabelColor),
			kml.Scale(st.LabelScale),
		),
	)
}
