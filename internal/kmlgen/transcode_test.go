package kmlgen

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maplemark/vec2kml/internal/config"
	"github.com/maplemark/vec2kml/internal/vector"
)

// Decoding structs for reading the generated KML back in tests.
type kmlFile struct {
	XMLName    xml.Name    `xml:"kml"`
	Placemarks []placemark `xml:"Document>Placemark"`
}

type placemark struct {
	Name          string       `xml:"name"`
	Style         styleEl      `xml:"Style"`
	Point         *geometryEl  `xml:"Point"`
	LineString    *geometryEl  `xml:"LineString"`
	Polygon       *polygonEl   `xml:"Polygon"`
	MultiGeometry *multiGeomEl `xml:"MultiGeometry"`
}

type styleEl struct {
	IconStyle  *subStyleEl `xml:"IconStyle"`
	LabelStyle *subStyleEl `xml:"LabelStyle"`
	LineStyle  *subStyleEl `xml:"LineStyle"`
	PolyStyle  *subStyleEl `xml:"PolyStyle"`
}

type subStyleEl struct {
	Scale string `xml:"scale"`
	Color string `xml:"color"`
	Width string `xml:"width"`
	Fill  string `xml:"fill"`
}

type geometryEl struct {
	Coordinates string `xml:"coordinates"`
}

type polygonEl struct {
	Outer ringEl   `xml:"outerBoundaryIs"`
	Inner []ringEl `xml:"innerBoundaryIs"`
}

type ringEl struct {
	LinearRing geometryEl `xml:"LinearRing"`
}

type multiGeomEl struct {
	Points      []geometryEl `xml:"Point"`
	LineStrings []geometryEl `xml:"LineString"`
	Polygons    []polygonEl  `xml:"Polygon"`
}

func render(t *testing.T, col *vector.Collection, opts Options) ([]byte, kmlFile) {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, Transcode(col, opts).WriteIndent(&buf, "", "  "))

	var doc kmlFile
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))
	return buf.Bytes(), doc
}

// coords parses a KML coordinates string into (lon, lat) pairs,
// tolerating an optional altitude component.
func coords(t *testing.T, raw string) [][2]float64 {
	t.Helper()

	var out [][2]float64
	for _, tuple := range strings.Fields(strings.TrimSpace(raw)) {
		parts := strings.Split(tuple, ",")
		require.GreaterOrEqual(t, len(parts), 2, "coordinate tuple %q", tuple)

		lon, err := strconv.ParseFloat(parts[0], 64)
		require.NoError(t, err)
		lat, err := strconv.ParseFloat(parts[1], 64)
		require.NoError(t, err)
		out = append(out, [2]float64{lon, lat})
	}
	return out
}

func defaultOpts() Options {
	return Options{LabelColumn: "name", ShowLabels: true, Style: config.Default()}
}

func TestTranscodePointDefaults(t *testing.T) {
	col := &vector.Collection{Records: []vector.Record{{
		Tags:     map[string]interface{}{"name": "A"},
		Geometry: orb.Point{-123.1, 49.3},
	}}}

	_, doc := render(t, col, defaultOpts())
	require.Len(t, doc.Placemarks, 1)

	pm := doc.Placemarks[0]
	assert.Equal(t, "A", pm.Name)
	require.NotNil(t, pm.Point)
	assert.Equal(t, [][2]float64{{-123.1, 49.3}}, coords(t, pm.Point.Coordinates))

	require.NotNil(t, pm.Style.IconStyle)
	assert.Equal(t, "1", pm.Style.IconStyle.Scale)
	assert.Equal(t, "ff0000ff", pm.Style.IconStyle.Color) // red
	require.NotNil(t, pm.Style.LabelStyle)
	assert.Equal(t, "1", pm.Style.LabelStyle.Scale)
	assert.Equal(t, "ffffffff", pm.Style.LabelStyle.Color) // white
}

func TestTranscodePolygonWithHoleAndCentroidLabel(t *testing.T) {
	outer := orb.Ring{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}
	hole := orb.Ring{{1, 1}, {1, 3}, {3, 3}, {3, 1}, {1, 1}}

	col := &vector.Collection{Records: []vector.Record{{
		Tags:     map[string]interface{}{"name": "Zone1"},
		Geometry: orb.Polygon{outer, hole},
	}}}

	_, doc := render(t, col, defaultOpts())
	require.Len(t, doc.Placemarks, 2)

	poly := doc.Placemarks[0]
	assert.Empty(t, poly.Name, "polygon placemark must stay unlabeled")
	require.NotNil(t, poly.Polygon)
	assert.Equal(t, [][2]float64{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}},
		coords(t, poly.Polygon.Outer.LinearRing.Coordinates))
	require.Len(t, poly.Polygon.Inner, 1)
	assert.Equal(t, [][2]float64{{1, 1}, {1, 3}, {3, 3}, {3, 1}, {1, 1}},
		coords(t, poly.Polygon.Inner[0].LinearRing.Coordinates))
	require.NotNil(t, poly.Style.LabelStyle)
	assert.Equal(t, "0", poly.Style.LabelStyle.Scale)

	// centroid label follows immediately, icon hidden
	label := doc.Placemarks[1]
	assert.Equal(t, "Zone1", label.Name)
	require.NotNil(t, label.Point)
	assert.Equal(t, [][2]float64{{2, 2}}, coords(t, label.Point.Coordinates))
	require.NotNil(t, label.Style.IconStyle)
	assert.Equal(t, "0", label.Style.IconStyle.Scale)
	require.NotNil(t, label.Style.LabelStyle)
	assert.Equal(t, "1", label.Style.LabelStyle.Scale)
}

func TestTranscodeMultiPolygonCentroidIsAreaWeighted(t *testing.T) {
	// the big square is 16x the area of the small one, so the shared
	// centroid sits close to the big square's center
	big := orb.Polygon{{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}}
	small := orb.Polygon{{{10, 0}, {11, 0}, {11, 1}, {10, 1}, {10, 0}}}

	col := &vector.Collection{Records: []vector.Record{{
		Tags:     map[string]interface{}{"name": "Parts"},
		Geometry: orb.MultiPolygon{big, small},
	}}}

	_, doc := render(t, col, defaultOpts())
	require.Len(t, doc.Placemarks, 2)

	require.NotNil(t, doc.Placemarks[0].MultiGeometry)
	assert.Len(t, doc.Placemarks[0].MultiGeometry.Polygons, 2)

	c := coords(t, doc.Placemarks[1].Point.Coordinates)[0]
	// area-weighted: (16*(2,2) + 1*(10.5,0.5)) / 17
	assert.InDelta(t, 2.5, c[0], 1e-9)
	assert.InDelta(t, 1.9117647058823529, c[1], 1e-9)
}

func TestTranscodeMultiGeometries(t *testing.T) {
	col := &vector.Collection{Records: []vector.Record{
		{
			Tags:     map[string]interface{}{"name": "stops"},
			Geometry: orb.MultiPoint{{1, 2}, {3, 4}},
		},
		{
			Tags:     map[string]interface{}{"name": "route"},
			Geometry: orb.MultiLineString{{{0, 0}, {1, 1}}, {{5, 5}, {6, 6}, {7, 5}}},
		},
	}}

	_, doc := render(t, col, defaultOpts())
	require.Len(t, doc.Placemarks, 2)

	mp := doc.Placemarks[0]
	assert.Equal(t, "stops", mp.Name)
	require.NotNil(t, mp.MultiGeometry)
	require.Len(t, mp.MultiGeometry.Points, 2)
	assert.Equal(t, [][2]float64{{3, 4}}, coords(t, mp.MultiGeometry.Points[1].Coordinates))

	ml := doc.Placemarks[1]
	require.NotNil(t, ml.MultiGeometry)
	require.Len(t, ml.MultiGeometry.LineStrings, 2)
	assert.Equal(t, [][2]float64{{5, 5}, {6, 6}, {7, 5}},
		coords(t, ml.MultiGeometry.LineStrings[1].Coordinates))
	require.NotNil(t, ml.Style.LineStyle)
	assert.Equal(t, "ff0000ff", ml.Style.LineStyle.Color)
	assert.Equal(t, "1.5", ml.Style.LineStyle.Width)
}

func TestTranscodeLabelScaleForcedToZero(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		tags map[string]interface{}
	}{
		{
			name: "labels disabled",
			opts: Options{LabelColumn: "name", ShowLabels: false, Style: config.Default()},
			tags: map[string]interface{}{"name": "A"},
		},
		{
			name: "empty label value",
			opts: defaultOpts(),
			tags: map[string]interface{}{"name": ""},
		},
		{
			name: "no label column",
			opts: Options{ShowLabels: true, Style: config.Default()},
			tags: map[string]interface{}{"name": "A"},
		},
		{
			name: "column missing from record",
			opts: Options{LabelColumn: "label", ShowLabels: true, Style: config.Default()},
			tags: map[string]interface{}{"name": "A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Style.LabelScale = 3 // must be overridden to 0

			col := &vector.Collection{Records: []vector.Record{{
				Tags:     tt.tags,
				Geometry: orb.Point{1, 2},
			}}}

			_, doc := render(t, col, tt.opts)
			require.Len(t, doc.Placemarks, 1)
			assert.Empty(t, doc.Placemarks[0].Name)
			assert.Equal(t, "0", doc.Placemarks[0].Style.LabelStyle.Scale)
		})
	}
}

func TestTranscodeNoCentroidLabelWithoutVisibleLabel(t *testing.T) {
	col := &vector.Collection{Records: []vector.Record{{
		Tags:     map[string]interface{}{"name": "Zone1"},
		Geometry: orb.Polygon{{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}},
	}}}

	opts := defaultOpts()
	opts.ShowLabels = false

	_, doc := render(t, col, opts)
	assert.Len(t, doc.Placemarks, 1)
}

func TestTranscodeSkipsUnsupportedWithWarning(t *testing.T) {
	var logbuf bytes.Buffer
	old := log.Logger
	log.Logger = zerolog.New(&logbuf)
	defer func() { log.Logger = old }()

	col := &vector.Collection{Records: []vector.Record{
		{Tags: map[string]interface{}{"name": "A"}, Geometry: orb.Point{1, 2}},
		{Tags: map[string]interface{}{"name": "B"}, Geometry: orb.Collection{orb.Point{3, 4}}},
		{Tags: map[string]interface{}{"name": "C"}, Geometry: orb.Point{5, 6}},
	}}

	_, doc := render(t, col, defaultOpts())

	require.Len(t, doc.Placemarks, 2)
	assert.Equal(t, "A", doc.Placemarks[0].Name)
	assert.Equal(t, "C", doc.Placemarks[1].Name)
	assert.Contains(t, logbuf.String(), "GeometryCollection")
}

func TestTranscodeSkipsNilGeometrySilently(t *testing.T) {
	var logbuf bytes.Buffer
	old := log.Logger
	log.Logger = zerolog.New(&logbuf)
	defer func() { log.Logger = old }()

	col := &vector.Collection{Records: []vector.Record{
		{Tags: map[string]interface{}{"name": "A"}},
		{Tags: map[string]interface{}{"name": "B"}, Geometry: orb.Point{1, 2}},
	}}

	_, doc := render(t, col, defaultOpts())
	assert.Len(t, doc.Placemarks, 1)
	assert.Empty(t, logbuf.String(), "nil geometry is expected sparse data, not a diagnostic")
}

func TestTranscodeFillWithoutColor(t *testing.T) {
	opts := defaultOpts()
	opts.Style.PolyFill = true // poly_color stays nil

	col := &vector.Collection{Records: []vector.Record{{
		Tags:     map[string]interface{}{},
		Geometry: orb.Polygon{{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}},
	}}}

	_, doc := render(t, col, opts)
	require.Len(t, doc.Placemarks, 1)

	ps := doc.Placemarks[0].Style.PolyStyle
	require.NotNil(t, ps)
	assert.Equal(t, "1", ps.Fill)
	assert.Empty(t, ps.Color, "no explicit fill color on the unset-color path")
}

func TestTranscodeIdempotent(t *testing.T) {
	col := &vector.Collection{Records: []vector.Record{
		{Tags: map[string]interface{}{"name": "A"}, Geometry: orb.Point{1, 2}},
		{Tags: map[string]interface{}{"name": "Z"}, Geometry: orb.Polygon{{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}}},
	}}

	first, _ := render(t, col, defaultOpts())
	second, _ := render(t, col, defaultOpts())
	assert.Equal(t, first, second)
}
