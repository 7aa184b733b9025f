package main

import (
	"os"

	"github.com/maplemark/vec2kml/internal/config"
	"github.com/maplemark/vec2kml/internal/crs"
	"github.com/maplemark/vec2kml/internal/kmlgen"
	"github.com/maplemark/vec2kml/internal/logger"
	"github.com/maplemark/vec2kml/internal/vector"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Input  string `short:"i" long:"input"  env:"INPUT_PATH"  description:"Input shapefile (.shp) or geodatabase feature class (.gdb) path" required:"true"`
	Output string `short:"o" long:"output" env:"OUTPUT_PATH" description:"Output KML file path" required:"true"`

	LabelColumn string `short:"l" long:"label-column" env:"LABEL_COLUMN" description:"Attribute column used for feature labels"`
	NoLabels    bool   `long:"no-labels" description:"Disable label rendering"`
	StyleFile   string `short:"s" long:"style" env:"STYLE_FILE" description:"YAML style preset file"`
	Minify      bool   `short:"m" long:"minify" description:"Write compact KML without indentation"`

	LineColor  string  `long:"line-color"  env:"LINE_COLOR"  description:"Line and outline color"     default:"red"`
	LineWidth  float64 `long:"line-width"  env:"LINE_WIDTH"  description:"Line and outline width"     default:"1.5"`
	PolyFill   bool    `long:"poly-fill"   env:"POLY_FILL"   description:"Fill polygons"`
	PolyColor  string  `long:"poly-color"  env:"POLY_COLOR"  description:"Polygon fill color"`
	LabelColor string  `long:"label-color" env:"LABEL_COLOR" description:"Label text color"           default:"white"`
	LabelScale float64 `long:"label-scale" env:"LABEL_SCALE" description:"Label text scale"           default:"1"`
	IconScale  float64 `long:"icon-scale"  env:"ICON_SCALE"  description:"Point icon scale (0 hides)" default:"1"`
	IconColor  string  `long:"icon-color"  env:"ICON_COLOR"  description:"Point icon color"           default:"red"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	style, err := config.Params{
		LineColor:  opts.LineColor,
		LineWidth:  opts.LineWidth,
		PolyFill:   opts.PolyFill,
		PolyColor:  opts.PolyColor,
		LabelColor: opts.LabelColor,
		LabelScale: opts.LabelScale,
		IconScale:  opts.IconScale,
		IconColor:  opts.IconColor,
	}.Style()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid style options")
	}

	if opts.StyleFile != "" {
		style, err = config.LoadStyle(opts.StyleFile, style)
		if err != nil {
			log.Fatal().Err(err).Str("path", opts.StyleFile).Msg("Failed to load style preset")
		}
	}

	col, err := vector.Load(opts.Input)
	if err != nil {
		log.Fatal().Err(err).Str("path", opts.Input).Msg("Failed to load input")
	}

	log.Info().
		Str("path", opts.Input).
		Int("records", len(col.Records)).
		Int("epsg", col.EPSG).
		Msg("Input loaded")

	if err := col.Reproject(crs.WGS84); err != nil {
		log.Fatal().Err(err).Msg("Failed to reproject input")
	}

	err = kmlgen.Export(col, opts.Output, kmlgen.Options{
		LabelColumn: opts.LabelColumn,
		ShowLabels:  !opts.NoLabels,
		Style:       style,
		Minify:      opts.Minify,
	})
	if err != nil {
		log.Fatal().Err(err).Str("path", opts.Output).Msg("Failed to write KML")
	}
}
