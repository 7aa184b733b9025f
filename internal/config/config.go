// Package config handles styling parameters and preset file loading.
package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Style is the immutable set of styling parameters for a single run.
// One Style applies to every feature; there are no per-feature overrides.
type Style struct {
	LineColor  color.RGBA
	LineWidth  float64
	PolyFill   bool
	PolyColor  *color.RGBA // nil means no fill color (transparent)
	LabelColor color.RGBA
	LabelScale float64
	IconScale  float64 // 0 hides icons
	IconColor  color.RGBA
}

// Default returns the stock style: red lines at width 1.5, no fill,
// white labels at scale 1, red icons at scale 1.
func Default() Style {
	return Style{
		LineColor:  palette["red"],
		LineWidth:  1.5,
		LabelColor: palette["white"],
		LabelScale: 1,
		IconScale:  1,
		IconColor:  palette["red"],
	}
}

// palette mirrors the color names earth-browser tooling users expect.
var palette = map[string]color.RGBA{
	"red":     {R: 0xff, A: 0xff},
	"green":   {G: 0x80, A: 0xff},
	"blue":    {B: 0xff, A: 0xff},
	"white":   {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	"black":   {A: 0xff},
	"yellow":  {R: 0xff, G: 0xff, A: 0xff},
	"orange":  {R: 0xff, G: 0xa5, A: 0xff},
	"purple":  {R: 0x80, B: 0x80, A: 0xff},
	"cyan":    {G: 0xff, B: 0xff, A: 0xff},
	"magenta": {R: 0xff, B: 0xff, A: 0xff},
	"gray":    {R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	"brown":   {R: 0xa5, G: 0x2a, B: 0x2a, A: 0xff},
	"pink":    {R: 0xff, G: 0xc0, B: 0xcb, A: 0xff},
}

// ParseColor accepts a palette name or a #RRGGBB / #RRGGBBAA hex value.
func ParseColor(s string) (color.RGBA, error) {
	if c, ok := palette[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}

	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("unknown color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("unknown color %q", s)
	}

	c := color.RGBA{A: 0xff}
	if len(hex) == 8 {
		c.A = uint8(v)
		v >>= 8
	}
	c.B = uint8(v)
	c.G = uint8(v >> 8)
	c.R = uint8(v >> 16)

	return c, nil
}

// ParseFillColor is ParseColor with the empty string meaning "no color".
func ParseFillColor(s string) (*color.RGBA, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	c, err := ParseColor(s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Params are raw style values as they arrive from flags.
type Params struct {
	LineColor  string
	LineWidth  float64
	PolyFill   bool
	PolyColor  string
	LabelColor string
	LabelScale float64
	IconScale  float64
	IconColor  string
}

// Style resolves the raw values into a Style.
func (p Params) Style() (Style, error) {
	st := Style{
		LineWidth:  p.LineWidth,
		PolyFill:   p.PolyFill,
		LabelScale: p.LabelScale,
		IconScale:  p.IconScale,
	}

	var err error
	if st.LineColor, err = ParseColor(p.LineColor); err != nil {
		return Style{}, fmt.Errorf("line color: %w", err)
	}
	if st.PolyColor, err = ParseFillColor(p.PolyColor); err != nil {
		return Style{}, fmt.Errorf("fill color: %w", err)
	}
	if st.LabelColor, err = ParseColor(p.LabelColor); err != nil {
		return Style{}, fmt.Errorf("label color: %w", err)
	}
	if st.IconColor, err = ParseColor(p.IconColor); err != nil {
		return Style{}, fmt.Errorf("icon color: %w", err)
	}

	return st, nil
}

// preset is the YAML style file structure. Absent fields keep the base
// style value, so a preset may override any subset of the parameters.
type preset struct {
	LineColor  *string  `yaml:"line_color,omitempty"`
	LineWidth  *float64 `yaml:"line_width,omitempty"`
	PolyFill   *bool    `yaml:"poly_fill,omitempty"`
	PolyColor  *string  `yaml:"poly_color,omitempty"`
	LabelColor *string  `yaml:"label_color,omitempty"`
	LabelScale *float64 `yaml:"label_scale,omitempty"`
	IconScale  *float64 `yaml:"icon_scale,omitempty"`
	IconColor  *string  `yaml:"icon_color,omitempty"`
}

// LoadStyle reads a YAML preset file and overlays it on the base style.
func LoadStyle(path string, base Style) (Style, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Style{}, err
	}

	var p preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Style{}, fmt.Errorf("parse style preset: %w", err)
	}

	st := base
	if p.LineColor != nil {
		if st.LineColor, err = ParseColor(*p.LineColor); err != nil {
			return Style{}, fmt.Errorf("line color: %w", err)
		}
	}
	if p.LineWidth != nil {
		st.LineWidth = *p.LineWidth
	}
	if p.PolyFill != nil {
		st.PolyFill = *p.PolyFill
	}
	if p.PolyColor != nil {
		if st.PolyColor, err = ParseFillColor(*p.PolyColor); err != nil {
			return Style{}, fmt.Errorf("fill color: %w", err)
		}
	}
	if p.LabelColor != nil {
		if st.LabelColor, err = ParseColor(*p.LabelColor); err != nil {
			return Style{}, fmt.Errorf("label color: %w", err)
		}
	}
	if p.LabelScale != nil {
		st.LabelScale = *p.LabelScale
	}
	if p.IconScale != nil {
		st.IconScale = *p.IconScale
	}
	if p.IconColor != nil {
		if st.IconColor, err = ParseColor(*p.IconColor); err != nil {
			return Style{}, fmt.Errorf("icon color: %w", err)
		}
	}

	return st, nil
}
