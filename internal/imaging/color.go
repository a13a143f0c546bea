package imaging

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/canvas-painter-mcp/internal/palette"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// Swatch describes one palette index for display.
//
// Transparent swatches carry only the index and the "transparent" hex label.
type Swatch struct {
	Index int       `json:"index"`
	Hex   string    `json:"hex"`
	RGB   *RGBColor `json:"rgb,omitempty"`
	HSL   *HSLColor `json:"hsl,omitempty"`
}

// DescribeColor builds the swatch of palette index i.
func DescribeColor(p *palette.Palette, i int) Swatch {
	s := Swatch{Index: i, Hex: p.Hex(i)}
	if i == palette.Transparent {
		return s
	}
	c := p.Color(i)
	hsl := rgbToHSL(c.R, c.G, c.B)
	s.RGB = &RGBColor{R: c.R, G: c.G, B: c.B}
	s.HSL = &hsl
	return s
}

// ColorUsage is one row of an image's color list: the real color, what the
// painter substitutes for it, how many pixels use it, and its order state.
type ColorUsage struct {
	Position     int     `json:"position"`
	Real         Swatch  `json:"real"`
	Substitution Swatch  `json:"substitution"`
	Substituted  bool    `json:"substituted"`
	PixelCount   int     `json:"pixel_count"`
	Percentage   float64 `json:"percentage"`
	Disabled     bool    `json:"disabled"`
}

// DescribeColors lists the colors of an image in priority order. Percentages
// are relative to area, the image's total cell count.
func DescribeColors(p *palette.Palette, order *palette.Order, stats palette.Stats, area int) []ColorUsage {
	entries := order.Entries()
	out := make([]ColorUsage, 0, len(entries))
	for i, e := range entries {
		st := stats[e.RealColor]
		u := ColorUsage{
			Position:     i,
			Real:         DescribeColor(p, e.RealColor),
			Substitution: DescribeColor(p, st.SubstitutionColor),
			Substituted:  st.Substituted(),
			PixelCount:   st.PixelCount,
			Disabled:     e.Disabled,
		}
		if area > 0 {
			u.Percentage = float64(st.PixelCount) / float64(area) * 100
		}
		out = append(out, u)
	}
	return out
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.RGBA, error) {
	hex = strings.TrimPrefix(hex, "#")
	alpha := uint8(255)
	switch len(hex) {
	case 6:
	case 8:
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return color.RGBA{}, err
		}
		alpha, hex = uint8(a), hex[:6]
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: alpha}, nil
}

// rgbToHSL converts 8-bit RGB values to HSL color space.
func rgbToHSL(r, g, b uint8) HSLColor {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, l := c.Hsl()
	return HSLColor{
		H: int(h),
		S: int(s * 100),
		L: int(l * 100),
	}
}
