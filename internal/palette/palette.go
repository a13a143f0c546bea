package palette

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Transparent is the reserved "unset" color index.
const Transparent = 0

// alphaThreshold is the 8-bit alpha below which a pixel counts as transparent.
const alphaThreshold = 128

// defaultHex lists the free colors of the canvas, in index order starting at 1.
var defaultHex = []string{
	"#000000", "#3c3c3c", "#787878", "#d2d2d2", "#ffffff",
	"#600018", "#ed1c24", "#ff7f27", "#f6aa09", "#f9dd3b",
	"#fffabc", "#0eb968", "#13e67b", "#87ff5e", "#0c816e",
	"#10aea6", "#13e1be", "#28509e", "#4093e4", "#60f7f2",
	"#6b50f6", "#99b1fb", "#780c99", "#aa38b9", "#e09ff9",
	"#cb007a", "#ec1f80", "#f38da9", "#684634", "#95682a",
	"#f8b277",
}

// Palette is an indexed list of canvas colors. Index 0 is transparent.
//
// A Palette is immutable after construction except for SetAvailable, which
// callers must not run concurrently with lookups.
type Palette struct {
	colors    []color.RGBA
	lab       []colorful.Color
	available []bool
}

// Default returns the built-in canvas palette with every color available.
func Default() *Palette {
	p, err := FromHex(defaultHex)
	if err != nil {
		panic(fmt.Sprintf("palette: default palette: %v", err))
	}
	return p
}

// FromHex builds a palette from "#RRGGBB" strings. The first string becomes
// index 1; index 0 is always transparent.
func FromHex(hexes []string) (*Palette, error) {
	if len(hexes) == 0 {
		return nil, fmt.Errorf("palette must contain at least one color")
	}
	colors := make([]color.RGBA, 0, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("invalid palette color %d (%q): %w", i+1, h, err)
		}
		r, g, b := c.RGB255()
		colors = append(colors, color.RGBA{R: r, G: g, B: b, A: 255})
	}
	return New(colors), nil
}

// New builds a palette from opaque colors; colors[0] becomes index 1.
func New(colors []color.RGBA) *Palette {
	p := &Palette{
		colors:    make([]color.RGBA, len(colors)+1),
		lab:       make([]colorful.Color, len(colors)+1),
		available: make([]bool, len(colors)+1),
	}
	for i, c := range colors {
		c.A = 255
		p.colors[i+1] = c
		p.lab[i+1] = colorful.Color{
			R: float64(c.R) / 255,
			G: float64(c.G) / 255,
			B: float64(c.B) / 255,
		}
		p.available[i+1] = true
	}
	p.available[Transparent] = true
	return p
}

// Len returns the number of indices, including the transparent slot.
func (p *Palette) Len() int {
	return len(p.colors)
}

// Color returns the color at index i. Index 0 is the zero (transparent) color.
func (p *Palette) Color(i int) color.RGBA {
	return p.colors[i]
}

// Hex returns "#RRGGBB" for index i, or "transparent" for index 0.
func (p *Palette) Hex(i int) string {
	if i == Transparent {
		return "transparent"
	}
	c := p.colors[i]
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// SetAvailable restricts which opaque indices the painter owns. A nil or empty
// list makes every color available again.
func (p *Palette) SetAvailable(indices []int) error {
	if len(indices) == 0 {
		for i := 1; i < len(p.available); i++ {
			p.available[i] = true
		}
		return nil
	}
	next := make([]bool, len(p.available))
	next[Transparent] = true
	for _, i := range indices {
		if i <= Transparent || i >= len(p.colors) {
			return fmt.Errorf("available color index %d outside palette 1..%d", i, len(p.colors)-1)
		}
		next[i] = true
	}
	p.available = next
	return nil
}

// Available reports whether index i may be painted.
func (p *Palette) Available(i int) bool {
	return i >= 0 && i < len(p.available) && p.available[i]
}

// Nearest returns the palette index perceptually closest to c. Pixels with
// alpha below 128 map to Transparent.
func (p *Palette) Nearest(c color.Color) int {
	return p.nearest(c, false)
}

// Exact returns the index whose color equals c exactly, ignoring alpha above
// the transparency threshold.
func (p *Palette) Exact(c color.Color) (int, bool) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A < alphaThreshold {
		return Transparent, true
	}
	for i := 1; i < len(p.colors); i++ {
		pc := p.colors[i]
		if pc.R == n.R && pc.G == n.G && pc.B == n.B {
			return i, true
		}
	}
	return Transparent, false
}

// Substitute maps a real color to the color the painter will actually use:
// real itself if available, otherwise the nearest available index.
func (p *Palette) Substitute(real int) int {
	if real == Transparent || p.Available(real) {
		return real
	}
	return p.nearest(p.colors[real], true)
}

func (p *Palette) nearest(c color.Color, availableOnly bool) int {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A < alphaThreshold {
		return Transparent
	}
	target := colorful.Color{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
	}

	best, bestDist := Transparent, 0.0
	for i := 1; i < len(p.lab); i++ {
		if availableOnly && !p.available[i] {
			continue
		}
		d := target.DistanceCIEDE2000(p.lab[i])
		if best == Transparent || d < bestDist {
			best, bestDist = i, d
			if d == 0 {
				break
			}
		}
	}
	return best
}
