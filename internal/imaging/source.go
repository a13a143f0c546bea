package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/canvas-painter-mcp/internal/palette"
)

// MinBrightness and MaxBrightness bound Source.Brightness (percent).
const (
	MinBrightness = -100
	MaxBrightness = 100
)

// Source is a decoded raster plus the parameters that turn it into a Bitmap.
type Source struct {
	// Raster is the natural, unscaled image.
	Raster image.Image

	// Width and Height are the placement size in canvas pixels.
	Width  int
	Height int

	// Brightness shifts lightness by -100..100 percent before quantization.
	Brightness float64

	// ExactColor maps pixels by exact palette match only; colors that are
	// not in the palette become transparent. Canvas tiles use this mode.
	ExactColor bool
}

// NewSource wraps raster at its natural size.
func NewSource(raster image.Image) *Source {
	b := raster.Bounds()
	return &Source{Raster: raster, Width: b.Dx(), Height: b.Dy()}
}

// DecodeSource decodes a raster produced by EncodeRaster into a Source at
// natural size.
func DecodeSource(encoded string) (*Source, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode source image: %w", err)
	}
	img, err := DecodeBytes(data)
	if err != nil {
		return nil, err
	}
	return NewSource(img), nil
}

// NaturalSize returns the raster's own dimensions.
func (s *Source) NaturalSize() (int, int) {
	b := s.Raster.Bounds()
	return b.Dx(), b.Dy()
}

// ResetSize restores the natural raster dimensions.
func (s *Source) ResetSize() {
	s.Width, s.Height = s.NaturalSize()
}

// SetBrightness stores a brightness clamped to the supported range.
func (s *Source) SetBrightness(v float64) {
	s.Brightness = min(max(v, MinBrightness), MaxBrightness)
}

// Render returns the raster after resampling and brightness adjustment, the
// exact pixels Quantize maps to palette indices.
func (s *Source) Render() image.Image {
	if s.Width <= 0 || s.Height <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}

	var img image.Image = s.Raster
	if w, h := s.NaturalSize(); w != s.Width || h != s.Height {
		img = imaging.Resize(img, s.Width, s.Height, imaging.NearestNeighbor)
	}
	if s.Brightness != 0 {
		img = adjust.Brightness(img, s.Brightness/100)
	}
	return img
}

// Quantize regenerates the bitmap and its color statistics against p.
func (s *Source) Quantize(p *palette.Palette) (*Bitmap, palette.Stats) {
	img := s.Render()
	bounds := img.Bounds()

	// flat-color art repeats colors heavily; memoize the palette lookup
	memo := make(map[color.NRGBA]int)
	rows := make([][]int, bounds.Dy())
	for y := range rows {
		row := make([]int, bounds.Dx())
		for x := range row {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			idx, ok := memo[c]
			if !ok {
				idx = s.index(p, c)
				memo[c] = idx
			}
			row[x] = idx
		}
		rows[y] = row
	}

	bm := NewBitmap(rows)
	return bm, bm.Stats(p)
}

func (s *Source) index(p *palette.Palette, c color.NRGBA) int {
	if s.ExactColor {
		idx, _ := p.Exact(c)
		return idx
	}
	return p.Nearest(c)
}

// EncodeRaster returns the natural raster as base64 PNG.
func (s *Source) EncodeRaster() (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, s.Raster, imaging.PNG); err != nil {
		return "", fmt.Errorf("failed to encode source image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
