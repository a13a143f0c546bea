package painter

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/canvas-painter-mcp/internal/canvas"
	"github.com/ironsheep/canvas-painter-mcp/internal/imaging"
	"github.com/ironsheep/canvas-painter-mcp/internal/palette"
	"github.com/ironsheep/canvas-painter-mcp/internal/strategy"
)

// Pixels is the serialized bitmap source: the natural raster plus the
// parameters that regenerate the bitmap from it.
type Pixels struct {
	Source     string  `json:"source"` // base64 PNG
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Brightness float64 `json:"brightness"`
	ExactColor bool    `json:"exactColor,omitempty"`
}

// Snapshot is the import/export format of one image.
type Snapshot struct {
	ID                    string            `json:"id,omitempty"`
	Pixels                Pixels            `json:"pixels"`
	Position              canvas.Point      `json:"position"`
	Strategy              strategy.Strategy `json:"strategy"`
	Opacity               int               `json:"opacity"`
	DrawTransparentPixels bool              `json:"drawTransparentPixels"`
	DrawColorsInOrder     bool              `json:"drawColorsInOrder"`
	Colors                *palette.Order    `json:"colors"`
	Lock                  bool              `json:"lock"`
}

// Snapshot serializes the image's persistent state. Tasks are not part of a
// snapshot.
func (img *Image) Snapshot() (*Snapshot, error) {
	raster, err := img.source.EncodeRaster()
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		ID: img.ID,
		Pixels: Pixels{
			Source:     raster,
			Width:      img.source.Width,
			Height:     img.source.Height,
			Brightness: img.source.Brightness,
			ExactColor: img.source.ExactColor,
		},
		Position:              img.Anchor,
		Strategy:              img.Strategy,
		Opacity:               img.Opacity,
		DrawTransparentPixels: img.DrawTransparentPixels,
		DrawColorsInOrder:     img.DrawColorsInOrder,
		Colors:                palette.NewOrder(img.Colors.Entries()),
		Lock:                  img.Lock,
	}, nil
}

// ParseSnapshot decodes a JSON snapshot.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("invalid image snapshot: %w", err)
	}
	return &s, nil
}

// FromSnapshot rebuilds an image from s against pal. A stored color order
// that no longer matches the regenerated bitmap is replaced by the default
// order; Fleet.Restore persists the replacement.
func FromSnapshot(s *Snapshot, pal *palette.Palette) (*Image, error) {
	if s.Pixels.Source == "" {
		return nil, ErrNoImageSelected
	}
	if !s.Strategy.Valid() {
		return nil, fmt.Errorf("%w: %q", strategy.ErrUnknown, s.Strategy)
	}
	if s.Opacity < 0 || s.Opacity > 100 {
		return nil, fmt.Errorf("invalid opacity %d: must be 0-100", s.Opacity)
	}
	if s.Pixels.Width < 0 || s.Pixels.Height < 0 {
		return nil, fmt.Errorf("invalid size %dx%d", s.Pixels.Width, s.Pixels.Height)
	}
	if s.Pixels.Width > 0 && s.Pixels.Height > 0 {
		if err := ValidateSize(s.Pixels.Width, s.Pixels.Height); err != nil {
			return nil, err
		}
	}

	src, err := imaging.DecodeSource(s.Pixels.Source)
	if err != nil {
		return nil, err
	}
	if s.Pixels.Width > 0 && s.Pixels.Height > 0 {
		src.Width, src.Height = s.Pixels.Width, s.Pixels.Height
	}
	src.SetBrightness(s.Pixels.Brightness)
	src.ExactColor = s.Pixels.ExactColor

	img := &Image{
		ID:                    s.ID,
		Anchor:                s.Position,
		Strategy:              s.Strategy,
		Opacity:               s.Opacity,
		DrawTransparentPixels: s.DrawTransparentPixels,
		DrawColorsInOrder:     s.DrawColorsInOrder,
		Lock:                  s.Lock,
		source:                src,
		pal:                   pal,
	}
	img.bitmap, img.stats = src.Quantize(pal)
	if s.Colors != nil {
		img.Colors = palette.NewOrder(s.Colors.Entries())
		img.colorsRebuilt = img.Colors.Sync(img.stats)
	} else {
		img.Colors = palette.DefaultOrder(img.stats)
		img.colorsRebuilt = true
	}
	return img, nil
}
