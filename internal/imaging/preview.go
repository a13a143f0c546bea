package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/canvas-painter-mcp/internal/palette"
)

// PreviewResult contains a rendered bitmap overlay
type PreviewResult struct {
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Scale        int    `json:"scale"`
	PendingCells int    `json:"pending_cells"`
	ImageBase64  string `json:"image_base64"`
	MimeType     string `json:"mime_type"`
}

// Preview size limits.
const (
	MaxPreviewScale = 64
	MaxPreviewSide  = 8192 // output pixels per axis
)

// PreviewOptions controls RenderPreview.
type PreviewOptions struct {
	Scale     int           // output pixels per cell, default 4
	Opacity   int           // 0-100 alpha applied to bitmap colors
	Pending   []image.Point // bitmap-local cells with outstanding tasks
	Highlight string        // marker color "#RRGGBB[AA]", default "#FF00FFFF"
}

// RenderPreview draws the bitmap in palette colors at the image's opacity and
// outlines every pending cell with the highlight color.
func RenderPreview(b *Bitmap, p *palette.Palette, opts PreviewOptions) (*PreviewResult, error) {
	if b.Area() == 0 {
		return nil, fmt.Errorf("cannot render an empty bitmap")
	}
	if opts.Scale <= 0 {
		opts.Scale = 4
	}
	if opts.Scale > MaxPreviewScale {
		return nil, fmt.Errorf("preview scale %d exceeds maximum %d", opts.Scale, MaxPreviewScale)
	}
	if b.Width()*opts.Scale > MaxPreviewSide || b.Height()*opts.Scale > MaxPreviewSide {
		return nil, fmt.Errorf("preview of %dx%d at scale %d exceeds %d pixels per side",
			b.Width(), b.Height(), opts.Scale, MaxPreviewSide)
	}
	opacity := min(max(opts.Opacity, 0), 100)
	highlight, err := parseHexColor(opts.Highlight)
	if err != nil {
		highlight = color.RGBA{255, 0, 255, 255} // Default: opaque magenta
	}

	base := image.NewNRGBA(image.Rect(0, 0, b.Width(), b.Height()))
	alpha := uint8(opacity * 255 / 100)
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			idx := b.At(x, y)
			if idx == palette.Transparent {
				continue
			}
			c := p.Color(idx)
			base.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: alpha})
		}
	}

	scale := opts.Scale
	out := imaging.Resize(base, b.Width()*scale, b.Height()*scale, imaging.NearestNeighbor)
	for _, cell := range opts.Pending {
		if cell.X < 0 || cell.X >= b.Width() || cell.Y < 0 || cell.Y >= b.Height() {
			continue
		}
		drawCellOutline(out, cell.X*scale, cell.Y*scale, scale, highlight)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &PreviewResult{
		Width:        out.Bounds().Dx(),
		Height:       out.Bounds().Dy(),
		Scale:        scale,
		PendingCells: len(opts.Pending),
		ImageBase64:  base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:     "image/png",
	}, nil
}

// drawCellOutline draws a one-pixel square border; cells smaller than three
// pixels are filled instead.
func drawCellOutline(img *image.NRGBA, x0, y0, size int, c color.RGBA) {
	for dy := 0; dy < size; dy++ {
		for dx := 0; dx < size; dx++ {
			edge := dx == 0 || dy == 0 || dx == size-1 || dy == size-1
			if size < 3 || edge {
				img.Set(x0+dx, y0+dy, c)
			}
		}
	}
}
