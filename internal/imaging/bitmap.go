package imaging

import (
	"fmt"

	"github.com/ironsheep/canvas-painter-mcp/internal/palette"
)

// Bitmap is a width x height grid of palette indices. Index 0 is transparent.
//
// A Bitmap is immutable once built.
type Bitmap struct {
	width  int
	height int
	pix    []int
}

// NewBitmap builds a bitmap from rows of palette indices. All rows must have
// the same length; NewBitmap panics otherwise.
func NewBitmap(rows [][]int) *Bitmap {
	b := &Bitmap{height: len(rows)}
	if len(rows) > 0 {
		b.width = len(rows[0])
	}
	b.pix = make([]int, 0, b.width*b.height)
	for y, row := range rows {
		if len(row) != b.width {
			panic(fmt.Sprintf("imaging: bitmap row %d has %d cells, want %d", y, len(row), b.width))
		}
		b.pix = append(b.pix, row...)
	}
	if b.width == 0 {
		b.height = 0
	}
	return b
}

// Width returns the number of columns.
func (b *Bitmap) Width() int { return b.width }

// Height returns the number of rows.
func (b *Bitmap) Height() int { return b.height }

// Area returns width*height.
func (b *Bitmap) Area() int { return b.width * b.height }

// At returns the palette index at (x, y). It panics outside the grid.
func (b *Bitmap) At(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		panic(fmt.Sprintf("imaging: bitmap cell (%d,%d) outside %dx%d", x, y, b.width, b.height))
	}
	return b.pix[y*b.width+x]
}

// Stats counts the real colors of the bitmap against p.
func (b *Bitmap) Stats(p *palette.Palette) palette.Stats {
	s := palette.Stats{}
	for _, c := range b.pix {
		s.Add(p, c)
	}
	return s
}
