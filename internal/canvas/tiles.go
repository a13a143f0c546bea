package canvas

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ironsheep/canvas-painter-mcp/internal/imaging"
	"github.com/ironsheep/canvas-painter-mcp/internal/palette"
)

// TileSnapshot is a MapStateProvider over canvas tiles decoded to palette
// indices. Tiles absent from the snapshot read as unpainted.
type TileSnapshot struct {
	size  int
	tiles map[image.Point]*imaging.Bitmap
}

// NewTileSnapshot creates an empty snapshot for tiles of the given size.
func NewTileSnapshot(size int) *TileSnapshot {
	if size <= 0 {
		size = DefaultTileSize
	}
	return &TileSnapshot{size: size, tiles: make(map[image.Point]*imaging.Bitmap)}
}

// TilePath returns the location of tile (tx, ty) under dir: <dir>/<tx>/<ty>.png.
func TilePath(dir string, tx, ty int) string {
	return filepath.Join(dir, strconv.Itoa(tx), strconv.Itoa(ty)+".png")
}

// MaxTiles bounds the number of tiles a single LoadTiles call may cover.
const MaxTiles = 1024

// LoadTiles reads every tile under dir that intersects area (world
// coordinates) and decodes it with exact palette matching. Missing tile files
// are skipped: nobody has painted there yet.
//
// Returns an error if the area covers more than MaxTiles tiles, or if a tile
// exists but cannot be decoded or has the wrong dimensions.
func LoadTiles(cache *imaging.ImageCache, pal *palette.Palette, dir string, size int, area image.Rectangle) (*TileSnapshot, error) {
	s := NewTileSnapshot(size)
	if area.Empty() {
		return s, nil
	}

	minTile, _ := Point{X: area.Min.X, Y: area.Min.Y}.Tile(s.size)
	maxTile, _ := Point{X: area.Max.X - 1, Y: area.Max.Y - 1}.Tile(s.size)
	cols, rows := maxTile.X-minTile.X, maxTile.Y-minTile.Y
	// negative spans wrapped around
	if cols < 0 || rows < 0 || cols >= MaxTiles || rows >= MaxTiles || (cols+1)*(rows+1) > MaxTiles {
		return nil, fmt.Errorf("area %v covers more than %d tiles of size %d", area, MaxTiles, s.size)
	}
	for tx := minTile.X; tx <= maxTile.X; tx++ {
		for ty := minTile.Y; ty <= maxTile.Y; ty++ {
			path := TilePath(dir, tx, ty)
			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				continue
			}
			raster, err := cache.Load(path)
			if err != nil {
				return nil, fmt.Errorf("failed to load tile %d/%d: %w", tx, ty, err)
			}
			if err := s.Put(image.Pt(tx, ty), raster, pal); err != nil {
				return nil, err
			}
		}
	}
	log.Printf("Loaded %d canvas tiles from %s", len(s.tiles), dir)
	return s, nil
}

// Put decodes raster as tile t, replacing any previous contents.
func (s *TileSnapshot) Put(t image.Point, raster image.Image, pal *palette.Palette) error {
	b := raster.Bounds()
	if b.Dx() != s.size || b.Dy() != s.size {
		return fmt.Errorf("tile %d/%d is %dx%d, want %dx%d", t.X, t.Y, b.Dx(), b.Dy(), s.size, s.size)
	}
	src := imaging.NewSource(raster)
	src.ExactColor = true
	bm, _ := src.Quantize(pal)
	s.tiles[t] = bm
	return nil
}

// Tiles returns the number of loaded tiles.
func (s *TileSnapshot) Tiles() int {
	return len(s.tiles)
}

// ColorAt implements MapStateProvider.
func (s *TileSnapshot) ColorAt(p Point) int {
	t, off := p.Tile(s.size)
	bm, ok := s.tiles[t]
	if !ok {
		return 0
	}
	return bm.At(off.X, off.Y)
}
