// Package canvas resolves world coordinates on the shared canvas and reports
// the color currently painted at them.
//
// World coordinates are absolute canvas pixels. The canvas is stored as
// square tiles of TileSize pixels; Point.Tile splits a world coordinate into
// its tile and the offset inside that tile.
//
// Providers answer from a stable snapshot: callers load or refresh the
// snapshot before a diff pass and never mutate it during one.
package canvas

import (
	"fmt"
	"image"
)

// DefaultTileSize is the edge length of one canvas tile in pixels.
const DefaultTileSize = 1000

// Point is a world coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add offsets p by (dx, dy).
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Tile returns the tile containing p and p's offset within it.
func (p Point) Tile(size int) (tile, offset image.Point) {
	tx, ox := floorDiv(p.X, size)
	ty, oy := floorDiv(p.Y, size)
	return image.Pt(tx, ty), image.Pt(ox, oy)
}

func floorDiv(v, size int) (q, r int) {
	q, r = v/size, v%size
	if r < 0 {
		q--
		r += size
	}
	return q, r
}

// MapStateProvider reports the palette index painted at a world coordinate.
// Unpainted cells read as 0.
type MapStateProvider interface {
	ColorAt(p Point) int
}

// Memory is a MapStateProvider backed by a map. The zero value is not usable;
// call NewMemory.
type Memory struct {
	cells map[Point]int
}

// NewMemory creates an empty, fully unpainted canvas.
func NewMemory() *Memory {
	return &Memory{cells: make(map[Point]int)}
}

// Set records color c at p. Setting 0 erases the cell.
func (m *Memory) Set(p Point, c int) {
	if c == 0 {
		delete(m.cells, p)
		return
	}
	m.cells[p] = c
}

// ColorAt implements MapStateProvider.
func (m *Memory) ColorAt(p Point) int {
	return m.cells[p]
}

// Layered answers from Over where it has a recorded cell and from Base
// otherwise. Over holds pixels reported as painted since Base was loaded.
type Layered struct {
	Base MapStateProvider
	Over map[Point]int
}

// NewLayered wraps base with an empty overlay.
func NewLayered(base MapStateProvider) *Layered {
	return &Layered{Base: base, Over: make(map[Point]int)}
}

// Set records color c at p in the overlay. Unlike Memory.Set, 0 is stored so
// an erased cell hides the base color.
func (l *Layered) Set(p Point, c int) {
	l.Over[p] = c
}

// ColorAt implements MapStateProvider.
func (l *Layered) ColorAt(p Point) int {
	if c, ok := l.Over[p]; ok {
		return c
	}
	if l.Base == nil {
		return 0
	}
	return l.Base.ColorAt(p)
}
