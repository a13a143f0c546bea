package painter

import (
	"fmt"
	"slices"

	"github.com/ironsheep/canvas-painter-mcp/internal/canvas"
	"github.com/ironsheep/canvas-painter-mcp/internal/imaging"
	"github.com/ironsheep/canvas-painter-mcp/internal/palette"
	"github.com/ironsheep/canvas-painter-mcp/internal/strategy"
)

// DefaultOpacity is the preview opacity of newly imported images.
const DefaultOpacity = 50

// MaxSide is the largest width or height an image may be resized to.
const MaxSide = 4096

// Task is one pending pixel edit.
type Task struct {
	Position canvas.Point `json:"position"`
	Color    int          `json:"color"`
}

// Image is a target bitmap placed on the canvas together with its drawing
// settings and its current task queue.
type Image struct {
	ID string

	// Anchor is the world coordinate of the bitmap's top-left cell.
	Anchor canvas.Point

	Strategy              strategy.Strategy
	Opacity               int
	DrawTransparentPixels bool
	DrawColorsInOrder     bool

	// Lock prevents geometry edits.
	Lock bool

	// Colors is kept in sync with the bitmap statistics.
	Colors *palette.Order

	source *imaging.Source
	pal    *palette.Palette
	bitmap *imaging.Bitmap
	stats  palette.Stats
	tasks  []Task

	// colorsRebuilt is set when a restored color order had to be rebuilt
	// and has not been persisted yet.
	colorsRebuilt bool

	editor    *Editor
	listeners []listener
	nextSub   int
	release   Releaser
}

type listener struct {
	id int
	fn func(*Image)
}

// NewImage quantizes src against pal and places the result at anchor with
// default settings. A nil src yields ErrNoImageSelected.
func NewImage(src *imaging.Source, pal *palette.Palette, anchor canvas.Point) (*Image, error) {
	if src == nil || src.Raster == nil {
		return nil, ErrNoImageSelected
	}
	img := &Image{
		Anchor:   anchor,
		Strategy: strategy.Default,
		Opacity:  DefaultOpacity,
		source:   src,
		pal:      pal,
	}
	img.bitmap, img.stats = src.Quantize(pal)
	img.Colors = palette.DefaultOrder(img.stats)
	return img, nil
}

// Source returns the raster source of the image.
func (img *Image) Source() *imaging.Source { return img.source }

// Palette returns the palette the bitmap is quantized against.
func (img *Image) Palette() *palette.Palette { return img.pal }

// Bitmap returns the current quantized bitmap.
func (img *Image) Bitmap() *imaging.Bitmap { return img.bitmap }

// Stats returns the color statistics of the current bitmap.
func (img *Image) Stats() palette.Stats { return img.stats }

// Bounds returns the image's world-space rectangle.
func (img *Image) Bounds() Box {
	return Box{X: img.Anchor.X, Y: img.Anchor.Y, Width: img.bitmap.Width(), Height: img.bitmap.Height()}
}

// Tasks returns a copy of the current task queue.
func (img *Image) Tasks() []Task {
	return slices.Clone(img.tasks)
}

// Pending returns the current queue length.
func (img *Image) Pending() int {
	return len(img.tasks)
}

// Recompute rebuilds the task queue by diffing the bitmap against state.
// The previous queue is discarded; subscribers are notified afterwards.
func (img *Image) Recompute(state canvas.MapStateProvider) []Task {
	skip := img.Colors.Disabled()
	ranks := img.Colors.Ranks()

	w, h := img.bitmap.Width(), img.bitmap.Height()
	tasks := make([]Task, 0)
	for p := range strategy.Positions(w, h, img.Strategy) {
		c := img.bitmap.At(p.X, p.Y)
		if skip[c] {
			continue
		}
		world := img.Anchor.Add(p.X, p.Y)
		if c == state.ColorAt(world) {
			continue
		}
		if c == palette.Transparent && !img.DrawTransparentPixels {
			continue
		}
		tasks = append(tasks, Task{Position: world, Color: c})
	}

	if img.DrawColorsInOrder {
		// colors outside the order rank first, index 0
		slices.SortStableFunc(tasks, func(a, b Task) int {
			return ranks[a.Color] - ranks[b.Color]
		})
	}

	img.tasks = tasks
	img.notify()
	return img.Tasks()
}

// SetStrategy changes the traversal strategy. The queue is stale until the
// next Recompute.
func (img *Image) SetStrategy(s strategy.Strategy) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %q", strategy.ErrUnknown, s)
	}
	img.Strategy = s
	return nil
}

// SetOpacity stores the preview opacity clamped to 0..100.
func (img *Image) SetOpacity(v int) {
	img.Opacity = min(max(v, 0), 100)
}

// SetBrightness changes the source brightness and regenerates the bitmap.
func (img *Image) SetBrightness(v float64) {
	img.source.SetBrightness(v)
	img.regenerate()
}

// SetExactColor switches between exact and nearest palette matching.
func (img *Image) SetExactColor(exact bool) {
	if img.source.ExactColor == exact {
		return
	}
	img.source.ExactColor = exact
	img.regenerate()
}

// ValidateSize reports whether width x height is an allowed image size.
func ValidateSize(width, height int) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("invalid size %dx%d: dimensions must be at least 1", width, height)
	}
	if width > MaxSide || height > MaxSide {
		return fmt.Errorf("invalid size %dx%d: dimensions must be at most %d", width, height, MaxSide)
	}
	return nil
}

// SetSize resamples the bitmap to width x height cells.
func (img *Image) SetSize(width, height int) error {
	if err := ValidateSize(width, height); err != nil {
		return err
	}
	if width == img.source.Width && height == img.source.Height {
		return nil
	}
	img.source.Width, img.source.Height = width, height
	img.regenerate()
	return nil
}

// ResetSize restores the natural raster size.
func (img *Image) ResetSize() {
	img.source.ResetSize()
	img.regenerate()
}

// regenerate re-quantizes the source and heals the color order.
func (img *Image) regenerate() {
	img.bitmap, img.stats = img.source.Quantize(img.pal)
	img.Colors.Sync(img.stats)
}

// Subscribe registers fn to run after every Recompute. The returned function
// removes the subscription.
func (img *Image) Subscribe(fn func(*Image)) (cancel func()) {
	img.nextSub++
	id := img.nextSub
	img.listeners = append(img.listeners, listener{id: id, fn: fn})
	return func() {
		img.listeners = slices.DeleteFunc(img.listeners, func(l listener) bool {
			return l.id == id
		})
	}
}

func (img *Image) notify() {
	for _, l := range slices.Clone(img.listeners) {
		l.fn(img)
	}
}

// OnRelease registers a cleanup action run when the image is destroyed.
func (img *Image) OnRelease(fn func()) {
	img.release.Register(fn)
}

// Destroy runs the release registry and discards the queue. It is safe to
// call more than once.
func (img *Image) Destroy() {
	img.release.Release()
	img.tasks = nil
}

// Destroyed reports whether Destroy has run.
func (img *Image) Destroyed() bool {
	return img.release.Released()
}
