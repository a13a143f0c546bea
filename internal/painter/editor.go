package painter

import (
	"fmt"
	"math"
	"strings"

	"github.com/ironsheep/canvas-painter-mcp/internal/canvas"
)

// Handle selects the edges a resize drag moves. Handles combine: a corner is
// two edges, for example HandleNorth|HandleWest.
type Handle uint8

const (
	HandleNorth Handle = 1 << iota
	HandleEast
	HandleSouth
	HandleWest
)

// ParseHandle parses a compass name such as "n", "se" or "west".
// The empty string means a plain move.
func ParseHandle(s string) (Handle, error) {
	switch strings.ToLower(s) {
	case "", "move":
		return 0, nil
	case "north":
		return HandleNorth, nil
	case "south":
		return HandleSouth, nil
	case "east":
		return HandleEast, nil
	case "west":
		return HandleWest, nil
	}

	var h Handle
	for _, r := range strings.ToLower(s) {
		var bit Handle
		switch r {
		case 'n':
			bit = HandleNorth
		case 's':
			bit = HandleSouth
		case 'e':
			bit = HandleEast
		case 'w':
			bit = HandleWest
		default:
			return 0, fmt.Errorf("invalid handle %q", s)
		}
		if h&bit != 0 {
			return 0, fmt.Errorf("invalid handle %q", s)
		}
		h |= bit
	}
	if !h.valid() {
		return 0, fmt.Errorf("invalid handle %q: opposite edges", s)
	}
	return h, nil
}

func (h Handle) valid() bool {
	return h&(HandleNorth|HandleSouth) != HandleNorth|HandleSouth &&
		h&(HandleEast|HandleWest) != HandleEast|HandleWest
}

func (h Handle) String() string {
	if h == 0 {
		return "move"
	}
	var b strings.Builder
	for _, e := range []struct {
		bit Handle
		c   byte
	}{{HandleNorth, 'n'}, {HandleSouth, 's'}, {HandleEast, 'e'}, {HandleWest, 'w'}} {
		if h&e.bit != 0 {
			b.WriteByte(e.c)
		}
	}
	return b.String()
}

// Box is an image's world-space rectangle.
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// session is the geometry captured when a drag starts.
type session struct {
	handle    Handle
	origin    Box
	pointerX  float64
	pointerY  float64
	pixelSize float64
	current   Box
}

// Editor moves and resizes one image. It is Idle until Begin or BeginResize
// captures a session and Active until End or Cancel.
type Editor struct {
	img *Image
	s   *session
}

// Editor returns the image's geometry editor.
func (img *Image) Editor() *Editor {
	if img.editor == nil {
		e := &Editor{img: img}
		img.editor = e
		img.OnRelease(e.Cancel)
	}
	return img.editor
}

// Active reports whether a drag session is in progress.
func (e *Editor) Active() bool {
	return e.s != nil
}

// Handle returns the handle of the active session.
func (e *Editor) Handle() Handle {
	if e.s == nil {
		return 0
	}
	return e.s.handle
}

// Begin starts a plain move at pointer (px, py). pixelSize is the on-screen
// size of one canvas pixel in pointer units; values <= 0 mean 1.
func (e *Editor) Begin(px, py, pixelSize float64) error {
	return e.BeginResize(0, px, py, pixelSize)
}

// BeginResize starts a resize dragging the edges in h. A zero handle is a
// plain move. Any previous session is dropped.
func (e *Editor) BeginResize(h Handle, px, py, pixelSize float64) error {
	if e.img.Lock {
		return ErrLocked
	}
	if !h.valid() {
		return fmt.Errorf("invalid handle %s: opposite edges", h)
	}
	if pixelSize <= 0 {
		pixelSize = 1
	}
	origin := e.img.Bounds()
	e.s = &session{
		handle:    h,
		origin:    origin,
		pointerX:  px,
		pointerY:  py,
		pixelSize: pixelSize,
		current:   origin,
	}
	return nil
}

// Move updates the session with the pointer at (px, py) and returns the
// preview box. The image is not modified.
func (e *Editor) Move(px, py float64) (Box, error) {
	if e.s == nil {
		return Box{}, ErrNoSession
	}
	dx := int(math.Round((px - e.s.pointerX) / e.s.pixelSize))
	dy := int(math.Round((py - e.s.pointerY) / e.s.pixelSize))
	e.s.current = resize(e.s.origin, e.s.handle, dx, dy)
	return e.s.current, nil
}

// resize applies grid deltas to o. Pinned edges stay in place; sizes never
// drop below 1.
func resize(o Box, h Handle, dx, dy int) Box {
	if h == 0 {
		return Box{X: o.X + dx, Y: o.Y + dy, Width: o.Width, Height: o.Height}
	}
	b := o
	if h&HandleEast != 0 {
		b.Width = max(o.Width+dx, 1)
	}
	if h&HandleWest != 0 {
		b.Width = max(o.Width-dx, 1)
		b.X = o.X + (o.Width - b.Width)
	}
	if h&HandleSouth != 0 {
		b.Height = max(o.Height+dy, 1)
	}
	if h&HandleNorth != 0 {
		b.Height = max(o.Height-dy, 1)
		b.Y = o.Y + (o.Height - b.Height)
	}
	return b
}

// End commits the session: the anchor moves to the final box and, if the
// size changed, the bitmap is resampled and the color order resynchronized.
// The task queue is stale until the next Recompute.
func (e *Editor) End() (Box, error) {
	if e.s == nil {
		return Box{}, ErrNoSession
	}
	b := e.s.current
	e.s = nil

	e.img.Anchor = canvas.Point{X: b.X, Y: b.Y}
	if b.Width != e.img.bitmap.Width() || b.Height != e.img.bitmap.Height() {
		if err := e.img.SetSize(b.Width, b.Height); err != nil {
			return Box{}, err
		}
	}
	return e.img.Bounds(), nil
}

// Cancel drops the session without changing the image.
func (e *Editor) Cancel() {
	e.s = nil
}
