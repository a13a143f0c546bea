package strategy

import (
	"errors"
	"fmt"
	"iter"
	"math/rand/v2"
)

// Strategy names a traversal order over bitmap cells.
type Strategy string

const (
	Random           Strategy = "RANDOM"
	Down             Strategy = "DOWN"
	Up               Strategy = "UP"
	Left             Strategy = "LEFT"
	Right            Strategy = "RIGHT"
	SpiralFromCenter Strategy = "SPIRAL_FROM_CENTER"
	SpiralToCenter   Strategy = "SPIRAL_TO_CENTER"
)

// Default is the strategy given to newly imported images.
const Default = SpiralFromCenter

// ErrUnknown is returned by Parse for names that are not a Strategy.
var ErrUnknown = errors.New("unknown strategy")

// All returns every strategy in display order.
func All() []Strategy {
	return []Strategy{Random, Down, Up, Left, Right, SpiralFromCenter, SpiralToCenter}
}

// Valid reports whether s is one of the known strategies.
func (s Strategy) Valid() bool {
	switch s {
	case Random, Down, Up, Left, Right, SpiralFromCenter, SpiralToCenter:
		return true
	}
	return false
}

// Parse converts a strategy name such as "SPIRAL_TO_CENTER" to a Strategy.
func Parse(name string) (Strategy, error) {
	s := Strategy(name)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return s, nil
}

// Position is a bitmap-local cell offset.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Sequencer yields the positions of a width x height grid in strategy order.
type Sequencer struct {
	width    int
	height   int
	strategy Strategy

	// next index for the row/column orders and for buffered orders
	index int
	// RANDOM and SPIRAL_TO_CENTER
	buffered []Position
	// SPIRAL_FROM_CENTER
	spiral *spiralWalker
}

// New creates a sequencer positioned before the first cell.
//
// Negative dimensions are treated as zero. New panics if s is not a valid
// strategy; callers validate user input with Parse.
func New(width, height int, s Strategy) *Sequencer {
	if !s.Valid() {
		panic(fmt.Sprintf("strategy: invalid strategy %q", s))
	}
	q := &Sequencer{
		width:    max(width, 0),
		height:   max(height, 0),
		strategy: s,
	}
	q.Reset()
	return q
}

// Len returns the total number of positions the sequence produces.
func (q *Sequencer) Len() int {
	return q.width * q.height
}

// Reset restarts the sequence. Every strategy except RANDOM restarts in the
// same order; RANDOM draws a fresh permutation.
func (q *Sequencer) Reset() {
	q.index = 0
	q.buffered = nil
	q.spiral = nil
	switch q.strategy {
	case Random:
		q.buffered = shuffled(q.width, q.height)
	case SpiralFromCenter:
		q.spiral = newSpiralWalker(q.width, q.height)
	case SpiralToCenter:
		w := newSpiralWalker(q.width, q.height)
		all := make([]Position, 0, q.Len())
		for p, ok := w.next(); ok; p, ok = w.next() {
			all = append(all, p)
		}
		for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
			all[i], all[j] = all[j], all[i]
		}
		q.buffered = all
	}
}

// Next returns the next position, or false once all cells have been produced.
func (q *Sequencer) Next() (Position, bool) {
	switch q.strategy {
	case SpiralFromCenter:
		return q.spiral.next()
	case Random, SpiralToCenter:
		if q.index >= len(q.buffered) {
			return Position{}, false
		}
		p := q.buffered[q.index]
		q.index++
		return p, true
	}

	if q.index >= q.Len() {
		return Position{}, false
	}
	i := q.index
	q.index++

	w, h := q.width, q.height
	switch q.strategy {
	case Down:
		return Position{X: i % w, Y: i / w}, true
	case Up:
		return Position{X: i % w, Y: h - 1 - i/w}, true
	case Left:
		return Position{X: i / h, Y: i % h}, true
	default: // Right
		return Position{X: w - 1 - i/h, Y: i % h}, true
	}
}

// Positions returns an iterator over the cells of a width x height grid in
// strategy order. Each range loop starts a new sequence.
func Positions(width, height int, s Strategy) iter.Seq[Position] {
	return func(yield func(Position) bool) {
		q := New(width, height, s)
		for p, ok := q.Next(); ok; p, ok = q.Next() {
			if !yield(p) {
				return
			}
		}
	}
}

// Collect returns the complete sequence as a slice.
func Collect(width, height int, s Strategy) []Position {
	out := make([]Position, 0, max(width, 0)*max(height, 0))
	for p := range Positions(width, height, s) {
		out = append(out, p)
	}
	return out
}

// shuffled returns all cells in row-major order permuted with Fisher-Yates.
func shuffled(width, height int) []Position {
	cells := make([]Position, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cells = append(cells, Position{X: x, Y: y})
		}
	}
	for i := len(cells) - 1; i > 0; i-- {
		j := rand.IntN(i + 1)
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}
