package strategy

// East, South, West, North
var spiralDirections = [4]Position{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 0, Y: -1}}

// spiralWalker walks an outward square spiral from the grid center and emits
// each in-bounds cell the first time it is reached. The run length starts at
// 1 and grows by 1 after every second turn.
type spiralWalker struct {
	width, height int
	total         int
	count         int

	x, y      int
	direction int
	steps     int // run length of the current leg
	taken     int // steps taken on the current leg
	legs      int // legs completed at the current run length

	visited []bool
}

func newSpiralWalker(width, height int) *spiralWalker {
	return &spiralWalker{
		width:   width,
		height:  height,
		total:   width * height,
		x:       width / 2,
		y:       height / 2,
		steps:   1,
		visited: make([]bool, width*height),
	}
}

func (w *spiralWalker) inBounds(x, y int) bool {
	return x >= 0 && x < w.width && y >= 0 && y < w.height
}

func (w *spiralWalker) next() (Position, bool) {
	for w.count < w.total {
		if w.taken == w.steps {
			w.direction = (w.direction + 1) % 4
			w.taken = 0
			w.legs++
			if w.legs == 2 {
				w.legs = 0
				w.steps++
			}
			continue
		}

		x, y := w.x, w.y
		d := spiralDirections[w.direction]
		w.x += d.X
		w.y += d.Y
		w.taken++

		if !w.inBounds(x, y) {
			continue
		}
		i := y*w.width + x
		if w.visited[i] {
			continue
		}
		w.visited[i] = true
		w.count++
		return Position{X: x, Y: y}, true
	}
	return Position{}, false
}
