package painter

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/canvas-painter-mcp/internal/canvas"
	"github.com/ironsheep/canvas-painter-mcp/internal/imaging"
	"github.com/ironsheep/canvas-painter-mcp/internal/palette"
	"github.com/ironsheep/canvas-painter-mcp/internal/strategy"
)

// rasterOf paints each palette index of rows as one pixel; index 0 becomes a
// fully transparent pixel.
func rasterOf(pal *palette.Palette, rows [][]int) *image.NRGBA {
	h := len(rows)
	w := 0
	if h > 0 {
		w = len(rows[0])
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y, row := range rows {
		for x, idx := range row {
			if idx == palette.Transparent {
				continue
			}
			c := pal.Color(idx)
			img.SetNRGBA(x, y, color.NRGBA{c.R, c.G, c.B, 255})
		}
	}
	return img
}

// newTestImage builds an image at anchor whose bitmap is exactly rows.
func newTestImage(t *testing.T, rows [][]int, anchor canvas.Point) *Image {
	t.Helper()
	pal := palette.Default()
	img, err := NewImage(imaging.NewSource(rasterOf(pal, rows)), pal, anchor)
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}
	return img
}

func TestNewImage_NoSource(t *testing.T) {
	if _, err := NewImage(nil, palette.Default(), canvas.Point{}); err != ErrNoImageSelected {
		t.Errorf("NewImage(nil): got %v, want ErrNoImageSelected", err)
	}
}

func TestNewImage_Defaults(t *testing.T) {
	img := newTestImage(t, [][]int{{1, 1}, {5, 0}}, canvas.Point{X: 3, Y: 4})
	if img.Strategy != strategy.Default || img.Opacity != DefaultOpacity {
		t.Errorf("defaults: strategy %s, opacity %d", img.Strategy, img.Opacity)
	}
	if img.Bitmap().At(0, 1) != 5 || img.Bitmap().At(1, 1) != 0 {
		t.Errorf("bitmap: got %d and %d", img.Bitmap().At(0, 1), img.Bitmap().At(1, 1))
	}
	entries := img.Colors.Entries()
	if len(entries) != 2 || entries[0].RealColor != 1 || entries[1].RealColor != 5 {
		t.Errorf("default order: got %+v", entries)
	}
}

func TestRecompute_DownScenario(t *testing.T) {
	img := newTestImage(t, [][]int{{1, 2}, {0, 3}}, canvas.Point{})
	img.Strategy = strategy.Down

	got := img.Recompute(canvas.NewMemory())

	want := []Task{
		{Position: canvas.Point{X: 0, Y: 0}, Color: 1},
		{Position: canvas.Point{X: 1, Y: 0}, Color: 2},
		{Position: canvas.Point{X: 1, Y: 1}, Color: 3},
	}
	assertTasks(t, got, want)
}

func assertTasks(t *testing.T, got, want []Task) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d tasks %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("task %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRecompute_AnchorOffset(t *testing.T) {
	img := newTestImage(t, [][]int{{4}}, canvas.Point{X: 100, Y: -7})
	got := img.Recompute(canvas.NewMemory())
	assertTasks(t, got, []Task{{Position: canvas.Point{X: 100, Y: -7}, Color: 4}})
}

func TestRecompute_MatchingCanvasIsEmpty(t *testing.T) {
	rows := [][]int{{1, 2, 3}, {4, 5, 6}}
	img := newTestImage(t, rows, canvas.Point{X: 10, Y: 20})

	state := canvas.NewMemory()
	for y, row := range rows {
		for x, c := range row {
			state.Set(canvas.Point{X: 10 + x, Y: 20 + y}, c)
		}
	}
	for _, s := range strategy.All() {
		img.Strategy = s
		if got := img.Recompute(state); len(got) != 0 {
			t.Errorf("%s: expected empty queue, got %v", s, got)
		}
	}
}

func TestRecompute_Transparent(t *testing.T) {
	img := newTestImage(t, [][]int{{0, 1}}, canvas.Point{})
	img.Strategy = strategy.Down
	state := canvas.NewMemory()
	state.Set(canvas.Point{X: 0, Y: 0}, 7)

	if got := img.Recompute(state); len(got) != 1 || got[0].Color != 1 {
		t.Errorf("without transparent drawing: got %v", got)
	}

	img.DrawTransparentPixels = true
	got := img.Recompute(state)
	assertTasks(t, got, []Task{
		{Position: canvas.Point{X: 0, Y: 0}, Color: 0},
		{Position: canvas.Point{X: 1, Y: 0}, Color: 1},
	})
}

func TestRecompute_DisabledColors(t *testing.T) {
	img := newTestImage(t, [][]int{{1, 2}, {2, 3}}, canvas.Point{})
	// order by count: 2, 1, 3
	img.Colors.Toggle(0)

	for _, task := range img.Recompute(canvas.NewMemory()) {
		if task.Color == 2 {
			t.Fatalf("disabled color produced task %v", task)
		}
	}
	if img.Pending() != 2 {
		t.Errorf("Pending: got %d, want 2", img.Pending())
	}
}

func TestRecompute_ColorsInOrder(t *testing.T) {
	img := newTestImage(t, [][]int{{3, 1, 3}, {1, 5, 1}}, canvas.Point{})
	img.Strategy = strategy.Down
	img.DrawColorsInOrder = true
	// default order is 1 (3 px), 3 (2 px), 5 (1 px); move 5 to the front
	img.Colors.Reorder(2, 0)

	got := img.Recompute(canvas.NewMemory())
	want := []Task{
		{Position: canvas.Point{X: 1, Y: 1}, Color: 5},
		{Position: canvas.Point{X: 1, Y: 0}, Color: 1},
		{Position: canvas.Point{X: 0, Y: 1}, Color: 1},
		{Position: canvas.Point{X: 2, Y: 1}, Color: 1},
		{Position: canvas.Point{X: 0, Y: 0}, Color: 3},
		{Position: canvas.Point{X: 2, Y: 0}, Color: 3},
	}
	assertTasks(t, got, want)
}

func TestRecompute_ReplacesQueue(t *testing.T) {
	img := newTestImage(t, [][]int{{1, 2}}, canvas.Point{})
	state := canvas.NewMemory()
	img.Recompute(state)
	if img.Pending() != 2 {
		t.Fatalf("Pending: got %d, want 2", img.Pending())
	}

	state.Set(canvas.Point{X: 0, Y: 0}, 1)
	img.Recompute(state)
	if img.Pending() != 1 {
		t.Errorf("after painting one cell: got %d, want 1", img.Pending())
	}
}

func TestRecompute_ZeroArea(t *testing.T) {
	img := newTestImage(t, [][]int{}, canvas.Point{})
	if got := img.Recompute(canvas.NewMemory()); len(got) != 0 {
		t.Errorf("zero-area image: got %v", got)
	}
	if p := img.Progress(0); p.Percent != 0 || p.Total != 0 {
		t.Errorf("zero-area progress: got %+v", p)
	}
}

func TestRecompute_NotifiesSubscribers(t *testing.T) {
	img := newTestImage(t, [][]int{{1}}, canvas.Point{})
	calls := 0
	cancel := img.Subscribe(func(*Image) { calls++ })

	img.Recompute(canvas.NewMemory())
	cancel()
	img.Recompute(canvas.NewMemory())

	if calls != 1 {
		t.Errorf("subscriber calls: got %d, want 1", calls)
	}
}

func TestImage_SetSizeResyncsColors(t *testing.T) {
	img := newTestImage(t, [][]int{{1, 5}, {5, 5}}, canvas.Point{})
	img.Colors.Toggle(1)

	if err := img.SetSize(4, 4); err != nil {
		t.Fatalf("SetSize failed: %v", err)
	}
	if img.Bitmap().Width() != 4 || img.Bitmap().Height() != 4 {
		t.Fatalf("bitmap size: got %dx%d", img.Bitmap().Width(), img.Bitmap().Height())
	}
	// same color set: order kept
	if !img.Colors.Disabled()[1] {
		t.Error("SetSize with unchanged colors should keep the order")
	}

	if err := img.SetSize(1, 1); err != nil {
		t.Fatalf("SetSize failed: %v", err)
	}
	entries := img.Colors.Entries()
	if len(entries) != 1 || entries[0].RealColor != img.Bitmap().At(0, 0) || entries[0].Disabled {
		t.Errorf("after shrinking: got %+v", entries)
	}

	img.ResetSize()
	if img.Bitmap().Width() != 2 || img.Colors.Len() != 2 {
		t.Errorf("after reset: %dx%d, %d colors", img.Bitmap().Width(), img.Bitmap().Height(), img.Colors.Len())
	}
}

func TestImage_SetSizeInvalid(t *testing.T) {
	img := newTestImage(t, [][]int{{1}}, canvas.Point{})
	if err := img.SetSize(0, 3); err == nil {
		t.Error("SetSize(0, 3) should fail")
	}
	if err := img.SetSize(MaxSide+1, 1); err == nil {
		t.Errorf("SetSize(%d, 1) should fail", MaxSide+1)
	}
}

func TestImage_SetBrightness(t *testing.T) {
	img := newTestImage(t, [][]int{{3, 3}}, canvas.Point{})
	img.SetBrightness(100)
	if img.Bitmap().At(0, 0) != 5 {
		t.Errorf("gray at +100%% brightness: got %d, want 5", img.Bitmap().At(0, 0))
	}
	if img.Colors.Len() != 1 || img.Colors.Entries()[0].RealColor != 5 {
		t.Errorf("color order not rebuilt: %+v", img.Colors.Entries())
	}
	img.SetBrightness(500)
	if img.Source().Brightness != imaging.MaxBrightness {
		t.Errorf("brightness not clamped: %v", img.Source().Brightness)
	}
}

func TestImage_SetStrategy(t *testing.T) {
	img := newTestImage(t, [][]int{{1}}, canvas.Point{})
	if err := img.SetStrategy(strategy.Up); err != nil || img.Strategy != strategy.Up {
		t.Errorf("SetStrategy(UP): %v, %s", err, img.Strategy)
	}
	if err := img.SetStrategy("DIAGONAL"); err == nil {
		t.Error("SetStrategy should reject unknown strategies")
	}
	img.SetOpacity(140)
	if img.Opacity != 100 {
		t.Errorf("opacity not clamped: %d", img.Opacity)
	}
}

func TestImage_Destroy(t *testing.T) {
	img := newTestImage(t, [][]int{{1}}, canvas.Point{})
	img.Recompute(canvas.NewMemory())
	released := 0
	img.OnRelease(func() { released++ })

	img.Destroy()
	img.Destroy()

	if released != 1 {
		t.Errorf("release actions: got %d runs, want 1", released)
	}
	if img.Pending() != 0 || !img.Destroyed() {
		t.Error("Destroy should discard the queue")
	}
}
