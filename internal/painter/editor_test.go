package painter

import (
	"errors"
	"testing"

	"github.com/ironsheep/canvas-painter-mcp/internal/canvas"
)

func TestParseHandle(t *testing.T) {
	tests := []struct {
		in      string
		want    Handle
		wantErr bool
	}{
		{"", 0, false},
		{"move", 0, false},
		{"n", HandleNorth, false},
		{"North", HandleNorth, false},
		{"se", HandleSouth | HandleEast, false},
		{"WN", HandleNorth | HandleWest, false},
		{"ns", 0, true},
		{"ew", 0, true},
		{"nn", 0, true},
		{"x", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseHandle(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHandle(%q): error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHandle(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResize(t *testing.T) {
	origin := Box{X: 10, Y: 20, Width: 8, Height: 6}
	tests := []struct {
		name   string
		handle Handle
		dx, dy int
		want   Box
	}{
		{"move", 0, 3, -2, Box{13, 18, 8, 6}},
		{"north", HandleNorth, 5, 3, Box{10, 23, 8, 3}},
		{"south", HandleSouth, 5, 3, Box{10, 20, 8, 9}},
		{"east", HandleEast, 2, 9, Box{10, 20, 10, 6}},
		{"west", HandleWest, 2, 9, Box{12, 20, 6, 6}},
		{"north-west", HandleNorth | HandleWest, -1, -1, Box{9, 19, 9, 7}},
		{"south clamps", HandleSouth, 0, -50, Box{10, 20, 8, 1}},
		{"north clamps", HandleNorth, 0, 50, Box{10, 25, 8, 1}},
		{"west clamps", HandleWest, 50, 0, Box{17, 20, 1, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resize(origin, tt.handle, tt.dx, tt.dy); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEditor_NorthResize(t *testing.T) {
	img := newTestImage(t, [][]int{{1, 1}, {1, 1}, {5, 5}, {5, 5}, {5, 5}, {5, 5}}, canvas.Point{X: 4, Y: 10})
	e := img.Editor()

	if err := e.BeginResize(HandleNorth, 100, 200, 2); err != nil {
		t.Fatalf("BeginResize failed: %v", err)
	}
	// 6 pointer units at 2 units per pixel: dy = 3
	preview, err := e.Move(100.4, 206)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if want := (Box{X: 4, Y: 13, Width: 2, Height: 3}); preview != want {
		t.Errorf("preview: got %+v, want %+v", preview, want)
	}
	if img.Anchor != (canvas.Point{X: 4, Y: 10}) || img.Bitmap().Height() != 6 {
		t.Error("Move must not modify the image")
	}

	box, err := e.End()
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if box != (Box{X: 4, Y: 13, Width: 2, Height: 3}) {
		t.Errorf("committed box: got %+v", box)
	}
	if img.Anchor != (canvas.Point{X: 4, Y: 13}) {
		t.Errorf("anchor: got %v", img.Anchor)
	}
	if img.Bitmap().Width() != 2 || img.Bitmap().Height() != 3 {
		t.Errorf("bitmap: got %dx%d, want 2x3", img.Bitmap().Width(), img.Bitmap().Height())
	}
	if e.Active() {
		t.Error("editor should be idle after End")
	}
}

func TestEditor_Move(t *testing.T) {
	img := newTestImage(t, [][]int{{1, 2}}, canvas.Point{})
	e := img.Editor()
	if err := e.Begin(0, 0, 0); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if _, err := e.Move(2.6, -1.4); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	box, err := e.End()
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if box != (Box{X: 3, Y: -1, Width: 2, Height: 1}) {
		t.Errorf("box: got %+v", box)
	}
	if img.Bitmap().Width() != 2 {
		t.Error("plain move must not resample")
	}
}

func TestEditor_EndWithoutMoveKeepsGeometry(t *testing.T) {
	img := newTestImage(t, [][]int{{1, 2}}, canvas.Point{X: 5, Y: 5})
	e := img.Editor()
	if err := e.BeginResize(HandleEast, 0, 0, 1); err != nil {
		t.Fatalf("BeginResize failed: %v", err)
	}
	box, err := e.End()
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if box != img.Bounds() || box != (Box{X: 5, Y: 5, Width: 2, Height: 1}) {
		t.Errorf("box: got %+v", box)
	}
}

func TestEditor_Locked(t *testing.T) {
	img := newTestImage(t, [][]int{{1}}, canvas.Point{})
	img.Lock = true
	e := img.Editor()
	if err := e.Begin(0, 0, 1); !errors.Is(err, ErrLocked) {
		t.Errorf("Begin on locked image: got %v, want ErrLocked", err)
	}
	if err := e.BeginResize(HandleSouth, 0, 0, 1); !errors.Is(err, ErrLocked) {
		t.Errorf("BeginResize on locked image: got %v, want ErrLocked", err)
	}
}

func TestEditor_NoSession(t *testing.T) {
	e := newTestImage(t, [][]int{{1}}, canvas.Point{}).Editor()
	if _, err := e.Move(1, 1); !errors.Is(err, ErrNoSession) {
		t.Errorf("Move while idle: got %v", err)
	}
	if _, err := e.End(); !errors.Is(err, ErrNoSession) {
		t.Errorf("End while idle: got %v", err)
	}
}

func TestEditor_CancelAndDestroy(t *testing.T) {
	img := newTestImage(t, [][]int{{1}}, canvas.Point{})
	e := img.Editor()
	if err := e.Begin(0, 0, 1); err != nil {
		t.Fatal(err)
	}
	e.Move(10, 10)
	e.Cancel()
	if e.Active() || img.Anchor != (canvas.Point{}) {
		t.Error("Cancel should leave the image untouched")
	}

	if err := e.Begin(0, 0, 1); err != nil {
		t.Fatal(err)
	}
	img.Destroy()
	if e.Active() {
		t.Error("Destroy should drop the active session")
	}
}
