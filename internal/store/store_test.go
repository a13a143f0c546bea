package store

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ironsheep/canvas-painter-mcp/internal/canvas"
	"github.com/ironsheep/canvas-painter-mcp/internal/imaging"
	"github.com/ironsheep/canvas-painter-mcp/internal/painter"
	"github.com/ironsheep/canvas-painter-mcp/internal/palette"
	"github.com/ironsheep/canvas-painter-mcp/internal/strategy"
)

func newImage(t *testing.T, id string) *painter.Image {
	t.Helper()
	raster := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			raster.SetNRGBA(x, y, color.NRGBA{0xed, 0x1c, 0x24, 255})
		}
	}
	img, err := painter.NewImage(imaging.NewSource(raster), palette.Default(), canvas.Point{X: 4, Y: 5})
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}
	img.ID = id
	return img
}

func TestFileStore_SaveAndLoad(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "state"))
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	a := newImage(t, "a")
	a.Strategy = strategy.Up
	b := newImage(t, "b")
	for _, img := range []*painter.Image{a, b} {
		if err := s.Save(img); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}
	if err := s.SaveOrder([]string{"b", "a"}); err != nil {
		t.Fatalf("SaveOrder failed: %v", err)
	}

	snaps, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snaps) != 2 || snaps[0].ID != "b" || snaps[1].ID != "a" {
		t.Fatalf("Load order: got %d snapshots", len(snaps))
	}
	if snaps[1].Strategy != strategy.Up || snaps[1].Position != (canvas.Point{X: 4, Y: 5}) {
		t.Errorf("snapshot a: %+v", snaps[1])
	}

	back, err := painter.FromSnapshot(snaps[1], palette.Default())
	if err != nil {
		t.Fatalf("FromSnapshot failed: %v", err)
	}
	if back.Bitmap().Width() != 3 || back.Bitmap().At(2, 1) != 7 {
		t.Errorf("restored bitmap: %dx%d", back.Bitmap().Width(), back.Bitmap().Height())
	}
}

func TestFileStore_RemoveAndMissing(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(newImage(t, "a")); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveOrder([]string{"a", "ghost"}); err != nil {
		t.Fatal(err)
	}

	snaps, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snaps) != 1 || snaps[0].ID != "a" {
		t.Errorf("missing snapshots should be skipped, got %d", len(snaps))
	}

	if err := s.Remove("a"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := s.Remove("a"); err != nil {
		t.Errorf("second Remove should be a no-op: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.json")); !os.IsNotExist(err) {
		t.Error("snapshot file should be gone")
	}
}

func TestFileStore_LoadEmpty(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	snaps, err := s.Load()
	if err != nil || len(snaps) != 0 {
		t.Errorf("empty store: %v, %v", snaps, err)
	}
}

func TestFileStore_InvalidID(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(newImage(t, "../escape")); err == nil {
		t.Error("Save should reject path-like IDs")
	}
}

func TestFileStore_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveOrder(nil); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if !slices.Equal(names, []string{"fleet.json"}) {
		t.Errorf("directory contents: %v", names)
	}
}

func TestFileStore_WithFleet(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	f := painter.NewFleet(s, 0)
	if err := f.Add(newImage(t, "")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := f.Add(newImage(t, "second")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := f.Swap(0, 1); err != nil {
		t.Fatal(err)
	}

	snaps, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 2 || snaps[0].ID != "second" {
		t.Errorf("persisted fleet order wrong: %d snapshots", len(snaps))
	}
}
