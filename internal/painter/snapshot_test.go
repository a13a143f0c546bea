package painter

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/ironsheep/canvas-painter-mcp/internal/canvas"
	"github.com/ironsheep/canvas-painter-mcp/internal/palette"
	"github.com/ironsheep/canvas-painter-mcp/internal/strategy"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	img := newTestImage(t, [][]int{{1, 2, 2}, {0, 3, 3}}, canvas.Point{X: 7, Y: -3})
	img.ID = "abc"
	img.Strategy = strategy.Left
	img.Opacity = 80
	img.DrawTransparentPixels = true
	img.DrawColorsInOrder = true
	img.Lock = true
	img.Colors.Reorder(2, 0)
	img.Colors.Toggle(1)

	snap, err := img.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	for _, key := range []string{`"pixels"`, `"position":{"x":7,"y":-3}`, `"strategy":"LEFT"`, `"opacity":80`, `"drawTransparentPixels":true`, `"drawColorsInOrder":true`, `"lock":true`, `"disabled":true`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("snapshot JSON missing %s: %s", key, data)
		}
	}

	parsed, err := ParseSnapshot(data)
	if err != nil {
		t.Fatalf("ParseSnapshot failed: %v", err)
	}
	back, err := FromSnapshot(parsed, palette.Default())
	if err != nil {
		t.Fatalf("FromSnapshot failed: %v", err)
	}

	if back.ID != "abc" || back.Anchor != img.Anchor || back.Strategy != strategy.Left ||
		back.Opacity != 80 || !back.DrawTransparentPixels || !back.DrawColorsInOrder || !back.Lock {
		t.Errorf("settings not restored: %+v", back)
	}
	if !slices.Equal(back.Colors.Entries(), img.Colors.Entries()) {
		t.Errorf("colors: got %+v, want %+v", back.Colors.Entries(), img.Colors.Entries())
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if back.Bitmap().At(x, y) != img.Bitmap().At(x, y) {
				t.Errorf("bitmap (%d,%d): got %d, want %d", x, y, back.Bitmap().At(x, y), img.Bitmap().At(x, y))
			}
		}
	}
}

func TestFromSnapshot_HealsStaleColors(t *testing.T) {
	img := newTestImage(t, [][]int{{1, 2}}, canvas.Point{})
	snap, err := img.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	snap.Colors = palette.NewOrder([]palette.Entry{{RealColor: 9, Disabled: true}})

	back, err := FromSnapshot(snap, palette.Default())
	if err != nil {
		t.Fatalf("FromSnapshot failed: %v", err)
	}
	if back.Colors.Len() != 2 || len(back.Colors.Disabled()) != 0 {
		t.Errorf("stale order not rebuilt: %+v", back.Colors.Entries())
	}
}

func TestFromSnapshot_Resized(t *testing.T) {
	img := newTestImage(t, [][]int{{1, 2}}, canvas.Point{})
	if err := img.SetSize(4, 2); err != nil {
		t.Fatal(err)
	}
	snap, err := img.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	back, err := FromSnapshot(snap, palette.Default())
	if err != nil {
		t.Fatalf("FromSnapshot failed: %v", err)
	}
	if back.Bitmap().Width() != 4 || back.Bitmap().Height() != 2 {
		t.Errorf("size: got %dx%d, want 4x2", back.Bitmap().Width(), back.Bitmap().Height())
	}
	back.ResetSize()
	if back.Bitmap().Width() != 2 {
		t.Error("natural raster should be kept in snapshots")
	}
}

func TestFromSnapshot_Invalid(t *testing.T) {
	img := newTestImage(t, [][]int{{1}}, canvas.Point{})
	base, err := img.Snapshot()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		mutate func(s *Snapshot)
	}{
		{"bad strategy", func(s *Snapshot) { s.Strategy = "SIDEWAYS" }},
		{"opacity too high", func(s *Snapshot) { s.Opacity = 101 }},
		{"negative size", func(s *Snapshot) { s.Pixels.Width = -1 }},
		{"oversized", func(s *Snapshot) { s.Pixels.Width, s.Pixels.Height = MaxSide+1, 1 }},
		{"corrupt raster", func(s *Snapshot) { s.Pixels.Source = "not base64!" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := *base
			tt.mutate(&s)
			if _, err := FromSnapshot(&s, palette.Default()); err == nil {
				t.Error("expected an error")
			}
		})
	}

	s := *base
	s.Pixels.Source = ""
	if _, err := FromSnapshot(&s, palette.Default()); !errors.Is(err, ErrNoImageSelected) {
		t.Errorf("empty source: got %v, want ErrNoImageSelected", err)
	}
}

func TestParseSnapshot_Invalid(t *testing.T) {
	if _, err := ParseSnapshot([]byte(`{"pixels":`)); err == nil {
		t.Error("expected an error for truncated JSON")
	}
}
