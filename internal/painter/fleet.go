package painter

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/ironsheep/canvas-painter-mcp/internal/canvas"
)

// Sink persists fleet state. Fleet calls it after every mutation and returns
// its errors unchanged.
type Sink interface {
	Save(img *Image) error
	Remove(id string) error
	SaveOrder(ids []string) error
}

type nopSink struct{}

func (nopSink) Save(*Image) error        { return nil }
func (nopSink) Remove(string) error      { return nil }
func (nopSink) SaveOrder([]string) error { return nil }

// Fleet is the ordered collection of active images.
type Fleet struct {
	sink      Sink
	rate      int
	images    []*Image
	listeners []func(Progress)
}

// NewFleet creates an empty fleet persisting to sink. A nil sink discards
// state; rate is the pixels-per-hour used for ETAs.
func NewFleet(sink Sink, rate int) *Fleet {
	if sink == nil {
		sink = nopSink{}
	}
	if rate <= 0 {
		rate = DefaultRate
	}
	return &Fleet{sink: sink, rate: rate}
}

// Rate returns the pixels-per-hour used for ETAs.
func (f *Fleet) Rate() int { return f.rate }

// Len returns the number of images.
func (f *Fleet) Len() int { return len(f.images) }

// Images returns the images in fleet order.
func (f *Fleet) Images() []*Image {
	return slices.Clone(f.images)
}

// IDs returns the image IDs in fleet order.
func (f *Fleet) IDs() []string {
	ids := make([]string, len(f.images))
	for i, img := range f.images {
		ids[i] = img.ID
	}
	return ids
}

// Get returns the image with the given ID.
func (f *Fleet) Get(id string) (*Image, error) {
	if i := f.index(id); i >= 0 {
		return f.images[i], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrImageNotFound, id)
}

func (f *Fleet) index(id string) int {
	return slices.IndexFunc(f.images, func(img *Image) bool { return img.ID == id })
}

// Add appends img to the fleet, assigning an ID if it has none, and persists
// it.
func (f *Fleet) Add(img *Image) error {
	if img.ID == "" {
		img.ID = f.newID()
	} else if f.index(img.ID) >= 0 {
		return fmt.Errorf("image %s already in fleet", img.ID)
	}
	f.attach(img)
	if err := f.sink.Save(img); err != nil {
		return err
	}
	return f.sink.SaveOrder(f.IDs())
}

// Restore appends a previously persisted image. The image is saved again
// only when its color order was rebuilt while loading.
func (f *Fleet) Restore(img *Image) error {
	if img.ID == "" || f.index(img.ID) >= 0 {
		return fmt.Errorf("cannot restore image with ID %q", img.ID)
	}
	f.attach(img)
	if !img.colorsRebuilt {
		return nil
	}
	if err := f.sink.Save(img); err != nil {
		return err
	}
	img.colorsRebuilt = false
	return nil
}

func (f *Fleet) attach(img *Image) {
	f.images = append(f.images, img)
	img.OnRelease(img.Subscribe(func(*Image) { f.notify() }))
}

func (f *Fleet) newID() string {
	for {
		var b [4]byte
		if _, err := rand.Read(b[:]); err != nil {
			panic(fmt.Sprintf("painter: failed to generate image ID: %v", err))
		}
		id := hex.EncodeToString(b[:])
		if f.index(id) < 0 {
			return id
		}
	}
}

// Remove destroys the image and drops it from the fleet.
func (f *Fleet) Remove(id string) error {
	i := f.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrImageNotFound, id)
	}
	img := f.images[i]
	f.images = slices.Delete(f.images, i, i+1)
	img.Destroy()
	f.notify()

	if err := f.sink.Remove(id); err != nil {
		return err
	}
	return f.sink.SaveOrder(f.IDs())
}

// Swap exchanges the images at fleet positions i and j.
func (f *Fleet) Swap(i, j int) error {
	if i < 0 || i >= len(f.images) || j < 0 || j >= len(f.images) {
		return fmt.Errorf("swap %d<->%d out of range [0,%d)", i, j, len(f.images))
	}
	f.images[i], f.images[j] = f.images[j], f.images[i]
	return f.sink.SaveOrder(f.IDs())
}

// Mutate applies fn to the image with the given ID and persists the result.
// Nothing is saved if fn fails.
func (f *Fleet) Mutate(id string, fn func(img *Image) error) error {
	img, err := f.Get(id)
	if err != nil {
		return err
	}
	if err := fn(img); err != nil {
		return err
	}
	return f.sink.Save(img)
}

// RecomputeAll rebuilds every queue against state, in fleet order.
func (f *Fleet) RecomputeAll(state canvas.MapStateProvider) {
	for _, img := range f.images {
		img.Recompute(state)
	}
}

// Progress returns the fleet-wide summary.
func (f *Fleet) Progress() Progress {
	return FleetProgress(f.images, f.rate)
}

// OnProgress registers fn to receive the fleet summary whenever a queue
// changes or an image is removed.
func (f *Fleet) OnProgress(fn func(Progress)) {
	f.listeners = append(f.listeners, fn)
}

func (f *Fleet) notify() {
	if len(f.listeners) == 0 {
		return
	}
	p := f.Progress()
	for _, fn := range f.listeners {
		fn(p)
	}
}
