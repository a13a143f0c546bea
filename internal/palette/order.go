package palette

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Entry is the enablement and priority state of one color for one image.
type Entry struct {
	RealColor int  `json:"realColor"`
	Disabled  bool `json:"disabled,omitempty"`
}

// Order is the ordered color priority list of an image. An entry's position
// is its sort key when colors are drawn in order.
//
// Order is not safe for concurrent use.
type Order struct {
	entries []Entry
}

// NewOrder creates an order holding a copy of entries. The entries are taken
// as-is; call Sync to reconcile them with a bitmap.
func NewOrder(entries []Entry) *Order {
	return &Order{entries: slices.Clone(entries)}
}

// DefaultOrder builds the default list for stats: descending pixel count,
// nothing disabled.
func DefaultOrder(stats Stats) *Order {
	sorted := stats.Sorted()
	entries := make([]Entry, len(sorted))
	for i, st := range sorted {
		entries[i] = Entry{RealColor: st.RealColor}
	}
	return &Order{entries: entries}
}

// Sync rebuilds the order from stats when the set of real colors differs from
// the stats' set. It reports whether a rebuild happened.
func (o *Order) Sync(stats Stats) bool {
	if o.matches(stats) {
		return false
	}
	o.entries = DefaultOrder(stats).entries
	return true
}

func (o *Order) matches(stats Stats) bool {
	if len(o.entries) != len(stats) {
		return false
	}
	seen := make(map[int]bool, len(o.entries))
	for _, e := range o.entries {
		if _, ok := stats[e.RealColor]; !ok || seen[e.RealColor] {
			return false
		}
		seen[e.RealColor] = true
	}
	return true
}

// Reorder removes the entry at from and reinserts it at to, shifting the
// entries in between. It panics if either index is out of range.
func (o *Order) Reorder(from, to int) {
	o.check(from)
	o.check(to)
	if from == to {
		return
	}
	e := o.entries[from]
	o.entries = slices.Delete(o.entries, from, from+1)
	o.entries = slices.Insert(o.entries, to, e)
}

// Toggle flips the disabled flag of the entry at index i.
func (o *Order) Toggle(i int) {
	o.check(i)
	o.entries[i].Disabled = !o.entries[i].Disabled
}

func (o *Order) check(i int) {
	if i < 0 || i >= len(o.entries) {
		panic(fmt.Sprintf("palette: order index %d out of range [0,%d)", i, len(o.entries)))
	}
}

// Len returns the number of entries.
func (o *Order) Len() int {
	return len(o.entries)
}

// Entries returns a copy of the ordered entries.
func (o *Order) Entries() []Entry {
	return slices.Clone(o.entries)
}

// Ranks maps each real color to its position in the order.
func (o *Order) Ranks() map[int]int {
	m := make(map[int]int, len(o.entries))
	for i, e := range o.entries {
		m[e.RealColor] = i
	}
	return m
}

// Disabled returns the set of real colors currently disabled.
func (o *Order) Disabled() map[int]bool {
	m := make(map[int]bool)
	for _, e := range o.entries {
		if e.Disabled {
			m[e.RealColor] = true
		}
	}
	return m
}

func (o *Order) MarshalJSON() ([]byte, error) {
	if o.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(o.entries)
}

func (o *Order) UnmarshalJSON(data []byte) error {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	o.entries = entries
	return nil
}
