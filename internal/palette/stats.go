package palette

import "sort"

// ColorStat describes one distinct real color present in a bitmap.
type ColorStat struct {
	RealColor         int `json:"realColor"`
	SubstitutionColor int `json:"substitutionColor"`
	PixelCount        int `json:"pixelCount"`
}

// Substituted reports whether the painter has to use a different color.
func (s ColorStat) Substituted() bool {
	return s.RealColor != s.SubstitutionColor
}

// Stats holds the color statistics of a bitmap keyed by real color. The
// transparent index never appears in Stats.
type Stats map[int]ColorStat

// Add counts one pixel of color real, resolving its substitution on first use.
func (s Stats) Add(p *Palette, real int) {
	if real == Transparent {
		return
	}
	st, ok := s[real]
	if !ok {
		st = ColorStat{RealColor: real, SubstitutionColor: p.Substitute(real)}
	}
	st.PixelCount++
	s[real] = st
}

// Sorted returns the stats by descending pixel count; equal counts are
// ordered by ascending real color so the result is deterministic.
func (s Stats) Sorted() []ColorStat {
	out := make([]ColorStat, 0, len(s))
	for _, st := range s {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PixelCount != out[j].PixelCount {
			return out[i].PixelCount > out[j].PixelCount
		}
		return out[i].RealColor < out[j].RealColor
	})
	return out
}
