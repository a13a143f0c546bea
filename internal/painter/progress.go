package painter

// DefaultRate is the assumed number of pixels painted per hour, used for ETAs
// when no rate is configured.
const DefaultRate = 120

// Progress summarizes how much of one image, or of a whole fleet, is done.
type Progress struct {
	Done     int `json:"done"`
	Total    int `json:"total"`
	Percent  int `json:"percent"`
	ETAHours int `json:"etaHours"`
}

// Summarize derives a Progress from a cell total and a pending queue length.
// A rate <= 0 uses DefaultRate.
func Summarize(total, pending, rate int) Progress {
	if rate <= 0 {
		rate = DefaultRate
	}
	done := max(total-pending, 0)
	p := Progress{Done: done, Total: total, ETAHours: pending / rate}
	if total > 0 {
		p.Percent = done * 100 / total
	}
	return p
}

// Progress returns the image's own summary.
func (img *Image) Progress(rate int) Progress {
	return Summarize(img.bitmap.Area(), len(img.tasks), rate)
}

// FleetProgress sums areas and queue lengths over images.
func FleetProgress(images []*Image, rate int) Progress {
	var total, pending int
	for _, img := range images {
		total += img.bitmap.Area()
		pending += len(img.tasks)
	}
	return Summarize(total, pending, rate)
}
