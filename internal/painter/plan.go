package painter

import (
	"fmt"
	"strings"
)

// PlanStrategy decides how tasks are drawn from several images.
type PlanStrategy string

const (
	// PlanAll takes one task from each image in turn.
	PlanAll PlanStrategy = "ALL"
	// PlanPercentage always serves the least complete image.
	PlanPercentage PlanStrategy = "PERCENTAGE"
	// PlanSequential finishes images one after another in fleet order.
	PlanSequential PlanStrategy = "SEQUENTIAL"
)

// ParsePlanStrategy parses a case-insensitive plan strategy name.
func ParsePlanStrategy(name string) (PlanStrategy, error) {
	switch s := PlanStrategy(strings.ToUpper(name)); s {
	case PlanAll, PlanPercentage, PlanSequential:
		return s, nil
	}
	return "", fmt.Errorf("unknown plan strategy %q (valid: ALL, PERCENTAGE, SEQUENTIAL)", name)
}

// PlannedTask is a task attributed to the image it came from.
type PlannedTask struct {
	ImageID string `json:"imageId"`
	Task
}

// Plan picks up to n tasks across the fleet. Planning reads the current
// queues and never modifies them. n is capped at the fleet's pending total.
func (f *Fleet) Plan(s PlanStrategy, n int) ([]PlannedTask, error) {
	n = min(n, f.pending())
	if n <= 0 {
		return nil, nil
	}
	switch s {
	case PlanSequential:
		return f.planSequential(n), nil
	case PlanAll:
		return f.planRoundRobin(n), nil
	case PlanPercentage:
		return f.planPercentage(n), nil
	}
	return nil, fmt.Errorf("unknown plan strategy %q", s)
}

func (f *Fleet) pending() int {
	total := 0
	for _, img := range f.images {
		total += len(img.tasks)
	}
	return total
}

func (f *Fleet) planSequential(n int) []PlannedTask {
	out := make([]PlannedTask, 0, n)
	for _, img := range f.images {
		for _, t := range img.tasks {
			if len(out) == n {
				return out
			}
			out = append(out, PlannedTask{ImageID: img.ID, Task: t})
		}
	}
	return out
}

func (f *Fleet) planRoundRobin(n int) []PlannedTask {
	out := make([]PlannedTask, 0, n)
	cursor := make([]int, len(f.images))
	for len(out) < n {
		progressed := false
		for i, img := range f.images {
			if len(out) == n {
				break
			}
			if cursor[i] >= len(img.tasks) {
				continue
			}
			out = append(out, PlannedTask{ImageID: img.ID, Task: img.tasks[cursor[i]]})
			cursor[i]++
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return out
}

func (f *Fleet) planPercentage(n int) []PlannedTask {
	out := make([]PlannedTask, 0, n)
	cursor := make([]int, len(f.images))
	for len(out) < n {
		best := -1
		var bestDone, bestTotal int
		for i, img := range f.images {
			if cursor[i] >= len(img.tasks) {
				continue
			}
			total := img.bitmap.Area()
			done := total - len(img.tasks) + cursor[i]
			// done/total < bestDone/bestTotal, without floats
			if best < 0 || done*bestTotal < bestDone*total {
				best, bestDone, bestTotal = i, done, total
			}
		}
		if best < 0 {
			break
		}
		img := f.images[best]
		out = append(out, PlannedTask{ImageID: img.ID, Task: img.tasks[cursor[best]]})
		cursor[best]++
	}
	return out
}
