// Package window selects the projects that fall inside a time window relative
// to a reference instant.
package window

import (
	"strings"
	"time"

	"earnings/internal/core"
)

type Window string

const (
	All   Window = "all"
	Year  Window = "year"
	Month Window = "month"
	Week  Window = "week"
)

// Parse normalises a selector. Anything unrecognised is All.
func Parse(s string) Window {
	switch w := Window(strings.ToLower(strings.TrimSpace(s))); w {
	case Year, Month, Week:
		return w
	default:
		return All
	}
}

func (w Window) String() string { return string(w) }

// WeekStart is the most recent Sunday at midnight, in now's location, that is
// not after now.
func WeekStart(now time.Time) time.Time {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return midnight.AddDate(0, 0, -int(now.Weekday()))
}

// Filter returns the projects inside w. The input is never modified and the
// relative order is kept. All returns projects itself.
func Filter(projects []core.Project, w Window, now time.Time) []core.Project {
	var keep func(core.Project) bool
	switch w {
	case Year:
		keep = func(p core.Project) bool { return p.Date.Year() == now.Year() }
	case Month:
		keep = func(p core.Project) bool {
			return p.Date.Year() == now.Year() && p.Date.Time.Month() == now.Month()
		}
	case Week:
		start := WeekStart(now)
		keep = func(p core.Project) bool { return !p.Date.Before(start) }
	default:
		return projects
	}

	out := make([]core.Project, 0, len(projects))
	for _, p := range projects {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
