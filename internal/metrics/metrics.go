// Package metrics computes the headline figures of the dashboard.
//
// Totals, averages and the client rollup are computed on the window-filtered
// projects. Growth, best month and the team rollup always look at the whole
// collection.
package metrics

import (
	"cmp"
	"slices"
	"time"

	"earnings/internal/core"
)

// TopClientCount is how many clients the client rollup keeps.
const TopClientCount = 5

// NoBestMonthLabel is shown when no month has positive revenue.
const NoBestMonthLabel = "-"

type (
	Totals struct {
		TotalUSD   float64
		Count      int
		AverageUSD float64
	}

	Growth struct {
		Current     core.MonthKey
		CurrentUSD  float64
		PreviousUSD float64
		Percent     float64
	}

	BestMonth struct {
		Month     core.MonthKey
		Label     string
		AmountUSD float64
		Found     bool
	}

	MemberTotal struct {
		Member    core.TeamMember
		Count     int
		AmountUSD float64
	}

	ClientTotal struct {
		Client    string
		Count     int
		AmountUSD float64
	}

	// Summary bundles every headline figure for one dashboard cycle.
	Summary struct {
		Totals  Totals
		Growth  Growth
		Best    BestMonth
		Team    []MemberTotal
		Clients []ClientTotal
	}
)

// Compute builds the Summary. filtered is the window-filtered subset of all.
func Compute(filtered, all []core.Project, roster []core.TeamMember, now time.Time) Summary {
	return Summary{
		Totals:  ComputeTotals(filtered),
		Growth:  MonthlyGrowth(all, now),
		Best:    ComputeBestMonth(all),
		Team:    TeamRollup(all, roster),
		Clients: TopClients(filtered, TopClientCount),
	}
}

func ComputeTotals(projects []core.Project) Totals {
	var t Totals
	for _, p := range projects {
		t.TotalUSD += p.AmountUSD
	}
	t.Count = len(projects)
	if t.Count > 0 {
		t.AverageUSD = t.TotalUSD / float64(t.Count)
	}
	return t
}

// MonthlyGrowth compares now's calendar month with the month before it.
// With no previous revenue the growth is 100 when the current month earned
// anything and 0 otherwise.
func MonthlyGrowth(all []core.Project, now time.Time) Growth {
	cur := core.MonthOf(now)
	g := Growth{
		Current:     cur,
		CurrentUSD:  SumMonth(all, cur),
		PreviousUSD: SumMonth(all, cur.Prev()),
	}
	switch {
	case g.PreviousUSD > 0:
		g.Percent = (g.CurrentUSD - g.PreviousUSD) / g.PreviousUSD * 100
	case g.CurrentUSD > 0:
		g.Percent = 100
	}
	return g
}

// ComputeBestMonth returns the month with the strictly greatest revenue.
// Months are visited in the order they first appear in all, so with the
// store's date-descending order a tie goes to the most recent month.
func ComputeBestMonth(all []core.Project) BestMonth {
	best := BestMonth{Label: NoBestMonthLabel}
	for _, m := range ByMonth(all) {
		if m.AmountUSD > best.AmountUSD {
			best = BestMonth{Month: m.Month, Label: m.Month.LongLabel(), AmountUSD: m.AmountUSD, Found: true}
		}
	}
	return best
}

// TeamRollup reports every roster member in roster order, including the ones
// without projects. Assignees missing from the roster are ignored.
func TeamRollup(all []core.Project, roster []core.TeamMember) []MemberTotal {
	out := make([]MemberTotal, len(roster))
	index := make(map[string]int, len(roster))
	for i, m := range roster {
		out[i].Member = m
		if _, dup := index[m.ID]; !dup {
			index[m.ID] = i
		}
	}
	for _, p := range all {
		if i, ok := index[p.AssignedTo]; ok {
			out[i].Count++
			out[i].AmountUSD += p.AmountUSD
		}
	}
	return out
}

// ClientRollup sums revenue per client in order of first appearance. Projects
// without a client count towards core.UnknownLabel.
func ClientRollup(projects []core.Project) []ClientTotal {
	o := newOrdered[string]()
	for _, p := range projects {
		o.add(p.ClientLabel(), p.AmountUSD)
	}
	out := make([]ClientTotal, len(o.keys))
	for i, k := range o.keys {
		out[i] = ClientTotal{Client: k, Count: o.counts[k], AmountUSD: o.sums[k]}
	}
	return out
}

// TopClients returns the n highest-earning clients. Equal sums keep their
// order of first appearance.
func TopClients(projects []core.Project, n int) []ClientTotal {
	all := ClientRollup(projects)
	slices.SortStableFunc(all, func(a, b ClientTotal) int {
		return cmp.Compare(b.AmountUSD, a.AmountUSD)
	})
	return all[:max(0, min(n, len(all)))]
}

// GrowthLabel renders a growth percentage with an explicit sign and one
// decimal: "+12.3%", "-4.0%".
func GrowthLabel(percent float64) string {
	s := core.ToFixed(percent, 1)
	if percent >= 0 {
		s = "+" + s
	}
	return s + "%"
}
