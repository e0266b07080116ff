package metrics

import "earnings/internal/core"

// ordered sums float amounts per key, remembering the order in which keys
// were first seen. Every tie in this package is broken by that order.
type ordered[K comparable] struct {
	keys   []K
	sums   map[K]float64
	counts map[K]int
}

func newOrdered[K comparable]() *ordered[K] {
	return &ordered[K]{sums: map[K]float64{}, counts: map[K]int{}}
}

func (o *ordered[K]) add(k K, v float64) {
	if _, seen := o.sums[k]; !seen {
		o.keys = append(o.keys, k)
	}
	o.sums[k] += v
	o.counts[k]++
}

// MonthTotal is the revenue of one calendar month.
type MonthTotal struct {
	Month     core.MonthKey
	AmountUSD float64
	Count     int
}

// ByMonth buckets projects by calendar month, in order of first appearance.
func ByMonth(projects []core.Project) []MonthTotal {
	o := newOrdered[core.MonthKey]()
	for _, p := range projects {
		o.add(core.MonthOf(p.Date.Time), p.AmountUSD)
	}
	out := make([]MonthTotal, len(o.keys))
	for i, k := range o.keys {
		out[i] = MonthTotal{Month: k, AmountUSD: o.sums[k], Count: o.counts[k]}
	}
	return out
}

// SumMonth is the revenue of projects dated in month.
func SumMonth(projects []core.Project, month core.MonthKey) float64 {
	var sum float64
	for _, p := range projects {
		if core.MonthOf(p.Date.Time) == month {
			sum += p.AmountUSD
		}
	}
	return sum
}
