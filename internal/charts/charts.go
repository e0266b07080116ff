// Package charts shapes project aggregates into label/value series for the
// four dashboard charts. Values stay in USD; callers format them.
package charts

import (
	"cmp"
	"slices"

	"earnings/internal/core"
	"earnings/internal/metrics"
)

type (
	ID   string
	Kind string
)

const (
	Growth       ID = "growth"
	Distribution ID = "distribution"
	Client       ID = "client"
	Team         ID = "team"
)

const (
	Line     Kind = "line"
	Bar      Kind = "bar"
	Doughnut Kind = "doughnut"
)

// DistributionMonths is the number of most recent months in the distribution chart.
const DistributionMonths = 6

// Palette colours client ranks, first colour for the top client.
var Palette = []string{"#4F46E5", "#6366F1", "#818CF8", "#A5B4FC", "#C7D2FE"}

type (
	Point struct {
		Label    string  `json:"label"`
		ValueUSD float64 `json:"value_usd"`
	}

	Series struct {
		ID     ID       `json:"id"`
		Kind   Kind     `json:"kind"`
		Label  string   `json:"label,omitempty"`
		Points []Point  `json:"points"`
		Colors []string `json:"colors,omitempty"`
	}

	LegendEntry struct {
		Label string `json:"label"`
		Color string `json:"color"`
	}

	// Set holds every chart of one dashboard cycle.
	Set struct {
		Series map[ID]Series
		Legend []LegendEntry
	}
)

// Labels returns the point labels in order.
func (s Series) Labels() []string {
	out := make([]string, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Label
	}
	return out
}

// Values returns the point values in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.ValueUSD
	}
	return out
}

// Build derives all charts. filtered is the window-filtered subset; summary
// supplies the client and team rollups.
func Build(filtered []core.Project, summary metrics.Summary) Set {
	client, legend := ClientSeries(summary.Clients)
	return Set{
		Series: map[ID]Series{
			Growth:       GrowthSeries(filtered),
			Distribution: DistributionSeries(filtered),
			Client:       client,
			Team:         TeamSeries(summary.Team),
		},
		Legend: legend,
	}
}

// GrowthSeries is the running revenue total at the end of each month that has
// projects, labelled "Jan 24".
func GrowthSeries(projects []core.Project) Series {
	s := Series{ID: Growth, Kind: Line, Label: "Cumulative Revenue", Points: []Point{}}
	var running float64
	for _, m := range chronological(projects) {
		running += m.AmountUSD
		s.Points = append(s.Points, Point{Label: m.Month.ShortLabel(), ValueUSD: running})
	}
	return s
}

// DistributionSeries is the revenue of each of the last DistributionMonths
// months with projects, labelled "Jan".
func DistributionSeries(projects []core.Project) Series {
	months := chronological(projects)
	months = months[max(0, len(months)-DistributionMonths):]

	s := Series{ID: Distribution, Kind: Bar, Label: "Revenue", Points: make([]Point, 0, len(months))}
	for _, m := range months {
		s.Points = append(s.Points, Point{Label: m.Month.MonthLabel(), ValueUSD: m.AmountUSD})
	}
	return s
}

// ClientSeries colours clients by rank. The legend mirrors the series.
func ClientSeries(top []metrics.ClientTotal) (Series, []LegendEntry) {
	s := Series{ID: Client, Kind: Doughnut, Points: make([]Point, 0, len(top)), Colors: make([]string, 0, len(top))}
	legend := make([]LegendEntry, 0, len(top))
	for i, c := range top {
		color := Palette[i%len(Palette)]
		s.Points = append(s.Points, Point{Label: c.Client, ValueUSD: c.AmountUSD})
		s.Colors = append(s.Colors, color)
		legend = append(legend, LegendEntry{Label: c.Client, Color: color})
	}
	return s, legend
}

// TeamSeries ranks members by revenue, labelled by first name. Equal revenue
// keeps roster order.
func TeamSeries(team []metrics.MemberTotal) Series {
	ranked := slices.Clone(team)
	slices.SortStableFunc(ranked, func(a, b metrics.MemberTotal) int {
		return cmp.Compare(b.AmountUSD, a.AmountUSD)
	})
	s := Series{ID: Team, Kind: Bar, Label: "Total Revenue", Points: make([]Point, 0, len(ranked))}
	for _, m := range ranked {
		s.Points = append(s.Points, Point{Label: m.Member.FirstName(), ValueUSD: m.AmountUSD})
	}
	return s
}

func chronological(projects []core.Project) []metrics.MonthTotal {
	months := metrics.ByMonth(projects)
	slices.SortFunc(months, func(a, b metrics.MonthTotal) int {
		return a.Month.Compare(b.Month)
	})
	return months
}
