package http

import (
	"time"

	"earnings/internal/charts"
	"earnings/internal/core"
	"earnings/internal/currency"
	"earnings/internal/metrics"
	"earnings/internal/services"
)

// dateLabelLayout renders dates as "1 Mar 2024".
const dateLabelLayout = "2 Jan 2006"

// tableClientFallback is shown in project tables for projects without a client.
const tableClientFallback = "-"

type ProjectView struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Client       string  `json:"client"`
	ClientLabel  string  `json:"clientLabel"`
	Date         string  `json:"date"`
	DateLabel    string  `json:"dateLabel"`
	AmountUSD    float64 `json:"amountUsd"`
	AmountLabel  string  `json:"amountLabel"`
	AmountInput  string  `json:"amountInput"`
	Notes        string  `json:"notes"`
	Status       string  `json:"status"`
	AssignedTo   string  `json:"assignedTo"`
	AssigneeName string  `json:"assigneeName"`
}

type MetricsView struct {
	TotalRevenue     string  `json:"totalRevenue"`
	TotalRevenueUSD  float64 `json:"totalRevenueUsd"`
	ProjectCount     int     `json:"projectCount"`
	AverageValue     string  `json:"averageValue"`
	AverageValueUSD  float64 `json:"averageValueUsd"`
	MonthlyGrowth    string  `json:"monthlyGrowth"`
	GrowthPercent    float64 `json:"growthPercent"`
	GrowthPositive   bool    `json:"growthPositive"`
	BestMonth        string  `json:"bestMonth"`
	BestMonthRevenue string  `json:"bestMonthRevenue"`
}

// ChartView keeps values in USD. TickLabels are the same values converted
// and formatted short, for axes and tooltips.
type ChartView struct {
	ID         charts.ID   `json:"id"`
	Kind       charts.Kind `json:"kind"`
	Label      string      `json:"label,omitempty"`
	Labels     []string    `json:"labels"`
	Values     []float64   `json:"values"`
	TickLabels []string    `json:"tickLabels"`
	Colors     []string    `json:"colors,omitempty"`
}

type MemberView struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	FirstName    string  `json:"firstName"`
	Avatar       string  `json:"avatar"`
	Role         string  `json:"role"`
	ProjectCount int     `json:"projectCount"`
	RevenueUSD   float64 `json:"revenueUsd"`
	Revenue      string  `json:"revenue"`
}

type ClientView struct {
	Client     string  `json:"client"`
	Count      int     `json:"count"`
	RevenueUSD float64 `json:"revenueUsd"`
	Revenue    string  `json:"revenue"`
	Color      string  `json:"color"`
}

type DashboardView struct {
	Window      string               `json:"window"`
	Currency    string               `json:"currency"`
	GeneratedAt time.Time            `json:"generatedAt"`
	Version     uint64               `json:"version"`
	Metrics     MetricsView          `json:"metrics"`
	Projects    []ProjectView        `json:"projects"`
	Recent      []ProjectView        `json:"recent"`
	Team        []MemberView         `json:"team"`
	Clients     []ClientView         `json:"clients"`
	Charts      []ChartView          `json:"charts"`
	Legend      []charts.LegendEntry `json:"legend"`
}

type SettingsView struct {
	Currency   string   `json:"currency"`
	Symbol     string   `json:"symbol"`
	Rate       float64  `json:"rate"`
	Currencies []string `json:"currencies"`
}

// presenter formats USD amounts for one display currency.
type presenter struct {
	conv     currency.Converter
	cur      core.Currency
	assignee func(id string) string
}

func newPresenter(settings core.DisplaySettings, assignee func(string) string) presenter {
	return presenter{
		conv:     currency.NewConverter(settings.Rate),
		cur:      settings.Currency,
		assignee: assignee,
	}
}

func (p presenter) long(usd float64) string {
	return p.conv.Format(usd, p.cur, 0, false)
}

func (p presenter) short(usd float64) string {
	return p.conv.Format(usd, p.cur, 0, true)
}

func (p presenter) project(pr core.Project) ProjectView {
	clientLabel := pr.Client
	if clientLabel == "" {
		clientLabel = tableClientFallback
	}
	return ProjectView{
		ID:           pr.ID,
		Name:         pr.Name,
		Client:       pr.Client,
		ClientLabel:  clientLabel,
		Date:         pr.Date.String(),
		DateLabel:    pr.Date.Format(dateLabelLayout),
		AmountUSD:    pr.AmountUSD,
		AmountLabel:  p.long(pr.AmountUSD),
		AmountInput:  core.ToFixed(p.conv.FromUSD(pr.AmountUSD, p.cur), 0),
		Notes:        pr.Notes,
		Status:       string(pr.Status),
		AssignedTo:   pr.AssignedTo,
		AssigneeName: p.assignee(pr.AssignedTo),
	}
}

func (p presenter) projects(list []core.Project) []ProjectView {
	views := make([]ProjectView, 0, len(list))
	for _, pr := range list {
		views = append(views, p.project(pr))
	}
	return views
}

func (p presenter) members(team []metrics.MemberTotal) []MemberView {
	views := make([]MemberView, 0, len(team))
	for _, t := range team {
		views = append(views, MemberView{
			ID:           t.Member.ID,
			Name:         t.Member.Name,
			FirstName:    t.Member.FirstName(),
			Avatar:       t.Member.Avatar,
			Role:         t.Member.Role,
			ProjectCount: t.Count,
			RevenueUSD:   t.AmountUSD,
			Revenue:      p.long(t.AmountUSD),
		})
	}
	return views
}

func (p presenter) chart(s charts.Series) ChartView {
	values := s.Values()
	ticks := make([]string, len(values))
	for i, v := range values {
		ticks[i] = p.short(v)
	}
	return ChartView{
		ID:         s.ID,
		Kind:       s.Kind,
		Label:      s.Label,
		Labels:     s.Labels(),
		Values:     values,
		TickLabels: ticks,
		Colors:     s.Colors,
	}
}

func (p presenter) dashboard(snap services.Snapshot) DashboardView {
	sum := snap.Summary

	clients := make([]ClientView, 0, len(sum.Clients))
	for i, c := range sum.Clients {
		clients = append(clients, ClientView{
			Client:     c.Client,
			Count:      c.Count,
			RevenueUSD: c.AmountUSD,
			Revenue:    p.long(c.AmountUSD),
			Color:      charts.Palette[i%len(charts.Palette)],
		})
	}

	chartViews := make([]ChartView, 0, len(snap.Charts.Series))
	for _, id := range []charts.ID{charts.Growth, charts.Distribution, charts.Client, charts.Team} {
		if s, ok := snap.Charts.Series[id]; ok {
			chartViews = append(chartViews, p.chart(s))
		}
	}

	legend := snap.Charts.Legend
	if legend == nil {
		legend = []charts.LegendEntry{}
	}

	bestRevenue := p.long(sum.Best.AmountUSD)
	if !sum.Best.Found {
		bestRevenue = metrics.NoBestMonthLabel
	}

	return DashboardView{
		Window:      snap.Window.String(),
		Currency:    string(snap.Currency),
		GeneratedAt: snap.Now,
		Version:     snap.StoreVersion,
		Metrics: MetricsView{
			TotalRevenue:     p.long(sum.Totals.TotalUSD),
			TotalRevenueUSD:  sum.Totals.TotalUSD,
			ProjectCount:     sum.Totals.Count,
			AverageValue:     p.long(sum.Totals.AverageUSD),
			AverageValueUSD:  sum.Totals.AverageUSD,
			MonthlyGrowth:    metrics.GrowthLabel(sum.Growth.Percent),
			GrowthPercent:    sum.Growth.Percent,
			GrowthPositive:   sum.Growth.Percent >= 0,
			BestMonth:        sum.Best.Label,
			BestMonthRevenue: bestRevenue,
		},
		Projects: p.projects(snap.Filtered),
		Recent:   p.projects(snap.Recent),
		Team:     p.members(sum.Team),
		Clients:  clients,
		Charts:   chartViews,
		Legend:   legend,
	}
}

func settingsView(s core.DisplaySettings) SettingsView {
	return SettingsView{
		Currency:   string(s.Currency),
		Symbol:     currency.Symbol(s.Currency),
		Rate:       s.Rate,
		Currencies: []string{string(core.INR), string(core.USD)},
	}
}
