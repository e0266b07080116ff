package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"earnings/internal/core"
)

func at(t time.Time, id string) core.Project {
	return core.Project{ID: id, Date: core.Date{Time: t}, AmountUSD: 1}
}

func ids(ps []core.Project) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestParse(t *testing.T) {
	tests := map[string]Window{
		"all":     All,
		"year":    Year,
		" MONTH ": Month,
		"week":    Week,
		"":        All,
		"decade":  All,
	}
	for in, want := range tests {
		assert.Equal(t, want, Parse(in), in)
	}
}

func TestWeekStart(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"wednesday", time.Date(2024, 3, 13, 15, 4, 5, 0, loc), time.Date(2024, 3, 10, 0, 0, 0, 0, loc)},
		{"sunday itself", time.Date(2024, 3, 10, 23, 59, 0, 0, loc), time.Date(2024, 3, 10, 0, 0, 0, 0, loc)},
		{"saturday", time.Date(2024, 3, 16, 0, 0, 1, 0, loc), time.Date(2024, 3, 10, 0, 0, 0, 0, loc)},
		{"across month", time.Date(2024, 3, 1, 12, 0, 0, 0, loc), time.Date(2024, 2, 25, 0, 0, 0, 0, loc)},
		{"across year", time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC), time.Date(2024, 12, 29, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeekStart(tt.now)
			assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
			assert.Equal(t, time.Sunday, got.Weekday())
		})
	}
}

func TestFilterAllIsIdentity(t *testing.T) {
	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	projects := []core.Project{
		at(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), "a"),
		at(time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), "b"),
	}
	got := Filter(projects, All, now)
	assert.Equal(t, projects, got)
	assert.Equal(t, projects, Filter(projects, Window("bogus"), now))
}

func TestFilterWeekBoundary(t *testing.T) {
	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	start := WeekStart(now)
	projects := []core.Project{
		at(start, "at-start"),
		at(start.Add(-time.Millisecond), "just-before"),
		at(now, "now"),
	}

	got := Filter(projects, Week, now)
	assert.Equal(t, []string{"at-start", "now"}, ids(got))
}

func TestFilterYearAndMonth(t *testing.T) {
	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	projects := []core.Project{
		at(time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC), "mar"),
		at(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), "jan"),
		at(time.Date(2023, 3, 13, 0, 0, 0, 0, time.UTC), "last-year-mar"),
		at(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), "dec"),
	}

	assert.Equal(t, []string{"mar", "jan", "dec"}, ids(Filter(projects, Year, now)))
	assert.Equal(t, []string{"mar"}, ids(Filter(projects, Month, now)))
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	projects := []core.Project{
		at(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), "old"),
		at(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "new"),
	}
	snapshot := append([]core.Project(nil), projects...)

	got := Filter(projects, Month, now)
	require.Len(t, got, 1)
	assert.Equal(t, snapshot, projects)
}

func TestFilterEmpty(t *testing.T) {
	got := Filter(nil, Week, time.Now())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
