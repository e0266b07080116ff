package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"earnings/internal/core"
)

func p(y, m, d int, amount float64) core.Project {
	return core.Project{Date: core.NewDate(y, m, d), AmountUSD: amount}
}

func withClient(client string, amount float64) core.Project {
	pr := p(2024, 3, 1, amount)
	pr.Client = client
	return pr
}

func assigned(member string, amount float64) core.Project {
	pr := p(2024, 3, 1, amount)
	pr.AssignedTo = member
	return pr
}

var march2024 = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name     string
		projects []core.Project
		want     Totals
	}{
		{"empty", nil, Totals{}},
		{"single", []core.Project{p(2024, 1, 1, 300)}, Totals{TotalUSD: 300, Count: 1, AverageUSD: 300}},
		{"several", []core.Project{p(2024, 1, 1, 100), p(2024, 2, 1, 200), p(2024, 3, 1, 600)}, Totals{TotalUSD: 900, Count: 3, AverageUSD: 300}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.projects)
			assert.Equal(t, tt.want, got)
			if got.Count > 0 {
				assert.InDelta(t, got.TotalUSD/float64(got.Count), got.AverageUSD, 1e-9)
			}
		})
	}
}

func TestMonthlyGrowth(t *testing.T) {
	tests := []struct {
		name     string
		projects []core.Project
		now      time.Time
		want     float64
	}{
		{
			name:     "doubling",
			projects: []core.Project{p(2024, 3, 1, 1000), p(2024, 2, 1, 500)},
			now:      march2024,
			want:     100,
		},
		{
			name:     "no previous revenue",
			projects: []core.Project{p(2024, 3, 1, 10)},
			now:      march2024,
			want:     100,
		},
		{
			name:     "no revenue at all",
			projects: []core.Project{p(2023, 3, 1, 10)},
			now:      march2024,
			want:     0,
		},
		{
			name:     "decline",
			projects: []core.Project{p(2024, 3, 5, 250), p(2024, 2, 5, 1000)},
			now:      march2024,
			want:     -75,
		},
		{
			name:     "january compares with december",
			projects: []core.Project{p(2025, 1, 10, 300), p(2024, 12, 31, 200), p(2024, 1, 5, 9999)},
			now:      time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
			want:     50,
		},
		{
			name: "empty",
			now:  march2024,
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthlyGrowth(tt.projects, tt.now)
			assert.InDelta(t, tt.want, got.Percent, 1e-9)
		})
	}
}

func TestComputeBestMonth(t *testing.T) {
	t.Run("empty store", func(t *testing.T) {
		got := ComputeBestMonth(nil)
		assert.False(t, got.Found)
		assert.Equal(t, NoBestMonthLabel, got.Label)
		assert.Zero(t, got.AmountUSD)
	})

	t.Run("sums per month", func(t *testing.T) {
		got := ComputeBestMonth([]core.Project{
			p(2024, 3, 20, 400), p(2024, 3, 2, 400), p(2024, 2, 10, 700), p(2023, 3, 1, 100),
		})
		require.True(t, got.Found)
		assert.Equal(t, "March 2024", got.Label)
		assert.Equal(t, 800.0, got.AmountUSD)
	})

	t.Run("tie keeps first encountered", func(t *testing.T) {
		got := ComputeBestMonth([]core.Project{p(2024, 5, 1, 500), p(2024, 1, 1, 500)})
		assert.Equal(t, "May 2024", got.Label)
	})

	t.Run("zero revenue is no data", func(t *testing.T) {
		got := ComputeBestMonth([]core.Project{p(2024, 5, 1, 0)})
		assert.False(t, got.Found)
		assert.Equal(t, NoBestMonthLabel, got.Label)
	})
}

func TestTeamRollup(t *testing.T) {
	roster := []core.TeamMember{{ID: "m1", Name: "Ann Lee"}, {ID: "m2", Name: "Bo Chan"}, {ID: "m3", Name: "Cy"}}
	projects := []core.Project{
		assigned("m2", 100), assigned("m1", 50), assigned("m2", 25), assigned("gone", 1000), assigned("", 7),
	}

	got := TeamRollup(projects, roster)
	require.Len(t, got, 3)
	assert.Equal(t, MemberTotal{Member: roster[0], Count: 1, AmountUSD: 50}, got[0])
	assert.Equal(t, MemberTotal{Member: roster[1], Count: 2, AmountUSD: 125}, got[1])
	assert.Equal(t, MemberTotal{Member: roster[2]}, got[2])
}

func TestTopClients(t *testing.T) {
	projects := []core.Project{
		withClient("C", 300),
		withClient("A", 200),
		withClient("B", 500),
		withClient("F", 50),
		withClient("A", 300),
		withClient("D", 200),
		withClient("E", 100),
	}

	got := TopClients(projects, TopClientCount)
	names := make([]string, len(got))
	for i, c := range got {
		names[i] = c.Client
	}
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, names)
	assert.Equal(t, 500.0, got[0].AmountUSD)
	assert.Equal(t, 2, got[0].Count)
}

func TestClientRollupUnknownBucket(t *testing.T) {
	got := ClientRollup([]core.Project{withClient("", 10), withClient("  ", 5), withClient("Acme", 1)})
	require.Len(t, got, 2)
	assert.Equal(t, ClientTotal{Client: core.UnknownLabel, Count: 2, AmountUSD: 15}, got[0])
}

func TestTopClientsFewerThanN(t *testing.T) {
	assert.Len(t, TopClients([]core.Project{withClient("A", 1)}, 5), 1)
	assert.Empty(t, TopClients(nil, 5))
}

func TestByMonthFirstAppearanceOrder(t *testing.T) {
	got := ByMonth([]core.Project{p(2024, 3, 2, 1), p(2024, 1, 2, 2), p(2024, 3, 1, 3)})
	require.Len(t, got, 2)
	assert.Equal(t, core.MonthKey{Year: 2024, Month: time.March}, got[0].Month)
	assert.Equal(t, 4.0, got[0].AmountUSD)
	assert.Equal(t, 2, got[0].Count)
}

func TestGrowthLabel(t *testing.T) {
	assert.Equal(t, "+12.3%", GrowthLabel(12.345))
	assert.Equal(t, "+0.0%", GrowthLabel(0))
	assert.Equal(t, "-4.0%", GrowthLabel(-4))
	assert.Equal(t, "+100.0%", GrowthLabel(100))
	assert.Equal(t, "+1.4%", GrowthLabel(1.45))
	assert.Equal(t, "+1.3%", GrowthLabel(1.25))
}

func TestCompute(t *testing.T) {
	roster := []core.TeamMember{{ID: "m1", Name: "Ann"}}
	all := []core.Project{assigned("m1", 1000), p(2024, 2, 1, 500)}
	filtered := all[:1]

	s := Compute(filtered, all, roster, march2024)
	assert.Equal(t, 1000.0, s.Totals.TotalUSD)
	assert.InDelta(t, 100, s.Growth.Percent, 1e-9)
	assert.Equal(t, "March 2024", s.Best.Label)
	assert.Equal(t, 1000.0, s.Team[0].AmountUSD)
	require.Len(t, s.Clients, 1)
	assert.Equal(t, core.UnknownLabel, s.Clients[0].Client)
}
