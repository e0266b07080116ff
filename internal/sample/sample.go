// Package sample generates reproducible demo projects.
package sample

import (
	"fmt"
	"math/rand/v2"
	"time"

	"earnings/internal/core"
)

// Clients are the demo client names.
var Clients = []string{"Acme Corp", "Globex", "Soylent", "Initech", "Umbrella", "Hooli", "Wayne Ent"}

var statuses = []core.Status{core.StatusCompleted, core.StatusInProgress, core.StatusPending}

const notes = "Project notes and details go here."

// Generator produces the same projects for the same seed and reference time.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Projects returns n projects spread over the twelve months ending with now's
// month, on days 1 to 28, worth 1000 to 9999 USD, assigned to random members
// of team. IDs are proj-0 ... proj-(n-1). The result is in generation order.
func (g *Generator) Projects(n int, now time.Time, team []core.TeamMember) []core.Project {
	out := make([]core.Project, 0, max(0, n))
	for i := range max(0, n) {
		offset := g.rng.IntN(12)
		day := g.rng.IntN(28) + 1
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -offset, 0)

		p := core.Project{
			ID:        fmt.Sprintf("proj-%d", i),
			Name:      fmt.Sprintf("Project Alpha %d", i+1),
			Client:    Clients[g.rng.IntN(len(Clients))],
			Date:      core.NewDateIn(first.Year(), int(first.Month()), day, now.Location()),
			AmountUSD: float64(g.rng.IntN(9000) + 1000),
			Notes:     notes,
			Status:    statuses[g.rng.IntN(len(statuses))],
		}
		if len(team) > 0 {
			p.AssignedTo = team[g.rng.IntN(len(team))].ID
		}
		out = append(out, p)
	}
	return out
}
