package store

import "earnings/internal/core"

// Ports implemented by project stores.
type (
	ProjectWriter interface {
		// Add inserts p, assigning an ID when p.ID is empty, and returns the stored record.
		Add(p core.Project) core.Project
		// Update merges patch into the project with the given ID. Unknown IDs are a no-op.
		Update(id string, patch core.ProjectPatch) (core.Project, bool)
		// Remove deletes the project with the given ID. Unknown IDs are a no-op.
		Remove(id string) bool
	}

	ProjectReader interface {
		Get(id string) (core.Project, bool)
		// List returns every project, date descending.
		List() []core.Project
		// Version changes whenever the collection changes.
		Version() uint64
	}

	ProjectRepository interface {
		ProjectWriter
		ProjectReader
	}
)
