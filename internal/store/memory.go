// Package store keeps the project collection in memory, ordered by date
// descending after every mutation.
package store

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"earnings/internal/core"
)

// IDPrefix is prepended to generated project IDs.
const IDPrefix = "proj-"

type Store struct {
	mu      sync.Mutex
	items   []core.Project
	version uint64
	newID   func() string
}

var _ ProjectRepository = (*Store)(nil)

// New returns a store seeded with projects. Seeds without an ID get one.
func New(projects ...core.Project) *Store {
	s := &Store{newID: NewID}
	for _, p := range projects {
		if p.ID == "" {
			p.ID = s.newID()
		}
		s.items = append(s.items, p)
	}
	s.sortLocked()
	return s
}

// WithIDGenerator replaces the ID generator, mostly for tests.
func (s *Store) WithIDGenerator(gen func() string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newID = gen
	return s
}

// NewID returns a fresh project ID.
func NewID() string {
	return IDPrefix + uuid.NewString()
}

// Add stores the project and returns it with its ID. No amount or date
// validation happens here.
func (s *Store) Add(p core.Project) core.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = s.newID()
	}
	// New records go first so that, among equal dates, the latest addition leads.
	s.items = slices.Insert(s.items, 0, p)
	s.sortLocked()
	s.version++
	return p
}

func (s *Store) Update(id string, patch core.ProjectPatch) (core.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return core.Project{}, false
	}
	s.items[i] = s.items[i].Merge(patch)
	updated := s.items[i]
	s.sortLocked()
	s.version++
	return updated, true
}

func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	s.version++
	return true
}

func (s *Store) Get(id string) (core.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return core.Project{}, false
	}
	return s.items[i], true
}

// List returns a copy of the collection, date descending.
func (s *Store) List() []core.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Project(nil), s.items...)
}

// Recent returns at most n of the most recent projects.
func (s *Store) Recent(n int) []core.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	n = max(0, min(n, len(s.items)))
	return append([]core.Project(nil), s.items[:n]...)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.items, func(p core.Project) bool { return p.ID == id })
}

func (s *Store) sortLocked() {
	slices.SortStableFunc(s.items, func(a, b core.Project) int {
		return b.Date.Compare(a.Date.Time)
	})
}
