// Package roster loads the team roster, which stays fixed for the life of
// the process.
package roster

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"earnings/internal/core"
)

var (
	ErrEmptyRoster = errors.New("roster has no members")
	ErrMissingID   = errors.New("member id is required")
	ErrMissingName = errors.New("member name is required")
	ErrDuplicateID = errors.New("duplicate member id")
)

type file struct {
	Members []core.TeamMember `yaml:"members"`
}

// Default is the built-in four person team.
func Default() []core.TeamMember {
	return []core.TeamMember{
		{ID: "team-1", Name: "Rohan Patel", Avatar: "https://i.pravatar.cc/150?u=a042581f4e29026704a", Role: "Project Manager"},
		{ID: "team-2", Name: "Anjali Singh", Avatar: "https://i.pravatar.cc/150?u=a042581f4e29026704b", Role: "Lead Developer"},
		{ID: "team-3", Name: "Vikram Choudhury", Avatar: "https://i.pravatar.cc/150?u=a042581f4e29026704c", Role: "UI/UX Designer"},
		{ID: "team-4", Name: "Sneha Reddy", Avatar: "https://i.pravatar.cc/150?u=a042581f4e29026704d", Role: "Backend Developer"},
	}
}

// Load reads a YAML roster file. An empty path returns Default.
//
//	members:
//	  - id: team-1
//	    name: Rohan Patel
//	    role: Project Manager
//	    avatar: https://example.com/rohan.png
func Load(path string) ([]core.TeamMember, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster %s: %w", path, err)
	}
	members, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse roster %s: %w", path, err)
	}
	return members, nil
}

// Parse decodes and validates a roster document. Member order is kept: the
// first member receives new projects.
func Parse(data []byte) ([]core.TeamMember, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if len(f.Members) == 0 {
		return nil, ErrEmptyRoster
	}

	seen := make(map[string]bool, len(f.Members))
	for i := range f.Members {
		m := &f.Members[i]
		m.ID = strings.TrimSpace(m.ID)
		m.Name = strings.TrimSpace(m.Name)
		switch {
		case m.ID == "":
			return nil, fmt.Errorf("member %d: %w", i+1, ErrMissingID)
		case m.Name == "":
			return nil, fmt.Errorf("member %s: %w", m.ID, ErrMissingName)
		case seen[m.ID]:
			return nil, fmt.Errorf("member %s: %w", m.ID, ErrDuplicateID)
		}
		seen[m.ID] = true
	}
	return f.Members, nil
}
