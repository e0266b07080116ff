package roster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	team := Default()
	require.Len(t, team, 4)
	assert.Equal(t, "team-1", team[0].ID)
	assert.Equal(t, "Rohan", team[0].FirstName())
	assert.Equal(t, "Backend Developer", team[3].Role)
}

func TestParse(t *testing.T) {
	doc := []byte(`
members:
  - id: a
    name: "  Ada Lovelace "
    role: Engineer
    avatar: https://example.com/a.png
  - id: b
    name: Grace Hopper
`)
	team, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, team, 2)
	assert.Equal(t, "Ada Lovelace", team[0].Name)
	assert.Equal(t, "https://example.com/a.png", team[0].Avatar)
	assert.Equal(t, "b", team[1].ID)
	assert.Empty(t, team[1].Role)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"empty", "members: []", ErrEmptyRoster},
		{"no members key", "team: []", ErrEmptyRoster},
		{"missing id", "members:\n  - name: X\n", ErrMissingID},
		{"missing name", "members:\n  - id: x\n", ErrMissingName},
		{"duplicate", "members:\n  - {id: x, name: A}\n  - {id: x, name: B}\n", ErrDuplicateID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Parse([]byte("members: [unclosed"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	team, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), team)

	path := filepath.Join(t.TempDir(), "team.yaml")
	require.NoError(t, os.WriteFile(path, []byte("members:\n  - {id: solo, name: Solo Dev}\n"), 0o644))
	team, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Solo", team[0].FirstName())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
