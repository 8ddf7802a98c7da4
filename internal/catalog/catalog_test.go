package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	worlds, levels := c.Stats()
	assert.Equal(t, 2, worlds)
	assert.Equal(t, 4, levels)

	l, ok := c.Level(2)
	require.True(t, ok)
	assert.True(t, l.UnlockWithCoins)
	assert.Equal(t, 20, l.ValueToUnlock)
	assert.Equal(t, []int{150, 300, 600}, l.StarScores)

	_, ok = c.Level(99)
	assert.False(t, ok)
}

func TestParse_SortsByNumber(t *testing.T) {
	c, err := Parse([]byte(`
levels:
  - {number: 3, name: C}
  - {number: 1, name: A}
  - {number: 2, name: B}
`))
	require.NoError(t, err)
	require.Len(t, c.Levels, 3)
	assert.Equal(t, "A", c.Levels[0].Name)
	assert.Equal(t, "C", c.Levels[2].Name)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"no levels":       `worlds: [{number: 1}]`,
		"zero number":     `levels: [{number: 0}]`,
		"duplicate level": `levels: [{number: 1}, {number: 1}]`,
		"unknown world":   "worlds: [{number: 1}]\nlevels: [{number: 1, world: 5}]",
		"too many stars":  `levels: [{number: 1, starScores: [1, 2, 3, 4]}]`,
		"decreasing":      `levels: [{number: 1, starScores: [300, 200]}]`,
		"duplicate world": "worlds: [{number: 1}, {number: 1}]\nlevels: [{number: 1}]",
		"bad yaml":        `levels: [`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src))
			assert.Error(t, err)
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("levels: [{number: 1, name: Only}]\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Only", c.Levels[0].Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
