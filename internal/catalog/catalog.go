// internal/catalog/catalog.go
//
// Level and world definitions.
//
// Responsibilities:
//   - Load the catalog from a YAML file, or fall back to the embedded default.
//   - Validate numbering, world references and star thresholds.
//   - Supply lookups used when the game manager builds its collections.
//
// Catalog format:
//
//	worlds:
//	  - {number: 1, name: Meadow}
//	levels:
//	  - {number: 1, name: First Steps, world: 1, valueToUnlock: 0, unlockWithCoins: false, starScores: [100, 250, 500]}
//
// Constraints:
//   • Numbers start at 1 and are unique within their list.
//   • At most three star scores per level, non-decreasing.

package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/gameprogress/assets"
)

// World is one world definition.
type World struct {
	Number          int    `yaml:"number"`
	Name            string `yaml:"name"`
	ValueToUnlock   int    `yaml:"valueToUnlock"`
	UnlockWithCoins bool   `yaml:"unlockWithCoins"`
}

// Level is one level definition.
type Level struct {
	Number          int    `yaml:"number"`
	Name            string `yaml:"name"`
	World           int    `yaml:"world"`
	ValueToUnlock   int    `yaml:"valueToUnlock"`
	UnlockWithCoins bool   `yaml:"unlockWithCoins"`
	StarScores      []int  `yaml:"starScores"` // score needed for star 1, 2, 3
}

// Catalog is the full set of definitions, sorted by number.
type Catalog struct {
	Worlds []World `yaml:"worlds"`
	Levels []Level `yaml:"levels"`
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the embedded catalog, parsed once.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Parse(assets.DefaultCatalog())
	})
	return defaultCat, defaultErr
}

// Load reads path, or returns Default when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	sort.Slice(c.Worlds, func(i, j int) bool { return c.Worlds[i].Number < c.Worlds[j].Number })
	sort.Slice(c.Levels, func(i, j int) bool { return c.Levels[i].Number < c.Levels[j].Number })
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Levels) == 0 {
		return errors.New("catalog: no levels defined")
	}
	worlds := make(map[int]bool, len(c.Worlds))
	for _, w := range c.Worlds {
		if w.Number < 1 {
			return fmt.Errorf("catalog: world number %d must be >= 1", w.Number)
		}
		if worlds[w.Number] {
			return fmt.Errorf("catalog: duplicate world %d", w.Number)
		}
		worlds[w.Number] = true
	}
	seen := make(map[int]bool, len(c.Levels))
	for _, l := range c.Levels {
		if l.Number < 1 {
			return fmt.Errorf("catalog: level number %d must be >= 1", l.Number)
		}
		if seen[l.Number] {
			return fmt.Errorf("catalog: duplicate level %d", l.Number)
		}
		seen[l.Number] = true
		if l.World != 0 && len(worlds) > 0 && !worlds[l.World] {
			return fmt.Errorf("catalog: level %d references unknown world %d", l.Number, l.World)
		}
		if len(l.StarScores) > 3 {
			return fmt.Errorf("catalog: level %d has %d star scores, max 3", l.Number, len(l.StarScores))
		}
		for i := 1; i < len(l.StarScores); i++ {
			if l.StarScores[i] < l.StarScores[i-1] {
				return fmt.Errorf("catalog: level %d star scores must not decrease", l.Number)
			}
		}
	}
	return nil
}

// Level looks up a level definition by number.
func (c *Catalog) Level(number int) (Level, bool) {
	for _, l := range c.Levels {
		if l.Number == number {
			return l, true
		}
	}
	return Level{}, false
}

// Stats returns counts of loaded definitions: (worlds, levels).
func (c *Catalog) Stats() (worlds int, levels int) {
	return len(c.Worlds), len(c.Levels)
}
