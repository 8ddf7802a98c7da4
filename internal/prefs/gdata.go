// internal/prefs/gdata.go
//
// Prefs backend over the per-user app data directory (quasilyte/gdata),
// storing all entries as one YAML document.

package prefs

import (
	"context"
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	gdataObject   = "prefs"
	gdataProperty = "all"
)

// GData stores every pref as one YAML document in the per-user app data directory.
type GData struct {
	m *gdata.Manager
}

// OpenGData opens (creating if needed) the app data directory for appName.
func OpenGData(appName string) (*GData, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open gdata %s: %w", appName, err)
	}
	return &GData{m: m}, nil
}

func (g *GData) Load(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string)
	if !g.m.ObjectPropExists(gdataObject, gdataProperty) {
		return out, nil
	}
	data, err := g.m.LoadObjectProp(gdataObject, gdataProperty)
	if err != nil {
		return nil, fmt.Errorf("load gdata prefs: %w", err)
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal gdata prefs: %w", err)
	}
	return out, nil
}

func (g *GData) Persist(ctx context.Context, entries map[string]string) error {
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := g.m.SaveObjectProp(gdataObject, gdataProperty, data); err != nil {
		return fmt.Errorf("save gdata prefs: %w", err)
	}
	return nil
}

func (g *GData) Close() error { return nil }
