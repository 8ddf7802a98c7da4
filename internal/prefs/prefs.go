// internal/prefs/prefs.go
//
// PlayerPrefs-style progress store.
//
// Responsibilities:
//   - Typed get/set of ints, floats and strings by key, with a default fallback.
//   - Optional secure mode (encrypted values, hashed key names) per call or globally.
//   - Writes stay in memory until Save flushes them to a Backend in one call.
//
// Backends: memory (this package), SQLite, gdata app data.

package prefs

import "context"

// Preferences is the key/value contract player, level and world state is persisted through.
// All keyed operations are safe to call with a missing key. Plain keys
// starting with "~" are reserved for secure entries: setting one is a no-op
// and reading one returns the default.
type Preferences interface {
	SupportsSecurePrefs() bool
	UseSecurePrefs() bool
	SetUseSecurePrefs(secure bool)

	DeleteAll()
	DeleteKey(key string)
	HasKey(key string) bool

	GetFloat(key string, def float64, opts ...Option) float64
	GetInt(key string, def int, opts ...Option) int
	GetString(key, def string, opts ...Option) string

	SetFloat(key string, value float64, opts ...Option)
	SetInt(key string, value int, opts ...Option)
	SetString(key, value string, opts ...Option)

	// Save flushes all pending writes to durable storage.
	Save(ctx context.Context) error
}

// Backend is the durable side of a Store.
// Persist must replace the stored set atomically.
type Backend interface {
	Load(ctx context.Context) (map[string]string, error)
	Persist(ctx context.Context, entries map[string]string) error
	Close() error
}

type options struct {
	secure *bool
}

// Option tweaks a single keyed call.
type Option func(*options)

// Secure overrides the store-wide secure mode for one call.
func Secure(on bool) Option {
	return func(o *options) { o.secure = &on }
}

func collect(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
