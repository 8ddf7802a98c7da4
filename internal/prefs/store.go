// internal/prefs/store.go
//
// Cached Preferences implementation shared by every backend.
// Responsibilities:
//   - Hold all entries in memory behind an RWMutex; Save snapshots them to the Backend.
//   - Route keyed calls to plain or secure storage per call or store-wide mode.
//   - Treat plain keys starting with "~" as reserved: sets are dropped, reads miss.

package prefs

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// Store is the cached Preferences implementation used by every backend.
type Store struct {
	mu        sync.RWMutex
	backend   Backend
	entries   map[string]string
	seal      *sealer // nil when no secret is configured
	useSecure bool
}

// Open loads the backend's current contents into a new Store.
// An empty secret disables secure mode.
func Open(ctx context.Context, backend Backend, secret string) (*Store, error) {
	entries, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load prefs: %w", err)
	}
	if entries == nil {
		entries = make(map[string]string)
	}
	s := &Store{backend: backend, entries: entries}
	if secret != "" {
		if s.seal, err = newSealer(secret); err != nil {
			return nil, fmt.Errorf("init secure prefs: %w", err)
		}
	}
	log.Debug().Int("keys", len(entries)).Bool("secure", s.seal != nil).Msg("prefs loaded")
	return s, nil
}

func (s *Store) SupportsSecurePrefs() bool { return s.seal != nil }

func (s *Store) UseSecurePrefs() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.useSecure && s.seal != nil
}

// SetUseSecurePrefs is ignored when the store has no secret.
func (s *Store) SetUseSecurePrefs(secure bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.useSecure = secure
}

func (s *Store) DeleteAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]string)
}

// DeleteKey removes both the plain and the secure form of key.
func (s *Store) DeleteKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !reserved(key) {
		delete(s.entries, key)
	}
	if s.seal != nil {
		delete(s.entries, s.seal.name(key))
	}
}

func (s *Store) HasKey(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.entries[key]; ok && !reserved(key) {
		return true
	}
	if s.seal != nil {
		_, ok := s.entries[s.seal.name(key)]
		return ok
	}
	return false
}

func (s *Store) GetInt(key string, def int, opts ...Option) int {
	raw, ok := s.get(key, opts)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func (s *Store) GetFloat(key string, def float64, opts ...Option) float64 {
	raw, ok := s.get(key, opts)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return f
}

func (s *Store) GetString(key, def string, opts ...Option) string {
	raw, ok := s.get(key, opts)
	if !ok {
		return def
	}
	return raw
}

func (s *Store) SetInt(key string, value int, opts ...Option) {
	s.set(key, strconv.Itoa(value), opts)
}

func (s *Store) SetFloat(key string, value float64, opts ...Option) {
	s.set(key, strconv.FormatFloat(value, 'g', -1, 64), opts)
}

func (s *Store) SetString(key, value string, opts ...Option) {
	s.set(key, value, opts)
}

// Save hands a snapshot of all entries to the backend.
func (s *Store) Save(ctx context.Context) error {
	s.mu.RLock()
	snapshot := make(map[string]string, len(s.entries))
	for k, v := range s.entries {
		snapshot[k] = v
	}
	s.mu.RUnlock()

	if err := s.backend.Persist(ctx, snapshot); err != nil {
		return fmt.Errorf("save prefs: %w", err)
	}
	log.Debug().Int("keys", len(snapshot)).Msg("prefs saved")
	return nil
}

// Close releases the backend.
func (s *Store) Close() error { return s.backend.Close() }

func (s *Store) secureFor(o options) bool {
	if s.seal == nil {
		return false
	}
	if o.secure != nil {
		return *o.secure
	}
	return s.useSecure
}

func (s *Store) get(key string, opts []Option) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.secureFor(collect(opts)) {
		if reserved(key) {
			return "", false
		}
		v, ok := s.entries[key]
		return v, ok
	}
	name := s.seal.name(key)
	v, ok := s.entries[name]
	if !ok {
		return "", false
	}
	plain, err := s.seal.open(name, v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("unreadable secure pref")
		return "", false
	}
	return plain, true
}

func (s *Store) set(key, value string, opts []Option) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.secureFor(collect(opts)) {
		if reserved(key) {
			log.Warn().Str("key", key).Msg("plain pref key uses the secure prefix, dropped")
			return
		}
		s.entries[key] = value
		return
	}
	name := s.seal.name(key)
	s.entries[name] = s.seal.seal(name, value)
}

// reserved reports whether a plain key would share the secure name space.
func reserved(key string) bool { return strings.HasPrefix(key, securePrefix) }
