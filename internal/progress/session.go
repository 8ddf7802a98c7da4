// internal/progress/session.go
//
// Session holds the active game manager and the play-mode flag behind one lock.

package progress

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Session is the runtime context commands and the evaluator act on.
//
// All reads and writes of session state happen inside WithLock, which stands
// in for the single main thread of a game loop. Accessors do not lock.
type Session struct {
	mu      sync.Mutex
	playing bool
	manager *GameManager
}

func NewSession() *Session { return &Session{} }

// WithLock runs fn while holding the session lock.
func (s *Session) WithLock(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// TryWithLock runs fn only if the lock is free right now, and reports whether it ran.
// Background tasks use it so a caller holding the lock can wait for them to stop.
func (s *Session) TryWithLock(fn func()) bool {
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()
	fn()
	return true
}

// Playing reports whether a game is running (play mode).
func (s *Session) Playing() bool { return s.playing }

// Manager returns the loaded game manager, or nil.
func (s *Session) Manager() *GameManager { return s.manager }

// IsActive reports play mode with a loaded game manager.
func (s *Session) IsActive() bool { return s.playing && s.manager != nil }

// SetPlaying toggles play mode without touching the manager.
func (s *Session) SetPlaying(on bool) { s.playing = on }

// Attach installs gm without changing play mode.
func (s *Session) Attach(gm *GameManager) { s.manager = gm }

// Start enters play mode with gm and counts a game start for the rating prompt.
func (s *Session) Start(gm *GameManager) {
	s.manager = gm
	s.playing = true
	gm.bumpTimesPlayed()
	log.Info().Int("timesPlayed", gm.TimesPlayedForRatingPrompt).Msg("game session started")
}

// Stop leaves play mode and drops the manager.
func (s *Session) Stop() {
	s.playing = false
	s.manager = nil
	log.Info().Msg("game session stopped")
}
