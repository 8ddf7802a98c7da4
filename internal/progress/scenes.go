// internal/progress/scenes.go
//
// Scene switching between the menu and a running round.

package progress

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNoManager is returned when a scene switch needs a loaded game manager.
var ErrNoManager = errors.New("no game manager loaded")

// Scenes switches a session between the menu and a running round.
// "Menu" ends the round; "Game" starts a new round on the selected level.
type Scenes struct {
	Session *Session
	Now     func() time.Time
}

// LoadScene takes the session lock itself; do not call it while holding it.
func (s *Scenes) LoadScene(ctx context.Context, name string) error {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	var err error
	s.Session.WithLock(func() {
		gm := s.Session.Manager()
		if gm == nil {
			err = ErrNoManager
			return
		}
		switch name {
		case "Menu":
			gm.RoundStart = time.Time{}
		case "Game":
			_, err = gm.BeginRound(now())
		default:
			err = fmt.Errorf("unknown scene %q", name)
		}
	})
	return err
}
