// internal/reward/countdown.go
//
// Timed free-prize countdown.
// Responsibilities:
//   - Track when the next prize becomes available, persisted in prefs.
//   - Report remaining time as a display string.
//   - Force the prize available, or restart the countdown from its full delay.
//
// The countdown is independent of level and world progress.

package reward

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/gameprogress/internal/prefs"
)

// availableAtKey stores the RFC3339 time the prize becomes available.
const availableAtKey = "FreePrize.AvailableAt"

// Countdown is the reward countdown subsystem. A nil *Countdown is inactive.
type Countdown struct {
	mu          sync.Mutex
	prefs       prefs.Preferences
	delay       time.Duration
	now         func() time.Time
	availableAt time.Time
}

// New loads the countdown from p, starting a fresh one when none is stored.
// now may be nil to use time.Now.
func New(ctx context.Context, p prefs.Preferences, delay time.Duration, now func() time.Time) (*Countdown, error) {
	if now == nil {
		now = time.Now
	}
	c := &Countdown{prefs: p, delay: delay, now: now}
	if raw := p.GetString(availableAtKey, ""); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			c.availableAt = t
			return c, nil
		}
		log.Warn().Str("value", raw).Msg("unreadable prize time, restarting countdown")
	}
	if err := c.StartNewCountdown(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// IsActive reports whether a countdown subsystem is present.
func (c *Countdown) IsActive() bool { return c != nil }

// Delay is the full countdown duration.
func (c *Countdown) Delay() time.Duration { return c.delay }

// StartNewCountdown restarts the countdown from its full delay.
func (c *Countdown) StartNewCountdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setAvailableAt(ctx, c.now().Add(c.delay))
}

// MakePrizeAvailable completes the countdown immediately.
func (c *Countdown) MakePrizeAvailable(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setAvailableAt(ctx, c.now())
}

func (c *Countdown) IsPrizeAvailable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.now().Before(c.availableAt)
}

// TimeToPrize is the remaining duration, never negative.
func (c *Countdown) TimeToPrize() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.availableAt.Sub(c.now())
	if d < 0 {
		return 0
	}
	return d
}

// TimeToPrizeString formats TimeToPrize as HH:MM:SS.
func (c *Countdown) TimeToPrizeString() string {
	d := c.TimeToPrize().Truncate(time.Second)
	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	s := int(d/time.Second) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Claim takes an available prize and restarts the countdown.
// It reports false when the prize is not available yet.
func (c *Countdown) Claim(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.now().Before(c.availableAt) {
		return false, nil
	}
	if err := c.setAvailableAt(ctx, c.now().Add(c.delay)); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Countdown) setAvailableAt(ctx context.Context, t time.Time) error {
	c.availableAt = t
	c.prefs.SetString(availableAtKey, t.UTC().Format(time.RFC3339))
	if err := c.prefs.Save(ctx); err != nil {
		return fmt.Errorf("persist prize time: %w", err)
	}
	log.Debug().Time("availableAt", t).Msg("prize countdown updated")
	return nil
}
