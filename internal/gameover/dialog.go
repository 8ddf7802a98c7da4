// internal/gameover/dialog.go
//
// The game-over dialog returned by Evaluate.
// Responsibilities:
//   - Summary of the round (stars, time, coins, score, high score).
//   - Periodic needed-coins refresh while open.
//   - Continue / Retry scene switches and share.

package gameover

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/gameprogress/internal/progress"
	"github.com/robalobadob/gameprogress/internal/ticker"
)

// ErrUnsupported is returned when an optional collaborator is absent.
var ErrUnsupported = errors.New("gameover: collaborator not configured")

// StarSummary describes the three stars after a round.
type StarSummary struct {
	Mask    int     `json:"mask"`    // cumulative stars-won mask
	New     int     `json:"new"`     // bits earned this round
	Won     [3]bool `json:"won"`     // star i is in Mask
	JustWon [3]bool `json:"justWon"` // star i is in New (animate it)
	AnyNew  bool    `json:"anyNew"`
}

func newStarSummary(mask, newStars int) *StarSummary {
	s := &StarSummary{Mask: mask, New: newStars, AnyNew: newStars != 0}
	for i := 0; i < 3; i++ {
		bit := 1 << i
		s.Won[i] = mask&bit == bit
		s.JustWon[i] = newStars&bit == bit
	}
	return s
}

// Summary is what the game-over view shows. Optional sections are nil/empty
// when their Show option is off.
type Summary struct {
	Won          bool         `json:"won"`
	Level        int          `json:"level"`
	LevelName    string       `json:"levelName"`
	Stars        *StarSummary `json:"stars,omitempty"`
	Time         string       `json:"time,omitempty"` // "MM.SS"
	Coins        *int         `json:"coins,omitempty"`
	Score        *int         `json:"score,omitempty"`
	NewHighScore bool         `json:"newHighScore"`

	// NeededCoins is the extra coins needed to unlock the next level; 0 means
	// one can be unlocked now and -1 means nothing is left to unlock.
	NeededCoins    int  `json:"neededCoins"`
	TargetCoinsGot bool `json:"targetCoinsGot"`

	RatingPrompted bool `json:"ratingPrompted"`
}

// Dialog is an open game-over view. It owns the needed-coins timer.
type Dialog struct {
	eval *Evaluator
	task *ticker.Task

	mu      sync.Mutex
	summary Summary
	closed  bool
}

func (d *Dialog) updateNeededCoins(gm *progress.GameManager) {
	n := gm.Levels.ExtraValueNeededToUnlock(gm.Player.Coins)
	d.mu.Lock()
	d.summary.NeededCoins = n
	d.summary.TargetCoinsGot = n == 0
	d.mu.Unlock()
}

// Summary returns a copy of the current summary.
func (d *Dialog) Summary() Summary {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.summary
}

// Periodic reports whether the needed-coins timer was started.
func (d *Dialog) Periodic() bool { return d.task != nil }

// Close stops the needed-coins timer and waits for it. It is idempotent and
// safe on a nil *Dialog.
func (d *Dialog) Close() {
	if d == nil {
		return
	}
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.task.Stop()
}

func (d *Dialog) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Share posts the summary through the configured Sharer.
func (d *Dialog) Share(ctx context.Context) error {
	if d.eval.deps.Sharer == nil {
		return ErrUnsupported
	}
	return d.eval.deps.Sharer.Share(ctx, d.Summary())
}

// Continue and Retry switch scenes, which takes the session lock; call them
// without holding it.

// Continue closes the dialog and goes back to the menu scene.
func (d *Dialog) Continue(ctx context.Context) error { return d.leave(ctx, "Menu") }

// Retry closes the dialog and reloads the game scene.
func (d *Dialog) Retry(ctx context.Context) error { return d.leave(ctx, "Game") }

func (d *Dialog) leave(ctx context.Context, scene string) error {
	if d.eval.deps.Scenes == nil {
		return ErrUnsupported
	}
	d.Close()
	return d.eval.deps.Scenes.LoadScene(ctx, scene)
}
