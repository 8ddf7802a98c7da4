// internal/cheat/panel.go
//
// Operator debug commands against the running game.
//
// Commands:
//   - ResetPreferences                     (no precondition)
//   - AdjustLives, AdjustPlayerScore/Coins (needs play mode + game manager)
//   - Unlock/LockAllWorlds                 (… + worlds configured)
//   - Unlock/LockAllLevels, AdjustLevelScore/Coins (… + levels configured)
//   - MakeRewardAvailable, ResetRewardCountdown    (needs an active reward countdown)
//
// A failed precondition logs a warning, leaves all state untouched and
// returns a *PreconditionError. Nothing here panics.
//
// Deltas follow progress.ApplyDelta; pass progress.Reset to zero a field.
// Score, coin and lives deltas change memory only; lock/unlock persists.
//
// All session commands must run inside Session.WithLock.

package cheat

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/gameprogress/internal/prefs"
	"github.com/robalobadob/gameprogress/internal/progress"
	"github.com/robalobadob/gameprogress/internal/reward"
)

// ErrPrecondition is wrapped by every *PreconditionError.
var ErrPrecondition = errors.New("precondition not met")

// PreconditionError names what the command needed.
type PreconditionError struct {
	Command string
	Need    string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: this only works in play mode; you also need %s", e.Command, e.Need)
}

func (e *PreconditionError) Unwrap() error { return ErrPrecondition }

const (
	needManager = "a game manager"
	needWorlds  = "a game manager and worlds set up"
	needLevels  = "a game manager and levels set up"
	needReward  = "an active reward countdown"
)

// Panel holds the collaborators the commands act on.
type Panel struct {
	session *progress.Session
	prefs   prefs.Preferences
	reward  *reward.Countdown // nil when no countdown is configured
}

func New(session *progress.Session, p prefs.Preferences, countdown *reward.Countdown) *Panel {
	return &Panel{session: session, prefs: p, reward: countdown}
}

func fail(command, need string) error {
	err := &PreconditionError{Command: command, Need: need}
	log.Warn().Str("command", command).Str("needs", need).Msg("cheat command skipped")
	return err
}

// ResetPreferences wipes the whole store and flushes.
func (p *Panel) ResetPreferences(ctx context.Context) error {
	p.prefs.DeleteAll()
	if err := p.prefs.Save(ctx); err != nil {
		return fmt.Errorf("reset preferences: %w", err)
	}
	log.Info().Msg("all preferences reset")
	return nil
}

func (p *Panel) manager(command string) (*progress.GameManager, error) {
	if !p.session.IsActive() {
		return nil, fail(command, needManager)
	}
	return p.session.Manager(), nil
}

func (p *Panel) levels(command string) (*progress.Items[*progress.Level], error) {
	if !p.session.IsActive() || p.session.Manager().Levels == nil || p.session.Manager().Levels.Len() == 0 {
		return nil, fail(command, needLevels)
	}
	return p.session.Manager().Levels, nil
}

func (p *Panel) worlds(command string) (*progress.Items[*progress.World], error) {
	if !p.session.IsActive() || p.session.Manager().Worlds == nil {
		return nil, fail(command, needWorlds)
	}
	return p.session.Manager().Worlds, nil
}

// AdjustLives adds delta (usually ±1) to the player's lives.
func (p *Panel) AdjustLives(delta int) error {
	gm, err := p.manager("adjust lives")
	if err != nil {
		return err
	}
	gm.Player.Lives += delta
	return nil
}

func (p *Panel) AdjustPlayerScore(delta int) error {
	gm, err := p.manager("adjust player score")
	if err != nil {
		return err
	}
	gm.Player.AdjustScore(delta)
	return nil
}

func (p *Panel) AdjustPlayerCoins(delta int) error {
	gm, err := p.manager("adjust player coins")
	if err != nil {
		return err
	}
	gm.Player.AdjustCoins(delta)
	return nil
}

func (p *Panel) AdjustLevelScore(delta int) error {
	levels, err := p.levels("adjust level score")
	if err != nil {
		return err
	}
	levels.Selected().AdjustScore(delta)
	return nil
}

func (p *Panel) AdjustLevelCoins(delta int) error {
	levels, err := p.levels("adjust level coins")
	if err != nil {
		return err
	}
	levels.Selected().AdjustCoins(delta)
	return nil
}

func (p *Panel) UnlockAllWorlds(ctx context.Context) error { return p.setWorlds(ctx, true) }
func (p *Panel) LockAllWorlds(ctx context.Context) error   { return p.setWorlds(ctx, false) }
func (p *Panel) UnlockAllLevels(ctx context.Context) error { return p.setLevels(ctx, true) }
func (p *Panel) LockAllLevels(ctx context.Context) error   { return p.setLevels(ctx, false) }

func (p *Panel) setWorlds(ctx context.Context, unlocked bool) error {
	worlds, err := p.worlds(lockCommand("worlds", unlocked))
	if err != nil {
		return err
	}
	worlds.SetAllUnlocked(unlocked, p.prefs)
	return p.flush(ctx, "worlds", unlocked)
}

func (p *Panel) setLevels(ctx context.Context, unlocked bool) error {
	levels, err := p.levels(lockCommand("levels", unlocked))
	if err != nil {
		return err
	}
	levels.SetAllUnlocked(unlocked, p.prefs)
	return p.flush(ctx, "levels", unlocked)
}

func lockCommand(what string, unlocked bool) string {
	if unlocked {
		return "unlock all " + what
	}
	return "lock all " + what
}

func (p *Panel) flush(ctx context.Context, what string, unlocked bool) error {
	if err := p.prefs.Save(ctx); err != nil {
		return fmt.Errorf("save %s: %w", what, err)
	}
	log.Info().Str("items", what).Bool("unlocked", unlocked).Msg("lock state changed")
	return nil
}

// MakeRewardAvailable completes the reward countdown now.
func (p *Panel) MakeRewardAvailable(ctx context.Context) error {
	if !p.reward.IsActive() {
		return fail("make reward available", needReward)
	}
	return p.reward.MakePrizeAvailable(ctx)
}

// ResetRewardCountdown restarts the reward countdown from its full delay.
func (p *Panel) ResetRewardCountdown(ctx context.Context) error {
	if !p.reward.IsActive() {
		return fail("reset reward countdown", needReward)
	}
	return p.reward.StartNewCountdown(ctx)
}
