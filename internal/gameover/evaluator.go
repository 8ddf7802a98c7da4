// internal/gameover/evaluator.go
//
// Round-end evaluation.
// Responsibilities:
//   - Award newly earned stars and fold them into the level's stars-won mask.
//   - Decide "new high score" against the pre-round snapshot.
//   - Compute coins still needed to unlock more content, and keep it fresh
//     on a repeating timer while the dialog is open.
//   - Persist player and level state, then flush.
//   - Fire the rating prompt when the play counter hits the threshold exactly.
//   - Hand a round record to analytics.
//
// Notes:
//   - Show must run inside Session.WithLock.
//   - A view missing a region for an enabled option panics with *AssertionError.
//   - Feedback, analytics, sharing and scene loading are optional; nil means absent.

package gameover

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/gameprogress/internal/analytics"
	"github.com/robalobadob/gameprogress/internal/feedback"
	"github.com/robalobadob/gameprogress/internal/progress"
	"github.com/robalobadob/gameprogress/internal/stars"
	"github.com/robalobadob/gameprogress/internal/ticker"
)

// ErrNoSession is returned by Show when no game with levels is running.
var ErrNoSession = errors.New("gameover: needs an active game session with levels")

// Sharer posts a round result to a social network.
type Sharer interface {
	Share(ctx context.Context, s Summary) error
}

// SceneLoader switches to a named scene ("Menu", "Game").
type SceneLoader interface {
	LoadScene(ctx context.Context, name string) error
}

// Deps are the evaluator's collaborators. Only Session is required.
type Deps struct {
	Session   *progress.Session
	Rule      stars.Rule         // nil means stars.None
	Feedback  feedback.Prompter  // optional
	Analytics analytics.Recorder // optional
	Sharer    Sharer             // optional
	Scenes    SceneLoader        // optional
	Now       func() time.Time   // nil means time.Now
}

// Evaluator turns a finished round into a committed outcome and a Dialog.
type Evaluator struct {
	deps Deps

	mu   sync.RWMutex
	opts Options
}

func New(deps Deps, opts Options) *Evaluator {
	if deps.Rule == nil {
		deps.Rule = stars.None{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Evaluator{deps: deps, opts: opts}
}

func (e *Evaluator) Options() Options {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.opts
}

// SetOptions applies to the next Show; open dialogs keep their settings.
func (e *Evaluator) SetOptions(o Options) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts = o
}

// Show evaluates the selected level's round. The returned Dialog must be closed.
func (e *Evaluator) Show(ctx context.Context, isWon bool) (*Dialog, error) {
	sess := e.deps.Session
	if !sess.IsActive() || sess.Manager().Levels == nil || sess.Manager().Levels.Len() == 0 {
		return nil, ErrNoSession
	}
	gm := sess.Manager()
	level := gm.Levels.Selected()
	opts := e.Options()
	now := e.deps.Now()

	sum := Summary{Won: isWon, Level: level.Number, LevelName: level.Name}

	var elapsed time.Duration
	if gm.RoundActive() {
		elapsed = now.Sub(gm.RoundStart)
	}

	// stars
	newStars, err := e.deps.Rule.NewStarsWon(stars.Round{
		Level:      level.Number,
		Won:        isWon,
		Score:      level.Score,
		Coins:      level.Coins,
		Elapsed:    elapsed,
		Thresholds: level.StarScores,
	})
	if err != nil {
		log.Warn().Err(err).Int("level", level.Number).Msg("star rule failed, awarding none")
		newStars = 0
	}
	level.AwardStars(newStars)
	if opts.ShowStars {
		assertf(opts.Layout.Has(RegionStars),
			"ShowStars is enabled, but the view has no %q region. Disable the option or fix the layout.", RegionStars)
		sum.Stars = newStarSummary(level.StarsWon, newStars&progress.AllStars)
	}

	// time
	var recorded *time.Duration
	if opts.ShowTime {
		assertf(gm.RoundActive(), "ShowTime is enabled, but no round was started.")
		assertf(opts.Layout.Has(RegionTime),
			"ShowTime is enabled, but the view has no %q region. Disable the option or fix the layout.", RegionTime)
		sum.Time = FormatElapsed(elapsed)
		recorded = &elapsed
	}

	// coins
	if opts.ShowCoins {
		assertf(opts.Layout.Has(RegionCoins),
			"ShowCoins is enabled, but the view has no %q region. Disable the option or fix the layout.", RegionCoins)
		c := level.Coins
		sum.Coins = &c
	}

	// score
	if opts.ShowScore {
		assertf(opts.Layout.Has(RegionScore),
			"ShowScore is enabled, but the view has no %q region. Disable the option or fix the layout.", RegionScore)
		s := level.Score
		sum.Score = &s
		sum.NewHighScore = level.NewHighScore()
	}

	d := &Dialog{eval: e, summary: sum}
	d.updateNeededCoins(gm)

	// save game state
	gm.Player.UpdatePlayerPrefs(gm.Prefs)
	level.UpdatePlayerPrefs(gm.Prefs)
	if err := gm.Prefs.Save(ctx); err != nil {
		log.Error().Err(err).Int("level", level.Number).Msg("save round state")
	}

	// The counter is bumped on both game start and round end, so a session
	// can step over the exact value and never prompt. Kept as an exact match.
	if gm.TimesPlayedForRatingPrompt == opts.TimesPlayedBeforeRatingPrompt && e.deps.Feedback != nil {
		e.deps.Feedback.PromptRating(ctx)
		d.summary.RatingPrompted = true
	}

	if e.deps.Analytics != nil {
		ev := analytics.Event{
			Level:    level.Number,
			Won:      isWon,
			Score:    level.Score,
			Coins:    level.Coins,
			Elapsed:  recorded,
			StarsWon: level.StarsWon,
		}
		if err := e.deps.Analytics.Record(ctx, ev); err != nil {
			log.Warn().Err(err).Int("level", level.Number).Msg("record round")
		}
	}

	log.Info().
		Int("level", level.Number).
		Bool("won", isWon).
		Int("score", level.Score).
		Int("starsWon", level.StarsWon).
		Bool("newHighScore", level.NewHighScore()).
		Msg("round evaluated")

	if opts.periodicEnabled() {
		d.task = ticker.Start(context.Background(), opts.PeriodicUpdateDelay, func() {
			sess.TryWithLock(func() {
				if sess.Manager() == gm {
					d.updateNeededCoins(gm)
				}
			})
		})
	}
	return d, nil
}
