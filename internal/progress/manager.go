// internal/progress/manager.go
//
// GameManager: player, levels and worlds built from the catalog.
// Responsibilities:
//   - Load state from prefs on creation.
//   - Track the running round and the rating prompt counter.

package progress

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/gameprogress/internal/catalog"
	"github.com/robalobadob/gameprogress/internal/prefs"
)

// ErrNoLevels is returned by round operations when no levels are configured.
var ErrNoLevels = errors.New("no levels configured")

// DefaultLives is what a brand new player starts with.
const DefaultLives = 3

// GameManager owns the player, level and world state of a running game.
type GameManager struct {
	Player *Player
	Levels *Items[*Level] // nil when the catalog defines no levels
	Worlds *Items[*World] // nil when the catalog defines no worlds

	// TimesPlayedForRatingPrompt is bumped on game start and on every round end.
	TimesPlayedForRatingPrompt int

	// RoundStart is when the current round began; zero while no round runs.
	RoundStart time.Time

	Prefs prefs.Preferences
}

// NewGameManager builds collections from cat and overlays persisted state from p.
// Level 1 and world 1 are unlocked unless prefs say otherwise.
func NewGameManager(cat *catalog.Catalog, p prefs.Preferences) *GameManager {
	gm := &GameManager{
		Player: &Player{Number: 0, Lives: DefaultLives},
		Prefs:  p,
	}
	gm.Player.LoadPlayerPrefs(p)

	if len(cat.Levels) > 0 {
		levels := make([]*Level, 0, len(cat.Levels))
		for i, def := range cat.Levels {
			l := &Level{
				Item: Item{
					Number:                   def.Number,
					Name:                     def.Name,
					IsUnlocked:               i == 0,
					IsUnlockedAnimationShown: i == 0,
					ValueToUnlock:            def.ValueToUnlock,
					UnlockWithCoins:          def.UnlockWithCoins,
				},
				World:      def.World,
				StarScores: append([]int(nil), def.StarScores...),
			}
			l.LoadPlayerPrefs(p)
			levels = append(levels, l)
		}
		gm.Levels = NewItems(levels...)
	}

	if len(cat.Worlds) > 0 {
		worlds := make([]*World, 0, len(cat.Worlds))
		for i, def := range cat.Worlds {
			w := &World{Item: Item{
				Number:                   def.Number,
				Name:                     def.Name,
				IsUnlocked:               i == 0,
				IsUnlockedAnimationShown: i == 0,
				ValueToUnlock:            def.ValueToUnlock,
				UnlockWithCoins:          def.UnlockWithCoins,
			}}
			w.LoadPlayerPrefs(p)
			worlds = append(worlds, w)
		}
		gm.Worlds = NewItems(worlds...)
	}

	gm.TimesPlayedForRatingPrompt = p.GetInt(TimesPlayedKey, 0)
	return gm
}

// bumpTimesPlayed increments and stores the rating prompt counter (no flush).
func (gm *GameManager) bumpTimesPlayed() {
	gm.TimesPlayedForRatingPrompt++
	gm.Prefs.SetInt(TimesPlayedKey, gm.TimesPlayedForRatingPrompt)
}

// BeginRound starts a round on the selected level.
func (gm *GameManager) BeginRound(now time.Time) (*Level, error) {
	if gm.Levels == nil || gm.Levels.Len() == 0 {
		return nil, ErrNoLevels
	}
	l := gm.Levels.Selected()
	l.BeginRound()
	gm.RoundStart = now
	log.Info().Int("level", l.Number).Int("highScore", l.HighScore).Msg("round started")
	return l, nil
}

// EndRound marks the round finished. The round start time is kept so the
// game-over summary can still compute elapsed time.
func (gm *GameManager) EndRound() {
	gm.bumpTimesPlayed()
}

// RoundActive reports whether BeginRound has been called for this game.
func (gm *GameManager) RoundActive() bool { return !gm.RoundStart.IsZero() }
