// internal/progress/persist.go
//
// Pref key layout and save/load of player, level and world state.

package progress

import (
	"fmt"

	"github.com/robalobadob/gameprogress/internal/prefs"
)

// Pref keys are "<P|L|W><number>.<Field>", e.g. "L3.HighScore".
func playerKey(n int, field string) string { return fmt.Sprintf("P%d.%s", n, field) }
func levelKey(n int, field string) string  { return fmt.Sprintf("L%d.%s", n, field) }
func worldKey(n int, field string) string  { return fmt.Sprintf("W%d.%s", n, field) }

// TimesPlayedKey holds the rating prompt counter.
const TimesPlayedKey = "TimesPlayedForRatingPrompt"

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (pl *Player) UpdatePlayerPrefs(p prefs.Preferences) {
	p.SetInt(playerKey(pl.Number, "Lives"), pl.Lives)
	p.SetInt(playerKey(pl.Number, "Score"), pl.Score)
	p.SetInt(playerKey(pl.Number, "Coins"), pl.Coins)
}

// LoadPlayerPrefs keeps the current values as defaults for missing keys.
func (pl *Player) LoadPlayerPrefs(p prefs.Preferences) {
	pl.Lives = p.GetInt(playerKey(pl.Number, "Lives"), pl.Lives)
	pl.Score = p.GetInt(playerKey(pl.Number, "Score"), pl.Score)
	pl.Coins = p.GetInt(playerKey(pl.Number, "Coins"), pl.Coins)
}

func (l *Level) UpdatePlayerPrefs(p prefs.Preferences) {
	p.SetInt(levelKey(l.Number, "Unlocked"), boolInt(l.IsUnlocked))
	p.SetInt(levelKey(l.Number, "UnlockedAnimationShown"), boolInt(l.IsUnlockedAnimationShown))
	p.SetInt(levelKey(l.Number, "Score"), l.Score)
	p.SetInt(levelKey(l.Number, "Coins"), l.Coins)
	p.SetInt(levelKey(l.Number, "HighScore"), l.HighScore)
	p.SetInt(levelKey(l.Number, "StarsWon"), l.StarsWon)
}

func (l *Level) LoadPlayerPrefs(p prefs.Preferences) {
	l.IsUnlocked = p.GetInt(levelKey(l.Number, "Unlocked"), boolInt(l.IsUnlocked)) == 1
	l.IsUnlockedAnimationShown = p.GetInt(levelKey(l.Number, "UnlockedAnimationShown"), boolInt(l.IsUnlockedAnimationShown)) == 1
	l.Score = p.GetInt(levelKey(l.Number, "Score"), l.Score)
	l.Coins = p.GetInt(levelKey(l.Number, "Coins"), l.Coins)
	l.HighScore = p.GetInt(levelKey(l.Number, "HighScore"), l.HighScore)
	l.OldHighScore = l.HighScore
	l.StarsWon = p.GetInt(levelKey(l.Number, "StarsWon"), l.StarsWon)
}

func (w *World) UpdatePlayerPrefs(p prefs.Preferences) {
	p.SetInt(worldKey(w.Number, "Unlocked"), boolInt(w.IsUnlocked))
	p.SetInt(worldKey(w.Number, "UnlockedAnimationShown"), boolInt(w.IsUnlockedAnimationShown))
}

func (w *World) LoadPlayerPrefs(p prefs.Preferences) {
	w.IsUnlocked = p.GetInt(worldKey(w.Number, "Unlocked"), boolInt(w.IsUnlocked)) == 1
	w.IsUnlockedAnimationShown = p.GetInt(worldKey(w.Number, "UnlockedAnimationShown"), boolInt(w.IsUnlockedAnimationShown)) == 1
}
