// internal/progress/types.go
//
// Core progress types.
// Defines:
//   - Player: lives, score and coins for the current player.
//   - Item: fields shared by levels and worlds (number, lock state).
//   - Level: per-level score, coins, high score and stars-won mask.
//   - World: a group of levels with its own lock state.

package progress

// Star bits for Level.StarsWon.
const (
	Star1 = 1 << iota
	Star2
	Star3

	AllStars = Star1 | Star2 | Star3
)

// Player holds the state of the current player.
type Player struct {
	Number int // player slot, used in pref keys
	Lives  int // ≥0 by convention, not enforced
	Score  int // signed; no clamping
	Coins  int // signed; no clamping
}

// Item holds the fields levels and worlds share.
type Item struct {
	Number                   int    // 1-based identity
	Name                     string // display name
	IsUnlocked               bool   // playable
	IsUnlockedAnimationShown bool   // unlock animation already played
	ValueToUnlock            int    // coins needed when UnlockWithCoins is set
	UnlockWithCoins          bool   // can be bought with coins
}

// Level holds the state of a single level.
type Level struct {
	Item
	World        int   // owning world number, 0 if none
	Score        int   // score of the current/last round
	Coins        int   // coins of the current/last round
	HighScore    int   // best score ever committed
	OldHighScore int   // HighScore as it was when the round began
	StarsWon     int   // bitmask of Star1|Star2|Star3, only ever grows
	StarScores   []int // score thresholds for star 1, 2, 3
}

// World holds the state of a single world.
type World struct {
	Item
}

func (i *Item) base() *Item { return i }
