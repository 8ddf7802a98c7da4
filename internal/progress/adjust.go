// internal/progress/adjust.go
//
// Delta routing and the add/remove mutators for player and level counters.

package progress

import "math"

// Reset is the delta sentinel meaning "remove the current amount".
const Reset = math.MinInt

// ApplyDelta routes delta to add or remove:
//   - delta > 0:      add(delta)
//   - delta == Reset: remove(current), leaving exactly zero whatever the sign
//   - delta < 0:      remove(-delta)
//   - delta == 0:     nothing
func ApplyDelta(delta, current int, add, remove func(int)) {
	switch {
	case delta == Reset:
		remove(current)
	case delta > 0:
		add(delta)
	case delta < 0:
		remove(-delta)
	}
}

func (p *Player) AddPoints(n int)    { p.Score += n }
func (p *Player) RemovePoints(n int) { p.Score -= n }
func (p *Player) AddCoins(n int)     { p.Coins += n }
func (p *Player) RemoveCoins(n int)  { p.Coins -= n }

// AdjustScore applies delta semantics to the player's score.
func (p *Player) AdjustScore(delta int) { ApplyDelta(delta, p.Score, p.AddPoints, p.RemovePoints) }

// AdjustCoins applies delta semantics to the player's coins.
func (p *Player) AdjustCoins(delta int) { ApplyDelta(delta, p.Coins, p.AddCoins, p.RemoveCoins) }

// AddPoints raises HighScore as soon as Score passes it.
func (l *Level) AddPoints(n int) {
	l.Score += n
	if l.Score > l.HighScore {
		l.HighScore = l.Score
	}
}

func (l *Level) RemovePoints(n int) { l.Score -= n }
func (l *Level) AddCoins(n int)     { l.Coins += n }
func (l *Level) RemoveCoins(n int)  { l.Coins -= n }

func (l *Level) AdjustScore(delta int) { ApplyDelta(delta, l.Score, l.AddPoints, l.RemovePoints) }
func (l *Level) AdjustCoins(delta int) { ApplyDelta(delta, l.Coins, l.AddCoins, l.RemoveCoins) }

// BeginRound snapshots OldHighScore and clears the round score and coins.
func (l *Level) BeginRound() {
	l.OldHighScore = l.HighScore
	l.Score = 0
	l.Coins = 0
}

// AwardStars ORs newly earned bits into StarsWon and returns the resulting mask.
// Bits outside AllStars are dropped.
func (l *Level) AwardStars(newStars int) int {
	l.StarsWon |= newStars & AllStars
	return l.StarsWon
}

// NewHighScore reports whether this round's commit beat the pre-round high score.
func (l *Level) NewHighScore() bool { return l.HighScore > l.OldHighScore }
