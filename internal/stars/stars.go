// internal/stars/stars.go
//
// Rules deciding which stars a finished round earns.
//
// A rule returns a bitmask of newly earned stars (1, 2, 4 for star 1, 2, 3).
// The evaluator ORs the result into the level's stars-won mask, so rules never
// need to know what was earned before.
//
// Rules:
//   - None:       base contract, earns nothing.
//   - Thresholds: star i is earned on a win when score ≥ the level's i-th star score.
//   - Script:     a tengo script computes the mask (see script.go).

package stars

import "time"

// Round is what a rule sees of a finished round.
type Round struct {
	Level      int
	Won        bool
	Score      int
	Coins      int
	Elapsed    time.Duration
	Thresholds []int // star scores from the level catalog
}

// Rule computes newly earned stars.
type Rule interface {
	NewStarsWon(r Round) (int, error)
}

// None never awards stars.
type None struct{}

func (None) NewStarsWon(Round) (int, error) { return 0, nil }

// Thresholds awards star i when a won round reaches Thresholds[i].
type Thresholds struct{}

func (Thresholds) NewStarsWon(r Round) (int, error) {
	if !r.Won {
		return 0, nil
	}
	mask := 0
	for i, need := range r.Thresholds {
		if i >= 3 {
			break
		}
		if r.Score >= need {
			mask |= 1 << i
		}
	}
	return mask, nil
}
