// internal/gameover/options.go
//
// Display options and view layout for the game-over dialog.

package gameover

import (
	"fmt"
	"time"
)

// Region names a display area of the game-over view.
type Region string

const (
	RegionWon         Region = "Won"
	RegionLost        Region = "Lost"
	RegionAchievement Region = "AchievementText"
	RegionStars       Region = "Stars"
	RegionTime        Region = "Time"
	RegionCoins       Region = "Coins"
	RegionScore       Region = "Score"
	RegionTargetCoins Region = "TargetCoins"
)

// Layout is the set of regions the view provides.
type Layout map[Region]bool

// NewLayout builds a Layout from region names.
func NewLayout(regions ...string) Layout {
	l := make(Layout, len(regions))
	for _, r := range regions {
		l[Region(r)] = true
	}
	return l
}

// FullLayout has every known region.
func FullLayout() Layout {
	return NewLayout(string(RegionWon), string(RegionLost), string(RegionAchievement),
		string(RegionStars), string(RegionTime), string(RegionCoins), string(RegionScore),
		string(RegionTargetCoins))
}

func (l Layout) Has(r Region) bool { return l[r] }

// Options tune the evaluator. They can be swapped at runtime with SetOptions.
type Options struct {
	// TimesPlayedBeforeRatingPrompt fires the rating prompt when the play
	// counter equals it exactly. -1 disables the prompt.
	TimesPlayedBeforeRatingPrompt int

	ShowStars bool
	ShowTime  bool
	ShowCoins bool
	ShowScore bool

	// PeriodicUpdateDelay between needed-coins recomputes. About zero disables them.
	PeriodicUpdateDelay time.Duration

	Layout Layout
}

func DefaultOptions() Options {
	return Options{
		TimesPlayedBeforeRatingPrompt: -1,
		ShowStars:                     true,
		ShowTime:                      true,
		ShowCoins:                     true,
		ShowScore:                     true,
		PeriodicUpdateDelay:           time.Second,
		Layout:                        FullLayout(),
	}
}

// periodicEnabled treats anything under a microsecond as zero.
func (o Options) periodicEnabled() bool {
	return o.PeriodicUpdateDelay >= time.Microsecond
}

// AssertionError reports a misconfigured view. It is raised with panic.
type AssertionError struct {
	Msg string
}

func (e *AssertionError) Error() string { return "gameover: " + e.Msg }

func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(&AssertionError{Msg: fmt.Sprintf(format, args...)})
	}
}
