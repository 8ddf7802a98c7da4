// internal/feedback/feedback.go
//
// Rating prompt shown after enough rounds have been played.

package feedback

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/gameprogress/internal/prefs"
)

// promptedKey counts rating prompts shown so far.
const promptedKey = "GameFeedback.Prompted"

// Prompter shows the "rate this game" prompt.
type Prompter interface {
	PromptRating(ctx context.Context)
}

// PrefsPrompter logs the prompt and counts it in prefs. It assumes the
// player likes the game and skips the "do you like it?" step.
type PrefsPrompter struct {
	Prefs prefs.Preferences
}

func (p *PrefsPrompter) PromptRating(ctx context.Context) {
	n := p.Prefs.GetInt(promptedKey, 0) + 1
	p.Prefs.SetInt(promptedKey, n)
	if err := p.Prefs.Save(ctx); err != nil {
		log.Warn().Err(err).Msg("save feedback prompt count")
	}
	log.Info().Int("times", n).Msg("rating prompt shown")
}

// Count returns how many prompts have been recorded.
func (p *PrefsPrompter) Count() int { return p.Prefs.GetInt(promptedKey, 0) }
