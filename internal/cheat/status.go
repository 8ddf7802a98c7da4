// internal/cheat/status.go
//
// Labels shown by the debug control panel.

package cheat

// Status is what the panel displays next to its buttons. Fields are nil
// when the value is not available in the current session.
type Status struct {
	Playing bool `json:"playing"`
	Active  bool `json:"active"`

	Lives *int `json:"lives,omitempty"`
	Score *int `json:"score,omitempty"`
	Coins *int `json:"coins,omitempty"`

	SelectedLevel *int `json:"selectedLevel,omitempty"`
	LevelScore    *int `json:"levelScore,omitempty"`
	LevelCoins    *int `json:"levelCoins,omitempty"`

	RewardActive bool   `json:"rewardActive"`
	Reward       string `json:"reward"`
}

func intp(v int) *int { return &v }

// Status reads the current labels. Must run inside Session.WithLock.
func (p *Panel) Status() Status {
	st := Status{Playing: p.session.Playing(), Active: p.session.IsActive()}
	if st.Active {
		gm := p.session.Manager()
		st.Lives = intp(gm.Player.Lives)
		st.Score = intp(gm.Player.Score)
		st.Coins = intp(gm.Player.Coins)
		if gm.Levels != nil && gm.Levels.Len() > 0 {
			l := gm.Levels.Selected()
			st.SelectedLevel = intp(l.Number)
			st.LevelScore = intp(l.Score)
			st.LevelCoins = intp(l.Coins)
		}
	}

	st.RewardActive = p.reward.IsActive()
	switch {
	case st.RewardActive && p.reward.IsPrizeAvailable():
		st.Reward = "prize available"
	case st.RewardActive:
		st.Reward = "prize in " + p.reward.TimeToPrizeString()
	default:
		st.Reward = "no reward countdown detected"
	}
	return st
}
