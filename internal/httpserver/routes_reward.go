// internal/httpserver/routes_reward.go
//
// Reward countdown and leaderboard reads.
//
//   GET  /reward               → countdown status
//   POST /reward/claim         → take an available prize, restart countdown
//   GET  /leaderboard/{level}  → best won rounds (?limit=n, max 100)

package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/gameprogress/internal/analytics"
)

type rewardRes struct {
	Active     bool   `json:"active"`
	Available  bool   `json:"available"`
	TimeToNext string `json:"timeToNext,omitempty"`
}

// mountReward registers GET /reward and POST /reward/claim.
func (s *Server) mountReward() {
	s.r.Get("/reward", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.rewardStatus())
	})
	s.r.Post("/reward/claim", func(w http.ResponseWriter, r *http.Request) {
		c := s.deps.Reward
		if !c.IsActive() {
			writeError(w, http.StatusNotFound, "no_reward", "")
			return
		}
		claimed, err := c.Claim(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "claim_failed", err.Error())
			return
		}
		if !claimed {
			writeError(w, http.StatusConflict, "not_available", "prize in "+c.TimeToPrizeString())
			return
		}
		writeJSON(w, http.StatusOK, s.rewardStatus())
	})
}

func (s *Server) rewardStatus() rewardRes {
	c := s.deps.Reward
	if !c.IsActive() {
		return rewardRes{}
	}
	res := rewardRes{Active: true, Available: c.IsPrizeAvailable()}
	if !res.Available {
		res.TimeToNext = c.TimeToPrizeString()
	}
	return res
}

// handleLeaderboard serves GET /leaderboard/{level}?limit=n.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.deps.Rounds == nil {
		writeError(w, http.StatusNotImplemented, "no_database", "")
		return
	}
	level, err := strconv.Atoi(chi.URLParam(r, "level"))
	if err != nil || level < 1 {
		writeError(w, http.StatusBadRequest, "bad_level", "")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	limit = min(limit, analytics.MaxLeaderboardLimit)
	rows, err := s.deps.Rounds.Leaderboard(r.Context(), level, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	if rows == nil {
		rows = []analytics.LBRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}
