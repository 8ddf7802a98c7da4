// internal/httpserver/routes_cheat.go
//
// HTTP routes for the debug control panel. All require operator auth.
//
//   GET  /cheat/status            → labels: lives, score, coins, level, prize countdown
//   POST /cheat/prefs/reset       → wipe every stored preference
//   POST /cheat/player/lives      {"delta": ±1}
//   POST /cheat/player/score      {"delta": n} or {"reset": true}
//   POST /cheat/player/coins      {"delta": n} or {"reset": true}
//   POST /cheat/worlds/{unlock|lock}
//   POST /cheat/levels/{unlock|lock}
//   POST /cheat/level/score       {"delta": n} or {"reset": true}  (selected level)
//   POST /cheat/level/coins       {"delta": n} or {"reset": true}  (selected level)
//   POST /cheat/reward/available  → prize available now
//   POST /cheat/reward/reset      → restart countdown
//
// A delta of 0 means reset, like the panel's "0" button.
// A failed precondition answers 409 with the warning text.

package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/gameprogress/internal/cheat"
	"github.com/robalobadob/gameprogress/internal/progress"
)

type deltaReq struct {
	Delta int  `json:"delta"`
	Reset bool `json:"reset"`
}

// amount maps the request to a delta, turning reset (or 0) into progress.Reset.
func (d deltaReq) amount() int {
	if d.Reset || d.Delta == 0 {
		return progress.Reset
	}
	return d.Delta
}

// mountCheat registers all /cheat routes.
func (s *Server) mountCheat() {
	p := s.deps.Panel
	s.r.Route("/cheat", func(r chi.Router) {
		r.Use(s.requireAuth())

		r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
			var st cheat.Status
			s.deps.Session.WithLock(func() { st = p.Status() })
			writeJSON(w, http.StatusOK, st)
		})

		r.Post("/prefs/reset", s.ctxCommand(p.ResetPreferences))

		r.Post("/player/lives", s.handleLives)
		r.Post("/player/score", s.deltaCommand(p.AdjustPlayerScore))
		r.Post("/player/coins", s.deltaCommand(p.AdjustPlayerCoins))

		r.Post("/worlds/unlock", s.ctxCommand(p.UnlockAllWorlds))
		r.Post("/worlds/lock", s.ctxCommand(p.LockAllWorlds))
		r.Post("/levels/unlock", s.ctxCommand(p.UnlockAllLevels))
		r.Post("/levels/lock", s.ctxCommand(p.LockAllLevels))

		r.Post("/level/score", s.deltaCommand(p.AdjustLevelScore))
		r.Post("/level/coins", s.deltaCommand(p.AdjustLevelCoins))

		r.Post("/reward/available", s.ctxCommand(p.MakeRewardAvailable))
		r.Post("/reward/reset", s.ctxCommand(p.ResetRewardCountdown))
	})
}

func (s *Server) handleLives(w http.ResponseWriter, r *http.Request) {
	var req deltaReq
	if err := decode(r, &req); err != nil || req.Delta == 0 {
		writeError(w, http.StatusBadRequest, "bad_delta", "lives need a non-zero delta")
		return
	}
	var err error
	s.deps.Session.WithLock(func() { err = s.deps.Panel.AdjustLives(req.Delta) })
	s.commandResult(w, err)
}

// deltaCommand adapts a score/coin command to an HTTP handler.
func (s *Server) deltaCommand(cmd func(delta int) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req deltaReq
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json", "")
			return
		}
		var err error
		s.deps.Session.WithLock(func() { err = cmd(req.amount()) })
		s.commandResult(w, err)
	}
}

// ctxCommand adapts a persisting command to an HTTP handler.
func (s *Server) ctxCommand(cmd func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		s.deps.Session.WithLock(func() { err = cmd(r.Context()) })
		s.commandResult(w, err)
	}
}

// commandResult answers with the fresh panel status, or the failure.
func (s *Server) commandResult(w http.ResponseWriter, err error) {
	var pe *cheat.PreconditionError
	switch {
	case errors.As(err, &pe):
		writeError(w, http.StatusConflict, "precondition", pe.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, "command_failed", err.Error())
	default:
		var st cheat.Status
		s.deps.Session.WithLock(func() { st = s.deps.Panel.Status() })
		writeJSON(w, http.StatusOK, st)
	}
}
