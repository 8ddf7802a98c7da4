// internal/httpserver/routes_session.go
//
// HTTP routes driving a game session and its round-end dialog.
//
//   POST /session/start            → load game manager, enter play mode
//   POST /session/stop             → close dialog, leave play mode
//   POST /session/level/select     {"number": n}
//   POST /session/round/start      → begin a round on the selected level
//   POST /session/round/points     {"amount": n}   (level + player)
//   POST /session/round/coins      {"amount": n}   (level + player)
//   POST /session/round/finish     {"won": bool}   → game-over summary
//   GET  /session/gameover         → current summary (needed coins kept fresh)
//   POST /session/gameover/{close|continue|retry|share}

package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/gameprogress/internal/gameover"
	"github.com/robalobadob/gameprogress/internal/progress"
)

type selectReq struct {
	Number int `json:"number"`
}

type amountReq struct {
	Amount int `json:"amount"`
}

type finishReq struct {
	Won bool `json:"won"`
}

// mountSession registers all /session routes.
func (s *Server) mountSession() {
	s.r.Route("/session", func(r chi.Router) {
		r.Post("/start", s.handleSessionStart)
		r.Post("/stop", s.handleSessionStop)
		r.Post("/level/select", s.handleSelectLevel)
		r.Post("/round/start", s.handleRoundStart)
		r.Post("/round/points", s.handleRoundAmount(func(gm *progress.GameManager, l *progress.Level, n int) {
			l.AddPoints(n)
			gm.Player.AddPoints(n)
		}))
		r.Post("/round/coins", s.handleRoundAmount(func(gm *progress.GameManager, l *progress.Level, n int) {
			l.AddCoins(n)
			gm.Player.AddCoins(n)
		}))
		r.Post("/round/finish", s.handleRoundFinish)

		r.Get("/gameover", s.handleGameOver)
		r.Post("/gameover/close", s.handleGameOverClose)
		r.Post("/gameover/continue", s.handleGameOverLeave((*gameover.Dialog).Continue))
		r.Post("/gameover/retry", s.handleGameOverLeave((*gameover.Dialog).Retry))
		r.Post("/gameover/share", s.handleGameOverShare)
	})
}

// closeDialogLocked detaches and stops the open dialog. Caller holds the session lock.
func (s *Server) closeDialogLocked() {
	s.dialog.Close()
	s.dialog = nil
}

func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	s.deps.Session.WithLock(func() {
		s.closeDialogLocked()
		gm := progress.NewGameManager(s.deps.Catalog, s.deps.Prefs)
		s.deps.Session.Start(gm)
	})
	s.commandResult(w, nil)
}

func (s *Server) handleSessionStop(w http.ResponseWriter, r *http.Request) {
	s.deps.Session.WithLock(func() {
		s.closeDialogLocked()
		s.deps.Session.Stop()
	})
	s.commandResult(w, nil)
}

func (s *Server) handleSelectLevel(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "")
		return
	}
	var status int
	var msg string
	s.deps.Session.WithLock(func() {
		gm := s.deps.Session.Manager()
		if gm == nil || gm.Levels == nil {
			status, msg = http.StatusConflict, "no levels loaded"
			return
		}
		if err := gm.Levels.Select(req.Number); err != nil {
			status, msg = http.StatusNotFound, err.Error()
			return
		}
		if l := gm.Levels.Selected(); !l.IsUnlocked {
			log.Warn().Int("level", l.Number).Msg("selected a locked level")
		}
	})
	if status != 0 {
		writeError(w, status, "select_failed", msg)
		return
	}
	s.commandResult(w, nil)
}

func (s *Server) handleRoundStart(w http.ResponseWriter, r *http.Request) {
	var err error
	s.deps.Session.WithLock(func() {
		gm := s.deps.Session.Manager()
		if !s.deps.Session.IsActive() {
			err = progress.ErrNoManager
			return
		}
		s.closeDialogLocked()
		_, err = gm.BeginRound(s.deps.Now())
	})
	if err != nil {
		writeError(w, http.StatusConflict, "round_start_failed", err.Error())
		return
	}
	s.commandResult(w, nil)
}

func (s *Server) handleRoundAmount(apply func(gm *progress.GameManager, l *progress.Level, n int)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req amountReq
		if err := decode(r, &req); err != nil || req.Amount <= 0 {
			writeError(w, http.StatusBadRequest, "bad_amount", "amount must be positive")
			return
		}
		ok := false
		s.deps.Session.WithLock(func() {
			gm := s.deps.Session.Manager()
			if !s.deps.Session.IsActive() || !gm.RoundActive() {
				return
			}
			apply(gm, gm.Levels.Selected(), req.Amount)
			ok = true
		})
		if !ok {
			writeError(w, http.StatusConflict, "no_round", "start a round first")
			return
		}
		s.commandResult(w, nil)
	}
}

func (s *Server) handleRoundFinish(w http.ResponseWriter, r *http.Request) {
	var req finishReq
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "")
		return
	}
	var (
		sum gameover.Summary
		err error
	)
	s.deps.Session.WithLock(func() {
		if !s.deps.Session.IsActive() {
			err = gameover.ErrNoSession
			return
		}
		s.closeDialogLocked()
		s.deps.Session.Manager().EndRound()
		var d *gameover.Dialog
		if d, err = s.deps.Evaluator.Show(r.Context(), req.Won); err != nil {
			return
		}
		s.dialog = d
		sum = d.Summary()
	})
	if err != nil {
		writeError(w, http.StatusConflict, "no_session", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleGameOver(w http.ResponseWriter, r *http.Request) {
	var d *gameover.Dialog
	s.deps.Session.WithLock(func() { d = s.dialog })
	if d == nil {
		writeError(w, http.StatusNotFound, "no_dialog", "")
		return
	}
	writeJSON(w, http.StatusOK, d.Summary())
}

func (s *Server) handleGameOverClose(w http.ResponseWriter, r *http.Request) {
	s.deps.Session.WithLock(s.closeDialogLocked)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// takeDialog detaches the open dialog without closing it.
func (s *Server) takeDialog() *gameover.Dialog {
	var d *gameover.Dialog
	s.deps.Session.WithLock(func() { d, s.dialog = s.dialog, nil })
	return d
}

func (s *Server) handleGameOverLeave(leave func(*gameover.Dialog, context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d := s.takeDialog()
		if d == nil {
			writeError(w, http.StatusNotFound, "no_dialog", "")
			return
		}
		if err := leave(d, r.Context()); err != nil {
			d.Close()
			status := http.StatusConflict
			if errors.Is(err, gameover.ErrUnsupported) {
				status = http.StatusNotImplemented
			}
			writeError(w, status, "scene_failed", err.Error())
			return
		}
		s.commandResult(w, nil)
	}
}

func (s *Server) handleGameOverShare(w http.ResponseWriter, r *http.Request) {
	var d *gameover.Dialog
	s.deps.Session.WithLock(func() { d = s.dialog })
	if d == nil {
		writeError(w, http.StatusNotFound, "no_dialog", "")
		return
	}
	if err := d.Share(r.Context()); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, gameover.ErrUnsupported) {
			status = http.StatusNotImplemented
		}
		writeError(w, status, "share_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
