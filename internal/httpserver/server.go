// internal/httpserver/server.go
//
// HTTP server wiring for the progress service.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Operator auth: /auth/login, /auth/logout, /auth/me.
//   - Debug control panel (requires auth): mounted under /cheat.
//   - Game session + round end: mounted under /session.
//   - Reward countdown and leaderboard reads.
//
// Notes:
//   - Every handler touching game state runs inside Session.WithLock, so
//     requests act on the session one at a time.
//   - A misconfigured game-over view panics; Recoverer turns it into a 500.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/gameprogress/internal/analytics"
	"github.com/robalobadob/gameprogress/internal/catalog"
	"github.com/robalobadob/gameprogress/internal/cheat"
	"github.com/robalobadob/gameprogress/internal/config"
	"github.com/robalobadob/gameprogress/internal/gameover"
	"github.com/robalobadob/gameprogress/internal/prefs"
	"github.com/robalobadob/gameprogress/internal/progress"
	"github.com/robalobadob/gameprogress/internal/reward"
)

// Deps are the collaborators the server exposes.
type Deps struct {
	Session   *progress.Session
	Prefs     prefs.Preferences
	Catalog   *catalog.Catalog
	Panel     *cheat.Panel
	Evaluator *gameover.Evaluator
	Reward    *reward.Countdown // nil when disabled
	Rounds    *analytics.Store  // nil when no database is configured
	Operator  config.Operator
	Origin    string
	Now       func() time.Time
}

// Server bundles router and game collaborators.
type Server struct {
	r    *chi.Mux
	deps Deps

	// dialog is the open game-over view; guarded by the session lock.
	dialog *gameover.Dialog
}

// New constructs a Server, installs middleware, and registers routes.
func New(deps Deps) *Server {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	s := &Server{r: chi.NewRouter(), deps: deps}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFor(deps.Origin))            // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"gameprogress","endpoints":["/health","/auth/*","/cheat/*","/session/*","/reward","/leaderboard/{level}"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.mountAuthRoutes()
	s.mountCheat()
	s.mountSession()
	s.mountReward()

	s.r.Get("/leaderboard/{level}", s.handleLeaderboard)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// shutdownGrace bounds how long in-flight requests get once ctx is done.
const shutdownGrace = 5 * time.Second

// Start serves HTTP on addr until ctx is cancelled, then drains in-flight
// requests and closes any open game-over dialog. It returns nil on a clean stop.
func (s *Server) Start(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	hs := &http.Server{Handler: s.r, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- hs.Serve(ln) }()

	select {
	case err := <-errCh:
		s.Shutdown()
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down http server")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	err := hs.Shutdown(sctx)
	if serr := <-errCh; serr != nil && !errors.Is(serr, http.ErrServerClosed) && err == nil {
		err = serr
	}
	s.Shutdown()
	return err
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Shutdown closes any open game-over dialog so its timer stops.
func (s *Server) Shutdown() {
	var d *gameover.Dialog
	s.deps.Session.WithLock(func() { d, s.dialog = s.dialog, nil })
	d.Close()
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFor enables credentialed CORS for a single origin.
func corsFor(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	body := map[string]string{"error": code}
	if msg != "" {
		body["message"] = msg
	}
	writeJSON(w, status, body)
}

// decode reads an optional JSON body; an empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
