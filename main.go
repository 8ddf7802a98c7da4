// main.go
//
// Entry point for the progress service.
// Responsibilities:
//   - Load .env and config, set the log level.
//   - Open the preference backend (memory, sqlite or gdata) and the store.
//   - Build the session, debug panel, round-end evaluator and reward countdown.
//   - Hot-reload game-over tuning when the config file changes.
//   - Serve the HTTP API until SIGINT/SIGTERM, then shut down in order:
//     HTTP server, open game-over dialog, config watcher, prefs store.

package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/gameprogress/assets"
	"github.com/robalobadob/gameprogress/internal/analytics"
	"github.com/robalobadob/gameprogress/internal/catalog"
	"github.com/robalobadob/gameprogress/internal/cheat"
	"github.com/robalobadob/gameprogress/internal/config"
	"github.com/robalobadob/gameprogress/internal/feedback"
	"github.com/robalobadob/gameprogress/internal/gameover"
	"github.com/robalobadob/gameprogress/internal/httpserver"
	"github.com/robalobadob/gameprogress/internal/prefs"
	"github.com/robalobadob/gameprogress/internal/progress"
	"github.com/robalobadob/gameprogress/internal/reward"
	"github.com/robalobadob/gameprogress/internal/sqlitedb"
	"github.com/robalobadob/gameprogress/internal/stars"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

// run builds the service and serves until ctx is cancelled. Deferred
// cleanups run in reverse order on every return path.
func run(ctx context.Context) error {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	backend, db, err := openBackend(cfg.Prefs)
	if err != nil {
		return fmt.Errorf("open prefs backend %s: %w", cfg.Prefs.Backend, err)
	}
	if db != nil {
		defer db.Close()
	}
	store, err := prefs.Open(ctx, backend, cfg.Prefs.Secret)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}
	defer store.Close()
	if cfg.Prefs.UseSecure {
		if !store.SupportsSecurePrefs() {
			log.Warn().Msg("secure prefs requested but PREFS_SECRET is empty")
		}
		store.SetUseSecurePrefs(true)
	}

	cat, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		return fmt.Errorf("load level catalog: %w", err)
	}
	nw, nl := cat.Stats()
	log.Info().Int("worlds", nw).Int("levels", nl).Msg("catalog loaded")

	rule, err := starRule(cfg.Stars)
	if err != nil {
		return fmt.Errorf("build star rule %s: %w", cfg.Stars.Rule, err)
	}

	var countdown *reward.Countdown
	if cfg.Reward.Enabled {
		if countdown, err = reward.New(ctx, store, cfg.Reward.Delay(), time.Now); err != nil {
			return fmt.Errorf("start reward countdown: %w", err)
		}
	}

	session := progress.NewSession()
	deps := gameover.Deps{
		Session:  session,
		Rule:     rule,
		Feedback: &feedback.PrefsPrompter{Prefs: store},
		Scenes:   &progress.Scenes{Session: session},
	}
	var rounds *analytics.Store
	if db != nil {
		rounds = analytics.NewStore(db)
		deps.Analytics = rounds
	}
	eval := gameover.New(deps, gameOverOptions(cfg.GameOver))

	if cfg.Path != "" {
		w, err := config.Watch(cfg.Path, func(c *config.Config) {
			eval.SetOptions(gameOverOptions(c.GameOver))
		})
		if err != nil {
			log.Warn().Err(err).Msg("config hot reload disabled")
		} else {
			defer w.Close()
		}
	}

	srv := httpserver.New(httpserver.Deps{
		Session:   session,
		Prefs:     store,
		Catalog:   cat,
		Panel:     cheat.New(session, store, countdown),
		Evaluator: eval,
		Reward:    countdown,
		Rounds:    rounds,
		Operator:  cfg.Operator,
		Origin:    cfg.Server.ClientOrigin,
	})

	log.Info().Str("port", cfg.Server.Port).Str("prefs", cfg.Prefs.Backend).Msg("starting progress server")
	return srv.Start(ctx, ":"+cfg.Server.Port)
}

// openBackend returns the prefs backend and, for sqlite, the migrated database.
func openBackend(c config.Prefs) (prefs.Backend, *sql.DB, error) {
	switch c.Backend {
	case "sqlite":
		db, err := sqlitedb.Open(c.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := sqlitedb.Migrate(db, assets.Migrations(), assets.MigrationsDir); err != nil {
			db.Close()
			return nil, nil, err
		}
		return prefs.NewSQLite(db), db, nil
	case "gdata":
		g, err := prefs.OpenGData(c.AppName)
		return g, nil, err
	default:
		return prefs.NewMemory(), nil, nil
	}
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}

func starRule(c config.Stars) (stars.Rule, error) {
	switch c.Rule {
	case "thresholds":
		return stars.Thresholds{}, nil
	case "script":
		return stars.LoadScript(c.Script)
	default:
		return stars.None{}, nil
	}
}

func gameOverOptions(g config.GameOver) gameover.Options {
	return gameover.Options{
		TimesPlayedBeforeRatingPrompt: g.TimesPlayedBeforeRatingPrompt,
		ShowStars:                     g.ShowStars,
		ShowTime:                      g.ShowTime,
		ShowCoins:                     g.ShowCoins,
		ShowScore:                     g.ShowScore,
		PeriodicUpdateDelay:           g.Delay(),
		Layout:                        gameover.NewLayout(g.Regions...),
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
