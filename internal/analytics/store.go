// internal/analytics/store.go
//
// Round records for finished levels.
// Exposes:
//   - Record: insert one finished round (fire-and-forget from the evaluator's view).
//   - Leaderboard: best scores for a level.
//
// Backed by the `rounds` table (see assets/sql).

package analytics

import (
	"context"
	"database/sql"
	"time"
)

// Event is one finished round as reported by the game-over evaluator.
type Event struct {
	Level    int            `json:"level"`
	Won      bool           `json:"won"`
	Score    int            `json:"score"`
	Coins    int            `json:"coins"`
	Elapsed  *time.Duration `json:"elapsed,omitempty"` // nil when time display is off
	StarsWon int            `json:"starsWon"`
}

// Recorder receives round events.
type Recorder interface {
	Record(ctx context.Context, e Event) error
}

// Store is the SQLite Recorder.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Record(ctx context.Context, e Event) error {
	var elapsed any
	if e.Elapsed != nil {
		elapsed = e.Elapsed.Milliseconds()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rounds(level, won, score, coins, elapsed_ms, stars_won)
VALUES(?,?,?,?,?,?)`, e.Level, e.Won, e.Score, e.Coins, elapsed, e.StarsWon,
	)
	return err
}

// LBRow is one leaderboard entry.
type LBRow struct {
	Score     int    `json:"score"`
	Coins     int    `json:"coins"`
	ElapsedMs *int64 `json:"elapsedMs,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// Leaderboard limits.
const (
	DefaultLeaderboardLimit = 20
	MaxLeaderboardLimit     = 100
)

// Leaderboard returns the best won rounds for level, highest score first.
// limit defaults to 20 and is capped at MaxLeaderboardLimit.
func (s *Store) Leaderboard(ctx context.Context, level, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	limit = min(limit, MaxLeaderboardLimit)
	rows, err := s.db.QueryContext(ctx,
		`SELECT score, coins, elapsed_ms, created_at
FROM rounds
WHERE level=? AND won=1
ORDER BY score DESC, elapsed_ms ASC, created_at ASC
LIMIT ?`, level, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LBRow
	for rows.Next() {
		var r LBRow
		var elapsed sql.NullInt64
		if err := rows.Scan(&r.Score, &r.Coins, &elapsed, &r.CreatedAt); err != nil {
			return nil, err
		}
		if elapsed.Valid {
			v := elapsed.Int64
			r.ElapsedMs = &v
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
