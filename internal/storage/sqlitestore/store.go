// Package sqlitestore persists session snapshots in a SQLite database.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/coltonswapp/hardway-blackjack/internal/session"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by Load for an unknown session id.
var ErrNotFound = errors.New("sqlitestore: session not found")

var schema = []string{`
CREATE TABLE IF NOT EXISTS sessions (
	id               TEXT PRIMARY KEY,
	start_time       INTEGER NOT NULL,
	duration_ns      INTEGER NOT NULL,
	starting_balance INTEGER NOT NULL,
	ending_balance   INTEGER NOT NULL,
	hand_count       INTEGER NOT NULL,
	balance_history  TEXT NOT NULL,
	bet_history      TEXT NOT NULL,
	metrics          TEXT NOT NULL,
	saved_at         INTEGER NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS sessions_start_time ON sessions (start_time)`,
}

// Store persists sessions in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Summary is one row of List.
type Summary struct {
	ID        string
	StartTime time.Time
	Duration  time.Duration
	HandCount int
	Net       int
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens or creates the database at path and ensures the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveSession implements session.Sink. A later save of the same id
// replaces the row.
func (s *Store) SaveSession(ctx context.Context, snap session.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(snap.ID) == "" {
		return fmt.Errorf("session id is required")
	}

	balances, err := json.Marshal(nonNil(snap.BalanceHistory))
	if err != nil {
		return fmt.Errorf("encode balance history: %w", err)
	}
	bets, err := json.Marshal(nonNil(snap.BetSizeHistory))
	if err != nil {
		return fmt.Errorf("encode bet history: %w", err)
	}
	metrics, err := json.Marshal(snap.Metrics)
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (
		   id, start_time, duration_ns, starting_balance, ending_balance,
		   hand_count, balance_history, bet_history, metrics, saved_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   duration_ns = excluded.duration_ns,
		   ending_balance = excluded.ending_balance,
		   hand_count = excluded.hand_count,
		   balance_history = excluded.balance_history,
		   bet_history = excluded.bet_history,
		   metrics = excluded.metrics,
		   saved_at = excluded.saved_at`,
		snap.ID,
		toMillis(snap.StartTime),
		int64(snap.Duration),
		snap.StartingBalance,
		snap.EndingBalance,
		snap.HandCount,
		string(balances),
		string(bets),
		string(metrics),
		toMillis(s.now()),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load returns the session saved under id.
func (s *Store) Load(ctx context.Context, id string) (session.Snapshot, error) {
	var (
		snap               session.Snapshot
		start, duration    int64
		balances, bets, ms string
	)
	row := s.db.QueryRowContext(ctx,
		`SELECT id, start_time, duration_ns, starting_balance, ending_balance,
		        hand_count, balance_history, bet_history, metrics
		   FROM sessions WHERE id = ?`, id)
	err := row.Scan(&snap.ID, &start, &duration, &snap.StartingBalance, &snap.EndingBalance,
		&snap.HandCount, &balances, &bets, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return session.Snapshot{}, fmt.Errorf("load session: %w", err)
	}

	snap.StartTime = fromMillis(start)
	snap.Duration = time.Duration(duration)
	if err := json.Unmarshal([]byte(balances), &snap.BalanceHistory); err != nil {
		return session.Snapshot{}, fmt.Errorf("decode balance history: %w", err)
	}
	if err := json.Unmarshal([]byte(bets), &snap.BetSizeHistory); err != nil {
		return session.Snapshot{}, fmt.Errorf("decode bet history: %w", err)
	}
	if err := json.Unmarshal([]byte(ms), &snap.Metrics); err != nil {
		return session.Snapshot{}, fmt.Errorf("decode metrics: %w", err)
	}
	return snap, nil
}

// List returns up to limit sessions, newest first. limit <= 0 means all.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	query := `SELECT id, start_time, duration_ns, hand_count, ending_balance - starting_balance
	            FROM sessions ORDER BY start_time DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum             Summary
			start, duration int64
		)
		if err := rows.Scan(&sum.ID, &start, &duration, &sum.HandCount, &sum.Net); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sum.StartTime = fromMillis(start)
		sum.Duration = time.Duration(duration)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return out, nil
}

func nonNil(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}
