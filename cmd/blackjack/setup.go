package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/coltonswapp/hardway-blackjack/internal/config"
	"github.com/coltonswapp/hardway-blackjack/internal/session"
	"github.com/coltonswapp/hardway-blackjack/internal/storage/filestore"
	"github.com/coltonswapp/hardway-blackjack/internal/storage/sqlitestore"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// money formats whole units with thousands separators.
func money(n int) string {
	return printer.Sprintf("$%d", n)
}

// loadConfig reads the config file, applies BLACKJACK_* overrides and the
// global flags, then validates.
func loadConfig(g *Globals) (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(nil); err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.Logging.Level = g.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", g.Config, err)
	}
	return cfg, nil
}

// newLogger logs to stderr, or to the configured file, and reports any
// config settings that were ignored. The returned closer is never nil.
func newLogger(cfg *config.Config) (*log.Logger, func() error, error) {
	var (
		w      io.Writer = os.Stderr
		closer           = func() error { return nil }
	)
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closer = f, f.Close
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           cfg.LogLevel(),
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	for _, setting := range cfg.Ignored() {
		logger.Warn("Ignoring setting, keeping previous value", "setting", setting, "decks", cfg.Table.Decks)
	}
	return logger, closer, nil
}

// sessionStore is a sink that can also list what it saved.
type sessionStore interface {
	session.Sink
	Summaries(ctx context.Context, limit int) ([]session.Snapshot, error)
	Close() error
}

// openStore opens the configured snapshot store; nil when storage is off.
func openStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (sessionStore, error) {
	switch cfg.Storage.Driver {
	case config.DriverNone:
		return nil, nil
	case config.DriverFile:
		store, err := filestore.New(cfg.Storage.Path, filestore.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return fileStore{store}, nil
	case config.DriverSQLite:
		db, err := sqlitestore.Open(ctx, cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		return sqliteStore{db}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

type fileStore struct{ *filestore.Store }

func (s fileStore) Summaries(_ context.Context, limit int) ([]session.Snapshot, error) {
	ids, err := s.List()
	if err != nil {
		return nil, err
	}
	var out []session.Snapshot
	for i := len(ids) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		snap, err := s.Load(ids[i])
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}

func (fileStore) Close() error { return nil }

type sqliteStore struct{ *sqlitestore.Store }

func (s sqliteStore) Summaries(ctx context.Context, limit int) ([]session.Snapshot, error) {
	rows, err := s.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]session.Snapshot, 0, len(rows))
	for _, row := range rows {
		snap, err := s.Load(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}

// saveSession saves through the engine's sink, treating a missing sink as
// storage being turned off.
func saveSession(ctx context.Context, save func(context.Context) error) (bool, error) {
	err := save(ctx)
	if errors.Is(err, session.ErrNoSink) {
		return false, nil
	}
	return err == nil, err
}
