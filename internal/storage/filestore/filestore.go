// Package filestore saves session snapshots as one JSON file per session.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/coltonswapp/hardway-blackjack/internal/session"
)

const ext = ".json"

// ErrNotFound is returned by Load for an unknown session id.
var ErrNotFound = errors.New("filestore: session not found")

// Store writes snapshots under a directory.
type Store struct {
	dir    string
	perm   os.FileMode
	logger *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) { s.logger = logger.WithPrefix("filestore") }
}

// WithPerm sets the mode of written snapshot files.
func WithPerm(perm os.FileMode) Option {
	return func(s *Store) { s.perm = perm }
}

// New creates dir if needed and returns a Store rooted there.
func New(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, errors.New("filestore: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	s := &Store{dir: dir, perm: 0o644, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(id string) string { return filepath.Join(s.dir, id+ext) }

// SaveSession implements session.Sink. Saving the same id again replaces the
// earlier snapshot.
func (s *Store) SaveSession(ctx context.Context, snap session.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap.ID == "" || strings.ContainsAny(snap.ID, `/\`) {
		return fmt.Errorf("filestore: invalid session id %q", snap.ID)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := writeFileAtomic(s.path(snap.ID), append(data, '\n'), s.perm); err != nil {
		return err
	}
	s.logger.Debug("Saved session", "id", snap.ID, "hands", snap.HandCount, "path", s.path(snap.ID))
	return nil
}

// Load reads the snapshot saved under id.
func (s *Store) Load(id string) (session.Snapshot, error) {
	var snap session.Snapshot
	data, err := os.ReadFile(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return snap, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return snap, fmt.Errorf("failed to read session: %w", err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return snap, nil
}

// List returns the saved session ids, oldest first.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ext {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ext))
	}
	// Session ids are time ordered.
	slices.Sort(ids)
	return ids, nil
}

// writeFileAtomic writes through a temp file in the same directory and
// renames it into place, so readers see the old file or the new one.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	tmp = nil

	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
