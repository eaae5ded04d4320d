// Package filestore persists the appointment collection as one JSON document on disk.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"bookwise/backend/internal/store"
)

type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// LoadAll reads the document. A missing file is an empty collection.
func (s *Store) LoadAll(ctx context.Context) (store.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return store.Snapshot{}, nil
	}
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("read %s: %w", s.path, err)
	}
	return store.DecodeSnapshot(data)
}

// SaveAll writes to a temp file in the same directory and renames it over the
// document, so readers never see a partial write.
func (s *Store) SaveAll(ctx context.Context, snap store.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := store.EncodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("encode appointments: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".appointments-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
