// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

// Package file implements the index store as one JSON blob per document id.
// Writes go through a temp file and rename so a concurrent reader never
// observes a torn collection; beyond that, re-index races are accepted.
package file

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/paperlens-dev/paperlens/internal/config"
	"github.com/paperlens-dev/paperlens/internal/index"
	plerr "github.com/paperlens-dev/paperlens/pkg/errors"
)

func init() {
	index.RegisterBackend("file", func(cfg config.IndexConfig, _ int) (index.Store, error) {
		return NewStore(cfg.Dir)
	})
}

// Compile-time interface check.
var _ index.Store = (*Store)(nil)

// Store keeps each document's entries in <dir>/<doc_id>.json.
type Store struct {
	dir string
}

// NewStore creates the index directory if needed and returns a Store.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, plerr.Wrapf(err, plerr.CodeIndexWriteFailure, "creating index directory %s", dir)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(docID string) string {
	return filepath.Join(s.dir, docID+".json")
}

// Upsert serializes the full collection and atomically replaces the
// document's blob.
func (s *Store) Upsert(_ context.Context, docID string, entries []index.Entry) (int, error) {
	if entries == nil {
		entries = []index.Entry{}
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return 0, plerr.Wrapf(err, plerr.CodeIndexWriteFailure, "marshalling entries for %s", docID)
	}

	dest := s.path(docID)
	tmp, err := os.CreateTemp(s.dir, docID+".*.tmp")
	if err != nil {
		return 0, plerr.Wrapf(err, plerr.CodeIndexWriteFailure, "creating temp file for %s", docID)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return 0, plerr.Wrapf(err, plerr.CodeIndexWriteFailure, "writing entries for %s", docID)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return 0, plerr.Wrapf(err, plerr.CodeIndexWriteFailure, "closing temp file for %s", docID)
	}

	if err := os.Rename(tmpName, dest); err != nil {
		_ = os.Remove(tmpName)
		return 0, plerr.Wrapf(err, plerr.CodeIndexWriteFailure, "replacing index for %s", docID)
	}

	return len(entries), nil
}

// Load reads each id's blob in the order given. Absent files are skipped;
// corrupt files are skipped with a warning rather than failing the query.
func (s *Store) Load(_ context.Context, docIDs []string) ([]index.Entry, error) {
	var out []index.Entry
	for _, docID := range docIDs {
		raw, err := os.ReadFile(s.path(docID))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, plerr.Wrapf(err, plerr.CodeIndexReadFailure, "reading index for %s", docID)
		}

		var entries []index.Entry
		if err := json.Unmarshal(raw, &entries); err != nil {
			slog.Warn("skipping corrupt index collection", "doc_id", docID, "error", err)
			continue
		}
		out = append(out, entries...)
	}
	return out, nil
}

func (s *Store) Close() error { return nil }
