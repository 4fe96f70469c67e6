// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

// Package sqlite implements the index store on SQLite with the vec0
// extension: embeddings live in a vec0 virtual table, text and citation
// metadata in a companion table keyed by entry id.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/paperlens-dev/paperlens/internal/config"
	"github.com/paperlens-dev/paperlens/internal/index"
	plerr "github.com/paperlens-dev/paperlens/pkg/errors"
)

func init() {
	sqlite_vec.Auto()

	index.RegisterBackend("sqlite", func(cfg config.IndexConfig, dims int) (index.Store, error) {
		return NewStore(cfg.Path, dims)
	})
}

// Compile-time interface check.
var _ index.Store = (*Store)(nil)

// Store persists entry collections in a single SQLite database.
type Store struct {
	db         *sql.DB
	dimensions int
}

// NewStore opens (or creates) the database at dbPath and initialises the
// vec0 virtual table and companion entries table.
func NewStore(dbPath string, dimensions int) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, plerr.Wrapf(err, plerr.CodeIndexDatabaseFailure, "opening sqlite db")
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, plerr.Wrapf(err, plerr.CodeIndexDatabaseFailure, "pinging sqlite db")
	}

	if err := migrate(db, dimensions); err != nil {
		_ = db.Close()
		return nil, plerr.Wrapf(err, plerr.CodeIndexDatabaseFailure, "migrating index tables")
	}

	return &Store{db: db, dimensions: dimensions}, nil
}

func migrate(db *sql.DB, dimensions int) error {
	vecDDL := fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS chunk_vectors USING vec0(entry_id TEXT PRIMARY KEY, embedding float[%d])`,
		dimensions,
	)
	if _, err := db.Exec(vecDDL); err != nil {
		return fmt.Errorf("creating chunk_vectors virtual table: %w", err)
	}

	const entriesDDL = `
CREATE TABLE IF NOT EXISTS chunk_entries (
	entry_id TEXT PRIMARY KEY,
	doc_id   TEXT NOT NULL,
	seq      INTEGER NOT NULL,
	text     TEXT NOT NULL,
	meta     TEXT NOT NULL DEFAULT '{}'
)`
	if _, err := db.Exec(entriesDDL); err != nil {
		return fmt.Errorf("creating chunk_entries table: %w", err)
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS chunk_entries_doc ON chunk_entries(doc_id)`); err != nil {
		return fmt.Errorf("creating chunk_entries doc index: %w", err)
	}

	return nil
}

// Upsert replaces the document's rows in both tables inside one
// transaction. vec0 has no ON CONFLICT support, so replace means delete
// then insert.
func (s *Store) Upsert(ctx context.Context, docID string, entries []index.Entry) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, plerr.Wrapf(err, plerr.CodeIndexDatabaseFailure, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	const deleteVectors = `DELETE FROM chunk_vectors WHERE entry_id IN
(SELECT entry_id FROM chunk_entries WHERE doc_id = ?)`
	if _, err := tx.ExecContext(ctx, deleteVectors, docID); err != nil {
		return 0, plerr.Wrapf(err, plerr.CodeIndexWriteFailure, "deleting vectors for %s", docID)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM chunk_entries WHERE doc_id = ?`, docID); err != nil {
		return 0, plerr.Wrapf(err, plerr.CodeIndexWriteFailure, "deleting entries for %s", docID)
	}

	for seq, entry := range entries {
		blob, err := sqlite_vec.SerializeFloat32(entry.Vector)
		if err != nil {
			return 0, plerr.Wrapf(err, plerr.CodeIndexVectorInvalid, "serializing vector %s", entry.ID)
		}

		metaJSON, err := json.Marshal(entry.Meta)
		if err != nil {
			return 0, plerr.Wrapf(err, plerr.CodeIndexWriteFailure, "marshalling meta %s", entry.ID)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chunk_vectors(entry_id, embedding) VALUES (?, ?)`, entry.ID, blob); err != nil {
			return 0, plerr.Wrapf(err, plerr.CodeIndexWriteFailure, "inserting vector %s", entry.ID)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chunk_entries(entry_id, doc_id, seq, text, meta) VALUES (?, ?, ?, ?, ?)`,
			entry.ID, docID, seq, entry.Text, string(metaJSON)); err != nil {
			return 0, plerr.Wrapf(err, plerr.CodeIndexWriteFailure, "inserting entry %s", entry.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, plerr.Wrapf(err, plerr.CodeIndexDatabaseFailure, "committing upsert for %s", docID)
	}
	return len(entries), nil
}

// Load reads each document's collection in seq order. Documents with no
// rows contribute nothing.
func (s *Store) Load(ctx context.Context, docIDs []string) ([]index.Entry, error) {
	const q = `SELECT e.entry_id, e.text, e.meta, v.embedding
FROM chunk_entries e
JOIN chunk_vectors v ON v.entry_id = e.entry_id
WHERE e.doc_id = ?
ORDER BY e.seq`

	var out []index.Entry
	for _, docID := range docIDs {
		rows, err := s.db.QueryContext(ctx, q, docID)
		if err != nil {
			return nil, plerr.Wrapf(err, plerr.CodeIndexReadFailure, "querying entries for %s", docID)
		}

		entries, err := scanEntries(rows)
		_ = rows.Close()
		if err != nil {
			return nil, plerr.Wrapf(err, plerr.CodeIndexReadFailure, "scanning entries for %s", docID)
		}
		out = append(out, entries...)
	}
	return out, nil
}

func scanEntries(rows *sql.Rows) ([]index.Entry, error) {
	var entries []index.Entry
	for rows.Next() {
		var (
			entry   index.Entry
			metaStr string
			blob    []byte
		)
		if err := rows.Scan(&entry.ID, &entry.Text, &metaStr, &blob); err != nil {
			return nil, err
		}

		if err := json.Unmarshal([]byte(metaStr), &entry.Meta); err != nil {
			return nil, err
		}
		entry.Vector = deserializeFloat32(blob)

		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// deserializeFloat32 is the inverse of sqlite_vec.SerializeFloat32:
// little-endian float32 values packed back to back.
func deserializeFloat32(blob []byte) []float32 {
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		bits := binary.LittleEndian.Uint32(blob[i*4:])
		vec[i] = math.Float32frombits(bits)
	}
	return vec
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
