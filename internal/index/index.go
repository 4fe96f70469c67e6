// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

// Package index persists per-document chunk embeddings. Each document owns
// one ordered collection of entries; re-indexing replaces the collection
// wholesale. Single-writer-per-document is an external contract, not
// enforced here.
package index

import (
	"context"
	"fmt"
)

// Meta is the citation metadata carried alongside each entry.
type Meta struct {
	FileID string `json:"file_id"`
	Page   *int   `json:"page"`
	Source string `json:"source"`
	Title  string `json:"title"`
}

// Entry is one persisted (vector, text, metadata) triple for a chunk.
type Entry struct {
	ID     string    `json:"id"`
	Vector []float32 `json:"vector"`
	Text   string    `json:"text"`
	Meta   Meta      `json:"meta"`
}

// EntryID derives the stable entry id for a chunk of a document.
func EntryID(docID string, seq int) string {
	return fmt.Sprintf("%s_%d", docID, seq)
}

// Store persists and reloads per-document entry collections.
type Store interface {
	// Upsert overwrites the persisted entries for docID and returns the
	// count written. There is no incremental merge.
	Upsert(ctx context.Context, docID string, entries []Entry) (int, error)

	// Load returns the concatenated collections for the given ids, in id
	// order then insertion order. Ids with no stored collection are
	// silently skipped — absence is not an error.
	Load(ctx context.Context, docIDs []string) ([]Entry, error)

	Close() error
}
