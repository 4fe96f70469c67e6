// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperlens-dev/paperlens/internal/index"
	"github.com/paperlens-dev/paperlens/internal/index/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.NewStore(filepath.Join(t.TempDir(), "index.db"), 3)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func entriesFor(docID string, n int) []index.Entry {
	page := 1
	entries := make([]index.Entry, n)
	for i := range entries {
		entries[i] = index.Entry{
			ID:     index.EntryID(docID, i),
			Vector: []float32{float32(i), 0.5, -1},
			Text:   "chunk text",
			Meta:   index.Meta{FileID: docID, Page: &page, Source: docID, Title: "Paper"},
		}
	}
	return entries
}

func TestStore_RoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	n, err := store.Upsert(ctx, "doc-a", entriesFor("doc-a", 3))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := store.Load(ctx, []string{"doc-a"})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "doc-a_0", got[0].ID)
	assert.Equal(t, []float32{0, 0.5, -1}, got[0].Vector)
	assert.Equal(t, "chunk text", got[0].Text)
	assert.Equal(t, "doc-a", got[0].Meta.FileID)
	require.NotNil(t, got[0].Meta.Page)
	assert.Equal(t, 1, *got[0].Meta.Page)
}

func TestStore_UpsertReplacesCollection(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.Upsert(ctx, "doc-a", entriesFor("doc-a", 4))
	require.NoError(t, err)
	_, err = store.Upsert(ctx, "doc-a", entriesFor("doc-a", 2))
	require.NoError(t, err)

	got, err := store.Load(ctx, []string{"doc-a"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestStore_LoadSkipsAbsentDocs(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.Upsert(ctx, "doc-a", entriesFor("doc-a", 1))
	require.NoError(t, err)

	got, err := store.Load(ctx, []string{"missing", "doc-a"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestStore_SeqOrderPreserved(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.Upsert(ctx, "doc-a", entriesFor("doc-a", 5))
	require.NoError(t, err)

	got, err := store.Load(ctx, []string{"doc-a"})
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i, e := range got {
		assert.Equal(t, index.EntryID("doc-a", i), e.ID)
	}
}

func TestStore_IsolatesDocuments(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.Upsert(ctx, "doc-a", entriesFor("doc-a", 2))
	require.NoError(t, err)
	_, err = store.Upsert(ctx, "doc-b", entriesFor("doc-b", 3))
	require.NoError(t, err)

	got, err := store.Load(ctx, []string{"doc-b"})
	require.NoError(t, err)
	assert.Len(t, got, 3)
	for _, e := range got {
		assert.Equal(t, "doc-b", e.Meta.FileID)
	}
}
