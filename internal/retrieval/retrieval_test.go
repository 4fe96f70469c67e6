// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

package retrieval_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperlens-dev/paperlens/internal/index"
	"github.com/paperlens-dev/paperlens/internal/retrieval"
)

// stubStore serves a fixed entry list regardless of the requested ids.
type stubStore struct {
	entries []index.Entry
}

func (s *stubStore) Upsert(_ context.Context, _ string, _ []index.Entry) (int, error) {
	return 0, nil
}

func (s *stubStore) Load(_ context.Context, _ []string) ([]index.Entry, error) {
	return s.entries, nil
}

func (s *stubStore) Close() error { return nil }

func TestCosine_Bounds(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{-3, 1, 2}

	got := retrieval.Cosine(a, b)
	assert.GreaterOrEqual(t, got, -1.0)
	assert.LessOrEqual(t, got, 1.0)
}

func TestCosine_Symmetry(t *testing.T) {
	a := []float32{0.5, 0.25, 0.75}
	b := []float32{0.1, 0.9, 0.3}

	assert.InDelta(t, retrieval.Cosine(a, b), retrieval.Cosine(b, a), 1e-12)
}

func TestCosine_IdenticalVectors(t *testing.T) {
	a := []float32{0.3, 0.6, 0.9}
	assert.InDelta(t, 1.0, retrieval.Cosine(a, a), 1e-6)
}

func TestCosine_ZeroCases(t *testing.T) {
	assert.Zero(t, retrieval.Cosine(nil, nil))
	assert.Zero(t, retrieval.Cosine([]float32{1, 2}, []float32{1, 2, 3}))
	assert.Zero(t, retrieval.Cosine([]float32{0, 0}, []float32{1, 1}))
}

func TestSearch_DescendingOrderAndTruncation(t *testing.T) {
	store := &stubStore{entries: []index.Entry{
		{ID: "d_0", Vector: []float32{1, 0}, Text: "exact"},
		{ID: "d_1", Vector: []float32{0, 1}, Text: "orthogonal"},
		{ID: "d_2", Vector: []float32{1, 1}, Text: "diagonal"},
	}}

	engine := retrieval.NewEngine(store)
	hits, err := engine.Search(context.Background(), []string{"d"}, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "d_0", hits[0].ID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	assert.Equal(t, "d_2", hits[1].ID)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestSearch_StableTies(t *testing.T) {
	store := &stubStore{entries: []index.Entry{
		{ID: "a_0", Vector: []float32{2, 0}},
		{ID: "b_0", Vector: []float32{4, 0}},
		{ID: "c_0", Vector: []float32{0, 1}},
	}}

	// a_0 and b_0 point the same way, so they tie on cosine; the first
	// loaded entry must stay first.
	engine := retrieval.NewEngine(store)
	hits, err := engine.Search(context.Background(), []string{"a", "b", "c"}, []float32{1, 0}, -1)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "a_0", hits[0].ID)
	assert.Equal(t, "b_0", hits[1].ID)
	assert.Equal(t, "c_0", hits[2].ID)
}

func TestSearch_NoCandidates(t *testing.T) {
	engine := retrieval.NewEngine(&stubStore{})
	hits, err := engine.Search(context.Background(), []string{"missing"}, []float32{1}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
