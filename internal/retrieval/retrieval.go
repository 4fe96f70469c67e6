// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

// Package retrieval ranks stored index entries against a query embedding by
// cosine similarity.
package retrieval

import (
	"context"
	"math"
	"sort"

	"github.com/paperlens-dev/paperlens/internal/index"
)

// Hit is one ranked search result. Hits are transient; they are never
// persisted.
type Hit struct {
	Score float64    `json:"score"`
	ID    string     `json:"id"`
	Text  string     `json:"text"`
	Meta  index.Meta `json:"meta"`
}

// Engine searches the index store.
type Engine struct {
	store index.Store
}

// NewEngine creates an Engine over the given store.
func NewEngine(store index.Store) *Engine {
	return &Engine{store: store}
}

// Search loads the candidate entries for docIDs, scores each against the
// query vector, and returns the topK best in descending score order. Ties
// keep original load order. Documents with no stored collection simply
// contribute no candidates; there is no score threshold.
func (e *Engine) Search(ctx context.Context, docIDs []string, query []float32, topK int) ([]Hit, error) {
	candidates, err := e.store.Load(ctx, docIDs)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(candidates))
	for _, c := range candidates {
		hits = append(hits, Hit{
			Score: Cosine(query, c.Vector),
			ID:    c.ID,
			Text:  c.Text,
			Meta:  c.Meta,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	if topK >= 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Cosine computes dot(a,b) / (|a||b|). It is 0 when either vector is empty,
// when lengths differ, or when either magnitude is zero — comparing vectors
// of different dimensionalities is meaningless rather than an error.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
