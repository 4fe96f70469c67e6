// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

// Package provider defines the embedding and generation backends used by the
// analysis pipelines. Remote backends live in subpackages; the offline
// subpackage holds the deterministic fallbacks used when no credential is
// configured.
package provider

import (
	"context"
)

// Embedder converts text to fixed-dimension vectors, one vector per input
// text, order-preserving. Dimensionality is constant for the lifetime of an
// Embedder instance.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}

// Generator converts a prompt to an answer string.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// BatchEmbed embeds texts in sequential batches of batchSize, bounding
// upstream load and preserving input order. Results align 1:1 with texts.
func BatchEmbed(ctx context.Context, e Embedder, texts []string, batchSize int) ([][]float32, error) {
	if batchSize <= 0 {
		batchSize = 64
	}

	out := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += batchSize {
		end := i + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		vecs, err := e.Embed(ctx, texts[i:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}
