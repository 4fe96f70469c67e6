// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

// Package offline provides deterministic, network-free embedding and
// generation fallbacks. They are placeholders with stable behavior, not
// models: identical input always yields identical output, which is what
// makes the offline index usable and the pipelines testable.
package offline

import (
	"context"
	"crypto/sha256"
	"encoding/binary"

	"github.com/paperlens-dev/paperlens/internal/provider"
)

// DefaultDimensions is the vector width of the hash embedder.
const DefaultDimensions = 64

// Compile-time interface check.
var _ provider.Embedder = (*Embedder)(nil)

// Embedder derives vectors from a SHA-256 digest of the text: the digest is
// sliced into 4-byte groups, each normalized to a float in [0,1), wrapping
// around the digest until the target dimensionality is filled.
type Embedder struct {
	dims int
}

// NewEmbedder creates a hash embedder with the given dimensionality,
// defaulting to DefaultDimensions when dims is non-positive.
func NewEmbedder(dims int) *Embedder {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &Embedder{dims: dims}
}

func (e *Embedder) Name() string { return "offline" }

func (e *Embedder) Dimensions() int { return e.dims }

// Embed is a pure function of its input: no state, no network, no error.
func (e *Embedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = hashVector(t, e.dims)
	}
	return out, nil
}

func hashVector(text string, dims int) []float32 {
	digest := sha256.Sum256([]byte(text))

	vec := make([]float32, dims)
	for j := range vec {
		off := (j * 4) % len(digest)
		group := binary.BigEndian.Uint32(digest[off : off+4])
		vec[j] = float32(float64(group) / float64(1<<32))
	}
	return vec
}
