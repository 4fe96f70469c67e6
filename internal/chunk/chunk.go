// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

// Package chunk splits document text into overlapping fixed-size windows
// for embedding and indexing.
package chunk

import (
	plerr "github.com/paperlens-dev/paperlens/pkg/errors"
)

// Chunk is one contiguous text window. Seq is dense and 0-based; boundaries
// are byte offsets into the source text, not page-aware.
type Chunk struct {
	Seq  int
	Text string
}

// Split cuts text into windows of size bytes advancing by size-overlap.
// Overlapping regions are intentionally duplicated across adjacent chunks so
// their concatenation covers every offset of the input. Empty input yields
// no chunks. Overlap must be smaller than size or the window would never
// advance.
func Split(text string, size, overlap int) ([]Chunk, error) {
	if size <= 0 {
		return nil, plerr.Errorf(plerr.CodeChunkParamsInvalid, "chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, plerr.Errorf(plerr.CodeChunkParamsInvalid,
			"chunk overlap must be in [0, size), got overlap=%d size=%d", overlap, size)
	}

	if len(text) == 0 {
		return nil, nil
	}

	step := size - overlap
	chunks := make([]Chunk, 0, (len(text)+step-1)/step)
	for i := 0; ; i += step {
		end := i + size
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, Chunk{Seq: len(chunks), Text: text[i:end]})
		// A window touching the end covers the remainder; a further window
		// would duplicate text already emitted.
		if end == len(text) {
			break
		}
	}
	return chunks, nil
}
