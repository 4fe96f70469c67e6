// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

package chunk_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperlens-dev/paperlens/internal/chunk"
	plerr "github.com/paperlens-dev/paperlens/pkg/errors"
)

func TestSplit_WindowBoundaries(t *testing.T) {
	text := strings.Repeat("a", 600) + strings.Repeat("b", 600) + strings.Repeat("c", 300)
	require.Len(t, text, 1500)

	chunks, err := chunk.Split(text, 800, 200)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, text[0:800], chunks[0].Text)
	assert.Equal(t, text[600:1400], chunks[1].Text)
	assert.Equal(t, text[1200:1500], chunks[2].Text)

	for i, c := range chunks {
		assert.Equal(t, i, c.Seq)
	}
}

func TestSplit_CountFormula(t *testing.T) {
	size, overlap := 100, 25
	step := size - overlap

	for _, n := range []int{1, 99, 100, 101, 175, 176, 1000} {
		text := strings.Repeat("x", n)
		chunks, err := chunk.Split(text, size, overlap)
		require.NoError(t, err)

		want := (n - overlap + step - 1) / step
		if n <= size {
			want = 1
		}
		assert.Len(t, chunks, want, "text length %d", n)
	}
}

func TestSplit_CoversEveryByte(t *testing.T) {
	text := strings.Repeat("paperlens ", 137)

	chunks, err := chunk.Split(text, 64, 16)
	require.NoError(t, err)

	var rebuilt strings.Builder
	step := 64 - 16
	for i, c := range chunks {
		if i == len(chunks)-1 {
			rebuilt.WriteString(c.Text)
			break
		}
		rebuilt.WriteString(c.Text[:step])
	}
	assert.Equal(t, text, rebuilt.String())
}

func TestSplit_EmptyText(t *testing.T) {
	chunks, err := chunk.Split("", 800, 200)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	chunks, err := chunk.Split("short", 800, 200)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "short", chunks[0].Text)
}

func TestSplit_InvalidParams(t *testing.T) {
	_, err := chunk.Split("text", 0, 0)
	require.Error(t, err)
	assert.True(t, plerr.HasCode(err, plerr.CodeChunkParamsInvalid))

	_, err = chunk.Split("text", 100, 100)
	require.Error(t, err)
	assert.True(t, plerr.HasCode(err, plerr.CodeChunkParamsInvalid))

	_, err = chunk.Split("text", 100, -1)
	require.Error(t, err)
	assert.True(t, plerr.HasCode(err, plerr.CodeChunkParamsInvalid))
}
