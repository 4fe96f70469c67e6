// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

package offline_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperlens-dev/paperlens/internal/provider/offline"
)

func TestEmbedder_Deterministic(t *testing.T) {
	e := offline.NewEmbedder(64)

	first, err := e.Embed(context.Background(), []string{"neural networks", "neural networks"})
	require.NoError(t, err)
	second, err := e.Embed(context.Background(), []string{"neural networks"})
	require.NoError(t, err)

	assert.Equal(t, first[0], first[1])
	assert.Equal(t, first[0], second[0])
}

func TestEmbedder_DimensionsAndRange(t *testing.T) {
	e := offline.NewEmbedder(0)
	assert.Equal(t, offline.DefaultDimensions, e.Dimensions())

	vecs, err := e.Embed(context.Background(), []string{"", "some text", "other"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)

	for _, v := range vecs {
		require.Len(t, v, offline.DefaultDimensions)
		for _, x := range v {
			assert.GreaterOrEqual(t, x, float32(0))
			assert.Less(t, x, float32(1))
		}
	}
}

func TestEmbedder_DistinctTextsDiffer(t *testing.T) {
	e := offline.NewEmbedder(64)

	vecs, err := e.Embed(context.Background(), []string{"alpha", "beta"})
	require.NoError(t, err)
	assert.NotEqual(t, vecs[0], vecs[1])
}

func TestGenerator_PicksBracketedSnippets(t *testing.T) {
	g := offline.NewGenerator(0)

	prompt := "Use only the snippets below.\n\nSnippets:\n" +
		"[1] doc-a: \"first snippet\"\n" +
		"[2] doc-b: \"second snippet\"\n" +
		"[3] doc-c: \"third snippet\"\n" +
		"\nUser question: what is this?\n"

	out, err := g.Generate(context.Background(), prompt)
	require.NoError(t, err)

	want := "[1] doc-a: \"first snippet\" \n[2] doc-b: \"second snippet\" \n[3] doc-c: \"third snippet\""
	assert.Equal(t, want, out)
}

func TestGenerator_FallsBackToQuestionEcho(t *testing.T) {
	g := offline.NewGenerator(0)

	out, err := g.Generate(context.Background(), "Some instructions.\n\nUser question: why is the sky blue?")
	require.NoError(t, err)
	assert.Equal(t, "why is the sky blue?", out)
}

func TestGenerator_TruncatesRawPrompt(t *testing.T) {
	g := offline.NewGenerator(0)

	long := strings.Repeat("z", 2000)
	out, err := g.Generate(context.Background(), long)
	require.NoError(t, err)
	assert.Len(t, out, 512)
}

func TestGenerator_SnippetsWithoutBrackets(t *testing.T) {
	g := offline.NewGenerator(0)

	prompt := "Snippets:\none\ntwo\nthree\nfour\nfive\nsix\nseven\n"
	out, err := g.Generate(context.Background(), prompt)
	require.NoError(t, err)
	assert.Equal(t, "one two three four five six", out)
}
