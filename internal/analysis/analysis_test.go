// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

package analysis_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperlens-dev/paperlens/internal/analysis"
	"github.com/paperlens-dev/paperlens/internal/document"
	"github.com/paperlens-dev/paperlens/internal/index/file"
	"github.com/paperlens-dev/paperlens/internal/provider"
	"github.com/paperlens-dev/paperlens/internal/provider/offline"
	plerr "github.com/paperlens-dev/paperlens/pkg/errors"
)

// failingGenerator simulates a dead upstream.
type failingGenerator struct{}

func (failingGenerator) Name() string { return "failing" }

func (failingGenerator) Generate(_ context.Context, _ string) (string, error) {
	return "", plerr.New(plerr.CodeProviderUpstreamFailure, "upstream down")
}

func newService(t *testing.T, gen provider.Generator) (*analysis.Service, string) {
	t.Helper()

	uploads := t.TempDir()
	store, err := file.NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	svc := analysis.NewService(
		document.NewDirStore(uploads),
		offline.NewEmbedder(0),
		gen,
		store,
		analysis.Options{ChunkSize: 800, ChunkOverlap: 200, TopK: 6},
	)
	return svc, uploads
}

func writeSidecar(t *testing.T, dir, fileID, title string, pages []string) {
	t.Helper()
	content, err := json.Marshal(map[string]any{"title": title, "pages": pages})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileID+".json"), content, 0o644))
}

func TestAnalyze_WithQueryAnswersFromPapers(t *testing.T) {
	svc, uploads := newService(t, offline.NewGenerator(0))
	writeSidecar(t, uploads, "doc-a", "Paper A", []string{"The study covers embeddings."})

	result, err := svc.Analyze(context.Background(),
		[]document.FileRef{{FileID: "doc-a"}}, "what does the study cover?")
	require.NoError(t, err)

	assert.NotEmpty(t, result.Answer)
	assert.False(t, result.Degraded)
	require.Len(t, result.References, 1)
	assert.Equal(t, "doc-a", result.References[0].FileID)
	assert.Equal(t, "/uploaded_pdfs/doc-a", result.References[0].PublicURL)
}

func TestAnalyze_NoQueryProducesSummaries(t *testing.T) {
	svc, uploads := newService(t, offline.NewGenerator(0))
	writeSidecar(t, uploads, "doc-a", "Paper A",
		[]string{"A Formal Study Of Chunking\nAlice Author, Bob Author\nAbstract\nWe study chunking."})

	result, err := svc.Analyze(context.Background(), []document.FileRef{{FileID: "doc-a"}}, "  ")
	require.NoError(t, err)

	assert.Empty(t, result.Answer)
	assert.Contains(t, result.Report, "Title: A Formal Study Of Chunking")
	require.Contains(t, result.Summaries, "doc-a")
	assert.Equal(t, "Alice Author, Bob Author", result.Summaries["doc-a"].Authors)
}

func TestAnalyze_GenerationFailureDegradesToSnippets(t *testing.T) {
	svc, uploads := newService(t, failingGenerator{})
	writeSidecar(t, uploads, "doc-a", "Paper A", []string{"First page content here."})

	result, err := svc.Analyze(context.Background(),
		[]document.FileRef{{FileID: "doc-a"}}, "anything?")
	require.NoError(t, err)

	assert.True(t, result.Degraded)
	assert.Contains(t, result.Answer, "[1] Paper A: First page content here.")
	require.Len(t, result.References, 1)
}

func TestIndex_IsolatesPerDocumentFailures(t *testing.T) {
	svc, uploads := newService(t, offline.NewGenerator(0))
	writeSidecar(t, uploads, "doc-a", "Paper A", []string{strings.Repeat("text ", 400)})

	// doc-b has no sidecar: extraction degrades to an error page, which
	// still chunks and indexes. Both documents succeed.
	result, err := svc.Index(context.Background(),
		[]document.FileRef{{FileID: "doc-a"}, {FileID: "doc-b"}}, 0)
	require.NoError(t, err)

	assert.Empty(t, result.Errors)
	assert.Greater(t, result.Indexed["doc-a"], 1)
	assert.Equal(t, 1, result.Indexed["doc-b"])
}

func TestIndex_ChunkSizeOverrideSetsQuarterOverlap(t *testing.T) {
	svc, uploads := newService(t, offline.NewGenerator(0))
	text := strings.Repeat("a", 250)
	writeSidecar(t, uploads, "doc-a", "Paper A", []string{text})

	// size 100, overlap 25, step 75: windows at 0, 75, 150 (reaching 250).
	result, err := svc.Index(context.Background(),
		[]document.FileRef{{FileID: "doc-a"}}, 100)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Indexed["doc-a"])
}

func TestChatRAG_FindsIndexedChunk(t *testing.T) {
	svc, uploads := newService(t, offline.NewGenerator(0))
	writeSidecar(t, uploads, "doc-a", "Paper A", []string{"retrieval augmented generation"})

	_, err := svc.Index(context.Background(), []document.FileRef{{FileID: "doc-a"}}, 0)
	require.NoError(t, err)

	// The query equals the stored chunk text, so the hash embedder yields
	// the identical vector and the top hit scores 1.0.
	result, err := svc.ChatRAG(context.Background(), []string{"doc-a"},
		"retrieval augmented generation", 6)
	require.NoError(t, err)

	require.NotEmpty(t, result.Hits)
	assert.InDelta(t, 1.0, result.Hits[0].Score, 1e-6)
	assert.Equal(t, "doc-a_0", result.Hits[0].ID)
	assert.Contains(t, result.Answer, "doc-a")
	require.NotEmpty(t, result.References)
	assert.Equal(t, "doc-a", result.References[0].FileID)
}

func TestChatRAG_EmptyQueryRejected(t *testing.T) {
	svc, _ := newService(t, offline.NewGenerator(0))

	_, err := svc.ChatRAG(context.Background(), []string{"doc-a"}, "   ", 6)
	require.Error(t, err)
	assert.True(t, plerr.HasCode(err, plerr.CodeRetrievalQueryInvalid))
}

func TestChatRAG_GenerationFailurePropagates(t *testing.T) {
	svc, uploads := newService(t, failingGenerator{})
	writeSidecar(t, uploads, "doc-a", "Paper A", []string{"some text"})

	_, err := svc.Index(context.Background(), []document.FileRef{{FileID: "doc-a"}}, 0)
	require.NoError(t, err)

	_, err = svc.ChatRAG(context.Background(), []string{"doc-a"}, "question?", 6)
	require.Error(t, err)
	assert.True(t, plerr.HasCode(err, plerr.CodeProviderUpstreamFailure))
}
