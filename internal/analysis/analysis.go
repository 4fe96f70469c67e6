// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

// Package analysis orchestrates the three pipelines: full-text analysis,
// chunk indexing, and retrieval-augmented chat. It owns no state of its
// own; everything flows through the injected stores and providers.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/paperlens-dev/paperlens/internal/chunk"
	"github.com/paperlens-dev/paperlens/internal/document"
	"github.com/paperlens-dev/paperlens/internal/index"
	"github.com/paperlens-dev/paperlens/internal/prompt"
	"github.com/paperlens-dev/paperlens/internal/provider"
	"github.com/paperlens-dev/paperlens/internal/retrieval"
	"github.com/paperlens-dev/paperlens/internal/summary"
	plerr "github.com/paperlens-dev/paperlens/pkg/errors"
)

// DefaultTopK bounds retrieval-chat context when the caller does not choose.
const DefaultTopK = 6

const fallbackSnippetCap = 300

// Options carries the tunables the pipelines need beyond their inputs.
type Options struct {
	ChunkSize        int
	ChunkOverlap     int
	EmbedBatchSize   int
	MaxCharsPerPaper int
	TopK             int
}

// Service wires documents, providers, and the index into the pipelines.
type Service struct {
	docs      document.Store
	embedder  provider.Embedder
	generator provider.Generator
	store     index.Store
	engine    *retrieval.Engine
	opts      Options
}

// NewService builds a Service. Zero-valued Options fields fall back to the
// package defaults at use time.
func NewService(docs document.Store, embedder provider.Embedder, generator provider.Generator, store index.Store, opts Options) *Service {
	return &Service{
		docs:      docs,
		embedder:  embedder,
		generator: generator,
		store:     store,
		engine:    retrieval.NewEngine(store),
		opts:      opts,
	}
}

// AnalyzeResult is the outcome of the full-text pipeline. Exactly one of
// Answer or Report is the primary payload: Answer for question runs, Report
// for structural-summary runs.
type AnalyzeResult struct {
	Answer     string                     `json:"answer,omitempty"`
	Report     string                     `json:"report,omitempty"`
	Summaries  map[string]summary.Summary `json:"summaries,omitempty"`
	References []prompt.Reference         `json:"references"`
	Degraded   bool                       `json:"degraded,omitempty"`
}

// Analyze extracts every referenced paper and either answers the query from
// the papers' full text, or, with an empty query, produces structural
// summaries. Generation failure never fails the pipeline: the answer
// degrades to first-page snippets so the caller always gets something
// grounded in the papers.
func (s *Service) Analyze(ctx context.Context, files []document.FileRef, query string) (*AnalyzeResult, error) {
	ids, docs := document.ExtractAll(ctx, s.docs, files)

	if strings.TrimSpace(query) == "" {
		return s.summarize(ids, docs), nil
	}

	promptText, refs := prompt.BuildPaperPrompt(ids, docs, query, s.opts.MaxCharsPerPaper)

	answer, err := s.generator.Generate(ctx, promptText)
	if err != nil || strings.TrimSpace(answer) == "" {
		if err != nil {
			slog.Warn("generation failed, degrading to snippet answer",
				"backend", s.generator.Name(), "error", err)
		}
		return &AnalyzeResult{
			Answer:     fallbackAnswer(ids, docs),
			References: refs,
			Degraded:   true,
		}, nil
	}

	return &AnalyzeResult{Answer: answer, References: refs}, nil
}

// summarize runs the structural summarizer over each paper and assembles
// the per-paper report.
func (s *Service) summarize(ids []string, docs map[string]*document.Document) *AnalyzeResult {
	summaries := make(map[string]summary.Summary, len(ids))
	parts := make([]string, 0, len(ids))
	refs := make([]prompt.Reference, 0, len(ids))

	for i, id := range ids {
		doc := docs[id]
		sum := summary.Summarize(doc)
		summaries[id] = sum
		parts = append(parts, sum.Format(id))
		refs = append(refs, prompt.Reference{
			Num:       i + 1,
			FileID:    id,
			PublicURL: prompt.PublicURL(id),
			Title:     doc.Title,
		})
	}

	return &AnalyzeResult{
		Report:     summary.FormatReport(parts),
		Summaries:  summaries,
		References: refs,
	}
}

// fallbackAnswer builds the degraded answer: one numbered first-page
// excerpt per paper, so citations in the References still line up.
func fallbackAnswer(ids []string, docs map[string]*document.Document) string {
	lines := make([]string, 0, len(ids)+1)
	lines = append(lines, "The generator was unavailable. Relevant excerpts from the papers:")
	for i, id := range ids {
		doc := docs[id]
		excerpt := strings.TrimSpace(strings.ReplaceAll(doc.FirstPage(), "\n", " "))
		if len(excerpt) > fallbackSnippetCap {
			excerpt = excerpt[:fallbackSnippetCap]
		}
		lines = append(lines, fmt.Sprintf("[%d] %s: %s", i+1, doc.Title, excerpt))
	}
	return strings.Join(lines, "\n")
}

// IndexResult reports per-document outcomes of an indexing run. A document
// appears in exactly one of the two maps.
type IndexResult struct {
	Indexed map[string]int    `json:"indexed"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Index chunks and embeds every referenced paper and replaces each one's
// stored collection. Failures are isolated per document: one bad paper
// lands in Errors while the rest of the batch proceeds.
func (s *Service) Index(ctx context.Context, files []document.FileRef, chunkSize int) (*IndexResult, error) {
	ids, docs := document.ExtractAll(ctx, s.docs, files)

	size, overlap := s.opts.ChunkSize, s.opts.ChunkOverlap
	if chunkSize > 0 {
		size, overlap = chunkSize, chunkSize/4
	}

	result := &IndexResult{Indexed: make(map[string]int, len(ids))}
	for _, id := range ids {
		n, err := s.indexOne(ctx, id, docs[id], size, overlap)
		if err != nil {
			slog.Warn("indexing document failed", "file_id", id, "error", err)
			if result.Errors == nil {
				result.Errors = make(map[string]string)
			}
			result.Errors[id] = err.Error()
			continue
		}
		result.Indexed[id] = n
	}
	return result, nil
}

func (s *Service) indexOne(ctx context.Context, id string, doc *document.Document, size, overlap int) (int, error) {
	chunks, err := chunk.Split(doc.FullText(), size, overlap)
	if err != nil {
		return 0, err
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vecs, err := provider.BatchEmbed(ctx, s.embedder, texts, s.opts.EmbedBatchSize)
	if err != nil {
		return 0, plerr.Wrapf(err, plerr.CodeProviderUpstreamFailure, "embedding chunks for %s", id)
	}

	entries := make([]index.Entry, len(chunks))
	for i, c := range chunks {
		entries[i] = index.Entry{
			ID:     index.EntryID(id, c.Seq),
			Vector: vecs[i],
			Text:   c.Text,
			Meta: index.Meta{
				FileID: id,
				Source: id,
				Title:  doc.Title,
			},
		}
	}

	n, err := s.store.Upsert(ctx, id, entries)
	if err != nil {
		return 0, err
	}

	slog.Info("indexed document", "file_id", id, "chunks", n, "embedder", s.embedder.Name())
	return n, nil
}

// ChatResult is the outcome of a retrieval-augmented chat turn.
type ChatResult struct {
	Answer     string             `json:"answer"`
	References []prompt.Reference `json:"references"`
	Hits       []retrieval.Hit    `json:"hits,omitempty"`
}

// ChatRAG embeds the query, retrieves the best-matching stored chunks from
// the given documents, and answers from those snippets. Unlike Analyze,
// provider errors propagate: a retrieval chat without a generator has
// nothing useful to say.
func (s *Service) ChatRAG(ctx context.Context, fileIDs []string, query string, topK int) (*ChatResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, plerr.New(plerr.CodeRetrievalQueryInvalid, "query must not be empty")
	}
	if topK <= 0 {
		topK = s.opts.TopK
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	vecs, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, plerr.Wrapf(err, plerr.CodeProviderUpstreamFailure, "embedding query")
	}
	if len(vecs) != 1 {
		return nil, plerr.Errorf(plerr.CodeProviderResponseInvalid,
			"embedder returned %d vectors for one query", len(vecs))
	}

	hits, err := s.engine.Search(ctx, fileIDs, vecs[0], topK)
	if err != nil {
		return nil, err
	}

	promptText, refs := prompt.BuildSnippetPrompt(hits, query)

	answer, err := s.generator.Generate(ctx, promptText)
	if err != nil {
		return nil, err
	}

	return &ChatResult{Answer: answer, References: refs, Hits: hits}, nil
}
