// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

// Package document defines the read-only view of extracted papers that the
// analysis pipelines consume. Byte-level PDF extraction happens outside this
// process; implementations of Store read whatever the extractor left behind.
package document

import (
	"context"
	"strings"
)

// Document is one extracted paper: an opaque file identifier, a display
// title, and the ordered per-page text. Pages may be empty where extraction
// failed for a single page.
type Document struct {
	FileID string
	Title  string
	Pages  []string
}

// FullText joins the non-empty pages with blank lines, matching how the
// indexing pipeline sees a paper.
func (d *Document) FullText() string {
	parts := make([]string, 0, len(d.Pages))
	for _, p := range d.Pages {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n\n")
}

// FirstPage returns the text of page one, or "" for an empty document.
func (d *Document) FirstPage() string {
	if len(d.Pages) == 0 {
		return ""
	}
	return d.Pages[0]
}

// Store produces Documents for file ids. Extract must never fail the whole
// call: on internal error it returns a one-entry error-message page so a bad
// document degrades instead of aborting its batch.
type Store interface {
	Extract(ctx context.Context, fileID, path string) *Document
}

// FileRef names one document to process.
type FileRef struct {
	FileID string
	Path   string
}

// ExtractAll extracts every referenced document. Failures are isolated per
// document by the Store contract, so the returned map always has one entry
// per input ref, keyed by file id and in input order.
func ExtractAll(ctx context.Context, store Store, files []FileRef) ([]string, map[string]*Document) {
	ids := make([]string, 0, len(files))
	docs := make(map[string]*Document, len(files))
	for _, f := range files {
		ids = append(ids, f.FileID)
		docs[f.FileID] = store.Extract(ctx, f.FileID, f.Path)
	}
	return ids, docs
}
