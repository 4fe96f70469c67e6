// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

package document

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Compile-time interface check.
var _ Store = (*DirStore)(nil)

// DirStore reads extracted page text from JSON sidecars written by the
// upload/extraction service: one <file_id>.json per document containing
// {"title": ..., "pages": [...]}.
type DirStore struct {
	dir string
}

// NewDirStore creates a DirStore rooted at dir.
func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: dir}
}

type sidecar struct {
	Title string   `json:"title"`
	Pages []string `json:"pages"`
}

// Extract loads the sidecar for fileID. The explicit path wins when given;
// otherwise the sidecar is looked up under the store directory. Any failure
// degrades to a single error-message page — extraction never aborts a batch.
func (s *DirStore) Extract(_ context.Context, fileID, path string) *Document {
	if path == "" {
		path = filepath.Join(s.dir, fileID+".json")
	}

	doc, err := readSidecar(fileID, path)
	if err != nil {
		slog.Warn("document extraction degraded", "file_id", fileID, "error", err)
		return &Document{
			FileID: fileID,
			Title:  filepath.Base(path),
			Pages:  []string{fmt.Sprintf("[Error extracting text: %v]", err)},
		}
	}
	return doc
}

func readSidecar(fileID, path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var sc sidecar
	if err := json.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	title := sc.Title
	if title == "" {
		title = fileID
	}
	pages := sc.Pages
	if pages == nil {
		pages = []string{}
	}

	return &Document{FileID: fileID, Title: title, Pages: pages}, nil
}
