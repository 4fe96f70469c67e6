// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

// Package prompt builds numbered, citation-ready prompts. The bracketed
// numbering in the prompt is the citation key reported back to the caller,
// so the References returned alongside a prompt always mirror its ordering.
package prompt

import (
	"fmt"
	"strings"

	"github.com/paperlens-dev/paperlens/internal/document"
	"github.com/paperlens-dev/paperlens/internal/retrieval"
)

// DefaultMaxCharsPerPaper bounds how much of each paper enters a full-text
// prompt.
const DefaultMaxCharsPerPaper = 8000

const snippetTextCap = 400

// PageRef is one cited page with a short excerpt.
type PageRef struct {
	Page    int    `json:"page"`
	Snippet string `json:"snippet,omitempty"`
}

// Reference maps a citation number back to its source document.
type Reference struct {
	Num       int       `json:"num"`
	FileID    string    `json:"file_id"`
	PublicURL string    `json:"public_url"`
	Title     string    `json:"title,omitempty"`
	Pages     []PageRef `json:"pages,omitempty"`
}

// PublicURL returns the viewer path for a document.
func PublicURL(fileID string) string {
	return "/uploaded_pdfs/" + fileID
}

// BuildPaperPrompt assembles the full-text prompt: each document excerpted
// up to maxChars (ellipsis-truncated), numbered [1], [2], … in input order,
// under an instruction block directing the generator to answer from the
// listed papers only and cite with bracketed numbers.
func BuildPaperPrompt(ids []string, docs map[string]*document.Document, query string, maxChars int) (string, []Reference) {
	if maxChars <= 0 {
		maxChars = DefaultMaxCharsPerPaper
	}

	parts := make([]string, 0, len(ids))
	refs := make([]Reference, 0, len(ids))
	for i, id := range ids {
		doc := docs[id]
		if doc == nil {
			doc = &document.Document{FileID: id, Title: id}
		}

		excerpt := doc.FullText()
		if len(excerpt) > maxChars {
			excerpt = excerpt[:maxChars] + "..."
		}
		parts = append(parts, fmt.Sprintf("[%d] %s:\n%s", i+1, doc.Title, excerpt))
		refs = append(refs, paperReference(i+1, doc))
	}

	prompt := fmt.Sprintf(`You are an academic assistant. Answer the user's question using ONLY the provided research papers below.
When you use information from a paper, cite it in IEEE style as [n], where n is the paper number below.
If the user asks for a literature review, synthesize information from the papers and cite each claim with the appropriate [n].

User question: %s

Papers:
%s

Your answer (use short inline citations like [1], [2] referring to the papers above):
`, query, strings.Join(parts, "\n\n"))

	return prompt, refs
}

// BuildSnippetPrompt assembles the retrieval-mode prompt from ranked hits:
// a Snippets section with one numbered line per hit, then the user
// question. The same numbering comes back as References.
func BuildSnippetPrompt(hits []retrieval.Hit, query string) (string, []Reference) {
	lines := make([]string, 0, len(hits))
	refs := make([]Reference, 0, len(hits))
	for i, h := range hits {
		fileID := h.Meta.FileID
		if fileID == "" {
			fileID = h.Meta.Source
		}
		if fileID == "" {
			fileID = "unknown"
		}

		text := strings.ReplaceAll(h.Text, "\n", " ")
		if len(text) > snippetTextCap {
			text = text[:snippetTextCap]
		}
		lines = append(lines, fmt.Sprintf("[%d] %s: %q", i+1, fileID, text))

		ref := Reference{
			Num:       i + 1,
			FileID:    fileID,
			PublicURL: PublicURL(fileID),
			Title:     h.Meta.Title,
		}
		if h.Meta.Page != nil {
			ref.Pages = []PageRef{{Page: *h.Meta.Page}}
		}
		refs = append(refs, ref)
	}

	prompt := "You are an assistant. Use only the snippets below to answer the user's question. " +
		"Cite snippets using numbered brackets like [1].\n\nSnippets:\n" +
		strings.Join(lines, "\n") +
		fmt.Sprintf("\n\nUser question: %s\n\nAnswer concisely and include citation brackets.", query)

	return prompt, refs
}

// paperReference builds the citation record for one document with up to 3
// non-empty page excerpts.
func paperReference(num int, doc *document.Document) Reference {
	ref := Reference{
		Num:       num,
		FileID:    doc.FileID,
		PublicURL: PublicURL(doc.FileID),
		Title:     doc.Title,
	}

	for pi, pageText := range doc.Pages {
		if pageText == "" {
			continue
		}
		snippet := strings.ReplaceAll(strings.TrimSpace(pageText), "\n", " ")
		if len(snippet) > 250 {
			snippet = snippet[:250]
		}
		ref.Pages = append(ref.Pages, PageRef{Page: pi + 1, Snippet: snippet})
		if len(ref.Pages) == 3 {
			break
		}
	}
	return ref
}
