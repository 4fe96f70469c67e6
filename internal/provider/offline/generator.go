// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

package offline

import (
	"context"
	"strings"

	"github.com/paperlens-dev/paperlens/internal/provider"
)

// DefaultMaxLen caps the extractive generator's output length.
const DefaultMaxLen = 512

// snippetMarker and questionMarker are the literal prompt section markers
// the extractive generator keys on. The prompt assembler emits both.
const (
	snippetMarker  = "Snippets:"
	questionMarker = "User question:"
)

// Compile-time interface check.
var _ provider.Generator = (*Generator)(nil)

// Generator is an extractive stand-in for a language model: it answers by
// returning the snippet lines already present in the prompt. It always
// returns a string and never fails, for any input.
type Generator struct {
	maxLen int
}

// NewGenerator creates an extractive generator. maxLen bounds the output;
// non-positive values fall back to DefaultMaxLen.
func NewGenerator(maxLen int) *Generator {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	return &Generator{maxLen: maxLen}
}

func (g *Generator) Name() string { return "offline" }

// Generate extracts up to 6 bracketed snippet lines following the snippet
// marker; failing that it echoes the user question; failing that it
// truncates the raw prompt.
func (g *Generator) Generate(_ context.Context, prompt string) (string, error) {
	if _, tail, ok := strings.Cut(prompt, snippetMarker); ok {
		return truncate(pickSnippets(tail), g.maxLen), nil
	}

	if _, tail, ok := strings.Cut(prompt, questionMarker); ok {
		return truncate(strings.TrimSpace(tail), g.maxLen), nil
	}

	return truncate(prompt, g.maxLen), nil
}

// pickSnippets selects lines that look like numbered snippets ("[n] ...")
// from the text after the marker, up to 6. When none match it falls back to
// the first 6 non-empty lines.
func pickSnippets(tail string) string {
	var lines []string
	for _, ln := range strings.Split(tail, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}

	var picks []string
	for _, ln := range lines {
		if strings.HasPrefix(ln, "[") {
			picks = append(picks, ln)
			if len(picks) == 6 {
				break
			}
		}
	}
	if len(picks) > 0 {
		return strings.Join(picks, " \n")
	}

	if len(lines) > 6 {
		lines = lines[:6]
	}
	return strings.Join(lines, " ")
}

func truncate(s string, max int) string {
	if len(s) > max {
		s = s[:max]
	}
	return strings.TrimSpace(s)
}
