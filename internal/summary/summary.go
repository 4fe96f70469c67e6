// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

// Package summary extracts paper structure (title, authors, abstract,
// methods, findings) with line-level heuristics. This is lossy extraction
// over messy PDF text, not parsing: every field defaults to empty when its
// heuristic finds nothing, and no LLM is involved.
package summary

import (
	"fmt"
	"strings"

	"github.com/paperlens-dev/paperlens/internal/document"
)

const (
	abstractCap = 1200
	sectionCap  = 600
)

// Summary holds the extracted fields. All fields may be empty.
type Summary struct {
	Title    string `json:"title"`
	Authors  string `json:"authors"`
	Abstract string `json:"abstract"`
	OneLine  string `json:"one_line"`
	Methods  string `json:"methods,omitempty"`
	Findings string `json:"findings,omitempty"`
}

// Summarize runs each extractor over the document in one pass. The
// extractors are independent: a miss in one never affects the others.
func Summarize(doc *document.Document) Summary {
	firstPage := doc.FirstPage()
	lines := nonEmptyLines(firstPage)
	fullText := doc.FullText()

	title, titleIdx := extractTitle(lines)

	return Summary{
		Title:    title,
		Authors:  extractAuthors(lines, titleIdx),
		Abstract: extractAbstract(doc.Pages),
		OneLine:  extractOneLine(firstPage),
		Methods:  extractSection(fullText, methodsKeywords),
		Findings: extractSection(fullText, findingsKeywords),
	}
}

// Format renders a Summary the way the analysis report presents one paper.
func (s Summary) Format(fileID string) string {
	var lines []string
	lines = append(lines, "Title: "+s.Title)
	if s.Authors != "" {
		lines = append(lines, "Authors: "+s.Authors)
	}
	if s.Abstract != "" {
		lines = append(lines, "Abstract (excerpt): "+clip(s.Abstract, 800))
	}
	if s.OneLine != "" {
		lines = append(lines, "One-line summary: "+s.OneLine)
	}
	if s.Methods != "" {
		lines = append(lines, "Methods (excerpt): "+clip(s.Methods, 500))
	}
	if s.Findings != "" {
		lines = append(lines, "Key findings (excerpt): "+clip(s.Findings, 500))
	}
	lines = append(lines, "Link: /uploaded_pdfs/"+fileID)
	return strings.Join(lines, "\n")
}

// extractTitle picks the first of the first 8 non-empty lines where more
// than half the words start uppercase and the line has at least 3 words,
// falling back to the first non-empty line. Returns the line index so the
// author scan knows where to start.
func extractTitle(lines []string) (string, int) {
	limit := len(lines)
	if limit > 8 {
		limit = 8
	}
	for i := 0; i < limit; i++ {
		words := strings.Fields(lines[i])
		if len(words) < 3 {
			continue
		}
		capitalized := 0
		for _, w := range words {
			if w[0] >= 'A' && w[0] <= 'Z' {
				capitalized++
			}
		}
		if float64(capitalized)/float64(len(words)) > 0.5 {
			return lines[i], i
		}
	}

	if len(lines) > 0 {
		return lines[0], 0
	}
	return "", 0
}

var affiliationKeywords = []string{"university", "institute", "lab", "department", "school"}

var authorStopKeywords = []string{"abstract", "introduction", "keywords"}

// extractAuthors collects up to 5 lines after the title that look like
// author or affiliation lines. A short 2–6 word line counts as a possible
// author line only while none has been found; once collecting has started,
// the first long non-author line ends the scan.
func extractAuthors(lines []string, titleIdx int) string {
	if titleIdx+1 >= len(lines) {
		return ""
	}

	var authorLines []string
	end := titleIdx + 6
	if end > len(lines) {
		end = len(lines)
	}

	for _, ln := range lines[titleIdx+1 : end] {
		low := strings.ToLower(ln)
		if containsAny(low, authorStopKeywords) {
			break
		}

		switch {
		case len(ln) < 200 && (strings.Contains(ln, ",") || strings.Contains(ln, " and ") || containsAny(low, affiliationKeywords)):
			authorLines = append(authorLines, ln)
		case len(authorLines) == 0 && wordCountBetween(ln, 2, 6):
			authorLines = append(authorLines, ln)
		case len(authorLines) > 0:
			return strings.Join(authorLines, "; ")
		}
	}
	return strings.Join(authorLines, "; ")
}

// extractAbstract locates the literal "abstract" token on page one, or
// across the first two pages when page one lacks it, and takes the text
// after it up to the next "introduction" occurrence or the character cap.
func extractAbstract(pages []string) string {
	if len(pages) == 0 {
		return ""
	}

	if abs := abstractAfterToken(pages[0]); abs != "" {
		return abs
	}

	limit := len(pages)
	if limit > 2 {
		limit = 2
	}
	return abstractAfterToken(strings.Join(pages[:limit], "\n\n"))
}

func abstractAfterToken(text string) string {
	low := strings.ToLower(text)
	idx := strings.Index(low, "abstract")
	if idx < 0 {
		return ""
	}

	tail := text[idx:]
	// Drop the heading line itself ("Abstract", "Abstract:") when present.
	if nl := strings.Index(tail, "\n"); nl >= 0 {
		tail = tail[nl+1:]
	}

	if li := strings.Index(strings.ToLower(tail), "introduction"); li >= 0 {
		tail = tail[:li]
	}

	return clip(strings.TrimSpace(strings.ReplaceAll(tail, "\n", " ")), abstractCap)
}

// extractOneLine takes the first one or two sentences of the first page,
// splitting naively on periods.
func extractOneLine(firstPage string) string {
	if firstPage == "" {
		return ""
	}

	var sentences []string
	for _, s := range strings.Split(strings.ReplaceAll(firstPage, "\n", " "), ".") {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
		if len(sentences) == 2 {
			break
		}
	}
	if len(sentences) == 0 {
		return ""
	}

	out := sentences[0] + "."
	if len(sentences) > 1 {
		out += " " + clip(sentences[1], 200) + "."
	}
	return out
}

var (
	methodsKeywords  = []string{"methods", "methodology", "materials and methods", "approach"}
	findingsKeywords = []string{"results", "findings", "conclusion", "conclusions"}
)

// extractSection returns the first 600-character window following the
// first match of any keyword in the full document text.
func extractSection(fullText string, keywords []string) string {
	low := strings.ToLower(fullText)
	for _, kw := range keywords {
		idx := strings.Index(low, kw)
		if idx < 0 {
			continue
		}
		end := idx + sectionCap
		if end > len(fullText) {
			end = len(fullText)
		}
		return strings.TrimSpace(strings.ReplaceAll(fullText[idx:end], "\n", " "))
	}
	return ""
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}
	return lines
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func wordCountBetween(s string, min, max int) bool {
	n := len(strings.Fields(s))
	return n >= min && n <= max
}

func clip(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

// FormatReport joins per-paper formatted summaries the way the analysis
// result presents them.
func FormatReport(parts []string) string {
	return strings.Join(parts, fmt.Sprintf("\n\n%s\n\n", "-----"))
}
