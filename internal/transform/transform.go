// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transform converts note bodies into markdown. The export format
// wraps text in a small set of structural HTML tags; those are stripped by
// an explicit allowlist, and anything unrecognized passes through
// literally so visible text is never dropped.
package transform

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/pdiddy/keep-to-joplin/pkg/types"
)

// maxTagLen bounds how far past a '<' the stripper looks for a closing
// '>' before treating the '<' as literal text.
const maxTagLen = 64

// structuralRepl maps recognized structural tokens to their markdown
// replacement. Keys are lowercase tag names, closing tags prefixed "/".
var structuralRepl = map[string]string{
	"br":    "\n",
	"p":     "",
	"/p":    "\n\n",
	"div":   "",
	"/div":  "\n",
	"span":  "",
	"/span": "",
	"ul":    "",
	"/ul":   "\n",
	"ol":    "",
	"/ol":   "\n",
	"li":    "",
	"/li":   "\n",
}

// Body renders a record's body as markdown, including any annotation
// links. The body kind is fixed at parse time; an unknown kind is a
// transform failure.
func Body(rec *types.NoteRecord) (string, error) {
	var body string
	switch rec.Body.Kind {
	case types.BodyPlainText:
		body = PlainText(rec.Body.Text)
	case types.BodyChecklist:
		body = Checklist(rec.Body.Items)
	default:
		return "", fmt.Errorf("unknown body kind %q", rec.Body.Kind)
	}
	return withLinks(body, rec.Annotations), nil
}

// PlainText strips structural markup from text and decodes character
// entities. Line breaks survive as markdown line breaks.
func PlainText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = html.UnescapeString(StripStructural(text))
	return strings.TrimRight(text, " \t\n")
}

// Checklist renders one markdown task line per item in position order.
// Items are never reordered relative to equal positions, merged, or
// deduplicated.
func Checklist(items []types.ChecklistItem) string {
	ordered := make([]types.ChecklistItem, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	lines := make([]string, 0, len(ordered))
	for _, item := range ordered {
		mark := " "
		if item.Checked {
			mark = "x"
		}
		lines = append(lines, "- ["+mark+"] "+itemText(item.Text))
	}
	return strings.Join(lines, "\n")
}

// itemText flattens one checklist entry to a single line.
func itemText(text string) string {
	text = html.UnescapeString(StripStructural(text))
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.TrimSpace(text)
}

// StripStructural removes recognized structural tags from s, replacing
// them per the allowlist. Unrecognized tokens, and '<' characters that do
// not open a token, are emitted byte-for-byte.
func StripStructural(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		if s[i] != '<' {
			b.WriteByte(s[i])
			i++
			continue
		}

		end := tagEnd(s, i)
		if end < 0 {
			b.WriteByte('<')
			i++
			continue
		}

		token := s[i : end+1]
		if repl, ok := structuralRepl[tagName(token)]; ok {
			b.WriteString(repl)
		} else {
			b.WriteString(token)
		}
		i = end + 1
	}

	return b.String()
}

// tagEnd returns the index of the '>' closing a token opened at start, or
// -1 when none exists within maxTagLen or another '<' intervenes.
func tagEnd(s string, start int) int {
	limit := start + maxTagLen
	if limit > len(s)-1 {
		limit = len(s) - 1
	}
	for i := start + 1; i <= limit; i++ {
		switch s[i] {
		case '>':
			return i
		case '<':
			return -1
		}
	}
	return -1
}

// tagName extracts the lowercase tag name from a "<...>" token, keeping a
// leading "/" for closing tags and dropping attributes and a self-closing
// slash. "<br/>" and "<br />" both yield "br".
func tagName(token string) string {
	inner := strings.TrimSpace(token[1 : len(token)-1])
	closing := strings.HasPrefix(inner, "/")
	if closing {
		inner = strings.TrimSpace(inner[1:])
	}
	if i := strings.IndexAny(inner, " \t\n"); i >= 0 {
		inner = inner[:i]
	}
	inner = strings.TrimSuffix(inner, "/")
	inner = strings.ToLower(inner)
	if inner == "" {
		return token
	}
	if closing {
		return "/" + inner
	}
	return inner
}

// withLinks appends the note's link annotations as a trailing markdown
// section.
func withLinks(body string, anns []types.Annotation) string {
	if len(anns) == 0 {
		return body
	}

	lines := []string{"Links:"}
	for _, ann := range anns {
		text := ann.Title
		if text == "" {
			text = ann.Description
		}
		if text == "" {
			text = ann.URL
		}
		line := fmt.Sprintf("- [%s](%s)", text, ann.URL)
		if ann.Description != "" && ann.Description != text {
			line += " - " + ann.Description
		}
		lines = append(lines, line)
	}

	section := strings.Join(lines, "\n")
	if body == "" {
		return section
	}
	return body + "\n\n" + section
}
