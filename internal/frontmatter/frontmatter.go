// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package frontmatter maps note metadata to the output frontmatter block
// and serializes it with a fixed key order.
package frontmatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/keep-to-joplin/pkg/types"
)

// placeholderTitle is the base for generated titles; a run-unique sequence
// number is appended.
const placeholderTitle = "Untitled note"

// maxDerivedTitleLen bounds titles derived from the first body line.
const maxDerivedTitleLen = 120

// Sequence issues run-unique numbers for generated placeholder titles.
// One Sequence belongs to one run and is never shared across runs.
type Sequence struct {
	n int
}

// Next returns the next sequence number, starting at 1.
func (s *Sequence) Next() int {
	s.n++
	return s.n
}

// Map builds the frontmatter values for one record. It cannot fail:
// every missing source value resolves through a fallback rule, and the
// provenance flags on the result mark what was inferred.
//
// Timestamp fallback: a missing created falls back to updated, then to
// the source file's modification time; a missing updated falls back to
// created, then to the modification time. Either fallback marks the value
// inferred.
func Map(rec *types.NoteRecord, body string, modTime time.Time, seq *Sequence) types.NoteMeta {
	meta := types.NoteMeta{
		Pinned:   rec.Pinned,
		Archived: rec.Archived,
		Trashed:  rec.Trashed,
	}

	meta.Title = strings.TrimSpace(rec.Title)
	if meta.Title == "" {
		meta.Title = firstLine(body)
	}
	if meta.Title == "" {
		meta.Title = fmt.Sprintf("%s %d", placeholderTitle, seq.Next())
		meta.TitleGenerated = true
	}

	created := rec.Created
	if created.IsZero() {
		meta.CreatedInferred = true
		created = rec.Updated
	}
	if created.IsZero() {
		created = modTime
	}

	updated := rec.Updated
	if updated.IsZero() {
		meta.UpdatedInferred = true
		updated = rec.Created
	}
	if updated.IsZero() {
		updated = modTime
	}

	meta.Created = created.UTC().Format(time.RFC3339)
	meta.Updated = updated.UTC().Format(time.RFC3339)

	meta.Tags = make([]string, len(rec.Labels))
	copy(meta.Tags, rec.Labels)
	sort.Strings(meta.Tags)

	meta.Attachments = make([]string, 0, len(rec.Attachments))
	for _, a := range rec.Attachments {
		meta.Attachments = append(meta.Attachments, a.Filename)
	}

	return meta
}

// firstLine returns the first non-empty line of body, trimmed and length
// bounded, for use as a fallback title.
func firstLine(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > maxDerivedTitleLen {
			line = strings.TrimSpace(line[:maxDerivedTitleLen])
		}
		return line
	}
	return ""
}

// Encode serializes meta as a YAML mapping with the fixed key order:
// title, created, updated, tags, pinned, archived, trashed, attachments.
// Every key is always present.
func Encode(meta types.NoteMeta) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}

	appendEntry(root, "title", strNode(meta.Title))
	appendEntry(root, "created", strNode(meta.Created))
	appendEntry(root, "updated", strNode(meta.Updated))
	appendEntry(root, "tags", seqNode(meta.Tags))
	appendEntry(root, "pinned", boolNode(meta.Pinned))
	appendEntry(root, "archived", boolNode(meta.Archived))
	appendEntry(root, "trashed", boolNode(meta.Trashed))
	appendEntry(root, "attachments", seqNode(meta.Attachments))

	out, err := yaml.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("encoding frontmatter: %w", err)
	}
	return out, nil
}

// Render produces the full document: frontmatter block, blank line, body.
func Render(meta types.NoteMeta, body string) (string, error) {
	fm, err := Encode(meta)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\n")
	}
	return b.String(), nil
}

func appendEntry(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, strNode(key), value)
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func boolNode(v bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprintf("%t", v)}
}

func seqNode(values []string) *yaml.Node {
	node := &yaml.Node{Kind: yaml.SequenceNode}
	if len(values) == 0 {
		node.Style = yaml.FlowStyle
		return node
	}
	for _, v := range values {
		node.Content = append(node.Content, strNode(v))
	}
	return node
}
