// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the domain and configuration types shared across
// the conversion pipeline.
package types

import "time"

// BodyKind discriminates the two note body shapes fixed at parse time.
type BodyKind string

const (
	BodyPlainText BodyKind = "text"
	BodyChecklist BodyKind = "checklist"
)

// NoteBody is the tagged body variant of a note: plain text or a checklist,
// never both. Use PlainTextBody or ChecklistBody to construct one.
type NoteBody struct {
	Kind  BodyKind
	Text  string
	Items []ChecklistItem
}

// PlainTextBody returns a plain-text body.
func PlainTextBody(text string) NoteBody {
	return NoteBody{Kind: BodyPlainText, Text: text}
}

// ChecklistBody returns a checklist body with items in source order.
func ChecklistBody(items []ChecklistItem) NoteBody {
	return NoteBody{Kind: BodyChecklist, Items: items}
}

// ChecklistItem is one entry of a list-type note.
type ChecklistItem struct {
	// Text is the item text, possibly still carrying export markup.
	Text string

	// Checked reports whether the item is ticked.
	Checked bool

	// Position is the zero-based index of the item in the source record.
	Position int
}

// AttachmentRef names an attachment file referenced by a note. Only the
// filename is modeled; binary payloads are not copied.
type AttachmentRef struct {
	Filename string
}

// Annotation is a link annotation attached to a note (URL plus optional
// title and description).
type Annotation struct {
	URL         string
	Title       string
	Description string
}

// NoteRecord is one parsed export record. It is built per input file and
// discarded once converted.
type NoteRecord struct {
	// Title is the note title; empty when the source omits it.
	Title string

	// Body is the tagged body variant resolved at parse time.
	Body NoteBody

	// Created and Updated are the source timestamps in UTC. A zero value
	// means the source omitted the field.
	Created time.Time
	Updated time.Time

	// Labels holds the note's label names in source order.
	Labels []string

	Trashed  bool
	Pinned   bool
	Archived bool

	// Attachments lists attachment references in source order.
	Attachments []AttachmentRef

	// Annotations lists link annotations in source order.
	Annotations []Annotation

	// Color is the export's color name (e.g. "DEFAULT", "RED"). Parsed for
	// schema completeness; styling output is out of scope.
	Color string

	// InferredEmpty marks a record that carried neither a text nor a
	// checklist field, so the body was resolved to empty plain text.
	InferredEmpty bool
}

// NoteMeta holds the frontmatter values for one converted note, with
// provenance flags for values the mapper had to infer.
type NoteMeta struct {
	Title string

	// Created and Updated are ISO-8601 UTC strings; never empty.
	Created string
	Updated string

	// Tags is the sorted label set.
	Tags []string

	Pinned   bool
	Archived bool
	Trashed  bool

	// Attachments lists attachment filenames in source order.
	Attachments []string

	// TitleGenerated marks a placeholder title (note had no title and an
	// empty body). CreatedInferred and UpdatedInferred mark timestamps that
	// did not come from the source field of the same name.
	TitleGenerated  bool
	CreatedInferred bool
	UpdatedInferred bool
}

// Inferred returns the names of the metadata fields that were filled by
// fallback rules, for the run report.
func (m NoteMeta) Inferred() []string {
	var fields []string
	if m.TitleGenerated {
		fields = append(fields, "title")
	}
	if m.CreatedInferred {
		fields = append(fields, "created")
	}
	if m.UpdatedInferred {
		fields = append(fields, "updated")
	}
	return fields
}

// ConvertedNote is the output unit: a unique filename, the frontmatter
// values, and the markdown body.
type ConvertedNote struct {
	Filename string
	Meta     NoteMeta
	Body     string
}
