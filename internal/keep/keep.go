// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keep parses Google Keep Takeout JSON records into NoteRecords.
package keep

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pdiddy/keep-to-joplin/pkg/types"
)

// rawNote mirrors the Takeout JSON schema for one note. TextContent is a
// pointer so a present-but-empty text field is distinguishable from an
// absent one during body-shape resolution.
type rawNote struct {
	Title                   string          `json:"title"`
	TextContent             *string         `json:"textContent"`
	TextContentHTML         string          `json:"textContentHtml"`
	TextHTML                string          `json:"textHtml"`
	ListContent             []rawListItem   `json:"listContent"`
	CreatedTimestampUsec    int64           `json:"createdTimestampUsec"`
	UserEditedTimestampUsec int64           `json:"userEditedTimestampUsec"`
	IsTrashed               bool            `json:"isTrashed"`
	IsPinned                bool            `json:"isPinned"`
	IsArchived              bool            `json:"isArchived"`
	Color                   string          `json:"color"`
	Labels                  []rawLabel      `json:"labels"`
	Attachments             []rawAttachment `json:"attachments"`
	Annotations             []rawAnnotation `json:"annotations"`
}

type rawListItem struct {
	Text      string `json:"text"`
	TextHTML  string `json:"textHtml"`
	IsChecked bool   `json:"isChecked"`
}

type rawLabel struct {
	Name string `json:"name"`
}

type rawAttachment struct {
	FilePath string `json:"filePath"`
	Mimetype string `json:"mimetype"`
}

type rawAnnotation struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ParseFile reads and parses one candidate file.
func ParseFile(path string) (*types.NoteRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	rec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return rec, nil
}

// Parse decodes one export record. Invalid UTF-8 byte sequences are
// replaced with U+FFFD before decoding, so a broken encoding never aborts
// a run; only structural failures (non-JSON, non-object root) return an
// error.
func Parse(data []byte) (*types.NoteRecord, error) {
	data = bytes.ToValidUTF8(data, []byte("�"))

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty record")
	}
	if trimmed[0] != '{' {
		return nil, fmt.Errorf("record is not a JSON object")
	}

	var raw rawNote
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}

	rec := &types.NoteRecord{
		Title:    raw.Title,
		Created:  usecToTime(raw.CreatedTimestampUsec),
		Updated:  usecToTime(raw.UserEditedTimestampUsec),
		Trashed:  raw.IsTrashed,
		Pinned:   raw.IsPinned,
		Archived: raw.IsArchived,
		Color:    raw.Color,
	}

	for _, l := range raw.Labels {
		if l.Name != "" {
			rec.Labels = append(rec.Labels, l.Name)
		}
	}
	for _, a := range raw.Attachments {
		if a.FilePath != "" {
			rec.Attachments = append(rec.Attachments, types.AttachmentRef{Filename: a.FilePath})
		}
	}
	for _, a := range raw.Annotations {
		if a.URL == "" {
			continue
		}
		rec.Annotations = append(rec.Annotations, types.Annotation{
			URL:         a.URL,
			Title:       a.Title,
			Description: a.Description,
		})
	}

	rec.Body = resolveBody(raw)
	if rec.Body.Kind == types.BodyPlainText && rec.Body.Text == "" &&
		raw.TextContent == nil && raw.TextContentHTML == "" && raw.TextHTML == "" {
		rec.InferredEmpty = true
	}

	return rec, nil
}

// resolveBody fixes the body shape: a non-empty checklist field wins, then
// a present plain-text field, then the HTML text fields, then empty text.
func resolveBody(raw rawNote) types.NoteBody {
	if len(raw.ListContent) > 0 {
		items := make([]types.ChecklistItem, 0, len(raw.ListContent))
		for i, item := range raw.ListContent {
			text := item.Text
			if text == "" {
				text = item.TextHTML
			}
			items = append(items, types.ChecklistItem{
				Text:     text,
				Checked:  item.IsChecked,
				Position: i,
			})
		}
		return types.ChecklistBody(items)
	}

	if raw.TextContent != nil {
		return types.PlainTextBody(*raw.TextContent)
	}
	if raw.TextContentHTML != "" {
		return types.PlainTextBody(raw.TextContentHTML)
	}
	if raw.TextHTML != "" {
		return types.PlainTextBody(raw.TextHTML)
	}
	return types.PlainTextBody("")
}

// usecToTime converts a microsecond epoch timestamp to UTC. Zero or
// negative values mean the source omitted the field.
func usecToTime(usec int64) time.Time {
	if usec <= 0 {
		return time.Time{}
	}
	return time.UnixMicro(usec).UTC()
}
