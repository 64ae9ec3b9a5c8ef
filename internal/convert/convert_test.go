// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/pdiddy/keep-to-joplin/pkg/types"
)

func writeNoteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// setupTree builds an input tree with two same-titled text notes, a
// checklist, a trashed note, and one malformed record. File names pin the
// lexical scan order.
func setupTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeNoteFile(t, dir, "a-ideas.json", `{"title": "Ideas", "textContent": "first ideas note"}`)
	writeNoteFile(t, dir, "b-ideas.json", `{"title": "Ideas", "textContent": "second ideas note"}`)
	writeNoteFile(t, dir, "c-list.json", `{
		"title": "Chores",
		"listContent": [
			{"text": "Buy milk", "isChecked": false},
			{"text": "Pay bills", "isChecked": true}
		]
	}`)
	writeNoteFile(t, dir, "d-trashed.json", `{"title": "Old", "textContent": "gone", "isTrashed": true}`)
	writeNoteFile(t, dir, "e-broken.json", `{"title": "broken"`)
	return dir
}

func runPipeline(t *testing.T, cfg types.ConvertConfig) (*Report, *bytes.Buffer) {
	t.Helper()
	var log bytes.Buffer
	report, err := NewRunner(cfg, WithLog(&log)).Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return report, &log
}

func TestRun(t *testing.T) {
	input := setupTree(t)
	output := t.TempDir()

	report, log := runPipeline(t, types.ConvertConfig{InputDir: input, OutputDir: output})

	converted, skipped, failed := report.Counts()
	if converted != 4 || skipped != 0 || failed != 1 {
		t.Fatalf("counts = %d/%d/%d, want 4/0/1", converted, skipped, failed)
	}
	if report.Total() != 5 {
		t.Errorf("Total() = %d, want one outcome per candidate", report.Total())
	}
	if !report.HasFailures() {
		t.Error("HasFailures() = false")
	}

	entries, err := os.ReadDir(output)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	want := []string{"chores.md", "ideas-1.md", "ideas.md", "old.md"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("output files = %v, want %v", names, want)
	}

	if !strings.Contains(log.String(), "failed:") {
		t.Errorf("log %q missing failure line", log.String())
	}

	problems := report.Problems()
	if len(problems) != 1 || problems[0].Reason == "" {
		t.Errorf("Problems() = %v, want one entry with a reason", problems)
	}
}

func TestRunChecklistBody(t *testing.T) {
	input := t.TempDir()
	writeNoteFile(t, input, "list.json", `{
		"title": "Chores",
		"listContent": [
			{"text": "Buy milk", "isChecked": false},
			{"text": "Pay bills", "isChecked": true}
		]
	}`)
	output := t.TempDir()

	runPipeline(t, types.ConvertConfig{InputDir: input, OutputDir: output})

	data, err := os.ReadFile(filepath.Join(output, "chores.md"))
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	_, body, found := strings.Cut(content, "---\n\n")
	if !found {
		t.Fatalf("no frontmatter separator in %q", content)
	}
	if body != "- [ ] Buy milk\n- [x] Pay bills\n" {
		t.Errorf("body = %q", body)
	}
}

func TestRunTrashedNoteFrontmatter(t *testing.T) {
	input := t.TempDir()
	writeNoteFile(t, input, "note.json", `{"title": "Old", "textContent": "x", "isTrashed": true}`)
	output := t.TempDir()

	runPipeline(t, types.ConvertConfig{InputDir: input, OutputDir: output})

	data, err := os.ReadFile(filepath.Join(output, "old.md"))
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	for _, want := range []string{"pinned: false", "archived: false", "trashed: true"} {
		if !strings.Contains(content, want) {
			t.Errorf("frontmatter missing %q:\n%s", want, content)
		}
	}
}

func TestRunSkipFlags(t *testing.T) {
	input := t.TempDir()
	writeNoteFile(t, input, "a.json", `{"title": "T", "textContent": "x", "isTrashed": true}`)
	writeNoteFile(t, input, "b.json", `{"title": "A", "textContent": "x", "isArchived": true}`)
	writeNoteFile(t, input, "c.json", `{"title": "Both", "textContent": "x", "isTrashed": true, "isArchived": true}`)
	output := t.TempDir()

	report, _ := runPipeline(t, types.ConvertConfig{
		InputDir:     input,
		OutputDir:    output,
		SkipTrashed:  true,
		SkipArchived: true,
	})

	converted, skipped, failed := report.Counts()
	if converted != 0 || skipped != 3 || failed != 0 {
		t.Fatalf("counts = %d/%d/%d, want 0/3/0", converted, skipped, failed)
	}

	reasons := make(map[string]string)
	for _, o := range report.Outcomes() {
		reasons[filepath.Base(o.Path)] = o.Reason
	}
	if reasons["a.json"] != "trashed" || reasons["b.json"] != "archived" {
		t.Errorf("reasons = %v", reasons)
	}
	// Trashed wins when both flags apply.
	if reasons["c.json"] != "trashed" {
		t.Errorf("both-flags reason = %q, want trashed", reasons["c.json"])
	}
}

func TestRunDryRun(t *testing.T) {
	input := setupTree(t)
	realOut := t.TempDir()
	dryOut := filepath.Join(t.TempDir(), "never-created")

	realReport, _ := runPipeline(t, types.ConvertConfig{InputDir: input, OutputDir: realOut})
	dryReport, _ := runPipeline(t, types.ConvertConfig{InputDir: input, OutputDir: dryOut, DryRun: true})

	rc, rs, rf := realReport.Counts()
	dc, ds, df := dryReport.Counts()
	if rc != dc || rs != ds || rf != df {
		t.Errorf("dry-run counts %d/%d/%d differ from real %d/%d/%d", dc, ds, df, rc, rs, rf)
	}

	if _, err := os.Stat(dryOut); !os.IsNotExist(err) {
		t.Errorf("dry run touched the output directory: %v", err)
	}
}

func TestRunDeterminism(t *testing.T) {
	input := setupTree(t)

	collect := func() ([]string, map[string]string) {
		output := t.TempDir()
		report, _ := runPipeline(t, types.ConvertConfig{InputDir: input, OutputDir: output})

		var files []string
		contents := make(map[string]string)
		for _, o := range report.Outcomes() {
			if o.Status != types.StatusConverted {
				continue
			}
			files = append(files, o.Filename)
			data, err := os.ReadFile(filepath.Join(output, o.Filename))
			if err != nil {
				t.Fatal(err)
			}
			contents[o.Filename] = string(data)
		}
		return files, contents
	}

	files1, contents1 := collect()
	files2, contents2 := collect()

	if !reflect.DeepEqual(files1, files2) {
		t.Errorf("filename sequences differ: %v vs %v", files1, files2)
	}
	if !reflect.DeepEqual(contents1, contents2) {
		t.Error("file contents differ between runs")
	}
}

func TestRunInferredMetadata(t *testing.T) {
	input := t.TempDir()
	writeNoteFile(t, input, "bare.json", `{}`)
	output := t.TempDir()

	report, _ := runPipeline(t, types.ConvertConfig{InputDir: input, OutputDir: output})

	outcomes := report.Outcomes()
	if len(outcomes) != 1 || outcomes[0].Status != types.StatusConverted {
		t.Fatalf("outcomes = %v", outcomes)
	}
	inferred := outcomes[0].Inferred
	for _, want := range []string{"title", "created", "updated", "body"} {
		found := false
		for _, f := range inferred {
			if f == want {
				found = true
			}
		}
		if !found {
			t.Errorf("inferred %v missing %q", inferred, want)
		}
	}
	if outcomes[0].Filename != "untitled-note-1.md" {
		t.Errorf("Filename = %q", outcomes[0].Filename)
	}
}

func TestRunMissingInput(t *testing.T) {
	cfg := types.ConvertConfig{
		InputDir:  filepath.Join(t.TempDir(), "missing"),
		OutputDir: t.TempDir(),
	}
	if _, err := NewRunner(cfg).Run(); err == nil {
		t.Fatal("expected error for missing input root")
	}
}

func TestRunnerNotReusable(t *testing.T) {
	input := t.TempDir()
	writeNoteFile(t, input, "a.json", `{"textContent": "x"}`)

	r := NewRunner(types.ConvertConfig{InputDir: input, OutputDir: t.TempDir()})
	if _, err := r.Run(); err != nil {
		t.Fatal(err)
	}
	if r.Phase() != PhaseDone {
		t.Errorf("Phase() = %q, want done", r.Phase())
	}
	if _, err := r.Run(); err == nil {
		t.Fatal("expected error on re-run")
	}
}

func TestWriteNote(t *testing.T) {
	dir := t.TempDir()

	if err := WriteNote(dir, "a.md", "content\n", false); err != nil {
		t.Fatalf("WriteNote() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "a.md"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "content\n" {
		t.Errorf("content = %q", data)
	}

	// No stray temp files remain.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1", len(entries))
	}
}

func TestWriteNoteFailureLeavesNothing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	if err := WriteNote(missing, "a.md", "content", false); err == nil {
		t.Fatal("expected error for missing output root")
	}
	if _, err := os.Stat(missing); !os.IsNotExist(err) {
		t.Errorf("output root was created: %v", err)
	}
}

func TestWriteNoteDryRun(t *testing.T) {
	dir := t.TempDir()
	if err := WriteNote(dir, "a.md", "content", true); err != nil {
		t.Fatalf("WriteNote() error = %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("dry run wrote %d entries", len(entries))
	}
}
