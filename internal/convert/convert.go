// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs the note conversion pipeline: scan the input tree,
// parse each record, transform body and metadata, allocate a unique
// filename, and write the markdown output, accumulating one outcome per
// candidate file.
package convert

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pdiddy/keep-to-joplin/internal/frontmatter"
	"github.com/pdiddy/keep-to-joplin/internal/keep"
	"github.com/pdiddy/keep-to-joplin/internal/scan"
	"github.com/pdiddy/keep-to-joplin/internal/slugfile"
	"github.com/pdiddy/keep-to-joplin/internal/transform"
	"github.com/pdiddy/keep-to-joplin/pkg/types"
)

// Phase is the run-level state. Runs advance strictly
// Idle → Scanning → Converting → Reporting → Done and cannot be resumed;
// a new Runner starts a fresh run.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseScanning   Phase = "scanning"
	PhaseConverting Phase = "converting"
	PhaseReporting  Phase = "reporting"
	PhaseDone       Phase = "done"
)

// Option configures a Runner.
type Option func(*Runner)

// WithLog directs per-file progress lines and the summary to w.
func WithLog(w io.Writer) Option {
	return func(r *Runner) { r.log = w }
}

// WithProgress registers a callback invoked with each outcome as it is
// recorded. Used by the TUI surface.
func WithProgress(fn func(types.Outcome)) Option {
	return func(r *Runner) { r.progress = fn }
}

// Runner executes one conversion run. All run-scoped mutable state (the
// slug allocation table, the placeholder-title sequence, the report) lives
// here, so concurrent runs never interfere.
type Runner struct {
	cfg      types.ConvertConfig
	alloc    *slugfile.Allocator
	seq      *frontmatter.Sequence
	report   *Report
	phase    Phase
	log      io.Writer
	progress func(types.Outcome)
	started  time.Time
}

// NewRunner builds a Runner with fresh run state.
func NewRunner(cfg types.ConvertConfig, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		alloc:  slugfile.NewAllocator(cfg.EffectiveSlugMaxLength()),
		seq:    &frontmatter.Sequence{},
		report: NewReport(),
		phase:  PhaseIdle,
		log:    io.Discard,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Phase returns the current run phase.
func (r *Runner) Phase() Phase {
	return r.phase
}

// StartedAt returns when Run began.
func (r *Runner) StartedAt() time.Time {
	return r.started
}

// Run executes the pipeline once and returns the report. Only
// precondition failures (unreadable input root, uncreatable output root)
// return an error; every per-file problem is recorded in the report and
// the run continues.
func (r *Runner) Run() (*Report, error) {
	if r.phase != PhaseIdle {
		return nil, fmt.Errorf("run already started (phase %s)", r.phase)
	}
	r.started = time.Now().UTC()

	if err := r.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if !r.cfg.DryRun {
		if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}

	r.phase = PhaseScanning
	fmt.Fprintf(r.log, "Scanning %s...\n", r.cfg.InputDir)
	paths, skips, err := scan.Candidates(r.cfg.InputDir)
	if err != nil {
		return nil, err
	}
	for _, o := range skips {
		r.record(o)
	}

	r.phase = PhaseConverting
	for _, path := range paths {
		r.record(r.convertOne(path))
	}

	r.phase = PhaseReporting
	r.report.Summary(r.log)
	r.phase = PhaseDone
	return r.report, nil
}

// record adds an outcome to the report, logs it, and notifies the
// progress callback.
func (r *Runner) record(o types.Outcome) {
	r.report.Add(o)
	if r.cfg.Verbose || o.Status != types.StatusConverted {
		switch o.Status {
		case types.StatusConverted:
			fmt.Fprintf(r.log, "converted: %s -> %s\n", o.Path, o.Filename)
		case types.StatusSkipped:
			fmt.Fprintf(r.log, "skipped:   %s (%s)\n", o.Path, o.Reason)
		case types.StatusFailed:
			fmt.Fprintf(r.log, "failed:    %s (%s)\n", o.Path, o.Reason)
		}
	}
	if r.progress != nil {
		r.progress(o)
	}
}

// convertOne takes one candidate file through parse, transform, metadata
// mapping, filename allocation, and the write.
func (r *Runner) convertOne(path string) types.Outcome {
	rec, err := keep.ParseFile(path)
	if err != nil {
		return types.Failed(path, err.Error())
	}

	// Trashed takes precedence over archived when both flags apply.
	if r.cfg.SkipTrashed && rec.Trashed {
		return types.Skipped(path, "trashed")
	}
	if r.cfg.SkipArchived && rec.Archived {
		return types.Skipped(path, "archived")
	}

	body, err := transform.Body(rec)
	if err != nil {
		return types.Failed(path, err.Error())
	}

	meta := frontmatter.Map(rec, body, sourceModTime(path, r.started), r.seq)
	inferred := meta.Inferred()
	if rec.InferredEmpty {
		inferred = append(inferred, "body")
	}

	note := types.ConvertedNote{
		Filename: r.alloc.Allocate(meta.Title),
		Meta:     meta,
		Body:     body,
	}

	content, err := frontmatter.Render(note.Meta, note.Body)
	if err != nil {
		return types.Failed(path, err.Error())
	}
	if err := WriteNote(r.cfg.OutputDir, note.Filename, content, r.cfg.DryRun); err != nil {
		return types.Failed(path, err.Error())
	}

	return types.Converted(path, note.Filename, inferred)
}

// sourceModTime returns the file's modification time for timestamp
// fallback, or the run start time if even that is unavailable.
func sourceModTime(path string, fallback time.Time) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return fallback
	}
	return info.ModTime().UTC()
}
