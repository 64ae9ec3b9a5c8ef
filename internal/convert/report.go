// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"io"

	"github.com/pdiddy/keep-to-joplin/pkg/types"
)

// Report accumulates one outcome per candidate file for a single run.
// It is append-only and owned by the run that created it.
type Report struct {
	outcomes []types.Outcome
	byPath   map[string]int
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{byPath: make(map[string]int)}
}

// Add records one outcome. A later outcome for the same path replaces the
// earlier one, preserving the one-outcome-per-file invariant.
func (r *Report) Add(o types.Outcome) {
	if i, ok := r.byPath[o.Path]; ok {
		r.outcomes[i] = o
		return
	}
	r.byPath[o.Path] = len(r.outcomes)
	r.outcomes = append(r.outcomes, o)
}

// Outcomes returns all outcomes in record order.
func (r *Report) Outcomes() []types.Outcome {
	return r.outcomes
}

// Counts returns the totals per outcome kind.
func (r *Report) Counts() (converted, skipped, failed int) {
	for _, o := range r.outcomes {
		switch o.Status {
		case types.StatusConverted:
			converted++
		case types.StatusSkipped:
			skipped++
		case types.StatusFailed:
			failed++
		}
	}
	return converted, skipped, failed
}

// Total returns the number of recorded outcomes.
func (r *Report) Total() int {
	return len(r.outcomes)
}

// HasFailures reports whether any file failed.
func (r *Report) HasFailures() bool {
	_, _, failed := r.Counts()
	return failed > 0
}

// Problems returns every skipped or failed outcome in record order.
func (r *Report) Problems() []types.Outcome {
	var out []types.Outcome
	for _, o := range r.outcomes {
		if o.Status != types.StatusConverted {
			out = append(out, o)
		}
	}
	return out
}

// Summary writes the run totals and every problem line to w.
func (r *Report) Summary(w io.Writer) {
	converted, skipped, failed := r.Counts()
	fmt.Fprintf(w, "\nRun summary: %d converted, %d skipped, %d failed (total: %d)\n",
		converted, skipped, failed, r.Total())
	for _, o := range r.Problems() {
		fmt.Fprintf(w, "  %s: %s (%s)\n", o.Status, o.Path, o.Reason)
	}
}
