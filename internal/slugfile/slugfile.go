// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package slugfile derives unique, filesystem-safe output filenames from
// note titles.
package slugfile

import (
	"fmt"
	"strings"

	slug "github.com/goliatone/go-slug"

	"github.com/pdiddy/keep-to-joplin/pkg/types"
)

// fallbackSlug replaces slugs that normalize to nothing.
const fallbackSlug = "note"

// mdExt is the output file extension.
const mdExt = ".md"

// Allocator hands out unique filenames for one run. It tracks how many
// times each slug has been requested; the first request gets the bare
// slug, the Nth repeat gets a "-N" suffix. For a fixed request sequence
// the allocated names are identical across runs.
type Allocator struct {
	maxLen int
	counts map[string]int
	taken  map[string]struct{}
}

// NewAllocator returns an empty run-scoped allocator. maxLen bounds the
// slug portion of filenames; non-positive values use the default.
func NewAllocator(maxLen int) *Allocator {
	if maxLen <= 0 {
		maxLen = types.DefaultSlugMaxLength
	}
	return &Allocator{
		maxLen: maxLen,
		counts: make(map[string]int),
		taken:  make(map[string]struct{}),
	}
}

// Allocate returns a unique ".md" filename for title within this run.
func (a *Allocator) Allocate(title string) string {
	base := Slug(title, a.maxLen)

	candidate := base
	for {
		n := a.counts[base]
		a.counts[base]++
		if n > 0 {
			candidate = fmt.Sprintf("%s-%d", base, n)
		}
		if _, exists := a.taken[candidate]; !exists {
			break
		}
		// A suffixed form was already taken by a literal title; keep
		// counting until a free name appears.
	}

	a.taken[candidate] = struct{}{}
	return candidate + mdExt
}

// Slug normalizes title to a lowercase, separator-collapsed slug bounded
// to maxLen bytes. An empty result yields the literal fallback token.
func Slug(title string, maxLen int) string {
	normalized, err := slug.Normalize(title)
	if err != nil || normalized == "" {
		return fallbackSlug
	}

	if len(normalized) > maxLen {
		normalized = normalized[:maxLen]
		normalized = strings.TrimRight(normalized, "-")
	}
	if normalized == "" {
		return fallbackSlug
	}
	return normalized
}
