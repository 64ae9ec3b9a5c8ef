// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultSlugMaxLength bounds the slug portion of output filenames.
const DefaultSlugMaxLength = 80

// ConvertConfig holds settings for one conversion run.
type ConvertConfig struct {
	// InputDir is the root of the note export tree to scan.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir receives one markdown file per converted note.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// DryRun performs every step except the filesystem write.
	DryRun bool `json:"dry_run" yaml:"dry_run"`

	// Verbose enables per-file progress lines.
	Verbose bool `json:"verbose" yaml:"verbose"`

	// SkipTrashed skips notes flagged trashed instead of converting them.
	SkipTrashed bool `json:"skip_trashed" yaml:"skip_trashed"`

	// SkipArchived skips notes flagged archived instead of converting them.
	SkipArchived bool `json:"skip_archived" yaml:"skip_archived"`

	// SlugMaxLength bounds the slug portion of output filenames
	// (default 80).
	SlugMaxLength int `json:"slug_max_length" yaml:"slug_max_length"`

	// ManifestPath is an optional SQLite database recording run outcomes.
	// Empty disables the manifest.
	ManifestPath string `json:"manifest_path,omitempty" yaml:"manifest_path,omitempty"`
}

// Validate checks that the configuration can drive a run.
func (c ConvertConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.InputDir, validation.Required),
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.SlugMaxLength, validation.Min(0)),
	)
}

// EffectiveSlugMaxLength returns the configured slug bound, or the default
// when unset.
func (c ConvertConfig) EffectiveSlugMaxLength() int {
	if c.SlugMaxLength > 0 {
		return c.SlugMaxLength
	}
	return DefaultSlugMaxLength
}
