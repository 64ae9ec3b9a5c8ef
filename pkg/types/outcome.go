// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// OutcomeStatus classifies the result of processing one candidate file.
type OutcomeStatus string

const (
	StatusConverted OutcomeStatus = "converted"
	StatusSkipped   OutcomeStatus = "skipped"
	StatusFailed    OutcomeStatus = "failed"
)

// Outcome records what happened to one candidate file. Exactly one Outcome
// exists per scanned candidate.
type Outcome struct {
	// Path is the source file (or directory, for scan skips).
	Path string `json:"path" yaml:"path"`

	// Status is the outcome kind.
	Status OutcomeStatus `json:"status" yaml:"status"`

	// Reason is non-empty for skipped and failed outcomes.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`

	// Filename is the output filename for converted outcomes.
	Filename string `json:"filename,omitempty" yaml:"filename,omitempty"`

	// Inferred names metadata fields filled by fallback rules.
	Inferred []string `json:"inferred,omitempty" yaml:"inferred,omitempty"`
}

// Converted builds a converted outcome.
func Converted(path, filename string, inferred []string) Outcome {
	return Outcome{Path: path, Status: StatusConverted, Filename: filename, Inferred: inferred}
}

// Skipped builds a skipped outcome.
func Skipped(path, reason string) Outcome {
	return Outcome{Path: path, Status: StatusSkipped, Reason: reason}
}

// Failed builds a failed outcome.
func Failed(path, reason string) Outcome {
	return Outcome{Path: path, Status: StatusFailed, Reason: reason}
}
