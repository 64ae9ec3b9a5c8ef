// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteNote writes content to outputRoot/filename. The write is
// all-or-nothing: content goes to a temporary file in the same directory
// which is renamed over the final name only after a successful write and
// close, so a failure never leaves a partial note behind. In dry-run mode
// nothing touches the filesystem.
func WriteNote(outputRoot, filename, content string, dryRun bool) error {
	if dryRun {
		return nil
	}

	tmp, err := os.CreateTemp(outputRoot, ".note-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", outputRoot, err)
	}
	tmpName := tmp.Name()

	remove := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.WriteString(content); err != nil {
		remove()
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", filename, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting mode on %s: %w", filename, err)
	}

	final := filepath.Join(outputRoot, filename)
	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming into %s: %w", final, err)
	}
	return nil
}
