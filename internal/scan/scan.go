// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan enumerates candidate note-export files under an input root.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/keep-to-joplin/pkg/types"
)

// noteExt is the export format's file extension, matched case-insensitively.
const noteExt = ".json"

// Candidates walks root and returns every candidate note file in
// deterministic (lexical per-directory) order, plus a skipped outcome for
// each directory that could not be read. The walk continues past unreadable
// directories. An unreadable or missing root is a precondition failure and
// returns an error.
func Candidates(root string) ([]string, []types.Outcome, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, fmt.Errorf("input directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("input path %s is not a directory", root)
	}

	var paths []string
	var skipped []types.Outcome

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entry: record and keep walking siblings.
			skipped = append(skipped, types.Skipped(path, fmt.Sprintf("unreadable: %v", err)))
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), noteExt) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walking %s: %w", root, err)
	}

	return paths, skipped, nil
}
