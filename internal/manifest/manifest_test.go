// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/keep-to-joplin/pkg/types"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "manifest.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndFetchRun(t *testing.T) {
	s := openStore(t)

	cfg := types.ConvertConfig{InputDir: "in", OutputDir: "out", DryRun: true}
	started := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	outcomes := []types.Outcome{
		types.Converted("in/a.json", "a.md", nil),
		types.Skipped("in/b.json", "trashed"),
		types.Failed("in/c.json", "decoding record: unexpected EOF"),
	}

	id, err := s.RecordRun(cfg, started, outcomes)
	require.NoError(t, err)

	rec, err := s.Run(id)
	require.NoError(t, err)
	assert.Equal(t, "in", rec.InputDir)
	assert.Equal(t, "out", rec.OutputDir)
	assert.True(t, rec.DryRun)
	assert.True(t, rec.StartedAt.Equal(started))
	assert.Equal(t, 1, rec.Converted)
	assert.Equal(t, 1, rec.Skipped)
	assert.Equal(t, 1, rec.Failed)

	require.Len(t, rec.Outcomes, 3)
	assert.Equal(t, "a.md", rec.Outcomes[0].Filename)
	assert.Equal(t, types.StatusSkipped, rec.Outcomes[1].Status)
	assert.Equal(t, "trashed", rec.Outcomes[1].Reason)
}

func TestLatestRun(t *testing.T) {
	s := openStore(t)

	_, err := s.LatestRun()
	assert.Error(t, err)

	cfg := types.ConvertConfig{InputDir: "in", OutputDir: "out"}
	_, err = s.RecordRun(cfg, time.Now(), nil)
	require.NoError(t, err)
	second, err := s.RecordRun(cfg, time.Now(), []types.Outcome{
		types.Converted("in/x.json", "x.md", nil),
	})
	require.NoError(t, err)

	rec, err := s.LatestRun()
	require.NoError(t, err)
	assert.Equal(t, second, rec.ID)
	assert.Equal(t, 1, rec.Converted)
}

func TestRunNotFound(t *testing.T) {
	s := openStore(t)
	_, err := s.Run(42)
	assert.Error(t, err)
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "manifest.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.RecordRun(types.ConvertConfig{InputDir: "a", OutputDir: "b"}, time.Now(), nil)
	assert.NoError(t, err)
}
