// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/keep-to-joplin/internal/convert"
	"github.com/pdiddy/keep-to-joplin/internal/manifest"
	"github.com/pdiddy/keep-to-joplin/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a note export tree to markdown files",
	Long: `Convert scans the input tree for note export records, converts each into
a markdown file with YAML frontmatter, and writes the results to the
output directory. Every candidate file yields exactly one outcome:
converted, skipped, or failed. The command exits non-zero when any file
failed while the rest of the run still completes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFromFlags(cmd)

		runner := convert.NewRunner(cfg, convert.WithLog(os.Stderr))
		report, err := runner.Run()
		if err != nil {
			return err
		}

		if err := recordManifest(cfg, runner.StartedAt(), report); err != nil {
			return err
		}

		if report.HasFailures() {
			_, _, failed := report.Counts()
			return fmt.Errorf("%d of %d notes failed", failed, report.Total())
		}
		return nil
	},
}

func init() {
	addConvertFlags(convertCmd)
	rootCmd.AddCommand(convertCmd)
}

// addConvertFlags registers the flags shared by convert and ui.
func addConvertFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "directory containing the note export tree")
	cmd.Flags().StringP("output", "o", "", "directory for the markdown output")
	cmd.Flags().Bool("dry-run", false, "perform every step except the filesystem writes")
	cmd.Flags().BoolP("verbose", "v", false, "print a progress line per file")
	cmd.Flags().Bool("skip-trashed", false, "skip notes flagged trashed")
	cmd.Flags().Bool("skip-archived", false, "skip notes flagged archived")
	cmd.Flags().String("manifest", "", "SQLite database recording run outcomes")
}

// configFromFlags merges config-file values with command flags; flags win
// when set.
func configFromFlags(cmd *cobra.Command) types.ConvertConfig {
	cfg := types.ConvertConfig{
		InputDir:      viper.GetString("input_dir"),
		OutputDir:     viper.GetString("output_dir"),
		SkipTrashed:   viper.GetBool("skip_trashed"),
		SkipArchived:  viper.GetBool("skip_archived"),
		SlugMaxLength: viper.GetInt("slug_max_length"),
		ManifestPath:  viper.GetString("manifest_path"),
	}

	if v, _ := cmd.Flags().GetString("input"); v != "" {
		cfg.InputDir = v
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		cfg.OutputDir = v
	}
	if cmd.Flags().Changed("skip-trashed") {
		cfg.SkipTrashed, _ = cmd.Flags().GetBool("skip-trashed")
	}
	if cmd.Flags().Changed("skip-archived") {
		cfg.SkipArchived, _ = cmd.Flags().GetBool("skip-archived")
	}
	if cmd.Flags().Changed("manifest") {
		cfg.ManifestPath, _ = cmd.Flags().GetString("manifest")
	}
	cfg.DryRun, _ = cmd.Flags().GetBool("dry-run")
	cfg.Verbose, _ = cmd.Flags().GetBool("verbose")

	return cfg
}

// recordManifest stores the run in the manifest database when one is
// configured.
func recordManifest(cfg types.ConvertConfig, startedAt time.Time, report *convert.Report) error {
	if cfg.ManifestPath == "" {
		return nil
	}

	store, err := manifest.Open(cfg.ManifestPath)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.RecordRun(cfg, startedAt, report.Outcomes())
	if err != nil {
		return fmt.Errorf("recording run manifest: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Recorded run %d in %s\n", id, cfg.ManifestPath)
	return nil
}
