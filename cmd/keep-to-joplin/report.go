// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/keep-to-joplin/internal/manifest"
	"github.com/pdiddy/keep-to-joplin/pkg/types"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show a recorded run from the manifest",
	Long: `Report prints the summary and the per-file problems of a run previously
recorded with --manifest. Without --run it shows the most recent run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("manifest")
		if path == "" {
			path = viper.GetString("manifest_path")
		}
		if path == "" {
			return fmt.Errorf("no manifest configured (use --manifest or manifest_path)")
		}

		store, err := manifest.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()

		runID, _ := cmd.Flags().GetInt64("run")
		var rec *manifest.RunRecord
		if runID > 0 {
			rec, err = store.Run(runID)
		} else {
			rec, err = store.LatestRun()
		}
		if err != nil {
			return err
		}

		printRunRecord(rec)
		return nil
	},
}

func init() {
	reportCmd.Flags().String("manifest", "", "SQLite database recording run outcomes")
	reportCmd.Flags().Int64("run", 0, "run ID to show (default: latest)")
	rootCmd.AddCommand(reportCmd)
}

// printRunRecord renders a recorded run in the same shape as a live run
// summary.
func printRunRecord(rec *manifest.RunRecord) {
	mode := ""
	if rec.DryRun {
		mode = " (dry run)"
	}
	fmt.Fprintf(os.Stdout, "Run %d%s: %s -> %s, started %s\n",
		rec.ID, mode, rec.InputDir, rec.OutputDir, rec.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(os.Stdout, "\nRun summary: %d converted, %d skipped, %d failed (total: %d)\n",
		rec.Converted, rec.Skipped, rec.Failed, len(rec.Outcomes))
	for _, o := range rec.Outcomes {
		if o.Status == types.StatusConverted {
			continue
		}
		fmt.Fprintf(os.Stdout, "  %s: %s (%s)\n", o.Status, o.Path, o.Reason)
	}
}
