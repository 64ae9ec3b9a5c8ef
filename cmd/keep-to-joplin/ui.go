// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pdiddy/keep-to-joplin/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Run the conversion behind an interactive terminal surface",
	Long: `Ui drives the same conversion pipeline as "convert" and renders progress
and the final report interactively. Outcomes, the manifest, and the exit
status are identical to a plain convert run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFromFlags(cmd)
		startedAt := time.Now().UTC()

		final, err := tea.NewProgram(tui.New(cfg)).Run()
		if err != nil {
			return err
		}

		m, ok := final.(tui.Model)
		if !ok {
			return fmt.Errorf("unexpected final model %T", final)
		}
		if m.Err() != nil {
			return m.Err()
		}
		report := m.Report()
		if report == nil {
			fmt.Fprintln(os.Stderr, "run aborted before completion")
			return nil
		}

		report.Summary(os.Stdout)

		if err := recordManifest(cfg, startedAt, report); err != nil {
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
	addConvertFlags(uiCmd)
	rootCmd.AddCommand(uiCmd)
}
