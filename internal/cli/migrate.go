package cli

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/dtroode/foodtracker-migrator/internal/model"
)

type migrateOptions struct {
	userID int64
	dryRun bool
	json   bool
}

func newMigrateCommand(open Opener) *cobra.Command {
	opts := &migrateOptions{}

	cmd := &cobra.Command{
		Use:   "migrate --user <id>",
		Short: "Migrate one user's data into the target database",
		Long: `Migrate reads the user's diary and body weights plus the whole catalogue and
settings table from the source, transforms them, clears the matching target
tables and writes the result.

The target is not restored when a run fails while clearing or writing.
Run the migration again once the cause is fixed.

Use --dry-run to read and transform without touching the target.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, open, opts)
		},
	}

	cmd.Flags().Int64Var(&opts.userID, "user", 0, "Id of the user whose diary and body weights are migrated")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Read and transform only, leave the target untouched")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the report as JSON")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runMigrate(cmd *cobra.Command, open Opener, opts *migrateOptions) error {
	if opts.userID <= 0 {
		return fmt.Errorf("user id must be positive, got %d", opts.userID)
	}

	ctx := cmd.Context()

	env, err := open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := env.Close(); err != nil && env.Logger != nil {
			env.Logger.Warn("failed to release resources", "error", err.Error())
		}
	}()

	run := env.Migrator.Migrate
	if opts.dryRun {
		run = env.Migrator.Plan
	}

	report, runErr := run(ctx, opts.userID)

	if err := printReport(cmd.OutOrStdout(), report, opts.json); err != nil {
		return err
	}

	if env.Metrics != nil && env.Config != nil && env.Config.Metrics.PushgatewayURL != "" {
		if err := env.Metrics.Push(ctx, env.Config.Metrics.PushgatewayURL, env.Config.Metrics.Job); err != nil && env.Logger != nil {
			env.Logger.Warn("failed to push metrics", "error", err.Error())
		}
	}

	return runErr
}

type reportView struct {
	RunID       string   `json:"run_id"`
	UserID      int64    `json:"user_id"`
	State       string   `json:"state"`
	DryRun      bool     `json:"dry_run"`
	Diary       int      `json:"diary"`
	Weights     int      `json:"weights"`
	Catalogue   int      `json:"catalogue"`
	Settings    int      `json:"settings"`
	Warnings    []string `json:"warnings"`
	SnapshotKey string   `json:"snapshot_key,omitempty"`
	DurationMS  int64    `json:"duration_ms"`
}

func newReportView(report model.Report) reportView {
	warnings := make([]string, 0, len(report.Warnings))
	for _, w := range report.Warnings {
		warnings = append(warnings, w.Error())
	}

	return reportView{
		RunID:       report.RunID.String(),
		UserID:      report.UserID,
		State:       string(report.State),
		DryRun:      report.DryRun,
		Diary:       report.Diary,
		Weights:     report.Weights,
		Catalogue:   report.Catalogue,
		Settings:    report.Settings,
		Warnings:    warnings,
		SnapshotKey: report.SnapshotKey,
		DurationMS:  report.Duration.Milliseconds(),
	}
}

func printReport(out io.Writer, report model.Report, asJSON bool) error {
	view := newReportView(report)

	if asJSON {
		data, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	mode := "migration"
	if view.DryRun {
		mode = "dry run"
	}
	fmt.Fprintf(out, "%s %s for user %d: %s\n", mode, view.RunID, view.UserID, view.State)
	fmt.Fprintf(out, "  diary:     %d\n", view.Diary)
	fmt.Fprintf(out, "  weights:   %d\n", view.Weights)
	fmt.Fprintf(out, "  catalogue: %d\n", view.Catalogue)
	fmt.Fprintf(out, "  settings:  %d\n", view.Settings)
	if view.SnapshotKey != "" {
		fmt.Fprintf(out, "  snapshot:  %s\n", view.SnapshotKey)
	}
	for _, w := range view.Warnings {
		fmt.Fprintf(out, "  warning: %s\n", w)
	}

	return nil
}
