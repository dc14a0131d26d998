package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"club-reconciliation-engine/cmd/reconengine/config"
	"club-reconciliation-engine/internal/matcher"
	"club-reconciliation-engine/internal/policy"
	"club-reconciliation-engine/internal/reconciler"
	"club-reconciliation-engine/internal/reporter"
	"club-reconciliation-engine/internal/store"
	"club-reconciliation-engine/pkg/errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags shared by the matching commands
var (
	snapshotPath string
	outputFormat string
	outputFile   string
	saveSnapshot bool

	strictPolicy      bool
	autoLinkThreshold float64
	suggestThreshold  float64

	amountTolerance float64
	nameThreshold   float64
)

var eventID string

// eventsCmd represents the events command
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Match incoming payments against an event",
	Long: `Events matches unreconciled incoming transactions around an event's
dates against the event: the expected total, the participant roster, and
keywords from the title and location. Confident matches are linked
automatically; the rest are reported as suggestions.

Examples:
  # Match payments for one event
  reconengine events --snapshot club.json --event EVT-2024-06

  # Persist the links back into the snapshot
  reconengine events --snapshot club.json --event EVT-2024-06 --save

  # Stricter thresholds, JSON report
  reconengine events --snapshot club.json --event EVT-2024-06 \
    --strict --output-format json --output-file report.json`,

	PreRunE: validateMatchingFlags,
	RunE:    runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)

	addMatchingFlags(eventsCmd)
	eventsCmd.Flags().StringVarP(&eventID, "event", "e", "", "event ID to reconcile (required)")
	eventsCmd.MarkFlagRequired("event")
	eventsCmd.MarkFlagRequired("snapshot")
}

// addMatchingFlags registers the flags common to events and expenses.
func addMatchingFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "path to the JSON snapshot (required)")
	cmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json, csv")
	cmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")
	cmd.Flags().BoolVar(&saveSnapshot, "save", false, "write committed links back to the snapshot")

	cmd.Flags().BoolVar(&strictPolicy, "strict", false, "use the strict decision thresholds")
	cmd.Flags().Float64Var(&autoLinkThreshold, "auto-link-threshold", 0, "override the auto-link threshold (0-100)")
	cmd.Flags().Float64Var(&suggestThreshold, "suggest-threshold", 0, "override the suggest threshold (0-100)")

	cmd.Flags().Float64Var(&amountTolerance, "amount-tolerance", 0, "participant amount tolerance override")
	cmd.Flags().Float64Var(&nameThreshold, "name-threshold", 0, "participant name similarity gate override (0-100)")

	viper.BindPFlag("snapshot", cmd.Flags().Lookup("snapshot"))
	viper.BindPFlag("output-format", cmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output-file", cmd.Flags().Lookup("output-file"))
}

func validateMatchingFlags(cmd *cobra.Command, args []string) error {
	if snapshotPath == "" {
		snapshotPath = viper.GetString("snapshot")
	}
	if snapshotPath == "" {
		return fmt.Errorf("snapshot is required")
	}

	info, err := os.Stat(snapshotPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("snapshot does not exist: %s", snapshotPath)
	}
	if err != nil {
		return fmt.Errorf("error accessing snapshot: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("snapshot is a directory, expected a file: %s", snapshotPath)
	}

	validFormats := map[string]bool{"console": true, "json": true, "csv": true}
	if !validFormats[outputFormat] {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json, csv", outputFormat)
	}

	return nil
}

func runEvents(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	ms, err := store.LoadSnapshot(snapshotPath)
	if err != nil {
		return err
	}

	matcherConfig, err := config.CreateMatcherConfig(amountTolerance, nameThreshold)
	if err != nil {
		return err
	}

	matchingPolicy, err := config.CreatePolicy(strictPolicy, autoLinkThreshold, suggestThreshold)
	if err != nil {
		return err
	}

	er := reconciler.NewEventReconciler(ms,
		matcher.NewEventMatcher(matcherConfig, nil),
		policy.NewApplier(matchingPolicy))

	summary, err := er.ReconcileEvent(ctx, eventID)
	if err != nil {
		return err
	}

	if err := writeReport(summary); err != nil {
		return err
	}

	if saveSnapshot {
		if err := store.SaveSnapshot(snapshotPath, ms); err != nil {
			return err
		}
	}

	return runErrors(summary)
}

// runErrors converts a completed run's collected errors into a process-level
// failure so the exit code reflects them. A clean run returns nil.
func runErrors(summary *reconciler.RunSummary) error {
	if len(summary.Errors) == 0 {
		return nil
	}
	return errors.NewErrorSummary(summary.Errors)
}

// writeReport renders the summary to the configured destination.
func writeReport(summary *reconciler.RunSummary) error {
	reportConfig, err := config.CreateReportConfig(outputFormat)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if outputFile != "" {
		file, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	return reporter.NewReporter(reportConfig).WriteSummary(out, summary)
}
