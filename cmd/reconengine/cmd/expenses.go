package cmd

import (
	"context"

	"club-reconciliation-engine/cmd/reconengine/config"
	"club-reconciliation-engine/internal/matcher"
	"club-reconciliation-engine/internal/policy"
	"club-reconciliation-engine/internal/reconciler"
	"club-reconciliation-engine/internal/store"

	"github.com/spf13/cobra"
)

// expensesCmd represents the expenses command
var expensesCmd = &cobra.Command{
	Use:   "expenses",
	Short: "Match outgoing payments against approved expense claims",
	Long: `Expenses matches unreconciled outgoing transactions against approved,
not-yet-reimbursed expense claims using the composite amount, name, and date
score. Each claim settles at most one transaction per run.

Examples:
  # Match reimbursements
  reconengine expenses --snapshot club.json

  # Persist the links back into the snapshot
  reconengine expenses --snapshot club.json --save`,

	PreRunE: validateMatchingFlags,
	RunE:    runExpenses,
}

func init() {
	rootCmd.AddCommand(expensesCmd)

	addMatchingFlags(expensesCmd)
	expensesCmd.MarkFlagRequired("snapshot")
}

func runExpenses(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	ms, err := store.LoadSnapshot(snapshotPath)
	if err != nil {
		return err
	}

	matchingPolicy, err := config.CreatePolicy(strictPolicy, autoLinkThreshold, suggestThreshold)
	if err != nil {
		return err
	}

	// The claim matcher stops consuming claims at the same score the policy
	// starts linking at.
	matcherConfig := matcher.DefaultConfig()
	matcherConfig.ClaimConsumeThreshold = matchingPolicy.AutoLinkThreshold

	er := reconciler.NewExpenseReconciler(ms,
		matcher.NewClaimMatcher(matcherConfig, nil),
		policy.NewApplier(matchingPolicy))

	summary, err := er.ReconcileExpenses(ctx)
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
