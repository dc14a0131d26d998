package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"club-reconciliation-engine/internal/models"
	"club-reconciliation-engine/internal/reconciler"
	"club-reconciliation-engine/internal/scoring"
	"club-reconciliation-engine/internal/store"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// Flags for the rank command
var (
	rankName      string
	rankAmount    float64
	rankDate      string
	rankDirection string
	rankKind      string
	rankEntityID  string
	rankLimit     int
)

// rankCmd represents the rank command
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank transactions by relevance to an entity",
	Long: `Rank scores every transaction in the snapshot against a target amount,
name, and date, and prints them in descending relevance order. Nothing is
linked; this is a read-only aid for manual review.

Examples:
  # Which transactions could be Jean's reimbursement?
  reconengine rank --snapshot club.json --name "Jean Dupont" \
    --amount 120.00 --date 2024-05-20 --direction outflow

  # Candidates for a member's dues
  reconengine rank --snapshot club.json --name "Anna Peeters" \
    --kind member --entity-id MBR-7 --direction inflow`,

	PreRunE: validateRankFlags,
	RunE:    runRank,
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringVar(&snapshotPath, "snapshot", "", "path to the JSON snapshot (required)")
	rankCmd.Flags().StringVarP(&rankName, "name", "n", "", "target name to score against")
	rankCmd.Flags().Float64VarP(&rankAmount, "amount", "a", 0, "target amount to score against")
	rankCmd.Flags().StringVarP(&rankDate, "date", "d", "", "target date (YYYY-MM-DD)")
	rankCmd.Flags().StringVar(&rankDirection, "direction", "any", "expected direction: any, inflow, outflow")
	rankCmd.Flags().StringVar(&rankKind, "kind", "member", "entity kind: registration, expense, event, member")
	rankCmd.Flags().StringVar(&rankEntityID, "entity-id", "", "entity ID for the candidate records")
	rankCmd.Flags().IntVar(&rankLimit, "limit", 10, "maximum number of results")

	rankCmd.MarkFlagRequired("snapshot")
}

func validateRankFlags(cmd *cobra.Command, args []string) error {
	if snapshotPath == "" {
		return fmt.Errorf("snapshot is required")
	}

	if rankName == "" && rankAmount == 0 && rankDate == "" {
		return fmt.Errorf("at least one of --name, --amount, --date is required")
	}

	if rankDate != "" {
		if _, err := time.Parse("2006-01-02", rankDate); err != nil {
			return fmt.Errorf("invalid date format. Use YYYY-MM-DD: %w", err)
		}
	}

	validDirections := map[string]bool{"any": true, "inflow": true, "outflow": true}
	if !validDirections[rankDirection] {
		return fmt.Errorf("invalid direction '%s'. Valid directions: any, inflow, outflow", rankDirection)
	}

	if !models.EntityKind(rankKind).IsValid() {
		return fmt.Errorf("invalid kind '%s'. Valid kinds: registration, expense, event, member", rankKind)
	}

	if rankLimit < 1 {
		return fmt.Errorf("limit must be positive")
	}

	return nil
}

func runRank(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	ms, err := store.LoadSnapshot(snapshotPath)
	if err != nil {
		return err
	}

	target := scoring.Target{Name: rankName}

	if rankAmount != 0 {
		amount := decimal.NewFromFloat(rankAmount)
		target.Amount = &amount
	}
	if rankDate != "" {
		date, _ := time.Parse("2006-01-02", rankDate)
		target.Date = &date
	}

	switch rankDirection {
	case "inflow":
		target.ExpectedDirection = scoring.DirectionInflow
	case "outflow":
		target.ExpectedDirection = scoring.DirectionOutflow
	}

	rs := reconciler.NewRelevanceService(ms, nil)
	ranked, err := rs.RankTransactions(ctx, store.TransactionFilter{},
		models.EntityKind(rankKind), rankEntityID, rankName, target)
	if err != nil {
		return err
	}

	if len(ranked) == 0 {
		fmt.Println("No relevant transactions found.")
		return nil
	}

	if len(ranked) > rankLimit {
		ranked = ranked[:rankLimit]
	}

	fmt.Fprintf(os.Stdout, "%-4s %-14s %-12s %-10s %-6s %s\n",
		"#", "TRANSACTION", "DATE", "AMOUNT", "SCORE", "REASON")
	for i, c := range ranked {
		fmt.Fprintf(os.Stdout, "%-4d %-14s %-12s %-10s %-6.1f %s\n",
			i+1,
			c.Transaction.ID,
			c.Transaction.Date.Format("2006-01-02"),
			c.Transaction.Amount.StringFixed(2),
			c.Score,
			c.Reason)
	}

	return nil
}
