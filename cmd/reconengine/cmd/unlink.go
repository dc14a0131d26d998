package cmd

import (
	"context"
	"fmt"

	"club-reconciliation-engine/internal/models"
	"club-reconciliation-engine/internal/policy"
	"club-reconciliation-engine/internal/store"

	"github.com/spf13/cobra"
)

// Flags for the unlink command
var (
	unlinkTransaction string
	unlinkKind        string
	unlinkEntityID    string
)

// unlinkCmd represents the unlink command
var unlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Remove a match from a transaction",
	Long: `Unlink removes one match edge from a transaction and recomputes its
reconciled flag from the matches that remain. Unlinking an expense claim
makes the claim eligible for matching again.

Examples:
  reconengine unlink --snapshot club.json \
    --transaction TX-123 --kind expense --entity-id CLM-7 --save`,

	PreRunE: validateUnlinkFlags,
	RunE:    runUnlink,
}

func init() {
	rootCmd.AddCommand(unlinkCmd)

	unlinkCmd.Flags().StringVar(&snapshotPath, "snapshot", "", "path to the JSON snapshot (required)")
	unlinkCmd.Flags().StringVarP(&unlinkTransaction, "transaction", "t", "", "transaction ID (required)")
	unlinkCmd.Flags().StringVar(&unlinkKind, "kind", "", "entity kind of the link (required)")
	unlinkCmd.Flags().StringVar(&unlinkEntityID, "entity-id", "", "entity ID of the link (required)")
	unlinkCmd.Flags().BoolVar(&saveSnapshot, "save", true, "write the change back to the snapshot")

	unlinkCmd.MarkFlagRequired("snapshot")
	unlinkCmd.MarkFlagRequired("transaction")
	unlinkCmd.MarkFlagRequired("kind")
	unlinkCmd.MarkFlagRequired("entity-id")
}

func validateUnlinkFlags(cmd *cobra.Command, args []string) error {
	if snapshotPath == "" {
		return fmt.Errorf("snapshot is required")
	}
	if !models.EntityKind(unlinkKind).IsValid() {
		return fmt.Errorf("invalid kind '%s'. Valid kinds: registration, expense, event, member", unlinkKind)
	}
	return nil
}

func runUnlink(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	ms, err := store.LoadSnapshot(snapshotPath)
	if err != nil {
		return err
	}

	applier := policy.NewApplier(nil)
	if err := applier.Unlink(ctx, ms, unlinkTransaction, models.EntityKind(unlinkKind), unlinkEntityID); err != nil {
		return err
	}

	fmt.Printf("Unlinked %s/%s from transaction %s\n", unlinkKind, unlinkEntityID, unlinkTransaction)

	if saveSnapshot {
		if err := store.SaveSnapshot(snapshotPath, ms); err != nil {
			return err
		}
	}

	return nil
}
