package reconciler

import (
	"context"
	"time"

	"club-reconciliation-engine/internal/matcher"
	"club-reconciliation-engine/internal/models"
	"club-reconciliation-engine/internal/policy"
	"club-reconciliation-engine/internal/store"
	"club-reconciliation-engine/pkg/errors"
	"club-reconciliation-engine/pkg/logger"
)

// externalBatchSize is how many transactions go to the external scorer per
// call.
const externalBatchSize = 20

// ExpenseReconciler matches outgoing transactions against approved expense
// claims. Deterministic composite scoring runs first; transactions it leaves
// unmatched can optionally be retried through an external scoring provider.
type ExpenseReconciler struct {
	store        store.Store
	claimMatcher *matcher.ClaimMatcher
	applier      *policy.Applier
	logger       logger.Logger

	// external, when set, scores leftover transactions after the
	// deterministic pass. PacingInterval spaces out the provider calls.
	external       matcher.ExternalScorer
	pacingInterval time.Duration
}

// NewExpenseReconciler creates an expense reconciler. Nil matcher or applier
// fall back to defaults.
func NewExpenseReconciler(st store.Store, cm *matcher.ClaimMatcher, applier *policy.Applier) *ExpenseReconciler {
	if cm == nil {
		cm = matcher.NewClaimMatcher(nil, nil)
	}
	if applier == nil {
		applier = policy.NewApplier(nil)
	}

	return &ExpenseReconciler{
		store:        st,
		claimMatcher: cm,
		applier:      applier,
		logger:       logger.WithComponent("expense-reconciler"),
	}
}

// WithExternalScorer enables the external scoring pass over leftover
// transactions. A zero pacing interval sends batches back to back.
func (er *ExpenseReconciler) WithExternalScorer(scorer matcher.ExternalScorer, pacing time.Duration) *ExpenseReconciler {
	er.external = scorer
	er.pacingInterval = pacing
	return er
}

// ReconcileExpenses runs one expense matching pass over all unreconciled
// outflows. A failed store read ends the run with an empty summary carrying
// the error; nothing is written in that case.
func (er *ExpenseReconciler) ReconcileExpenses(ctx context.Context) (*RunSummary, error) {
	summary := newRunSummary("reconcile-expenses")

	transactions, err := er.store.ListTransactions(ctx, store.TransactionFilter{
		Sign:              store.SignOutflow,
		ExcludeReconciled: true,
	})
	if err != nil {
		er.logger.WithError(err).Error("Transaction read failed, aborting run")
		summary.Errors = append(summary.Errors,
			errors.WrapIfNeeded(err, errors.CategoryStore, errors.CodeReadFailed, "failed to read transactions"))
		return summary.finish(), nil
	}

	claims, err := er.store.ListClaims(ctx, store.ClaimFilter{
		Status:       models.ClaimApproved,
		UnlinkedOnly: true,
	})
	if err != nil {
		er.logger.WithError(err).Error("Claim read failed, aborting run")
		summary.Errors = append(summary.Errors,
			errors.WrapIfNeeded(err, errors.CategoryStore, errors.CodeReadFailed, "failed to read claims"))
		return summary.finish(), nil
	}

	summary.TotalTransactions = len(transactions)
	for _, c := range claims {
		summary.TotalExpected = summary.TotalExpected.Add(c.Amount)
	}

	er.logger.WithFields(logger.Fields{
		"run_id":       summary.RunID,
		"transactions": len(transactions),
		"claims":       len(claims),
	}).Info("Starting expense reconciliation")

	candidates := er.claimMatcher.Match(transactions, claims)
	outcome := er.applier.Apply(ctx, er.store, candidates)
	summary.recordOutcome(outcome)

	if er.external != nil {
		er.runExternalPass(ctx, summary, transactions, outcome.AutoLinked)
	}

	summary.finish()

	er.logger.WithFields(logger.Fields{
		"run_id":      summary.RunID,
		"auto_linked": summary.AutoLinked,
		"suggested":   summary.Suggested,
		"match_rate":  summary.MatchRate,
		"duration":    summary.Duration.String(),
	}).Info("Expense reconciliation completed")

	return summary, nil
}

// runExternalPass sends transactions the deterministic pass did not resolve
// through the external provider, in paced batches. Provider errors mean "no
// match": they are logged and the run continues.
func (er *ExpenseReconciler) runExternalPass(ctx context.Context, summary *RunSummary, transactions []*models.Transaction, linked []*models.MatchCandidate) {
	leftovers := leftoverTransactions(transactions, linked)
	if len(leftovers) == 0 {
		return
	}

	claims, err := er.store.ListClaims(ctx, store.ClaimFilter{
		Status:       models.ClaimApproved,
		UnlinkedOnly: true,
	})
	if err != nil || len(claims) == 0 {
		return
	}

	// eligible is the claim pool the provider may draw from; consumed tracks
	// claims auto-linked during this pass so no claim settles twice.
	eligible := make(map[string]bool, len(claims))
	for _, c := range claims {
		eligible[c.ID] = true
	}
	consumed := make(map[string]bool)

	log := er.logger.WithField("provider", er.external.Name())
	tracker := logger.NewProgressTracker("external-scoring", int64(len(leftovers)), 0, log)

	for start := 0; start < len(leftovers); start += externalBatchSize {
		if ctx.Err() != nil {
			tracker.CompleteWithError(ctx.Err())
			return
		}

		end := start + externalBatchSize
		if end > len(leftovers) {
			end = len(leftovers)
		}
		batch := leftovers[start:end]

		proposed, err := er.external.ScoreTransactions(ctx, batch, claims)
		if err != nil {
			provErr := errors.ExternalProviderError(er.external.Name(), err)
			log.WithError(provErr).Warn("External scoring failed, continuing without it")
			summary.Errors = append(summary.Errors, provErr)
		} else if accepted := vetProposals(proposed, eligible, consumed); len(accepted) > 0 {
			outcome := er.applier.Apply(ctx, er.store, accepted)
			summary.recordOutcome(outcome)
			for _, c := range outcome.AutoLinked {
				if c.Kind == models.KindExpense {
					consumed[c.EntityID] = true
				}
			}
		}

		for range batch {
			tracker.Increment()
		}

		if er.pacingInterval > 0 && end < len(leftovers) {
			select {
			case <-ctx.Done():
				tracker.CompleteWithError(ctx.Err())
				return
			case <-time.After(er.pacingInterval):
			}
		}
	}

	tracker.Complete()
}

// vetProposals reduces a provider's proposals to at most one per transaction
// and enforces claim exclusivity before anything is committed. Proposals for
// reconciled transactions, for claims outside the eligible pool, and for
// claims already won by a higher-scored proposal are dropped.
func vetProposals(proposed []*models.MatchCandidate, eligible, consumed map[string]bool) []*models.MatchCandidate {
	taken := make(map[string]bool)

	var accepted []*models.MatchCandidate
	for _, c := range matcher.Merge(proposed) {
		if c.Transaction.Reconciled {
			continue
		}
		if c.Kind == models.KindExpense {
			if !eligible[c.EntityID] || consumed[c.EntityID] || taken[c.EntityID] {
				continue
			}
			taken[c.EntityID] = true
		}
		accepted = append(accepted, c)
	}
	return accepted
}

// leftoverTransactions returns the transactions not auto-linked by the
// deterministic pass, preserving order.
func leftoverTransactions(transactions []*models.Transaction, linked []*models.MatchCandidate) []*models.Transaction {
	seen := make(map[string]bool, len(linked))
	for _, c := range linked {
		if c != nil && c.Transaction != nil {
			seen[c.Transaction.ID] = true
		}
	}

	var leftovers []*models.Transaction
	for _, tx := range transactions {
		if tx == nil || seen[tx.ID] || tx.Reconciled || !tx.IsOutflow() {
			continue
		}
		leftovers = append(leftovers, tx)
	}
	return leftovers
}
