// Package policy turns scored match candidates into decisions. The matchers
// propose, the policy disposes: candidates at or above the auto-link
// threshold are committed to the store, candidates in the middle band are
// surfaced as suggestions for review, the rest are dropped.
package policy

import (
	"context"
	"fmt"
	"time"

	"club-reconciliation-engine/internal/models"
	"club-reconciliation-engine/internal/store"
	"club-reconciliation-engine/pkg/errors"
	"club-reconciliation-engine/pkg/logger"
)

// MatchingPolicy holds the decision thresholds.
type MatchingPolicy struct {
	// AutoLinkThreshold is the minimum score for committing a match without
	// review.
	AutoLinkThreshold float64 `json:"auto_link_threshold"`

	// SuggestThreshold is the minimum score for surfacing a candidate as a
	// suggestion. Candidates below it are treated as noise.
	SuggestThreshold float64 `json:"suggest_threshold"`
}

// DefaultPolicy returns the thresholds used by the club's pipelines.
func DefaultPolicy() *MatchingPolicy {
	return &MatchingPolicy{
		AutoLinkThreshold: 80,
		SuggestThreshold:  50,
	}
}

// StrictPolicy returns thresholds that auto-link less and suggest less.
func StrictPolicy() *MatchingPolicy {
	return &MatchingPolicy{
		AutoLinkThreshold: 85,
		SuggestThreshold:  60,
	}
}

// Validate checks if the policy thresholds are valid.
func (p *MatchingPolicy) Validate() error {
	if p.AutoLinkThreshold < 0 || p.AutoLinkThreshold > 100 {
		return fmt.Errorf("auto-link threshold must be between 0 and 100: %f", p.AutoLinkThreshold)
	}

	if p.SuggestThreshold < 0 || p.SuggestThreshold > 100 {
		return fmt.Errorf("suggest threshold must be between 0 and 100: %f", p.SuggestThreshold)
	}

	if p.SuggestThreshold > p.AutoLinkThreshold {
		return fmt.Errorf("suggest threshold (%f) cannot exceed auto-link threshold (%f)",
			p.SuggestThreshold, p.AutoLinkThreshold)
	}

	return nil
}

// Outcome partitions one policy application. Every input candidate lands in
// exactly one of the three buckets; Errors carries write failures for
// candidates that should have auto-linked but could not be committed, plus
// candidates rejected as malformed.
type Outcome struct {
	AutoLinked []*models.MatchCandidate
	Suggested  []*models.MatchCandidate
	Unmatched  []*models.MatchCandidate
	Errors     []*errors.EngineError
}

// Applier commits policy decisions to a store.
type Applier struct {
	policy *MatchingPolicy
	logger logger.Logger

	// now is the clock used for LinkedAt stamps.
	now func() time.Time
}

// NewApplier creates a policy applier. A nil policy falls back to defaults.
func NewApplier(policy *MatchingPolicy) *Applier {
	if policy == nil {
		policy = DefaultPolicy()
	}

	return &Applier{
		policy: policy,
		logger: logger.GetGlobalLogger().WithComponent("policy"),
		now:    time.Now,
	}
}

// Apply partitions the candidates by threshold and commits the auto-link
// band to the store. A write failure moves that one candidate into Errors
// and the loop continues; it never aborts the batch.
func (a *Applier) Apply(ctx context.Context, st store.Store, candidates []*models.MatchCandidate) *Outcome {
	outcome := &Outcome{}

	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		if candidate.Transaction == nil {
			// A matcher handed us a candidate with no transaction. That is a
			// bug in the producer, not a data problem.
			outcome.Errors = append(outcome.Errors, errors.InternalError("policy apply",
				fmt.Errorf("candidate %s/%s carries no transaction", candidate.Kind, candidate.EntityID)))
			continue
		}

		switch {
		case candidate.Score >= a.policy.AutoLinkThreshold:
			if err := a.commit(ctx, st, candidate); err != nil {
				outcome.Errors = append(outcome.Errors, err)
				continue
			}
			outcome.AutoLinked = append(outcome.AutoLinked, candidate)

		case candidate.Score >= a.policy.SuggestThreshold:
			outcome.Suggested = append(outcome.Suggested, candidate)

		default:
			outcome.Unmatched = append(outcome.Unmatched, candidate)
		}
	}

	a.logger.WithFields(logger.Fields{
		"auto_linked": len(outcome.AutoLinked),
		"suggested":   len(outcome.Suggested),
		"unmatched":   len(outcome.Unmatched),
		"errors":      len(outcome.Errors),
	}).Info("Policy applied")

	return outcome
}

// commit writes one auto-link decision: the edge record, the reconciled flag,
// and for expense matches the back-reference on the claim.
func (a *Applier) commit(ctx context.Context, st store.Store, candidate *models.MatchCandidate) *errors.EngineError {
	txID := candidate.Transaction.ID
	entity := candidate.ToMatchedEntity(models.ActorAuto, a.now())

	if err := st.AppendMatchedEntity(ctx, txID, entity); err != nil {
		return errors.WrapIfNeeded(err, errors.CategoryStore, errors.CodeWriteFailed,
			fmt.Sprintf("failed to link transaction %s", txID))
	}

	if err := st.SetReconciled(ctx, txID, true); err != nil {
		return errors.WrapIfNeeded(err, errors.CategoryStore, errors.CodeWriteFailed,
			fmt.Sprintf("failed to mark transaction %s reconciled", txID))
	}

	if candidate.Kind == models.KindExpense {
		if err := st.SetClaimTransaction(ctx, candidate.EntityID, txID); err != nil {
			return errors.WrapIfNeeded(err, errors.CategoryStore, errors.CodeWriteFailed,
				fmt.Sprintf("failed to link claim %s", candidate.EntityID))
		}
	}

	a.logger.WithFields(logger.Fields{
		"transaction_id": txID,
		"kind":           candidate.Kind.String(),
		"entity_id":      candidate.EntityID,
		"score":          candidate.Score,
	}).Debug("Transaction auto-linked")

	return nil
}

// Unlink removes one match edge from a transaction and recomputes the
// reconciled flag from what remains. For expense matches the claim's
// back-reference is cleared so the claim becomes eligible again.
func (a *Applier) Unlink(ctx context.Context, st store.Store, txID string, kind models.EntityKind, entityID string) error {
	if err := st.RemoveMatchedEntity(ctx, txID, kind, entityID); err != nil {
		return errors.WrapIfNeeded(err, errors.CategoryStore, errors.CodeWriteFailed,
			fmt.Sprintf("failed to unlink transaction %s", txID))
	}

	tx, err := st.GetTransaction(ctx, txID)
	if err != nil {
		return errors.WrapIfNeeded(err, errors.CategoryStore, errors.CodeReadFailed,
			fmt.Sprintf("failed to reload transaction %s", txID))
	}

	if err := st.SetReconciled(ctx, txID, len(tx.Matches) > 0); err != nil {
		return errors.WrapIfNeeded(err, errors.CategoryStore, errors.CodeWriteFailed,
			fmt.Sprintf("failed to update reconciled flag on %s", txID))
	}

	if kind == models.KindExpense {
		if err := st.SetClaimTransaction(ctx, entityID, ""); err != nil {
			return errors.WrapIfNeeded(err, errors.CategoryStore, errors.CodeWriteFailed,
				fmt.Sprintf("failed to release claim %s", entityID))
		}
	}

	a.logger.WithFields(logger.Fields{
		"transaction_id": txID,
		"kind":           kind.String(),
		"entity_id":      entityID,
	}).Info("Transaction unlinked")

	return nil
}
