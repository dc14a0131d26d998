package matcher

import (
	"context"

	"club-reconciliation-engine/internal/models"
)

// ExternalScorer is an optional capability for delegating matching to an
// outside provider (typically a language model) when deterministic matching
// is insufficient. Implementations must emit the same MatchCandidate shape
// as the deterministic matchers so their output composes with Merge and the
// decision policy unchanged.
//
// Callers treat any error as "no match from this provider": the failure is
// logged and the batch continues without suggestions from it.
type ExternalScorer interface {
	// Name identifies the provider in logs and reason strings.
	Name() string

	// ScoreTransactions proposes candidates for the given transactions
	// against the claim pool. Returned candidates may cover any subset of
	// the input; transactions the provider has no opinion on are simply
	// absent.
	ScoreTransactions(ctx context.Context, transactions []*models.Transaction, claims []*models.ExpenseClaim) ([]*models.MatchCandidate, error)
}
