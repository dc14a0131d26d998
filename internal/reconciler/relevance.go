package reconciler

import (
	"context"

	"club-reconciliation-engine/internal/matcher"
	"club-reconciliation-engine/internal/models"
	"club-reconciliation-engine/internal/scoring"
	"club-reconciliation-engine/internal/store"
	"club-reconciliation-engine/pkg/errors"
	"club-reconciliation-engine/pkg/logger"
)

// RelevanceService ranks transactions against one entity for manual review.
// It is read-only: no links are written and no flags change.
type RelevanceService struct {
	store  store.Store
	ranker *matcher.RelevanceRanker
	logger logger.Logger
}

// NewRelevanceService creates a relevance service. A nil ranker falls back to
// defaults.
func NewRelevanceService(st store.Store, ranker *matcher.RelevanceRanker) *RelevanceService {
	if ranker == nil {
		ranker = matcher.NewRelevanceRanker(nil)
	}

	return &RelevanceService{
		store:  st,
		ranker: ranker,
		logger: logger.WithComponent("relevance"),
	}
}

// RankTransactions scores the filtered transactions against the target and
// returns them in descending relevance order.
func (rs *RelevanceService) RankTransactions(ctx context.Context, filter store.TransactionFilter, kind models.EntityKind, entityID, entityName string, target scoring.Target) ([]*models.MatchCandidate, error) {
	transactions, err := rs.store.ListTransactions(ctx, filter)
	if err != nil {
		return nil, errors.WrapIfNeeded(err, errors.CategoryStore, errors.CodeReadFailed,
			"failed to read transactions")
	}

	ranked := rs.ranker.Rank(transactions, kind, entityID, entityName, target)

	rs.logger.WithFields(logger.Fields{
		"entity_id":  entityID,
		"kind":       kind.String(),
		"scanned":    len(transactions),
		"candidates": len(ranked),
	}).Debug("Relevance ranking completed")

	return ranked, nil
}
