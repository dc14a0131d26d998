package matcher

import (
	"fmt"
	"sort"
	"strings"

	"club-reconciliation-engine/internal/models"
	"club-reconciliation-engine/internal/scoring"
	"club-reconciliation-engine/internal/similarity"
	"club-reconciliation-engine/pkg/errors"
	"club-reconciliation-engine/pkg/logger"
)

// EventMatcher pairs inflow transactions with an event using the three
// strategy tiers: exact total, per-participant amount, and keyword search.
type EventMatcher struct {
	config     *Config
	normalizer *similarity.Normalizer
}

// NewEventMatcher creates an event matcher. Nil arguments fall back to
// defaults.
func NewEventMatcher(config *Config, normalizer *similarity.Normalizer) *EventMatcher {
	if config == nil {
		config = DefaultConfig()
	}
	if normalizer == nil {
		normalizer = similarity.NewNormalizer(nil)
	}

	return &EventMatcher{
		config:     config,
		normalizer: normalizer,
	}
}

// MatchExactTotal returns a tier-95 candidate for every eligible inflow
// whose amount equals the event's expected total within tolerance.
func (em *EventMatcher) MatchExactTotal(transactions []*models.Transaction, event *models.Event) []*models.MatchCandidate {
	if event == nil || !event.TotalAmount.IsPositive() {
		return nil
	}

	var candidates []*models.MatchCandidate
	for _, tx := range transactions {
		if !eligibleForEvent(tx) {
			continue
		}

		diff := tx.AbsAmount().Sub(event.TotalAmount).Abs()
		if diff.GreaterThan(em.config.ExactTotalTolerance) {
			continue
		}

		candidates = append(candidates, &models.MatchCandidate{
			Transaction: tx,
			Kind:        models.KindEvent,
			EntityID:    event.ID,
			EntityName:  event.Title,
			Score:       scoring.TierExactTotal,
			Reason:      fmt.Sprintf("amount matches event total %s", event.TotalAmount.StringFixed(2)),
			Strategy:    models.StrategyExactTotal,
		})
	}

	return candidates
}

// MatchParticipants returns a tier-80 candidate when a transaction matches
// one roster entry's expected amount and the counterparty resembles that
// participant's name. The matched participant is recorded on the candidate.
func (em *EventMatcher) MatchParticipants(transactions []*models.Transaction, event *models.Event) []*models.MatchCandidate {
	if event == nil || len(event.Participants) == 0 {
		return nil
	}

	var candidates []*models.MatchCandidate
	for _, tx := range transactions {
		if !eligibleForEvent(tx) {
			continue
		}

		best := em.bestParticipant(tx, event.Participants)
		if best == nil {
			continue
		}

		candidates = append(candidates, &models.MatchCandidate{
			Transaction: tx,
			Kind:        models.KindRegistration,
			EntityID:    best.ID,
			EntityName:  best.FullName(),
			Score:       scoring.TierParticipant,
			Reason:      fmt.Sprintf("amount matches registration of %s", best.FullName()),
			Strategy:    models.StrategyParticipant,
			Participant: best,
		})
	}

	return candidates
}

// bestParticipant finds the roster entry with the highest name similarity
// among those whose expected amount is within tolerance and whose name
// clears the similarity gate.
func (em *EventMatcher) bestParticipant(tx *models.Transaction, roster []models.Participant) *models.Participant {
	var best *models.Participant
	bestName := 0.0

	for i := range roster {
		p := &roster[i]
		if !p.Amount.IsPositive() {
			continue // malformed roster entry, skip it
		}

		diff := tx.AbsAmount().Sub(p.Amount.Abs()).Abs()
		if diff.GreaterThan(em.config.ParticipantAmountTolerance) {
			continue
		}

		name := em.nameAgainstTransaction(p.FullName(), tx)
		if name < em.config.ParticipantNameThreshold {
			continue
		}

		if name > bestName {
			bestName = name
			best = p
		}
	}

	return best
}

// nameAgainstTransaction scores a name against both free-text fields of a
// transaction and keeps the better of the two.
func (em *EventMatcher) nameAgainstTransaction(name string, tx *models.Transaction) float64 {
	normalized := em.normalizer.Normalize(name)

	score := similarity.Score(normalized, em.normalizer.Normalize(tx.Counterparty))
	if s := similarity.Score(normalized, em.normalizer.Normalize(tx.Communication)); s > score {
		score = s
	}
	return score
}

// MatchKeywords returns a tier-70 candidate when a token of the event's
// title or location appears in the transaction's communication or
// counterparty field. Tokens must be longer than KeywordMinLength.
func (em *EventMatcher) MatchKeywords(transactions []*models.Transaction, event *models.Event) []*models.MatchCandidate {
	if event == nil {
		return nil
	}

	keywords := em.eventKeywords(event)
	if len(keywords) == 0 {
		return nil
	}

	var candidates []*models.MatchCandidate
	for _, tx := range transactions {
		if !eligibleForEvent(tx) {
			continue
		}

		haystack := em.normalizer.Normalize(tx.Communication) + " " + em.normalizer.Normalize(tx.Counterparty)

		for _, kw := range keywords {
			if !strings.Contains(haystack, kw) {
				continue
			}

			candidates = append(candidates, &models.MatchCandidate{
				Transaction: tx,
				Kind:        models.KindEvent,
				EntityID:    event.ID,
				EntityName:  event.Title,
				Score:       scoring.TierKeyword,
				Reason:      fmt.Sprintf("keyword %q found in communication", kw),
				Strategy:    models.StrategyKeyword,
			})
			break // one keyword hit per transaction is enough
		}
	}

	return candidates
}

// eventKeywords tokenizes the event title and location, keeping tokens
// longer than the configured minimum.
func (em *EventMatcher) eventKeywords(event *models.Event) []string {
	source := em.normalizer.Normalize(event.Title + " " + event.Location)

	var keywords []string
	for _, token := range strings.Fields(source) {
		if len(token) > em.config.KeywordMinLength {
			keywords = append(keywords, token)
		}
	}
	return keywords
}

// eligibleForEvent filters transactions before event-family scoring:
// inflows only, not reconciled, not already carrying an event or
// registration link.
func eligibleForEvent(tx *models.Transaction) bool {
	if tx == nil || tx.Reconciled || !tx.IsInflow() {
		return false
	}
	return !tx.HasMatchOfKind(models.KindEvent) && !tx.HasMatchOfKind(models.KindRegistration)
}

// ClaimMatcher pairs outflow transactions with approved expense claims using
// the composite score. Claims are consumed greedily: transactions are
// processed in their given order, and once a claim wins with a score at or
// above the consume threshold it leaves the pool for the rest of the run.
type ClaimMatcher struct {
	config *Config
	scorer *scoring.CompositeScorer
	logger logger.Logger
}

// NewClaimMatcher creates a claim matcher. Nil arguments fall back to
// defaults.
func NewClaimMatcher(config *Config, scorer *scoring.CompositeScorer) *ClaimMatcher {
	if config == nil {
		config = DefaultConfig()
	}
	if scorer == nil {
		scorer = scoring.NewCompositeScorer(nil, nil)
	}

	return &ClaimMatcher{
		config: config,
		scorer: scorer,
		logger: logger.WithComponent("claim-matcher"),
	}
}

// Match evaluates every eligible outflow against the remaining claim pool
// and returns the best candidate per transaction. Input order is preserved
// for pool consumption; candidates for a single transaction are ranked by
// score before the best is taken.
func (cm *ClaimMatcher) Match(transactions []*models.Transaction, claims []*models.ExpenseClaim) []*models.MatchCandidate {
	pool := make([]*models.ExpenseClaim, 0, len(claims))
	for _, c := range claims {
		if c == nil || !c.Eligible() {
			continue
		}
		if err := c.Validate(); err != nil {
			// Malformed candidates are skipped, not the run.
			cm.logger.WithError(errors.InputDataError(errors.CodeInvalidFormat, "claim", c.ID, err)).
				Warn("Skipping malformed claim")
			continue
		}
		pool = append(pool, c)
	}

	var candidates []*models.MatchCandidate
	for _, tx := range transactions {
		if !eligibleForClaim(tx) || len(pool) == 0 {
			continue
		}

		best, bestIdx := cm.bestClaim(tx, pool)
		if best == nil {
			continue
		}

		candidates = append(candidates, best)

		if best.Score >= cm.config.ClaimConsumeThreshold {
			pool = append(pool[:bestIdx], pool[bestIdx+1:]...)
		}
	}

	return candidates
}

// bestClaim scores the full pool for one transaction and returns the top
// candidate with its pool index.
func (cm *ClaimMatcher) bestClaim(tx *models.Transaction, pool []*models.ExpenseClaim) (*models.MatchCandidate, int) {
	type scored struct {
		candidate *models.MatchCandidate
		poolIdx   int
	}

	var results []scored
	for i, claim := range pool {
		amount := claim.Amount
		approvedAt := claim.ApprovedAt

		target := scoring.Target{
			Amount:            &amount,
			Name:              claim.Claimant,
			ExpectedDirection: scoring.DirectionOutflow,
		}
		if !approvedAt.IsZero() {
			target.Date = &approvedAt
		}

		score, breakdown := cm.scorer.Score(tx, target)
		if score <= 0 {
			continue
		}

		results = append(results, scored{
			candidate: &models.MatchCandidate{
				Transaction: tx,
				Kind:        models.KindExpense,
				EntityID:    claim.ID,
				EntityName:  claim.Claimant,
				Score:       score,
				Reason:      breakdown.ReasonString(),
				Strategy:    models.StrategyComposite,
			},
			poolIdx: i,
		})
	}

	if len(results) == 0 {
		return nil, -1
	}

	// Rank candidates for this transaction by score; ties keep pool order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].candidate.Score > results[j].candidate.Score
	})

	return results[0].candidate, results[0].poolIdx
}

// eligibleForClaim filters transactions before claim scoring: outflows only,
// not reconciled, no existing expense link.
func eligibleForClaim(tx *models.Transaction) bool {
	if tx == nil || tx.Reconciled || !tx.IsOutflow() {
		return false
	}
	return !tx.HasMatchOfKind(models.KindExpense)
}

// RelevanceRanker scores transactions against one caller-supplied target for
// manual-review sorting. It produces ranked candidates but is never fed into
// the decision policy, so no linking ever results from it.
type RelevanceRanker struct {
	scorer *scoring.CompositeScorer
}

// NewRelevanceRanker creates a relevance ranker. A nil scorer falls back to
// defaults.
func NewRelevanceRanker(scorer *scoring.CompositeScorer) *RelevanceRanker {
	if scorer == nil {
		scorer = scoring.NewCompositeScorer(nil, nil)
	}
	return &RelevanceRanker{scorer: scorer}
}

// Rank scores every transaction against the target and returns candidates
// sorted by descending relevance. Zero-score transactions are dropped.
func (rr *RelevanceRanker) Rank(transactions []*models.Transaction, kind models.EntityKind, entityID, entityName string, target scoring.Target) []*models.MatchCandidate {
	var candidates []*models.MatchCandidate

	for _, tx := range transactions {
		if tx == nil {
			continue
		}

		score, breakdown := rr.scorer.Score(tx, target)
		if score <= 0 {
			continue
		}

		candidates = append(candidates, &models.MatchCandidate{
			Transaction: tx,
			Kind:        kind,
			EntityID:    entityID,
			EntityName:  entityName,
			Score:       score,
			Reason:      breakdown.ReasonString(),
			Strategy:    models.StrategyComposite,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	return candidates
}
