// Package reconciler orchestrates matching runs: it loads the working set
// from the store, feeds it through the matchers, applies the decision policy
// and assembles a run summary. It owns no matching logic of its own.
package reconciler

import (
	"time"

	"club-reconciliation-engine/internal/models"
	"club-reconciliation-engine/internal/policy"
	"club-reconciliation-engine/pkg/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tier labels used in the per-tier counts of a run summary.
const (
	TierLabelExactTotal  = models.StrategyExactTotal
	TierLabelParticipant = models.StrategyParticipant
	TierLabelKeyword     = models.StrategyKeyword
	TierLabelComposite   = models.StrategyComposite
)

// RunSummary describes one matching run.
type RunSummary struct {
	RunID     string        `json:"run_id"`
	Operation string        `json:"operation"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`

	TotalTransactions int `json:"total_transactions"`
	AutoLinked        int `json:"auto_linked"`
	Suggested         int `json:"suggested"`
	Unmatched         int `json:"unmatched"`

	// ByTier counts auto-linked matches per strategy tier.
	ByTier map[string]int `json:"by_tier,omitempty"`

	// TotalExpected is the monetary amount the run set out to settle;
	// LinkedAmount is how much of it was auto-linked. MatchRate is their
	// ratio as a percentage, zero when nothing was expected.
	TotalExpected decimal.Decimal `json:"total_expected"`
	LinkedAmount  decimal.Decimal `json:"linked_amount"`
	MatchRate     float64         `json:"match_rate"`

	// Suggestions carries the review band for reporting.
	Suggestions []*models.MatchCandidate `json:"-"`

	Errors []*errors.EngineError `json:"errors,omitempty"`
}

// newRunSummary starts a summary for the given operation.
func newRunSummary(operation string) *RunSummary {
	return &RunSummary{
		RunID:     uuid.NewString(),
		Operation: operation,
		StartedAt: time.Now(),
		ByTier:    make(map[string]int),
	}
}

// finish stamps the duration and computes the match rate.
func (rs *RunSummary) finish() *RunSummary {
	rs.Duration = time.Since(rs.StartedAt)

	if rs.TotalExpected.IsPositive() {
		rate, _ := rs.LinkedAmount.Div(rs.TotalExpected).Mul(decimal.NewFromInt(100)).Float64()
		rs.MatchRate = rate
	}

	return rs
}

// recordOutcome folds a policy outcome into the summary.
func (rs *RunSummary) recordOutcome(outcome *policy.Outcome) {
	rs.AutoLinked += len(outcome.AutoLinked)
	rs.Suggested += len(outcome.Suggested)
	rs.Unmatched += len(outcome.Unmatched)
	rs.Suggestions = append(rs.Suggestions, outcome.Suggested...)
	rs.Errors = append(rs.Errors, outcome.Errors...)

	for _, c := range outcome.AutoLinked {
		rs.ByTier[tierLabel(c)]++
		rs.LinkedAmount = rs.LinkedAmount.Add(c.Transaction.AbsAmount())
	}
}

// tierLabel returns the strategy tag carried on the candidate. External
// providers may leave it empty, which counts as composite.
func tierLabel(c *models.MatchCandidate) string {
	if c.Strategy == "" {
		return TierLabelComposite
	}
	return c.Strategy
}
