package scoring

import (
	"time"

	"club-reconciliation-engine/internal/models"
	"club-reconciliation-engine/internal/similarity"

	"github.com/shopspring/decimal"
)

// Direction expresses which transaction sign a candidate entity expects:
// registrations are paid in, expense claims are paid out.
type Direction int

const (
	// DirectionAny disables the sign bonus.
	DirectionAny Direction = iota
	// DirectionInflow expects a positive transaction amount.
	DirectionInflow
	// DirectionOutflow expects a negative transaction amount.
	DirectionOutflow
)

// String returns the string representation of Direction.
func (d Direction) String() string {
	switch d {
	case DirectionInflow:
		return "inflow"
	case DirectionOutflow:
		return "outflow"
	default:
		return "any"
	}
}

// Target describes what a candidate entity expects of a matching
// transaction. Nil fields are not comparable and are skipped: the composite
// renormalizes over the weights actually applied instead of scoring missing
// fields as zero.
type Target struct {
	Amount            *decimal.Decimal
	Name              string
	Date              *time.Time
	ExpectedDirection Direction
}

// CompositeScorer blends field sub-scores into one 0-100 confidence value
// with an ordered list of human-readable reasons. It is pure and safe for
// concurrent use.
type CompositeScorer struct {
	config     *Config
	normalizer *similarity.Normalizer
}

// NewCompositeScorer creates a composite scorer. Nil arguments fall back to
// defaults.
func NewCompositeScorer(config *Config, normalizer *similarity.Normalizer) *CompositeScorer {
	if config == nil {
		config = DefaultConfig()
	}
	if normalizer == nil {
		normalizer = similarity.NewNormalizer(nil)
	}

	return &CompositeScorer{
		config:     config,
		normalizer: normalizer,
	}
}

// Config returns a copy of the scorer configuration.
func (cs *CompositeScorer) Config() *Config {
	return cs.config.Clone()
}

// Score evaluates a transaction against a target and returns the confidence
// plus the breakdown used to build the reason string.
func (cs *CompositeScorer) Score(tx *models.Transaction, target Target) (float64, *models.ScoreBreakdown) {
	breakdown := &models.ScoreBreakdown{}
	weights := cs.config.Weights

	weightedSum := 0.0
	weightSum := 0.0

	if target.Amount != nil {
		breakdown.AmountScore = AmountScore(target.Amount.Abs(), tx.Amount)
		breakdown.AmountWeight = weights.Amount
		weightedSum += breakdown.AmountScore * weights.Amount
		weightSum += weights.Amount
	}

	nameInCommunication := false
	if target.Name != "" {
		normalized := cs.normalizer.Normalize(target.Name)
		counterpartyScore := similarity.Score(normalized, cs.normalizer.Normalize(tx.Counterparty))
		communicationScore := similarity.Score(normalized, cs.normalizer.Normalize(tx.Communication))

		breakdown.NameScore = counterpartyScore
		if communicationScore > counterpartyScore {
			breakdown.NameScore = communicationScore
			nameInCommunication = true
		}
		breakdown.NameWeight = weights.Name
		weightedSum += breakdown.NameScore * weights.Name
		weightSum += weights.Name
	}

	if target.Date != nil {
		breakdown.DateScore = DateScore(tx.Date, *target.Date)
		breakdown.DateWeight = weights.Date
		weightedSum += breakdown.DateScore * weights.Date
		weightSum += weights.Date
	}

	score := 0.0
	if weightSum > 0 {
		score = weightedSum / weightSum
	}

	if cs.directionMatches(tx, target.ExpectedDirection) {
		breakdown.SignBonus = cs.config.SignBonus
		score += cs.config.SignBonus
		if score > 100 {
			score = 100
		}
	}

	breakdown.Reasons = cs.buildReasons(target, breakdown, nameInCommunication)

	return score, breakdown
}

func (cs *CompositeScorer) directionMatches(tx *models.Transaction, expected Direction) bool {
	switch expected {
	case DirectionInflow:
		return tx.IsInflow()
	case DirectionOutflow:
		return tx.IsOutflow()
	default:
		return false
	}
}

// buildReasons assembles the explanation in fixed order: amount, name, date,
// direction bonus.
func (cs *CompositeScorer) buildReasons(target Target, b *models.ScoreBreakdown, nameInCommunication bool) []string {
	var reasons []string
	threshold := cs.config.ReasonThreshold

	if target.Amount != nil && b.AmountScore >= threshold {
		if b.AmountScore == 100 {
			reasons = append(reasons, "exact amount")
		} else {
			reasons = append(reasons, "close amount")
		}
	}

	if target.Name != "" && b.NameScore >= threshold {
		if nameInCommunication {
			reasons = append(reasons, "name found in communication")
		} else {
			reasons = append(reasons, "name matches")
		}
	}

	if target.Date != nil && b.DateScore >= 50 {
		switch {
		case b.DateScore == 100:
			reasons = append(reasons, "same day")
		case b.DateScore >= 75:
			reasons = append(reasons, "within 2 weeks")
		default:
			reasons = append(reasons, "same month")
		}
	}

	if b.SignBonus > 0 {
		reasons = append(reasons, "direction matches expected "+target.ExpectedDirection.String())
	}

	return reasons
}
