// Package scoring turns raw field differences (amount, date, name) into
// sub-scores and combines them into one 0-100 confidence value with a
// human-readable explanation.
//
// Two composite modes exist side by side:
//   - the weighted blend of CompositeScorer, used where a continuous
//     confidence is meaningful (expense claims, relevance ranking);
//   - fixed strategy tiers (TierExactTotal, TierParticipant, TierKeyword),
//     used by the event matching family where the round number communicates
//     which strategy produced the match.
package scoring

import "fmt"

// Strategy tier confidences for the event/participant matching family.
const (
	// TierExactTotal is assigned when a transaction equals an event's
	// expected total within the exact-amount tolerance.
	TierExactTotal = 95.0
	// TierParticipant is assigned when a transaction matches one roster
	// entry's individual amount.
	TierParticipant = 80.0
	// TierKeyword is assigned when an event keyword appears in the
	// transaction's communication or counterparty field.
	TierKeyword = 70.0
)

// Weights defines the relative importance of the three comparable fields.
// Fields without a comparable target are skipped and the remaining weights
// renormalized, rather than scoring the missing field as zero.
type Weights struct {
	Name   float64 `json:"name_weight"`
	Amount float64 `json:"amount_weight"`
	Date   float64 `json:"date_weight"`
}

// Validate checks if the weights are usable.
func (w *Weights) Validate() error {
	for name, v := range map[string]float64{"name": w.Name, "amount": w.Amount, "date": w.Date} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s weight must be between 0.0 and 1.0: %f", name, v)
		}
	}

	total := w.Name + w.Amount + w.Date
	if total <= 0 {
		return fmt.Errorf("at least one weight must be positive")
	}

	return nil
}

// Config holds the composite scorer parameters.
type Config struct {
	Weights Weights `json:"weights"`

	// SignBonus is added (capped at 100) when the transaction direction
	// matches the semantic expectation of the candidate entity type.
	SignBonus float64 `json:"sign_bonus"`

	// ReasonThreshold is the minimum sub-score for a field to contribute a
	// reason line to the explanation.
	ReasonThreshold float64 `json:"reason_threshold"`
}

// DefaultConfig returns the weighting used across the club's pipelines:
// name 40%, amount 40%, date 20%, +10 direction bonus.
func DefaultConfig() *Config {
	return &Config{
		Weights: Weights{
			Name:   0.4,
			Amount: 0.4,
			Date:   0.2,
		},
		SignBonus:       10,
		ReasonThreshold: 60,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("invalid weights: %w", err)
	}

	if c.SignBonus < 0 || c.SignBonus > 100 {
		return fmt.Errorf("sign bonus must be between 0 and 100: %f", c.SignBonus)
	}

	if c.ReasonThreshold < 0 || c.ReasonThreshold > 100 {
		return fmt.Errorf("reason threshold must be between 0 and 100: %f", c.ReasonThreshold)
	}

	return nil
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}
