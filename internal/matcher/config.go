// Package matcher implements the candidate matching strategies that pair
// bank transactions with business entities, and the merger that collapses
// their output to one best candidate per transaction.
//
// Strategies fall into two families:
//   - the event family (exact total, per-participant, keyword) assigns fixed
//     strategy-tier confidences so the score itself tells a reviewer which
//     rule fired;
//   - the claim matcher and relevance ranker use the continuous composite
//     score from the scoring package.
//
// All matchers are pure: they read transactions and candidate entities and
// emit MatchCandidate values, never touching the store.
package matcher

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Config holds the matching tolerances. The small rule variations that used
// to be copy-pasted per pipeline (tolerances, name gates, keyword length)
// live here as parameters.
type Config struct {
	// ExactTotalTolerance is the maximum amount difference for the
	// exact-total event matcher.
	ExactTotalTolerance decimal.Decimal `json:"exact_total_tolerance"`

	// ParticipantAmountTolerance is the maximum amount difference for the
	// per-participant matcher.
	ParticipantAmountTolerance decimal.Decimal `json:"participant_amount_tolerance"`

	// ParticipantNameThreshold is the minimum name similarity (0-100) for a
	// participant amount match to be accepted.
	ParticipantNameThreshold float64 `json:"participant_name_threshold"`

	// KeywordMinLength is the length a title/location token must exceed to
	// be used by the keyword matcher.
	KeywordMinLength int `json:"keyword_min_length"`

	// ClaimConsumeThreshold is the score at which a claim is considered
	// taken and removed from the candidate pool for subsequent
	// transactions in the same run. It should equal the auto-link
	// threshold of the decision policy driving the run.
	ClaimConsumeThreshold float64 `json:"claim_consume_threshold"`
}

// DefaultConfig returns the tolerances used by the club's pipelines.
func DefaultConfig() *Config {
	return &Config{
		ExactTotalTolerance:        decimal.NewFromFloat(0.01),
		ParticipantAmountTolerance: decimal.NewFromFloat(0.50),
		ParticipantNameThreshold:   80,
		KeywordMinLength:           3,
		ClaimConsumeThreshold:      80,
	}
}

// Validate checks if the matching configuration is valid.
func (c *Config) Validate() error {
	if c.ExactTotalTolerance.IsNegative() {
		return fmt.Errorf("exact total tolerance cannot be negative: %s", c.ExactTotalTolerance)
	}

	if c.ParticipantAmountTolerance.IsNegative() {
		return fmt.Errorf("participant amount tolerance cannot be negative: %s", c.ParticipantAmountTolerance)
	}

	if c.ParticipantNameThreshold < 0 || c.ParticipantNameThreshold > 100 {
		return fmt.Errorf("participant name threshold must be between 0 and 100: %f", c.ParticipantNameThreshold)
	}

	if c.KeywordMinLength < 1 {
		return fmt.Errorf("keyword minimum length must be positive: %d", c.KeywordMinLength)
	}

	if c.ClaimConsumeThreshold < 0 || c.ClaimConsumeThreshold > 100 {
		return fmt.Errorf("claim consume threshold must be between 0 and 100: %f", c.ClaimConsumeThreshold)
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
