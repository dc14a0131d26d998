// Package config assembles engine configurations from CLI flags.
package config

import (
	"club-reconciliation-engine/internal/matcher"
	"club-reconciliation-engine/internal/policy"
	"club-reconciliation-engine/internal/reporter"
	"club-reconciliation-engine/pkg/errors"

	"github.com/shopspring/decimal"
)

// CreateMatcherConfig creates a matcher configuration with CLI overrides
// applied on top of the defaults. Zero values keep the default.
func CreateMatcherConfig(amountTolerance float64, nameThreshold float64) (*matcher.Config, error) {
	config := matcher.DefaultConfig()

	if amountTolerance > 0 {
		config.ParticipantAmountTolerance = decimal.NewFromFloat(amountTolerance)
	}
	if nameThreshold > 0 {
		config.ParticipantNameThreshold = nameThreshold
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "matcher", nil, err)
	}
	return config, nil
}

// CreatePolicy creates the decision policy: the strict preset when requested,
// with optional threshold overrides. Zero values keep the preset.
func CreatePolicy(strict bool, autoLink, suggest float64) (*policy.MatchingPolicy, error) {
	p := policy.DefaultPolicy()
	if strict {
		p = policy.StrictPolicy()
	}

	if autoLink > 0 {
		p.AutoLinkThreshold = autoLink
	}
	if suggest > 0 {
		p.SuggestThreshold = suggest
	}

	if err := p.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "policy", nil, err)
	}
	return p, nil
}

// CreateReportConfig creates a report configuration for the specified output
// format.
func CreateReportConfig(format string) (*reporter.Config, error) {
	config := reporter.DefaultConfig()

	switch format {
	case "console", "":
		config.Format = reporter.FormatConsole
	case "json":
		config.Format = reporter.FormatJSON
	case "csv":
		config.Format = reporter.FormatCSV
		// CSV carries the suggestion rows only; there is no cap so the
		// review spreadsheet is complete.
		config.MaxSuggestions = 0
	default:
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "output-format", format, nil).
			WithSuggestion("valid formats: console, json, csv")
	}

	return config, nil
}
