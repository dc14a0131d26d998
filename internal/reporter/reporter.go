// Package reporter renders matching run results for people and programs:
// console output for the operator running a reconciliation, JSON for
// downstream tooling, CSV for the suggestion review spreadsheet.
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"club-reconciliation-engine/internal/models"
	"club-reconciliation-engine/internal/reconciler"
)

// OutputFormat represents the supported report output formats.
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// Config holds report generation options.
type Config struct {
	Format OutputFormat `json:"format"`

	// IncludeSuggestions adds the review band to the output.
	IncludeSuggestions bool `json:"include_suggestions"`

	// MaxSuggestions caps the rendered suggestion list; zero means no cap.
	MaxSuggestions int `json:"max_suggestions"`
}

// DefaultConfig returns a default report configuration
func DefaultConfig() *Config {
	return &Config{
		Format:             FormatConsole,
		IncludeSuggestions: true,
		MaxSuggestions:     50,
	}
}

// Validate validates the report configuration
func (c *Config) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}
	if c.MaxSuggestions < 0 {
		return fmt.Errorf("max suggestions cannot be negative: %d", c.MaxSuggestions)
	}
	return nil
}

// Reporter renders run summaries.
type Reporter struct {
	config *Config
}

// NewReporter creates a reporter. A nil config falls back to defaults.
func NewReporter(config *Config) *Reporter {
	if config == nil {
		config = DefaultConfig()
	}
	return &Reporter{config: config}
}

// WriteSummary renders the run summary to the writer in the configured
// format.
func (r *Reporter) WriteSummary(w io.Writer, summary *reconciler.RunSummary) error {
	switch r.config.Format {
	case FormatJSON:
		return r.writeJSON(w, summary)
	case FormatCSV:
		return r.writeCSV(w, summary)
	default:
		return r.writeConsole(w, summary)
	}
}

func (r *Reporter) writeConsole(w io.Writer, summary *reconciler.RunSummary) error {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Run %s (%s)\n", summary.RunID, summary.Operation))
	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString(fmt.Sprintf("Transactions scanned:  %d\n", summary.TotalTransactions))
	b.WriteString(fmt.Sprintf("Auto-linked:           %d\n", summary.AutoLinked))
	b.WriteString(fmt.Sprintf("Suggested for review:  %d\n", summary.Suggested))
	b.WriteString(fmt.Sprintf("Unmatched:             %d\n", summary.Unmatched))

	if len(summary.ByTier) > 0 {
		b.WriteString("\nAuto-linked by strategy:\n")
		for _, tier := range []string{
			reconciler.TierLabelExactTotal,
			reconciler.TierLabelParticipant,
			reconciler.TierLabelKeyword,
			reconciler.TierLabelComposite,
		} {
			if count := summary.ByTier[tier]; count > 0 {
				b.WriteString(fmt.Sprintf("  %-14s %d\n", tier, count))
			}
		}
	}

	b.WriteString(fmt.Sprintf("\nExpected amount:  %s\n", summary.TotalExpected.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Linked amount:    %s\n", summary.LinkedAmount.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Match rate:       %.1f%%\n", summary.MatchRate))
	b.WriteString(fmt.Sprintf("Duration:         %s\n", summary.Duration))

	if r.config.IncludeSuggestions && len(summary.Suggestions) > 0 {
		b.WriteString("\nSuggestions for review:\n")
		for i, s := range r.cappedSuggestions(summary.Suggestions) {
			b.WriteString(fmt.Sprintf("  %2d. %s -> %s/%s (%.1f): %s\n",
				i+1, s.Transaction.ID, s.Kind, s.EntityID, s.Score, s.Reason))
		}
	}

	if len(summary.Errors) > 0 {
		b.WriteString(fmt.Sprintf("\n%d error(s):\n", len(summary.Errors)))
		for _, e := range summary.Errors {
			b.WriteString(fmt.Sprintf("  - %s\n", e.Error()))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Reporter) writeJSON(w io.Writer, summary *reconciler.RunSummary) error {
	type suggestion struct {
		TransactionID string  `json:"transaction_id"`
		Kind          string  `json:"kind"`
		EntityID      string  `json:"entity_id"`
		EntityName    string  `json:"entity_name"`
		Score         float64 `json:"score"`
		Reason        string  `json:"reason"`
	}

	payload := struct {
		*reconciler.RunSummary
		Suggestions []suggestion `json:"suggestions,omitempty"`
	}{RunSummary: summary}

	if r.config.IncludeSuggestions {
		for _, s := range r.cappedSuggestions(summary.Suggestions) {
			payload.Suggestions = append(payload.Suggestions, suggestion{
				TransactionID: s.Transaction.ID,
				Kind:          s.Kind.String(),
				EntityID:      s.EntityID,
				EntityName:    s.EntityName,
				Score:         s.Score,
				Reason:        s.Reason,
			})
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func (r *Reporter) writeCSV(w io.Writer, summary *reconciler.RunSummary) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"transaction_id", "kind", "entity_id", "entity_name", "score", "reason"}); err != nil {
		return err
	}

	for _, s := range r.cappedSuggestions(summary.Suggestions) {
		record := []string{
			s.Transaction.ID,
			s.Kind.String(),
			s.EntityID,
			s.EntityName,
			fmt.Sprintf("%.1f", s.Score),
			s.Reason,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func (r *Reporter) cappedSuggestions(suggestions []*models.MatchCandidate) []*models.MatchCandidate {
	if r.config.MaxSuggestions > 0 && len(suggestions) > r.config.MaxSuggestions {
		return suggestions[:r.config.MaxSuggestions]
	}
	return suggestions
}
