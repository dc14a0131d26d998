package reporter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"club-reconciliation-engine/internal/models"
	"club-reconciliation-engine/internal/reconciler"

	"github.com/shopspring/decimal"
)

func createTestSummary() *reconciler.RunSummary {
	return &reconciler.RunSummary{
		RunID:             "run-1234",
		Operation:         "reconcile-event",
		TotalTransactions: 10,
		AutoLinked:        3,
		Suggested:         2,
		Unmatched:         5,
		ByTier: map[string]int{
			reconciler.TierLabelExactTotal: 1,
			reconciler.TierLabelKeyword:    2,
		},
		TotalExpected: decimal.NewFromFloat(500.00),
		LinkedAmount:  decimal.NewFromFloat(350.00),
		MatchRate:     70,
		Suggestions: []*models.MatchCandidate{
			{
				Transaction: &models.Transaction{ID: "TX-5"},
				Kind:        models.KindEvent,
				EntityID:    "EVT-1",
				EntityName:  "Calypso Diving Weekend",
				Score:       65,
				Reason:      "keyword \"calypso\" found in communication",
			},
		},
	}
}

func TestReporter_Console(t *testing.T) {
	var buf bytes.Buffer
	if err := NewReporter(nil).WriteSummary(&buf, createTestSummary()); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"run-1234", "Auto-linked:", "70.0%", "exact_total", "TX-5"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected console output to contain %q:\n%s", want, out)
		}
	}
}

func TestReporter_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&Config{Format: FormatJSON, IncludeSuggestions: true})
	if err := r.WriteSummary(&buf, createTestSummary()); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Expected valid JSON: %v", err)
	}

	if decoded["run_id"] != "run-1234" {
		t.Errorf("Expected run_id in JSON, got %v", decoded["run_id"])
	}
	suggestions, ok := decoded["suggestions"].([]interface{})
	if !ok || len(suggestions) != 1 {
		t.Errorf("Expected 1 suggestion in JSON output")
	}
}

func TestReporter_CSV(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&Config{Format: FormatCSV, IncludeSuggestions: true})
	if err := r.WriteSummary(&buf, createTestSummary()); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected header plus 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "transaction_id,") {
		t.Errorf("Expected CSV header, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "TX-5") {
		t.Errorf("Expected suggestion row, got %q", lines[1])
	}
}

func TestReporter_SuggestionCap(t *testing.T) {
	summary := createTestSummary()
	for i := 0; i < 10; i++ {
		summary.Suggestions = append(summary.Suggestions, summary.Suggestions[0])
	}

	var buf bytes.Buffer
	r := NewReporter(&Config{Format: FormatCSV, IncludeSuggestions: true, MaxSuggestions: 3})
	if err := r.WriteSummary(&buf, summary); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Errorf("Expected header plus 3 capped rows, got %d lines", len(lines))
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}

	bad := &Config{Format: "xml"}
	if err := bad.Validate(); err == nil {
		t.Error("Expected error for unsupported format")
	}
}
