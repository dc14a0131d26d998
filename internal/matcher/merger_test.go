package matcher

import (
	"strings"
	"testing"

	"club-reconciliation-engine/internal/models"
)

func createCandidate(txID string, score float64, reason string) *models.MatchCandidate {
	return &models.MatchCandidate{
		Transaction: createInflow(txID, 50.00, "PAYER", ""),
		Kind:        models.KindEvent,
		EntityID:    "EVT-1",
		EntityName:  "Test Event",
		Score:       score,
		Reason:      reason,
	}
}

func TestMerge_BestPerTransaction(t *testing.T) {
	exact := []*models.MatchCandidate{
		createCandidate("TX-1", 95, "amount matches event total 50.00"),
	}
	keyword := []*models.MatchCandidate{
		createCandidate("TX-1", 70, "keyword \"calypso\" found in communication"),
		createCandidate("TX-2", 70, "keyword \"calypso\" found in communication"),
	}

	merged := Merge(exact, keyword)
	if len(merged) != 2 {
		t.Fatalf("Expected 2 merged candidates, got %d", len(merged))
	}

	if merged[0].Transaction.ID != "TX-1" || merged[0].Score != 95 {
		t.Errorf("Expected TX-1 at 95 first, got %s at %.0f", merged[0].Transaction.ID, merged[0].Score)
	}
	if merged[1].Transaction.ID != "TX-2" || merged[1].Score != 70 {
		t.Errorf("Expected TX-2 at 70 second, got %s at %.0f", merged[1].Transaction.ID, merged[1].Score)
	}
}

func TestMerge_HigherScoreReplaces(t *testing.T) {
	low := []*models.MatchCandidate{
		createCandidate("TX-1", 70, "keyword hit"),
	}
	high := []*models.MatchCandidate{
		createCandidate("TX-1", 95, "exact total"),
	}

	merged := Merge(low, high)
	if len(merged) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(merged))
	}
	if merged[0].Score != 95 || merged[0].Reason != "exact total" {
		t.Errorf("Expected the higher-scoring candidate to win, got %.0f %q",
			merged[0].Score, merged[0].Reason)
	}
}

func TestMerge_TieConcatenatesReasons(t *testing.T) {
	first := []*models.MatchCandidate{
		createCandidate("TX-1", 70, "keyword \"calypso\" found in communication"),
	}
	second := []*models.MatchCandidate{
		createCandidate("TX-1", 70, "keyword \"diving\" found in communication"),
	}

	merged := Merge(first, second)
	if len(merged) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(merged))
	}

	reason := merged[0].Reason
	if !strings.Contains(reason, " + ") {
		t.Errorf("Expected concatenated tie reasons, got %q", reason)
	}
	if !strings.Contains(reason, "calypso") || !strings.Contains(reason, "diving") {
		t.Errorf("Expected both reasons preserved, got %q", reason)
	}
}

func TestMerge_TieSkipsRepeatedReason(t *testing.T) {
	reason := "amount matches event total 50.00"
	merged := Merge(
		[]*models.MatchCandidate{createCandidate("TX-1", 95, reason)},
		[]*models.MatchCandidate{createCandidate("TX-1", 95, reason)},
	)

	if len(merged) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(merged))
	}
	if merged[0].Reason != reason {
		t.Errorf("Expected identical reason to appear once, got %q", merged[0].Reason)
	}
}

func TestMerge_SortsByScoreThenID(t *testing.T) {
	list := []*models.MatchCandidate{
		createCandidate("TX-B", 80, "r"),
		createCandidate("TX-A", 80, "r"),
		createCandidate("TX-C", 95, "r"),
	}

	merged := Merge(list)
	if len(merged) != 3 {
		t.Fatalf("Expected 3 candidates, got %d", len(merged))
	}

	ids := []string{merged[0].Transaction.ID, merged[1].Transaction.ID, merged[2].Transaction.ID}
	want := []string{"TX-C", "TX-A", "TX-B"}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], ids[i])
		}
	}
}

func TestMerge_SkipsNilEntries(t *testing.T) {
	list := []*models.MatchCandidate{
		nil,
		{Kind: models.KindEvent, Score: 95},
		createCandidate("TX-1", 70, "r"),
	}

	merged := Merge(list)
	if len(merged) != 1 {
		t.Fatalf("Expected nil and transaction-less entries skipped, got %d candidates", len(merged))
	}
	if merged[0].Transaction.ID != "TX-1" {
		t.Errorf("Expected TX-1, got %s", merged[0].Transaction.ID)
	}
}

func TestMergeReasons(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		added    string
		expected string
	}{
		{"both set", "a", "b", "a + b"},
		{"added empty", "a", "", "a"},
		{"existing empty", "", "b", "b"},
		{"exact repeat", "a", "a", "a"},
		{"already contained", "a + b", "b", "a + b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mergeReasons(tt.existing, tt.added); got != tt.expected {
				t.Errorf("mergeReasons(%q, %q) = %q, expected %q",
					tt.existing, tt.added, got, tt.expected)
			}
		})
	}
}
