package scoring

import (
	"strings"
	"testing"
	"time"

	"club-reconciliation-engine/internal/models"

	"github.com/shopspring/decimal"
)

func createTestTransaction(amount float64, counterparty, communication string, date time.Time) *models.Transaction {
	return &models.Transaction{
		ID:            "TX-test",
		Amount:        decimal.NewFromFloat(amount),
		Date:          date,
		Counterparty:  counterparty,
		Communication: communication,
	}
}

func TestCompositeScorer_ClaimScenario(t *testing.T) {
	// Outgoing 123.45 against an approved claim of 123.45 by the same
	// person, approved ten days earlier, must clear the auto-link bar.
	txDate := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	approvedAt := txDate.AddDate(0, 0, -10)
	amount := decimal.NewFromFloat(123.45)

	tx := createTestTransaction(-123.45, "DUPONT Jean", "remboursement frais", txDate)

	scorer := NewCompositeScorer(nil, nil)
	score, breakdown := scorer.Score(tx, Target{
		Amount:            &amount,
		Name:              "Jean Dupont",
		Date:              &approvedAt,
		ExpectedDirection: DirectionOutflow,
	})

	if score < 85 {
		t.Errorf("Expected composite score >= 85, got %.1f", score)
	}

	if breakdown.AmountScore != 100 {
		t.Errorf("Expected exact amount sub-score, got %.1f", breakdown.AmountScore)
	}

	if breakdown.NameScore != 100 {
		t.Errorf("Expected full name sub-score for reversed order, got %.1f", breakdown.NameScore)
	}

	if breakdown.SignBonus == 0 {
		t.Error("Expected sign bonus for outflow matching an expense target")
	}
}

func TestCompositeScorer_WeightRenormalization(t *testing.T) {
	tx := createTestTransaction(50, "Paul Martin", "", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	scorer := NewCompositeScorer(nil, nil)

	// Only the name is comparable; a perfect name must yield 100, not be
	// dragged down by absent amount and date targets.
	score, _ := scorer.Score(tx, Target{Name: "Paul Martin"})
	if score != 100 {
		t.Errorf("Expected 100 with single applicable field, got %.1f", score)
	}
}

func TestCompositeScorer_NoApplicableFields(t *testing.T) {
	tx := createTestTransaction(50, "Paul Martin", "", time.Now())
	scorer := NewCompositeScorer(nil, nil)

	score, breakdown := scorer.Score(tx, Target{})
	if score != 0 {
		t.Errorf("Expected 0 with no comparable fields, got %.1f", score)
	}

	if len(breakdown.Reasons) != 0 {
		t.Errorf("Expected no reasons, got %v", breakdown.Reasons)
	}
}

func TestCompositeScorer_SignBonusCap(t *testing.T) {
	date := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	amount := decimal.NewFromFloat(75)
	tx := createTestTransaction(75, "Claire Fontaine", "", date)

	scorer := NewCompositeScorer(nil, nil)
	score, _ := scorer.Score(tx, Target{
		Amount:            &amount,
		Name:              "Claire Fontaine",
		Date:              &date,
		ExpectedDirection: DirectionInflow,
	})

	if score != 100 {
		t.Errorf("Expected score capped at 100, got %.1f", score)
	}
}

func TestCompositeScorer_NoBonusOnDirectionMismatch(t *testing.T) {
	amount := decimal.NewFromFloat(75)
	tx := createTestTransaction(75, "Claire Fontaine", "", time.Now())

	scorer := NewCompositeScorer(nil, nil)
	_, breakdown := scorer.Score(tx, Target{
		Amount:            &amount,
		ExpectedDirection: DirectionOutflow,
	})

	if breakdown.SignBonus != 0 {
		t.Errorf("Expected no sign bonus for inflow against outflow target, got %.1f", breakdown.SignBonus)
	}
}

func TestCompositeScorer_ReasonOrder(t *testing.T) {
	txDate := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	amount := decimal.NewFromFloat(200)
	tx := createTestTransaction(-200, "Paul Martin", "", txDate)

	scorer := NewCompositeScorer(nil, nil)
	_, breakdown := scorer.Score(tx, Target{
		Amount:            &amount,
		Name:              "Paul Martin",
		Date:              &txDate,
		ExpectedDirection: DirectionOutflow,
	})

	expected := []string{"exact amount", "name matches", "same day", "direction matches expected outflow"}
	if len(breakdown.Reasons) != len(expected) {
		t.Fatalf("Expected %d reasons, got %v", len(expected), breakdown.Reasons)
	}

	for i, r := range expected {
		if breakdown.Reasons[i] != r {
			t.Errorf("Reason %d: expected %q, got %q", i, r, breakdown.Reasons[i])
		}
	}
}

func TestCompositeScorer_NameInCommunicationReason(t *testing.T) {
	tx := createTestTransaction(40, "BANK TRANSFER", "cotisation Jean Dupont 2024", time.Now())

	scorer := NewCompositeScorer(nil, nil)
	_, breakdown := scorer.Score(tx, Target{Name: "Jean Dupont"})

	found := false
	for _, r := range breakdown.Reasons {
		if strings.Contains(r, "communication") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a communication reason, got %v", breakdown.Reasons)
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}

	bad := DefaultConfig()
	bad.Weights = Weights{}
	if err := bad.Validate(); err == nil {
		t.Error("Expected error for all-zero weights")
	}

	bad = DefaultConfig()
	bad.SignBonus = 150
	if err := bad.Validate(); err == nil {
		t.Error("Expected error for out-of-range sign bonus")
	}
}
