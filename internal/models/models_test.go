package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func createTestTransaction() *Transaction {
	return &Transaction{
		ID:           "TX-1",
		Amount:       decimal.NewFromFloat(50.00),
		Date:         time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		Counterparty: "PAUL MARTIN",
	}
}

func TestTransaction_Validate(t *testing.T) {
	tx := createTestTransaction()
	if err := tx.Validate(); err != nil {
		t.Errorf("Expected valid transaction, got %v", err)
	}

	tests := []struct {
		name   string
		modify func(*Transaction)
	}{
		{"empty ID", func(tx *Transaction) { tx.ID = "" }},
		{"zero amount", func(tx *Transaction) { tx.Amount = decimal.Zero }},
		{"zero date", func(tx *Transaction) { tx.Date = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := createTestTransaction()
			tt.modify(tx)
			if err := tx.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestTransaction_Direction(t *testing.T) {
	inflow := createTestTransaction()
	if !inflow.IsInflow() || inflow.IsOutflow() {
		t.Error("Expected positive amount to be an inflow")
	}

	outflow := createTestTransaction()
	outflow.Amount = decimal.NewFromFloat(-75.50)
	if !outflow.IsOutflow() || outflow.IsInflow() {
		t.Error("Expected negative amount to be an outflow")
	}

	if !outflow.AbsAmount().Equal(decimal.NewFromFloat(75.50)) {
		t.Errorf("Expected absolute amount 75.50, got %s", outflow.AbsAmount())
	}
}

func TestTransaction_HasMatchOfKind(t *testing.T) {
	tx := createTestTransaction()
	if tx.HasMatchOfKind(KindEvent) {
		t.Error("Expected no matches on a fresh transaction")
	}

	tx.Matches = append(tx.Matches, MatchedEntity{Kind: KindEvent, EntityID: "EVT-1"})
	if !tx.HasMatchOfKind(KindEvent) {
		t.Error("Expected event match to be found")
	}
	if tx.HasMatchOfKind(KindExpense) {
		t.Error("Expected no expense match")
	}
}

func TestExpenseClaim_Eligible(t *testing.T) {
	claim := &ExpenseClaim{
		ID:       "CLM-1",
		Claimant: "Paul Martin",
		Amount:   decimal.NewFromFloat(200.00),
		Status:   ClaimApproved,
	}

	if !claim.Eligible() {
		t.Error("Expected approved unlinked claim to be eligible")
	}

	claim.TransactionID = "TX-1"
	if claim.Eligible() {
		t.Error("Expected linked claim to be ineligible")
	}

	claim.TransactionID = ""
	for _, status := range []ClaimStatus{ClaimPending, ClaimReimbursed, ClaimRejected} {
		claim.Status = status
		if claim.Eligible() {
			t.Errorf("Expected %s claim to be ineligible", status)
		}
	}
}

func TestExpenseClaim_Validate(t *testing.T) {
	claim := &ExpenseClaim{
		ID:     "CLM-1",
		Amount: decimal.NewFromFloat(200.00),
		Status: ClaimApproved,
	}
	if err := claim.Validate(); err != nil {
		t.Errorf("Expected valid claim, got %v", err)
	}

	claim.Amount = decimal.NewFromFloat(-5)
	if err := claim.Validate(); err == nil {
		t.Error("Expected error for negative amount")
	}

	claim.Amount = decimal.NewFromFloat(200.00)
	claim.Status = "unknown"
	if err := claim.Validate(); err == nil {
		t.Error("Expected error for unknown status")
	}
}

func TestParticipant_FullName(t *testing.T) {
	p := &Participant{Name: "Martin", FirstName: "Paul"}
	if p.FullName() != "Paul Martin" {
		t.Errorf("Expected 'Paul Martin', got %q", p.FullName())
	}

	p.FirstName = ""
	if p.FullName() != "Martin" {
		t.Errorf("Expected 'Martin', got %q", p.FullName())
	}
}

func TestEvent_Validate(t *testing.T) {
	event := &Event{
		ID:        "EVT-1",
		Title:     "Calypso Diving Weekend",
		StartDate: time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC),
	}
	if err := event.Validate(); err != nil {
		t.Errorf("Expected valid event, got %v", err)
	}

	event.EndDate = event.StartDate.AddDate(0, 0, -1)
	if err := event.Validate(); err == nil {
		t.Error("Expected error for end date before start date")
	}
}

func TestMatchCandidate_ToMatchedEntity(t *testing.T) {
	tx := createTestTransaction()
	at := time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC)

	candidate := &MatchCandidate{
		Transaction: tx,
		Kind:        KindExpense,
		EntityID:    "CLM-1",
		EntityName:  "Paul Martin",
		Score:       92.5,
		Reason:      "exact amount, name matches",
	}

	entity := candidate.ToMatchedEntity(ActorAuto, at)
	if entity.Kind != KindExpense || entity.EntityID != "CLM-1" {
		t.Errorf("Unexpected entity reference: %s/%s", entity.Kind, entity.EntityID)
	}
	if entity.Score != 92.5 || entity.Actor != ActorAuto {
		t.Errorf("Unexpected score/actor: %.1f/%s", entity.Score, entity.Actor)
	}
	if !entity.LinkedAt.Equal(at) {
		t.Errorf("Expected LinkedAt %v, got %v", at, entity.LinkedAt)
	}
	if entity.Notes != "exact amount, name matches" {
		t.Errorf("Expected the reason carried into notes, got %q", entity.Notes)
	}
}

func TestEntityKind_IsValid(t *testing.T) {
	for _, kind := range []EntityKind{KindRegistration, KindExpense, KindEvent, KindMember} {
		if !kind.IsValid() {
			t.Errorf("Expected %s to be valid", kind)
		}
	}
	if EntityKind("invoice").IsValid() {
		t.Error("Expected unknown kind to be invalid")
	}
}
