// Package models defines the data model shared by the matching engine:
// bank transactions, the business entities they can settle (expense claims,
// events, participants), and the transient match candidates produced while
// scoring. The document store owns persistence and concurrency for all
// persistent types; the engine treats loaded records as immutable snapshots.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EntityKind tags the business entity type a transaction can be linked to.
type EntityKind string

const (
	// KindRegistration represents an event registration payment.
	KindRegistration EntityKind = "registration"
	// KindExpense represents an approved expense claim reimbursement.
	KindExpense EntityKind = "expense"
	// KindEvent represents a lump-sum event settlement.
	KindEvent EntityKind = "event"
	// KindMember represents a member-level link (dues, manual assignments).
	KindMember EntityKind = "member"
)

// String returns the string representation of EntityKind.
func (k EntityKind) String() string {
	return string(k)
}

// IsValid checks if the entity kind is one of the known tags.
func (k EntityKind) IsValid() bool {
	switch k {
	case KindRegistration, KindExpense, KindEvent, KindMember:
		return true
	default:
		return false
	}
}

// Actor identifies who committed a match.
type Actor string

const (
	// ActorAuto marks matches committed by the decision policy without review.
	ActorAuto Actor = "auto"
	// ActorManual marks matches committed by a human reviewer.
	ActorManual Actor = "manual"
)

// MatchedEntity is an edge record attached to a transaction, linking it to a
// business entity. The list on a transaction is append-only except for
// explicit unlink, which removes the entry matching (Kind, EntityID).
type MatchedEntity struct {
	Kind     EntityKind `json:"kind"`
	EntityID string     `json:"entity_id"`
	Name     string     `json:"name"`
	Score    float64    `json:"score"`
	LinkedAt time.Time  `json:"linked_at"`
	Actor    Actor      `json:"actor"`
	Notes    string     `json:"notes,omitempty"`
}

// Transaction represents one line of a bank statement: a signed monetary
// movement with free-text counterparty and communication fields. A positive
// amount is an inflow. The engine only ever mutates Matches and Reconciled,
// through the store interface.
type Transaction struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	Counterparty  string          `json:"counterparty"`
	Communication string          `json:"communication"`
	Reconciled    bool            `json:"reconciled"`
	Matches       []MatchedEntity `json:"matches,omitempty"`
}

// Validate performs basic validation on the Transaction.
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("transaction ID cannot be empty")
	}

	if t.Amount.IsZero() {
		return fmt.Errorf("transaction amount cannot be zero")
	}

	if t.Date.IsZero() {
		return fmt.Errorf("transaction date cannot be zero")
	}

	return nil
}

// IsInflow returns true if the transaction is an incoming payment.
func (t *Transaction) IsInflow() bool {
	return t.Amount.IsPositive()
}

// IsOutflow returns true if the transaction is an outgoing payment.
func (t *Transaction) IsOutflow() bool {
	return t.Amount.IsNegative()
}

// AbsAmount returns the absolute value of the transaction amount.
func (t *Transaction) AbsAmount() decimal.Decimal {
	return t.Amount.Abs()
}

// HasMatchOfKind reports whether the transaction already carries a matched
// entity of the given kind.
func (t *Transaction) HasMatchOfKind(kind EntityKind) bool {
	for _, m := range t.Matches {
		if m.Kind == kind {
			return true
		}
	}
	return false
}

// String returns a string representation of the Transaction.
func (t *Transaction) String() string {
	return fmt.Sprintf("Transaction{ID: %s, Amount: %s, Date: %s, Counterparty: %q}",
		t.ID, t.Amount.String(), t.Date.Format("2006-01-02"), t.Counterparty)
}

// ClaimStatus represents the approval state of an expense claim.
type ClaimStatus string

const (
	ClaimPending    ClaimStatus = "pending"
	ClaimApproved   ClaimStatus = "approved"
	ClaimReimbursed ClaimStatus = "reimbursed"
	ClaimRejected   ClaimStatus = "rejected"
)

// IsValid checks if the claim status is one of the known states.
func (s ClaimStatus) IsValid() bool {
	switch s {
	case ClaimPending, ClaimApproved, ClaimReimbursed, ClaimRejected:
		return true
	default:
		return false
	}
}

// ExpenseClaim is a reimbursement request awaiting a matching outgoing
// transaction. Only approved claims not yet linked to a transaction are
// eligible matching candidates.
type ExpenseClaim struct {
	ID            string          `json:"id"`
	Claimant      string          `json:"claimant"`
	Description   string          `json:"description,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	ApprovedAt    time.Time       `json:"approved_at"`
	Status        ClaimStatus     `json:"status"`
	TransactionID string          `json:"transaction_id,omitempty"`
}

// Validate performs basic validation on the ExpenseClaim.
func (c *ExpenseClaim) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("claim ID cannot be empty")
	}

	if !c.Amount.IsPositive() {
		return fmt.Errorf("claim amount must be positive, got %s", c.Amount.String())
	}

	if !c.Status.IsValid() {
		return fmt.Errorf("invalid claim status: %s", c.Status)
	}

	return nil
}

// Eligible reports whether the claim may still be matched: approved and not
// yet linked to a transaction.
func (c *ExpenseClaim) Eligible() bool {
	return c.Status == ClaimApproved && c.TransactionID == ""
}

// Participant is one person on an event roster, expected to pay a known
// individual amount.
type Participant struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	FirstName    string          `json:"first_name,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	RegisteredAt time.Time       `json:"registered_at"`
}

// FullName returns the display name of the participant.
func (p *Participant) FullName() string {
	if p.FirstName == "" {
		return p.Name
	}
	return strings.TrimSpace(p.FirstName + " " + p.Name)
}

// Event is a club event with an optional expected total and a roster of
// participants with individual expected amounts.
type Event struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Location     string          `json:"location,omitempty"`
	StartDate    time.Time       `json:"start_date"`
	EndDate      time.Time       `json:"end_date"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Participants []Participant   `json:"participants,omitempty"`
}

// Validate performs basic validation on the Event.
func (e *Event) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("event ID cannot be empty")
	}

	if e.StartDate.IsZero() {
		return fmt.Errorf("event start date cannot be zero")
	}

	if !e.EndDate.IsZero() && e.EndDate.Before(e.StartDate) {
		return fmt.Errorf("event end date cannot precede start date")
	}

	return nil
}

// Strategy labels identify which matching strategy produced a candidate.
const (
	StrategyExactTotal  = "exact_total"
	StrategyParticipant = "participant"
	StrategyKeyword     = "keyword"
	StrategyComposite   = "composite"
)

// MatchCandidate is the transient output of a matching strategy: one
// (transaction, entity) pair with its confidence score and reasoning.
// It is produced and consumed within a single matching run, never stored.
type MatchCandidate struct {
	Transaction *Transaction
	Kind        EntityKind
	EntityID    string
	EntityName  string
	Score       float64
	Reason      string
	// Strategy tags the matcher that produced the candidate. External
	// providers may leave it empty.
	Strategy string
	// Participant is set by the per-participant matcher to record which
	// roster entry produced the match.
	Participant *Participant
}

// ToMatchedEntity converts the candidate into the edge record the decision
// policy appends to the transaction.
func (mc *MatchCandidate) ToMatchedEntity(actor Actor, at time.Time) MatchedEntity {
	return MatchedEntity{
		Kind:     mc.Kind,
		EntityID: mc.EntityID,
		Name:     mc.EntityName,
		Score:    mc.Score,
		LinkedAt: at,
		Actor:    actor,
		Notes:    mc.Reason,
	}
}

// String returns a string representation of the MatchCandidate.
func (mc *MatchCandidate) String() string {
	txID := "<nil>"
	if mc.Transaction != nil {
		txID = mc.Transaction.ID
	}
	return fmt.Sprintf("MatchCandidate{Tx: %s, %s/%s, Score: %.1f}",
		txID, mc.Kind, mc.EntityID, mc.Score)
}

// ScoreBreakdown holds per-field sub-scores and the weights applied, retained
// only long enough to assemble the human-readable reason string.
type ScoreBreakdown struct {
	AmountScore  float64
	NameScore    float64
	DateScore    float64
	AmountWeight float64
	NameWeight   float64
	DateWeight   float64
	SignBonus    float64
	Reasons      []string
}

// ReasonString joins the collected reasons in assembly order.
func (sb *ScoreBreakdown) ReasonString() string {
	return strings.Join(sb.Reasons, ", ")
}
