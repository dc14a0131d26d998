// Package store defines the persistence boundary of the matching engine.
// Reconcilers and the decision policy go through the Store interface for all
// reads and writes, so failures can be handled uniformly: a failed read
// aborts the run, a failed write is collected per item and the run continues.
package store

import (
	"context"
	"time"

	"club-reconciliation-engine/internal/models"
)

// Sign filters transactions by money direction.
type Sign string

const (
	SignAny     Sign = "any"
	SignInflow  Sign = "inflow"
	SignOutflow Sign = "outflow"
)

// TransactionFilter narrows a transaction listing. Zero values mean "no
// constraint"; From and To are inclusive.
type TransactionFilter struct {
	From              *time.Time
	To                *time.Time
	Sign              Sign
	ExcludeReconciled bool
}

// Matches reports whether a transaction passes the filter.
func (f TransactionFilter) Matches(tx *models.Transaction) bool {
	if tx == nil {
		return false
	}
	if f.ExcludeReconciled && tx.Reconciled {
		return false
	}
	if f.From != nil && tx.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && tx.Date.After(*f.To) {
		return false
	}

	switch f.Sign {
	case SignInflow:
		return tx.IsInflow()
	case SignOutflow:
		return tx.IsOutflow()
	default:
		return true
	}
}

// ClaimFilter narrows an expense claim listing.
type ClaimFilter struct {
	Status       models.ClaimStatus
	UnlinkedOnly bool
}

// Matches reports whether a claim passes the filter.
func (f ClaimFilter) Matches(c *models.ExpenseClaim) bool {
	if c == nil {
		return false
	}
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.UnlinkedOnly && c.TransactionID != "" {
		return false
	}
	return true
}

// Store is the persistence boundary. Implementations must preserve a stable,
// deterministic ordering for list operations.
type Store interface {
	// ListTransactions returns transactions passing the filter in insertion
	// order.
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]*models.Transaction, error)

	// GetTransaction returns one transaction by ID.
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)

	// ListClaims returns expense claims passing the filter in insertion order.
	ListClaims(ctx context.Context, filter ClaimFilter) ([]*models.ExpenseClaim, error)

	// GetEvent returns one event by ID, including its roster.
	GetEvent(ctx context.Context, id string) (*models.Event, error)

	// AppendMatchedEntity appends an edge record to the transaction's match
	// list.
	AppendMatchedEntity(ctx context.Context, txID string, entity models.MatchedEntity) error

	// SetReconciled sets the transaction's reconciled flag.
	SetReconciled(ctx context.Context, txID string, reconciled bool) error

	// RemoveMatchedEntity removes the edge record identified by (kind,
	// entityID) from the transaction's match list.
	RemoveMatchedEntity(ctx context.Context, txID string, kind models.EntityKind, entityID string) error

	// SetClaimTransaction records the settling transaction on a claim, or
	// clears it when txID is empty.
	SetClaimTransaction(ctx context.Context, claimID, txID string) error
}
