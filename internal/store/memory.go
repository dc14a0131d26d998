package store

import (
	"context"
	"sync"

	"club-reconciliation-engine/internal/models"
	"club-reconciliation-engine/pkg/errors"
)

// MemoryStore is an in-memory Store keeping records in insertion order. It is
// the backing store for snapshot-driven runs and for tests.
type MemoryStore struct {
	mu sync.RWMutex

	transactions map[string]*models.Transaction
	txOrder      []string

	claims     map[string]*models.ExpenseClaim
	claimOrder []string

	events map[string]*models.Event
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions: make(map[string]*models.Transaction),
		claims:       make(map[string]*models.ExpenseClaim),
		events:       make(map[string]*models.Event),
	}
}

// AddTransaction inserts a transaction. A repeated ID overwrites in place and
// keeps the original position.
func (s *MemoryStore) AddTransaction(tx *models.Transaction) {
	if tx == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transactions[tx.ID]; !exists {
		s.txOrder = append(s.txOrder, tx.ID)
	}
	s.transactions[tx.ID] = tx
}

// AddClaim inserts an expense claim.
func (s *MemoryStore) AddClaim(c *models.ExpenseClaim) {
	if c == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.claims[c.ID]; !exists {
		s.claimOrder = append(s.claimOrder, c.ID)
	}
	s.claims[c.ID] = c
}

// AddEvent inserts an event.
func (s *MemoryStore) AddEvent(e *models.Event) {
	if e == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[e.ID] = e
}

// ListTransactions returns transactions passing the filter in insertion order.
func (s *MemoryStore) ListTransactions(ctx context.Context, filter TransactionFilter) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Transaction
	for _, id := range s.txOrder {
		tx := s.transactions[id]
		if filter.Matches(tx) {
			result = append(result, tx)
		}
	}
	return result, nil
}

// GetTransaction returns one transaction by ID.
func (s *MemoryStore) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.transactions[id]
	if !ok {
		return nil, errors.NotFoundError("transaction", id)
	}
	return tx, nil
}

// ListClaims returns expense claims passing the filter in insertion order.
func (s *MemoryStore) ListClaims(ctx context.Context, filter ClaimFilter) ([]*models.ExpenseClaim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.ExpenseClaim
	for _, id := range s.claimOrder {
		c := s.claims[id]
		if filter.Matches(c) {
			result = append(result, c)
		}
	}
	return result, nil
}

// GetEvent returns one event by ID.
func (s *MemoryStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[id]
	if !ok {
		return nil, errors.NotFoundError("event", id)
	}
	return e, nil
}

// AppendMatchedEntity appends an edge record to the transaction's match list.
func (s *MemoryStore) AppendMatchedEntity(ctx context.Context, txID string, entity models.MatchedEntity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[txID]
	if !ok {
		return errors.NotFoundError("transaction", txID)
	}
	tx.Matches = append(tx.Matches, entity)
	return nil
}

// SetReconciled sets the transaction's reconciled flag.
func (s *MemoryStore) SetReconciled(ctx context.Context, txID string, reconciled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[txID]
	if !ok {
		return errors.NotFoundError("transaction", txID)
	}
	tx.Reconciled = reconciled
	return nil
}

// RemoveMatchedEntity removes the edge record identified by (kind, entityID).
// Removing an edge that does not exist is not an error.
func (s *MemoryStore) RemoveMatchedEntity(ctx context.Context, txID string, kind models.EntityKind, entityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[txID]
	if !ok {
		return errors.NotFoundError("transaction", txID)
	}

	remaining := tx.Matches[:0]
	for _, m := range tx.Matches {
		if m.Kind == kind && m.EntityID == entityID {
			continue
		}
		remaining = append(remaining, m)
	}
	tx.Matches = remaining
	return nil
}

// SetClaimTransaction records the settling transaction on a claim.
func (s *MemoryStore) SetClaimTransaction(ctx context.Context, claimID, txID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.claims[claimID]
	if !ok {
		return errors.NotFoundError("claim", claimID)
	}
	c.TransactionID = txID
	return nil
}
