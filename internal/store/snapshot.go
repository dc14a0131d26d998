package store

import (
	"encoding/json"
	"os"
	"sort"

	"club-reconciliation-engine/internal/models"
	"club-reconciliation-engine/pkg/errors"
	"club-reconciliation-engine/pkg/logger"

	"github.com/google/uuid"
)

// Snapshot is the JSON document the engine loads its working set from and
// writes results back to.
type Snapshot struct {
	Transactions []*models.Transaction  `json:"transactions"`
	Claims       []*models.ExpenseClaim `json:"claims,omitempty"`
	Events       []*models.Event        `json:"events,omitempty"`
}

// LoadSnapshot reads a JSON snapshot file into a fresh MemoryStore. Records
// missing an ID get one assigned; records failing validation are skipped with
// a warning rather than failing the load.
func LoadSnapshot(path string) (*MemoryStore, error) {
	log := logger.WithComponent("snapshot")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.StoreReadError("snapshot", err).WithContext("path", path)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.StoreReadError("snapshot", err).
			WithSuggestion("check the file contains valid JSON").
			WithContext("path", path)
	}

	ms := NewMemoryStore()
	skipped := 0

	for _, tx := range snap.Transactions {
		if tx == nil {
			continue
		}
		if tx.ID == "" {
			tx.ID = uuid.NewString()
		}
		if err := tx.Validate(); err != nil {
			inputErr := errors.InputDataError(errors.CodeInvalidFormat, "transaction", tx.ID, err)
			log.WithError(inputErr).Warn("Skipping invalid transaction")
			skipped++
			continue
		}
		ms.AddTransaction(tx)
	}

	for _, c := range snap.Claims {
		if c == nil {
			continue
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if err := c.Validate(); err != nil {
			inputErr := errors.InputDataError(errors.CodeInvalidFormat, "claim", c.ID, err)
			log.WithError(inputErr).Warn("Skipping invalid claim")
			skipped++
			continue
		}
		ms.AddClaim(c)
	}

	for _, e := range snap.Events {
		if e == nil {
			continue
		}
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if err := e.Validate(); err != nil {
			inputErr := errors.InputDataError(errors.CodeInvalidFormat, "event", e.ID, err)
			log.WithError(inputErr).Warn("Skipping invalid event")
			skipped++
			continue
		}
		ms.AddEvent(e)
	}

	log.WithFields(logger.Fields{
		"path":         path,
		"transactions": len(ms.txOrder),
		"claims":       len(ms.claimOrder),
		"events":       len(ms.events),
		"skipped":      skipped,
	}).Info("Snapshot loaded")

	return ms, nil
}

// SaveSnapshot writes the store's current state back to a JSON snapshot file.
func SaveSnapshot(path string, s *MemoryStore) error {
	s.mu.RLock()

	snap := Snapshot{}
	for _, id := range s.txOrder {
		snap.Transactions = append(snap.Transactions, s.transactions[id])
	}
	for _, id := range s.claimOrder {
		snap.Claims = append(snap.Claims, s.claims[id])
	}
	eventIDs := make([]string, 0, len(s.events))
	for id := range s.events {
		eventIDs = append(eventIDs, id)
	}
	sort.Strings(eventIDs)
	for _, id := range eventIDs {
		snap.Events = append(snap.Events, s.events[id])
	}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.StoreWriteError("snapshot", path, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.StoreWriteError("snapshot", path, err)
	}

	return nil
}
