package matcher

import (
	"sort"
	"strings"

	"club-reconciliation-engine/internal/models"
)

// Merge collapses candidate lists from multiple strategies into one best
// candidate per transaction.
//
// Rules: a strictly higher score replaces the held candidate; on an exact
// tie the held entry is kept and the new reason is concatenated with " + "
// (the entity reference is not duplicated). The result is sorted by
// descending score, with transaction ID as a deterministic tie-break.
func Merge(lists ...[]*models.MatchCandidate) []*models.MatchCandidate {
	best := make(map[string]*models.MatchCandidate)
	var order []string

	for _, list := range lists {
		for _, candidate := range list {
			if candidate == nil || candidate.Transaction == nil {
				continue
			}

			txID := candidate.Transaction.ID
			held, ok := best[txID]
			if !ok {
				best[txID] = candidate
				order = append(order, txID)
				continue
			}

			switch {
			case candidate.Score > held.Score:
				best[txID] = candidate
			case candidate.Score == held.Score:
				held.Reason = mergeReasons(held.Reason, candidate.Reason)
			}
		}
	}

	merged := make([]*models.MatchCandidate, 0, len(order))
	for _, txID := range order {
		merged = append(merged, best[txID])
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		return merged[i].Transaction.ID < merged[j].Transaction.ID
	})

	return merged
}

// mergeReasons concatenates a new reason onto an existing one, skipping
// exact repeats.
func mergeReasons(existing, added string) string {
	if added == "" || added == existing || strings.Contains(existing, added) {
		return existing
	}
	if existing == "" {
		return added
	}
	return existing + " + " + added
}
