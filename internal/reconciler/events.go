package reconciler

import (
	"context"
	"time"

	"club-reconciliation-engine/internal/matcher"
	"club-reconciliation-engine/internal/models"
	"club-reconciliation-engine/internal/policy"
	"club-reconciliation-engine/internal/store"
	"club-reconciliation-engine/pkg/errors"
	"club-reconciliation-engine/pkg/logger"

	"github.com/shopspring/decimal"
)

// windowMargin is how far around the event dates the candidate transaction
// window extends.
const windowMargin = 30 * 24 * time.Hour

// EventReconciler runs the event-family matching pipeline for one event:
// exact total, per-participant, then keyword search, merged to one best
// candidate per transaction.
type EventReconciler struct {
	store        store.Store
	eventMatcher *matcher.EventMatcher
	applier      *policy.Applier
	logger       logger.Logger
}

// NewEventReconciler creates an event reconciler. Nil matcher or applier fall
// back to defaults.
func NewEventReconciler(st store.Store, em *matcher.EventMatcher, applier *policy.Applier) *EventReconciler {
	if em == nil {
		em = matcher.NewEventMatcher(nil, nil)
	}
	if applier == nil {
		applier = policy.NewApplier(nil)
	}

	return &EventReconciler{
		store:        st,
		eventMatcher: em,
		applier:      applier,
		logger:       logger.WithComponent("event-reconciler"),
	}
}

// ReconcileEvent matches inflows around the event's dates against the event
// and its roster, then applies the decision policy. A failed store read ends
// the run with an empty summary carrying the error; nothing is written in
// that case.
func (er *EventReconciler) ReconcileEvent(ctx context.Context, eventID string) (*RunSummary, error) {
	summary := newRunSummary("reconcile-event")
	log := er.logger.WithField("event_id", eventID)

	event, err := er.store.GetEvent(ctx, eventID)
	if err != nil {
		log.WithError(err).Error("Event read failed, aborting run")
		summary.Errors = append(summary.Errors,
			errors.WrapIfNeeded(err, errors.CategoryStore, errors.CodeReadFailed, "failed to read event"))
		return summary.finish(), nil
	}

	transactions, err := er.store.ListTransactions(ctx, candidateWindow(event))
	if err != nil {
		log.WithError(err).Error("Transaction read failed, aborting run")
		summary.Errors = append(summary.Errors,
			errors.WrapIfNeeded(err, errors.CategoryStore, errors.CodeReadFailed, "failed to read transactions"))
		return summary.finish(), nil
	}

	summary.TotalTransactions = len(transactions)
	summary.TotalExpected = expectedTotal(event)

	log.WithFields(logger.Fields{
		"run_id":       summary.RunID,
		"transactions": len(transactions),
		"participants": len(event.Participants),
	}).Info("Starting event reconciliation")

	merged := matcher.Merge(
		er.eventMatcher.MatchExactTotal(transactions, event),
		er.eventMatcher.MatchParticipants(transactions, event),
		er.eventMatcher.MatchKeywords(transactions, event),
	)

	summary.recordOutcome(er.applier.Apply(ctx, er.store, merged))
	summary.finish()

	log.WithFields(logger.Fields{
		"run_id":      summary.RunID,
		"auto_linked": summary.AutoLinked,
		"suggested":   summary.Suggested,
		"match_rate":  summary.MatchRate,
		"duration":    summary.Duration.String(),
	}).Info("Event reconciliation completed")

	return summary, nil
}

// candidateWindow builds the transaction filter for an event: unreconciled
// inflows dated within the margin around the event.
func candidateWindow(event *models.Event) store.TransactionFilter {
	from := event.StartDate.Add(-windowMargin)

	end := event.EndDate
	if end.IsZero() {
		end = event.StartDate
	}
	to := end.Add(windowMargin)

	return store.TransactionFilter{
		From:              &from,
		To:                &to,
		Sign:              store.SignInflow,
		ExcludeReconciled: true,
	}
}

// expectedTotal is the amount the run sets out to settle: the event's lump
// total when set, otherwise the sum of roster amounts.
func expectedTotal(event *models.Event) decimal.Decimal {
	if event.TotalAmount.IsPositive() {
		return event.TotalAmount
	}

	var sum decimal.Decimal
	for _, p := range event.Participants {
		sum = sum.Add(p.Amount)
	}
	return sum
}
