// Package wizard implements the multi-step data-entry flow that builds a
// bill: an immutable-update state container driven by a closed action
// set, plus the step progression state machine that gates navigation and
// triggers split recomputation.
package wizard

import "github.com/waritt/billsplit/internal/models"

// State is the full wizard state: the bill under construction, the
// latest computed results, hydrated bill history, and transient UI
// signals. States are value types; the reducer never mutates its input.
type State struct {
	// Bill is the bill currently being authored.
	Bill models.Bill

	// Results holds the computed splits. Written only via
	// SetSplitResults after a full recomputation.
	Results []models.SplitResult

	// Bills is the persisted bill history, hydrated from storage.
	// Untouched by bill-authoring actions, including ResetBill.
	Bills []models.Bill

	// Toast is a transient user-facing message (e.g. a gate failure).
	// Empty means no message.
	Toast string

	// Loading flags an in-flight external operation. Does not affect
	// bill data invariants.
	Loading bool
}

// NewState returns the initial wizard state: an empty pending bill with
// the equal split method selected.
func NewState() State {
	return State{
		Bill: models.Bill{
			Method: models.SplitEqual,
			Status: models.PaymentPending,
		},
	}
}

// cloneState deep-copies s so reducer cases can modify the copy freely.
func cloneState(s State) State {
	next := s
	next.Bill = cloneBill(s.Bill)
	next.Results = cloneResults(s.Results)
	next.Bills = append([]models.Bill(nil), s.Bills...)
	return next
}

func cloneBill(b models.Bill) models.Bill {
	next := b
	next.LineItems = make([]models.LineItem, len(b.LineItems))
	for i, item := range b.LineItems {
		next.LineItems[i] = item
		next.LineItems[i].AssignedTo = append([]string(nil), item.AssignedTo...)
	}
	next.Participants = append([]models.Participant(nil), b.Participants...)
	return next
}

func cloneResults(results []models.SplitResult) []models.SplitResult {
	if results == nil {
		return nil
	}
	next := make([]models.SplitResult, len(results))
	for i, r := range results {
		next[i] = r
		next[i].Breakdown = append([]models.BreakdownEntry(nil), r.Breakdown...)
	}
	return next
}
