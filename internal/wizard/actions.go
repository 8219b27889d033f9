package wizard

import "github.com/waritt/billsplit/internal/models"

// Action is the closed set of wizard state transitions. The isAction
// marker seals the set so the reducer's type switch is exhaustive over
// everything callers can construct.
//
// Create* and Replace* are deliberately distinct variants rather than a
// single update action with a "new" flag: a Create always carries a
// freshly generated ID from the registry, and a Replace matches an
// existing ID without ever duplicating it.
type Action interface {
	isAction()
}

// Scalar setters replace a single bill field.

type SetBillName struct{ Name string }

type SetVATPercent struct{ Percent float64 }

type SetServiceChargePercent struct{ Percent float64 }

type SetDiscountAmount struct{ Amount float64 }

type SetCategory struct{ CategoryID string }

type SetSplitMethod struct{ Method models.SplitMethod }

// AddParticipant appends a participant with a pre-generated ID. A
// duplicate ID is a no-op.
type AddParticipant struct{ Participant models.Participant }

// CreateParticipant appends a participant assembled by the registry
// with a fresh ID.
type CreateParticipant struct{ Participant models.Participant }

// ReplaceParticipant swaps the participant with a matching ID. Unknown
// IDs are a no-op; a Replace never creates a second entity.
type ReplaceParticipant struct{ Participant models.Participant }

// RemoveParticipant deletes a participant and strips its ID from every
// line item's assignment set.
type RemoveParticipant struct{ ID string }

type AddLineItem struct{ Item models.LineItem }

type CreateLineItem struct{ Item models.LineItem }

type ReplaceLineItem struct{ Item models.LineItem }

type RemoveLineItem struct{ ID string }

// SetSplitResults replaces the computed results wholesale. Dispatched
// only by the controller after a full recomputation.
type SetSplitResults struct{ Results []models.SplitResult }

// ResetBill restores all bill-authoring fields to their initial values.
// Persisted bill history (State.Bills) is preserved.
type ResetBill struct{}

// SetBills hydrates the persisted bill history from storage. A nil
// slice is stored as empty; the hydration boundary owns defaulting.
type SetBills struct{ Bills []models.Bill }

// Transient UI signals.

type ShowToast struct{ Message string }

type SetLoading struct{ Loading bool }

func (SetBillName) isAction()             {}
func (SetVATPercent) isAction()           {}
func (SetServiceChargePercent) isAction() {}
func (SetDiscountAmount) isAction()       {}
func (SetCategory) isAction()             {}
func (SetSplitMethod) isAction()          {}
func (AddParticipant) isAction()          {}
func (CreateParticipant) isAction()       {}
func (ReplaceParticipant) isAction()      {}
func (RemoveParticipant) isAction()       {}
func (AddLineItem) isAction()             {}
func (CreateLineItem) isAction()          {}
func (ReplaceLineItem) isAction()         {}
func (RemoveLineItem) isAction()          {}
func (SetSplitResults) isAction()         {}
func (ResetBill) isAction()               {}
func (SetBills) isAction()                {}
func (ShowToast) isAction()               {}
func (SetLoading) isAction()              {}
