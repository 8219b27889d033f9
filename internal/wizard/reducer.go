package wizard

import "github.com/waritt/billsplit/internal/models"

// Reduce applies an action to a state and returns the next state. It is
// a total function: an unmatched action returns the state unchanged.
// The input state is never mutated.
func Reduce(s State, a Action) State {
	switch action := a.(type) {
	case SetBillName:
		next := cloneState(s)
		next.Bill.Name = action.Name
		return next

	case SetVATPercent:
		next := cloneState(s)
		next.Bill.VATPercent = action.Percent
		return next

	case SetServiceChargePercent:
		next := cloneState(s)
		next.Bill.ServiceChargePercent = action.Percent
		return next

	case SetDiscountAmount:
		next := cloneState(s)
		next.Bill.DiscountAmount = action.Amount
		return next

	case SetCategory:
		next := cloneState(s)
		next.Bill.CategoryID = action.CategoryID
		return next

	case SetSplitMethod:
		next := cloneState(s)
		next.Bill.Method = action.Method
		// Itemized items must be assigned explicitly, so the full sets
		// forced by equal mode are cleared on the switch. Re-selecting
		// itemized keeps existing assignments.
		if action.Method == models.SplitItemized && s.Bill.Method != models.SplitItemized {
			for i := range next.Bill.LineItems {
				next.Bill.LineItems[i].AssignedTo = []string{}
			}
			return next
		}
		return normalizeAssignments(next)

	case AddParticipant:
		return appendParticipant(s, action.Participant)

	case CreateParticipant:
		return appendParticipant(s, action.Participant)

	case ReplaceParticipant:
		next := cloneState(s)
		for i := range next.Bill.Participants {
			if next.Bill.Participants[i].ID == action.Participant.ID {
				next.Bill.Participants[i] = action.Participant
				return next
			}
		}
		return next

	case RemoveParticipant:
		next := cloneState(s)
		kept := next.Bill.Participants[:0]
		for _, p := range next.Bill.Participants {
			if p.ID != action.ID {
				kept = append(kept, p)
			}
		}
		next.Bill.Participants = kept
		for i := range next.Bill.LineItems {
			next.Bill.LineItems[i].AssignedTo = removeID(next.Bill.LineItems[i].AssignedTo, action.ID)
		}
		return next

	case AddLineItem:
		return appendLineItem(s, action.Item)

	case CreateLineItem:
		return appendLineItem(s, action.Item)

	case ReplaceLineItem:
		next := cloneState(s)
		for i := range next.Bill.LineItems {
			if next.Bill.LineItems[i].ID == action.Item.ID {
				next.Bill.LineItems[i] = action.Item
				return normalizeAssignments(next)
			}
		}
		return next

	case RemoveLineItem:
		next := cloneState(s)
		kept := next.Bill.LineItems[:0]
		for _, item := range next.Bill.LineItems {
			if item.ID != action.ID {
				kept = append(kept, item)
			}
		}
		next.Bill.LineItems = kept
		return next

	case SetSplitResults:
		next := cloneState(s)
		next.Results = cloneResults(action.Results)
		return next

	case ResetBill:
		next := cloneState(s)
		fresh := NewState()
		next.Bill = fresh.Bill
		next.Results = nil
		next.Toast = ""
		next.Loading = false
		return next

	case SetBills:
		next := cloneState(s)
		next.Bills = make([]models.Bill, len(action.Bills))
		copy(next.Bills, action.Bills)
		return next

	case ShowToast:
		next := cloneState(s)
		next.Toast = action.Message
		return next

	case SetLoading:
		next := cloneState(s)
		next.Loading = action.Loading
		return next
	}

	return s
}

func appendParticipant(s State, p models.Participant) State {
	next := cloneState(s)
	if next.Bill.FindParticipant(p.ID) != nil {
		return next
	}
	next.Bill.Participants = append(next.Bill.Participants, p)
	return normalizeAssignments(next)
}

func appendLineItem(s State, item models.LineItem) State {
	next := cloneState(s)
	if next.Bill.FindLineItem(item.ID) != nil {
		return next
	}
	item.AssignedTo = append([]string(nil), item.AssignedTo...)
	next.Bill.LineItems = append(next.Bill.LineItems, item)
	return normalizeAssignments(next)
}

// normalizeAssignments forces every item's assignment set to the full
// participant set under the equal method. Itemized assignments are left
// as they are.
func normalizeAssignments(s State) State {
	if s.Bill.Method != models.SplitEqual {
		return s
	}
	all := make([]string, len(s.Bill.Participants))
	for i, p := range s.Bill.Participants {
		all[i] = p.ID
	}
	for i := range s.Bill.LineItems {
		s.Bill.LineItems[i].AssignedTo = append([]string(nil), all...)
	}
	return s
}

func removeID(ids []string, id string) []string {
	kept := ids[:0]
	for _, v := range ids {
		if v != id {
			kept = append(kept, v)
		}
	}
	return kept
}
