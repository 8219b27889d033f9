package wizard

import (
	"github.com/google/uuid"

	"github.com/waritt/billsplit/internal/models"
)

// Registry operations: creation, mutation, and removal helpers that
// wrap reducer actions with ID generation, default values, and input
// validation. Validation happens here, upstream of the calculator,
// which assumes well-formed input. Each operation holds the session
// lock for its whole read-validate-dispatch sequence.

// AddParticipant appends a participant with a fresh ID, a placeholder
// empty name, and pending payment status, and returns it.
func (c *Controller) AddParticipant() models.Participant {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := models.Participant{
		ID:     uuid.NewString(),
		Status: models.PaymentPending,
	}
	c.dispatch(CreateParticipant{Participant: p})
	return p
}

// RenameParticipant sets the participant's display name.
func (c *Controller) RenameParticipant(id, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.state.Bill.FindParticipant(id)
	if p == nil {
		return ErrParticipantNotFound
	}
	updated := *p
	updated.Name = name
	c.dispatch(ReplaceParticipant{Participant: updated})
	return nil
}

// SetParticipantStatus flips a participant between pending and paid.
func (c *Controller) SetParticipantStatus(id string, status models.PaymentStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.state.Bill.FindParticipant(id)
	if p == nil {
		return ErrParticipantNotFound
	}
	updated := *p
	updated.Status = status
	c.dispatch(ReplaceParticipant{Participant: updated})
	return nil
}

// RemoveParticipant deletes a participant by ID.
func (c *Controller) RemoveParticipant(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Bill.FindParticipant(id) == nil {
		return ErrParticipantNotFound
	}
	c.dispatch(RemoveParticipant{ID: id})
	return nil
}

// AddLineItem appends an empty line item with a fresh ID and returns it.
func (c *Controller) AddLineItem() models.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	item := models.LineItem{ID: uuid.NewString()}
	c.dispatch(CreateLineItem{Item: item})
	return item
}

// UpdateLineItem sets an item's name and price. Negative prices are
// rejected before they can reach the bill.
func (c *Controller) UpdateLineItem(id, name string, price float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if price < 0 {
		return ErrNegativePrice
	}
	item := c.state.Bill.FindLineItem(id)
	if item == nil {
		return ErrLineItemNotFound
	}
	updated := *item
	updated.Name = name
	updated.Price = price
	c.dispatch(ReplaceLineItem{Item: updated})
	return nil
}

// AssignLineItem replaces an item's assignment set. Unknown participant
// IDs are dropped silently; removing everyone leaves an empty set,
// which the assignment gate will catch under the itemized method.
func (c *Controller) AssignLineItem(id string, participantIDs []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	item := c.state.Bill.FindLineItem(id)
	if item == nil {
		return ErrLineItemNotFound
	}
	assigned := make([]string, 0, len(participantIDs))
	for _, pid := range participantIDs {
		if c.state.Bill.FindParticipant(pid) != nil {
			assigned = append(assigned, pid)
		}
	}
	updated := *item
	updated.AssignedTo = assigned
	c.dispatch(ReplaceLineItem{Item: updated})
	return nil
}

// RemoveLineItem deletes a line item by ID.
func (c *Controller) RemoveLineItem(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Bill.FindLineItem(id) == nil {
		return ErrLineItemNotFound
	}
	c.dispatch(RemoveLineItem{ID: id})
	return nil
}

// SetBillName sets the bill title.
func (c *Controller) SetBillName(name string) {
	c.Dispatch(SetBillName{Name: name})
}

// SetCategory sets the externally managed category reference.
func (c *Controller) SetCategory(categoryID string) {
	c.Dispatch(SetCategory{CategoryID: categoryID})
}

// SetVATPercent sets the VAT percentage applied to the subtotal.
func (c *Controller) SetVATPercent(percent float64) error {
	if percent < 0 {
		return ErrNegativePercent
	}
	c.Dispatch(SetVATPercent{Percent: percent})
	return nil
}

// SetServiceChargePercent sets the service charge percentage.
func (c *Controller) SetServiceChargePercent(percent float64) error {
	if percent < 0 {
		return ErrNegativePercent
	}
	c.Dispatch(SetServiceChargePercent{Percent: percent})
	return nil
}

// SetDiscountAmount sets the absolute discount.
func (c *Controller) SetDiscountAmount(amount float64) error {
	if amount < 0 {
		return ErrNegativeDiscount
	}
	c.Dispatch(SetDiscountAmount{Amount: amount})
	return nil
}

// SetSplitMethod switches between equal and itemized splitting.
func (c *Controller) SetSplitMethod(method models.SplitMethod) error {
	if method != models.SplitEqual && method != models.SplitItemized {
		return ErrInvalidSplitMethod
	}
	c.Dispatch(SetSplitMethod{Method: method})
	return nil
}

// Reset restores the bill-authoring fields to their initial values,
// preserving hydrated bill history, and returns to the first step.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dispatch(ResetBill{})
	c.step = stepOrder[0]
}
