package models

// PaymentStatus tracks whether a participant (or a whole bill) has paid.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// SplitMethod selects how a bill's total is divided among participants.
type SplitMethod string

const (
	// SplitEqual divides the final total evenly across all participants,
	// regardless of what anyone ordered.
	SplitEqual SplitMethod = "equal"

	// SplitItemized divides each line item only among the participants
	// assigned to it; surcharges are still spread per head.
	SplitItemized SplitMethod = "itemized"
)

// Participant is one person on a bill.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	// IDs are unique within a bill.
	ID string

	// Name is the display name. The registry creates participants with an
	// empty placeholder name; the wizard blocks progression until every
	// name is filled in.
	Name string

	// Status tracks whether this participant has settled their share.
	Status PaymentStatus
}

// LineItem is a single priced entry on a bill.
type LineItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// Name is the item description (e.g. "Tom Yum", "Iced Tea").
	Name string

	// Price is the item price before surcharges. Never negative; the
	// registry rejects negative input before it reaches a bill.
	Price float64

	// AssignedTo lists the participant IDs splitting this item. Order is
	// irrelevant. Under the equal method the wizard forces this to the
	// full participant set; under the itemized method every item needs at
	// least one assignee before the bill is complete.
	AssignedTo []string
}

// Bill is the aggregate record of a shared expense.
type Bill struct {
	// ID is assigned by the persistence layer on save; empty while the
	// bill is still being authored in the wizard.
	ID string

	// Name is the human-readable bill title.
	Name string

	LineItems    []LineItem
	Participants []Participant

	// VATPercent and ServiceChargePercent are applied to the food
	// subtotal; DiscountAmount is an absolute deduction.
	VATPercent           float64
	ServiceChargePercent float64
	DiscountAmount       float64

	Method SplitMethod

	// Status marks the bill as a whole (pending until everyone has paid).
	Status PaymentStatus

	// CategoryID is an optional reference to an externally managed
	// category (e.g. "dinner", "trip").
	CategoryID string

	// CreatedAt is the Unix timestamp set by the persistence layer.
	CreatedAt int64
}

// Subtotal returns the sum of all line-item prices.
func (b *Bill) Subtotal() float64 {
	var sum float64
	for _, item := range b.LineItems {
		sum += item.Price
	}
	return sum
}

// AdditionalCosts returns the surcharge pool: VAT and service charge on
// the subtotal, less the discount. Can be negative when the discount
// exceeds the surcharges.
func (b *Bill) AdditionalCosts() float64 {
	subtotal := b.Subtotal()
	return subtotal*b.VATPercent/100 + subtotal*b.ServiceChargePercent/100 - b.DiscountAmount
}

// FinalTotal returns subtotal plus the surcharge pool. A negative result
// is possible with an oversized discount and is not clamped here.
func (b *Bill) FinalTotal() float64 {
	return b.Subtotal() + b.AdditionalCosts()
}

// FindParticipant returns the participant with the given ID, or nil.
func (b *Bill) FindParticipant(id string) *Participant {
	for i := range b.Participants {
		if b.Participants[i].ID == id {
			return &b.Participants[i]
		}
	}
	return nil
}

// FindLineItem returns the line item with the given ID, or nil.
func (b *Bill) FindLineItem(id string) *LineItem {
	for i := range b.LineItems {
		if b.LineItems[i].ID == id {
			return &b.LineItems[i]
		}
	}
	return nil
}
