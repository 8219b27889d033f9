package wizard

import "errors"

var (
	// ErrNegativePrice is returned when an item price below zero is submitted.
	ErrNegativePrice = errors.New("price cannot be negative")

	// ErrNegativePercent is returned for a negative VAT or service charge.
	ErrNegativePercent = errors.New("percent cannot be negative")

	// ErrNegativeDiscount is returned for a negative discount amount.
	ErrNegativeDiscount = errors.New("discount cannot be negative")

	// ErrParticipantNotFound is returned when a participant ID does not exist.
	ErrParticipantNotFound = errors.New("participant not found")

	// ErrLineItemNotFound is returned when a line item ID does not exist.
	ErrLineItemNotFound = errors.New("line item not found")

	// ErrInvalidSplitMethod is returned for an unknown split method.
	ErrInvalidSplitMethod = errors.New("invalid split method")
)
