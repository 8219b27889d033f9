package models

// BreakdownEntry is one labeled line in a participant's split breakdown,
// e.g. an item share or the per-head surcharge share. Amounts can be
// negative (discount share).
type BreakdownEntry struct {
	Label  string
	Amount float64
}

// SplitResult is the computed share for one participant.
// This is the output of the split calculation; it is regenerated from
// scratch whenever the bill changes and never mutated directly.
type SplitResult struct {
	// ParticipantID references the participant this result belongs to.
	ParticipantID string

	// Amount is the final amount this participant owes, rounded to two
	// decimal places.
	Amount float64

	// Breakdown lists the contributions making up Amount, in the order
	// they were accumulated.
	Breakdown []BreakdownEntry
}
