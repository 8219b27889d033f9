// Package models defines the core domain models for the bill-split wizard.
//
// # Models
//
//   - Bill: a shared expense being authored, holding line items,
//     participants, surcharges, and the chosen split method
//   - Participant: one person on the bill, tracked by payment status
//   - LineItem: an individual priced entry, assignable to participants
//   - SplitResult: the computed amount one participant owes, with an
//     itemized breakdown
//
// # Design Principles
//
// 1. **Plain data**: models carry no behavior beyond derived totals
// 2. **Opaque identifiers**: entities reference each other by ID strings,
// never by pointers, so wizard states can be copied and serialized freely
// 3. **Validated upstream**: invariants such as non-negative prices are
// enforced by the wizard registry before models reach the calculator
//
// SplitResults are produced only by the calculator package and are
// regenerated whenever any upstream entity changes; they are never
// edited in place.
package models
