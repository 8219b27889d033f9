// Package calculator computes per-participant splits for a bill.
//
// ComputeSplit is a pure function of its input apart from an injected
// memoization cache: structurally identical bills hit the cache and
// return identical results.
package calculator

import (
	"encoding/json"
	"math"

	"github.com/waritt/billsplit/internal/cache"
	"github.com/waritt/billsplit/internal/models"
)

// Breakdown labels for the synthetic (non-item) entries.
const (
	LabelFood          = "Food"
	LabelVAT           = "VAT"
	LabelServiceCharge = "Service charge"
	LabelDiscount      = "Discount"
	LabelSurcharges    = "Taxes & service"
)

// Calculator computes splits, memoizing results in the injected cache.
type Calculator struct {
	cache cache.Cache
}

// New creates a Calculator backed by c. A nil cache falls back to a
// private in-memory FIFO cache with the default capacity.
func New(c cache.Cache) *Calculator {
	if c == nil {
		c = cache.NewFIFOCache(cache.DefaultCapacity)
	}
	return &Calculator{cache: c}
}

// ComputeSplit returns one SplitResult per participant on the bill.
//
// The equal method divides the final total evenly per head. The itemized
// method divides each line item's price evenly among its assignees, then
// spreads the surcharge pool (VAT + service charge - discount) evenly
// across all participants regardless of their item totals.
//
// Degenerate input is not an error: zero participants yields an empty
// slice, items without assignees contribute nothing, and a bill without
// items produces surcharge-pool shares only. The calculator assumes
// negative prices and percentages were rejected upstream.
func (c *Calculator) ComputeSplit(bill *models.Bill) []models.SplitResult {
	if len(bill.Participants) == 0 {
		return []models.SplitResult{}
	}

	key, err := cacheKey(bill)
	if err == nil {
		if cached, ok := c.cache.Get(key); ok {
			var results []models.SplitResult
			if json.Unmarshal([]byte(cached), &results) == nil {
				return results
			}
		}
	}

	var results []models.SplitResult
	switch bill.Method {
	case models.SplitItemized:
		results = computeItemized(bill)
	default:
		results = computeEqual(bill)
	}

	if err == nil {
		if encoded, err := json.Marshal(results); err == nil {
			c.cache.Set(key, string(encoded))
		}
	}
	return results
}

// computeEqual divides the final total evenly across all participants.
// Each share is rounded independently, so the sum of all shares can
// drift from the true total by up to a cent per participant.
func computeEqual(bill *models.Bill) []models.SplitResult {
	n := float64(len(bill.Participants))
	subtotal := bill.Subtotal()

	foodShare := round2(subtotal / n)
	vatShare := round2(subtotal * bill.VATPercent / 100 / n)
	serviceShare := round2(subtotal * bill.ServiceChargePercent / 100 / n)
	discountShare := round2(bill.DiscountAmount / n)
	amount := round2(bill.FinalTotal() / n)

	results := make([]models.SplitResult, len(bill.Participants))
	for i, p := range bill.Participants {
		results[i] = models.SplitResult{
			ParticipantID: p.ID,
			Amount:        amount,
			Breakdown: []models.BreakdownEntry{
				{Label: LabelFood, Amount: foodShare},
				{Label: LabelVAT, Amount: vatShare},
				{Label: LabelServiceCharge, Amount: serviceShare},
				{Label: LabelDiscount, Amount: -discountShare},
			},
		}
	}
	return results
}

// computeItemized divides each item evenly among its assignees and the
// surcharge pool evenly among all participants. A participant assigned
// to no items still owes their per-head surcharge share.
func computeItemized(bill *models.Bill) []models.SplitResult {
	amounts := make(map[string]float64, len(bill.Participants))
	breakdowns := make(map[string][]models.BreakdownEntry, len(bill.Participants))
	for _, p := range bill.Participants {
		amounts[p.ID] = 0
	}

	for _, item := range bill.LineItems {
		if len(item.AssignedTo) == 0 {
			continue
		}
		share := round2(item.Price / float64(len(item.AssignedTo)))
		for _, id := range item.AssignedTo {
			if _, exists := amounts[id]; !exists {
				continue
			}
			amounts[id] += share
			breakdowns[id] = append(breakdowns[id], models.BreakdownEntry{
				Label:  item.Name,
				Amount: share,
			})
		}
	}

	surchargeShare := round2(bill.AdditionalCosts() / float64(len(bill.Participants)))

	results := make([]models.SplitResult, len(bill.Participants))
	for i, p := range bill.Participants {
		breakdown := append(breakdowns[p.ID], models.BreakdownEntry{
			Label:  LabelSurcharges,
			Amount: surchargeShare,
		})
		results[i] = models.SplitResult{
			ParticipantID: p.ID,
			Amount:        round2(amounts[p.ID] + surchargeShare),
			Breakdown:     breakdown,
		}
	}
	return results
}

// cacheKey serializes the bill deterministically: struct fields and
// slices marshal in a fixed order.
func cacheKey(bill *models.Bill) (string, error) {
	encoded, err := json.Marshal(bill)
	if err != nil {
		return "", err
	}
	return "split:" + string(encoded), nil
}

// round2 rounds to two decimal places.
func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
