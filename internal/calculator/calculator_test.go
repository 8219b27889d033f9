package calculator

import (
	"math"
	"reflect"
	"testing"

	"github.com/waritt/billsplit/internal/cache"
	"github.com/waritt/billsplit/internal/models"
)

func participants(names ...string) []models.Participant {
	ps := make([]models.Participant, len(names))
	for i, name := range names {
		ps[i] = models.Participant{ID: "p-" + name, Name: name, Status: models.PaymentPending}
	}
	return ps
}

func resultFor(t *testing.T, results []models.SplitResult, participantID string) models.SplitResult {
	t.Helper()
	for _, r := range results {
		if r.ParticipantID == participantID {
			return r
		}
	}
	t.Fatalf("no result for participant %s", participantID)
	return models.SplitResult{}
}

func TestComputeSplit(t *testing.T) {
	tests := []struct {
		name         string
		bill         models.Bill
		validateFunc func(t *testing.T, results []models.SplitResult)
	}{
		{
			name: "equal split, two participants, single item",
			bill: models.Bill{
				Method:       models.SplitEqual,
				Participants: participants("Alice", "Bob"),
				LineItems: []models.LineItem{
					{ID: "i1", Name: "Pizza", Price: 100},
				},
			},
			validateFunc: func(t *testing.T, results []models.SplitResult) {
				if len(results) != 2 {
					t.Fatalf("expected 2 results, got %d", len(results))
				}
				for _, r := range results {
					if math.Abs(r.Amount-50.0) > 0.001 {
						t.Errorf("%s amount = %v, want 50.00", r.ParticipantID, r.Amount)
					}
				}
			},
		},
		{
			name: "equal split with surcharges and discount",
			bill: models.Bill{
				Method:       models.SplitEqual,
				Participants: participants("Alice", "Bob"),
				VATPercent:   7, ServiceChargePercent: 10, DiscountAmount: 20,
				LineItems: []models.LineItem{
					{ID: "i1", Name: "Set A", Price: 120},
					{ID: "i2", Name: "Set B", Price: 80},
				},
			},
			validateFunc: func(t *testing.T, results []models.SplitResult) {
				// finalTotal = 200 + 14 + 20 - 20 = 214, each owes 107
				for _, r := range results {
					if math.Abs(r.Amount-107.0) > 0.001 {
						t.Errorf("%s amount = %v, want 107.00", r.ParticipantID, r.Amount)
					}
				}
			},
		},
		{
			name: "equal split breakdown shares",
			bill: models.Bill{
				Method:       models.SplitEqual,
				Participants: participants("Alice", "Bob"),
				VATPercent:   7, ServiceChargePercent: 10, DiscountAmount: 20,
				LineItems: []models.LineItem{
					{ID: "i1", Name: "Set", Price: 200},
				},
			},
			validateFunc: func(t *testing.T, results []models.SplitResult) {
				want := []models.BreakdownEntry{
					{Label: LabelFood, Amount: 100},
					{Label: LabelVAT, Amount: 7},
					{Label: LabelServiceCharge, Amount: 10},
					{Label: LabelDiscount, Amount: -10},
				}
				got := resultFor(t, results, "p-Alice").Breakdown
				if !reflect.DeepEqual(got, want) {
					t.Errorf("breakdown = %+v, want %+v", got, want)
				}
			},
		},
		{
			name: "itemized split, partial assignment",
			bill: models.Bill{
				Method:       models.SplitItemized,
				Participants: participants("P1", "P2", "P3"),
				LineItems: []models.LineItem{
					{ID: "i1", Name: "Steak", Price: 90, AssignedTo: []string{"p-P1", "p-P2"}},
				},
			},
			validateFunc: func(t *testing.T, results []models.SplitResult) {
				if got := resultFor(t, results, "p-P1").Amount; math.Abs(got-45.0) > 0.001 {
					t.Errorf("P1 amount = %v, want 45.00", got)
				}
				if got := resultFor(t, results, "p-P2").Amount; math.Abs(got-45.0) > 0.001 {
					t.Errorf("P2 amount = %v, want 45.00", got)
				}
				p3 := resultFor(t, results, "p-P3")
				if p3.Amount != 0 {
					t.Errorf("P3 amount = %v, want 0.00", p3.Amount)
				}
				// P3 still carries the per-head surcharge entry, here zero
				if len(p3.Breakdown) != 1 || p3.Breakdown[0].Label != LabelSurcharges {
					t.Errorf("P3 breakdown = %+v, want single %q entry", p3.Breakdown, LabelSurcharges)
				}
			},
		},
		{
			name: "itemized surcharges spread per head, not pro-rata",
			bill: models.Bill{
				Method:       models.SplitItemized,
				Participants: participants("P1", "P2"),
				VATPercent:   10,
				LineItems: []models.LineItem{
					{ID: "i1", Name: "Steak", Price: 100, AssignedTo: []string{"p-P1"}},
				},
			},
			validateFunc: func(t *testing.T, results []models.SplitResult) {
				// surcharge pool = 10, 5 per head even though P2 ate nothing
				if got := resultFor(t, results, "p-P1").Amount; math.Abs(got-105.0) > 0.001 {
					t.Errorf("P1 amount = %v, want 105.00", got)
				}
				if got := resultFor(t, results, "p-P2").Amount; math.Abs(got-5.0) > 0.001 {
					t.Errorf("P2 amount = %v, want 5.00", got)
				}
			},
		},
		{
			name: "itemized item with no assignees contributes nothing",
			bill: models.Bill{
				Method:       models.SplitItemized,
				Participants: participants("P1", "P2"),
				LineItems: []models.LineItem{
					{ID: "i1", Name: "Orphan", Price: 40},
					{ID: "i2", Name: "Shared", Price: 60, AssignedTo: []string{"p-P1", "p-P2"}},
				},
			},
			validateFunc: func(t *testing.T, results []models.SplitResult) {
				for _, r := range results {
					if math.Abs(r.Amount-30.0) > 0.001 {
						t.Errorf("%s amount = %v, want 30.00", r.ParticipantID, r.Amount)
					}
				}
			},
		},
		{
			name: "zero participants returns empty, not an error",
			bill: models.Bill{
				Method: models.SplitEqual,
				LineItems: []models.LineItem{
					{ID: "i1", Name: "Pizza", Price: 100},
				},
			},
			validateFunc: func(t *testing.T, results []models.SplitResult) {
				if len(results) != 0 {
					t.Errorf("expected empty results, got %d", len(results))
				}
			},
		},
		{
			name: "equal split with no items is surcharge shares only",
			bill: models.Bill{
				Method:         models.SplitEqual,
				Participants:   participants("Alice", "Bob"),
				DiscountAmount: 10,
			},
			validateFunc: func(t *testing.T, results []models.SplitResult) {
				for _, r := range results {
					if math.Abs(r.Amount-(-5.0)) > 0.001 {
						t.Errorf("%s amount = %v, want -5.00", r.ParticipantID, r.Amount)
					}
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := New(cache.NewFIFOCache(10))
			results := calc.ComputeSplit(&tt.bill)
			tt.validateFunc(t, results)
		})
	}
}

func TestComputeSplitConservationEqual(t *testing.T) {
	bill := models.Bill{
		Method:       models.SplitEqual,
		Participants: participants("A", "B", "C"),
		VATPercent:   7, ServiceChargePercent: 10,
		LineItems: []models.LineItem{
			{ID: "i1", Name: "One", Price: 33.35},
			{ID: "i2", Name: "Two", Price: 66.65},
		},
	}
	calc := New(nil)
	results := calc.ComputeSplit(&bill)

	var sum float64
	for _, r := range results {
		sum += r.Amount
		if r.Amount != results[0].Amount {
			t.Errorf("equal split produced unequal amount %v vs %v", r.Amount, results[0].Amount)
		}
	}
	epsilon := float64(len(bill.Participants)) * 0.01
	if math.Abs(sum-bill.FinalTotal()) > epsilon {
		t.Errorf("sum of amounts %v drifts from final total %v by more than %v", sum, bill.FinalTotal(), epsilon)
	}
}

func TestComputeSplitConservationItemized(t *testing.T) {
	bill := models.Bill{
		Method:       models.SplitItemized,
		Participants: participants("A", "B", "C"),
		LineItems: []models.LineItem{
			{ID: "i1", Name: "Shared three ways", Price: 100, AssignedTo: []string{"p-A", "p-B", "p-C"}},
			{ID: "i2", Name: "Shared two ways", Price: 55.55, AssignedTo: []string{"p-A", "p-B"}},
		},
	}
	calc := New(nil)
	results := calc.ComputeSplit(&bill)

	for _, item := range bill.LineItems {
		var sum float64
		for _, r := range results {
			for _, entry := range r.Breakdown {
				if entry.Label == item.Name {
					sum += entry.Amount
				}
			}
		}
		epsilon := float64(len(item.AssignedTo)) * 0.01
		if math.Abs(sum-item.Price) > epsilon {
			t.Errorf("item %q contributions sum to %v, want %v within %v", item.Name, sum, item.Price, epsilon)
		}
	}
}

// countingCache wraps a Cache and counts hits so memoization is observable.
type countingCache struct {
	inner cache.Cache
	hits  int
	sets  int
}

func (c *countingCache) Get(key string) (string, bool) {
	val, ok := c.inner.Get(key)
	if ok {
		c.hits++
	}
	return val, ok
}

func (c *countingCache) Set(key, value string) error {
	c.sets++
	return c.inner.Set(key, value)
}

func TestComputeSplitMemoization(t *testing.T) {
	counting := &countingCache{inner: cache.NewFIFOCache(10)}
	calc := New(counting)

	bill := models.Bill{
		Method:       models.SplitItemized,
		Participants: participants("A", "B"),
		VATPercent:   7,
		LineItems: []models.LineItem{
			{ID: "i1", Name: "Noodles", Price: 80, AssignedTo: []string{"p-A"}},
		},
	}

	first := calc.ComputeSplit(&bill)
	second := calc.ComputeSplit(&bill)

	if counting.sets != 1 {
		t.Errorf("expected one cache write, got %d", counting.sets)
	}
	if counting.hits != 1 {
		t.Errorf("expected the second call to hit the cache, got %d hits", counting.hits)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("memoized result differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}

	// A structural change must miss the cache and produce fresh results.
	bill.LineItems[0].Price = 90
	third := calc.ComputeSplit(&bill)
	if reflect.DeepEqual(first, third) {
		t.Error("changed bill returned stale cached results")
	}
}
