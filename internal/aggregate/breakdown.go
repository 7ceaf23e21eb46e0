// Package aggregate computes per-category and per-month spending figures.
//
// All functions are pure. Amounts are the already-coerced decimals carried on
// model.Record, so legacy garbage contributes zero.
package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/billbook-dev/billbook/internal/model"
)

// CategoryAmount is one row of a Breakdown.
type CategoryAmount struct {
	Category string
	Amount   decimal.Decimal
}

// Breakdown is a per-category sum in enumeration order.
type Breakdown []CategoryAmount

// Total returns the sum over every category.
func (b Breakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for _, c := range b {
		total = total.Add(c.Amount)
	}
	return total
}

// Get returns the amount for category, or zero when it is absent.
func (b Breakdown) Get(category string) decimal.Decimal {
	for _, c := range b {
		if c.Category == category {
			return c.Amount
		}
	}
	return decimal.Zero
}

// Categories returns the category labels in order.
func (b Breakdown) Categories() []string {
	out := make([]string, len(b))
	for i, c := range b {
		out[i] = c.Category
	}
	return out
}

// NonZero drops zero rows, as a chart would.
func (b Breakdown) NonZero() Breakdown {
	out := make(Breakdown, 0, len(b))
	for _, c := range b {
		if !c.Amount.IsZero() {
			out = append(out, c)
		}
	}
	return out
}

// GroupByCategory sums records per category. The result holds every label in
// labels, in that order, even when its sum is zero. Records without a
// category count as "Other"; categories not in labels are appended in the
// order they are first seen.
func GroupByCategory(records []model.Record, labels []string) Breakdown {
	out := make(Breakdown, len(labels))
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		out[i] = CategoryAmount{Category: l, Amount: decimal.Zero}
		index[l] = i
	}

	for _, r := range records {
		cat := r.GroupCategory()
		i, ok := index[cat]
		if !ok {
			i = len(out)
			index[cat] = i
			out = append(out, CategoryAmount{Category: cat, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(r.Amount)
	}
	return out
}
