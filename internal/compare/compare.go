// Package compare explains how spending changed between two periods.
package compare

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/billbook-dev/billbook/internal/aggregate"
)

// Period is a labelled per-category breakdown, e.g. one month.
type Period struct {
	Label     string
	Breakdown aggregate.Breakdown
}

// Result is the structured outcome of Compare.
type Result struct {
	TotalA   decimal.Decimal
	TotalB   decimal.Decimal
	Diff     decimal.Decimal // TotalB - TotalA
	Dominant string          // category with the largest absolute change
	Delta    decimal.Decimal // change in the dominant category, signed
	Empty    bool            // both totals are zero
}

// More reports whether B spent strictly more than A. A tie counts as less.
func (r Result) More() bool {
	return r.Diff.IsPositive()
}

// Direction returns "more" or "less".
func (r Result) Direction() string {
	if r.More() {
		return "more"
	}
	return "less"
}

// Compare computes totals and the dominant category of change. Categories are
// visited in a's order, then any extra categories of b; the first category
// with the largest absolute change wins.
func Compare(a, b Period) Result {
	res := Result{
		TotalA: a.Breakdown.Total(),
		TotalB: b.Breakdown.Total(),
	}
	res.Diff = res.TotalB.Sub(res.TotalA)
	if res.TotalA.IsZero() && res.TotalB.IsZero() {
		res.Empty = true
		return res
	}

	best := decimal.NewFromInt(-1)
	for _, cat := range Categories(a, b) {
		delta := b.Breakdown.Get(cat).Sub(a.Breakdown.Get(cat))
		if delta.Abs().GreaterThan(best) {
			best = delta.Abs()
			res.Dominant = cat
			res.Delta = delta
		}
	}
	return res
}

// Categories lists the categories of a in order, followed by those only b
// has.
func Categories(a, b Period) []string {
	seen := make(map[string]bool, len(a.Breakdown)+len(b.Breakdown))
	var order []string
	for _, bd := range []aggregate.Breakdown{a.Breakdown, b.Breakdown} {
		for _, c := range bd {
			if !seen[c.Category] {
				seen[c.Category] = true
				order = append(order, c.Category)
			}
		}
	}
	return order
}

// Explainer renders a Result as a sentence.
type Explainer struct {
	// Subject names what was spent on, e.g. "bills" or "expenses".
	Subject string
	// FormatAmount renders the absolute difference. Defaults to two decimals.
	FormatAmount func(decimal.Decimal) string
	// CategoryName maps a stored label to a display name. Defaults to the
	// label itself.
	CategoryName func(string) string
}

// Explain returns a one-sentence summary of how b differs from a, or "" when
// neither period has any spending.
func (e Explainer) Explain(a, b Period) string {
	res := Compare(a, b)
	if res.Empty {
		return ""
	}

	format := e.FormatAmount
	if format == nil {
		format = func(d decimal.Decimal) string { return d.StringFixed(2) }
	}
	name := e.CategoryName
	if name == nil {
		name = func(s string) string { return s }
	}
	subject := e.Subject
	if subject == "" {
		subject = "spending"
	}

	return fmt.Sprintf("In %s you spent %s %s on %s than in %s. The largest change was in %q.",
		b.Label, format(res.Diff.Abs()), res.Direction(), subject, a.Label, name(res.Dominant))
}
