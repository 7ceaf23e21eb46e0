package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is a read-only view over a bill or an expense, used by the filter
// and aggregation code so both collections can be handled as one list.
type Record struct {
	Kind     Kind
	ID       string
	Title    string
	Category string
	Amount   decimal.Decimal
	Date     time.Time
	Paid     bool // always false for expenses
}

// CategoryOrTitle returns the category, falling back to the title for legacy
// rows that were stored without one.
func (r Record) CategoryOrTitle() string {
	if r.Category != "" {
		return r.Category
	}
	return r.Title
}

// GroupCategory returns the category used for aggregation. Rows without a
// category are counted as "Other".
func (r Record) GroupCategory() string {
	if r.Category != "" {
		return r.Category
	}
	return OtherLabel
}

// CountsAsSpending reports whether the record contributes to spending totals.
// Unpaid bills do not.
func (r Record) CountsAsSpending() bool {
	return r.Kind == KindExpense || r.Paid
}

// Records converts bills and expenses into one slice, bills first.
func Records(bills []Bill, expenses []Expense) []Record {
	out := make([]Record, 0, len(bills)+len(expenses))
	for _, b := range bills {
		out = append(out, b.Record())
	}
	for _, e := range expenses {
		out = append(out, e.Record())
	}
	return out
}
