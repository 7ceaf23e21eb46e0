package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a one-off spending event. Expenses are always incurred, so they
// carry no paid flag.
type Expense struct {
	ID       string
	Amount   decimal.Decimal
	Date     time.Time
	Category string
}

// Record returns the unified view of the expense. Expenses have no title of
// their own; the category stands in for it.
func (e Expense) Record() Record {
	return Record{
		Kind:     KindExpense,
		ID:       e.ID,
		Title:    e.Category,
		Category: e.Category,
		Amount:   e.Amount,
		Date:     e.Date,
	}
}
