package aggregate

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/billbook-dev/billbook/internal/model"
)

// DefaultUpcomingDays is how far ahead the home screen looks for due bills.
const DefaultUpcomingDays = 3

// UpcomingBill is an unpaid bill due soon.
type UpcomingBill struct {
	Bill     model.Bill
	DaysLeft int
}

// Upcoming returns the unpaid bills due within days of now, soonest first.
// The distance is counted in whole days, rounded down, so a bill due later
// today has zero days left and an overdue one is excluded.
func Upcoming(bills []model.Bill, now time.Time, days int) []UpcomingBill {
	var out []UpcomingBill
	for _, b := range bills {
		if b.Paid || b.DueDate.IsZero() {
			continue
		}
		left := int(math.Floor(b.DueDate.Sub(now).Hours() / 24))
		if left >= 0 && left <= days {
			out = append(out, UpcomingBill{Bill: b, DaysLeft: left})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Bill.DueDate.Before(out[j].Bill.DueDate)
	})
	return out
}

// MonthSummary compares this month's spending with last month's.
type MonthSummary struct {
	Month         string
	Total         decimal.Decimal
	PreviousMonth string
	PreviousTotal decimal.Decimal
	Change        decimal.Decimal // percent
}

// Summarize builds the MonthSummary for the month containing now.
func Summarize(records []model.Record, now time.Time) MonthSummary {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	cur := MonthKey(first)
	prev := MonthKey(first.AddDate(0, -1, 0))

	total := MonthlyTotal(records, cur)
	prevTotal := MonthlyTotal(records, prev)
	return MonthSummary{
		Month:         cur,
		Total:         total,
		PreviousMonth: prev,
		PreviousTotal: prevTotal,
		Change:        PercentChange(prevTotal, total),
	}
}
