package aggregate

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/billbook-dev/billbook/internal/model"
)

const monthKeyLayout = "2006-01"

var hundred = decimal.NewFromInt(100)

// MonthKey returns the "YYYY-MM" key of t in t's own location. Keys sort
// lexically in calendar order.
func MonthKey(t time.Time) string {
	return t.Format(monthKeyLayout)
}

// ParseMonthKey parses a "YYYY-MM" key into the first instant of that month
// in loc.
func ParseMonthKey(key string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(monthKeyLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (want YYYY-MM): %w", key, err)
	}
	return t, nil
}

// MonthLabel renders a key as "MM-YYYY". Invalid keys are returned as is.
func MonthLabel(key string) string {
	t, err := time.Parse(monthKeyLayout, key)
	if err != nil {
		return key
	}
	return t.Format("01-2006")
}

// ShortLabel renders a key as "MM-YY", for chart axes.
func ShortLabel(key string) string {
	t, err := time.Parse(monthKeyLayout, key)
	if err != nil {
		return key
	}
	return t.Format("01-06")
}

// RecentMonths returns the keys of the n months ending with now's month,
// oldest first.
func RecentMonths(now time.Time, n int) []string {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	keys := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		keys = append(keys, MonthKey(first.AddDate(0, -i, 0)))
	}
	return keys
}

// PreviousMonth returns the key of the month before key.
func PreviousMonth(key string) (string, error) {
	t, err := ParseMonthKey(key, time.UTC)
	if err != nil {
		return "", err
	}
	return MonthKey(t.AddDate(0, -1, 0)), nil
}

// MonthlyTotal sums the spending of one month: every expense plus the bills
// that have been paid.
func MonthlyTotal(records []model.Record, key string) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		if r.CountsAsSpending() && MonthKey(r.Date) == key {
			total = total.Add(r.Amount)
		}
	}
	return total
}

// PercentChange returns (current-previous)/previous*100. A zero baseline
// yields 0 when current is also zero and 100 otherwise.
func PercentChange(previous, current decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.IsZero() {
			return decimal.Zero
		}
		return hundred
	}
	return current.Sub(previous).Div(previous).Mul(hundred)
}

// MonthBreakdown sums one kind of record per category for one month. Bills
// count only once paid.
func MonthBreakdown(records []model.Record, kind model.Kind, key string, labels []string) Breakdown {
	return GroupByCategory(selectMonth(records, kind, key), labels)
}

// Trend returns one sum per key for a single category of one kind, in the
// order of keys.
func Trend(records []model.Record, kind model.Kind, category string, keys []string) []decimal.Decimal {
	pos := make(map[string]int, len(keys))
	out := make([]decimal.Decimal, len(keys))
	for i, k := range keys {
		pos[k] = i
		out[i] = decimal.Zero
	}

	for _, r := range records {
		if r.Kind != kind || !r.CountsAsSpending() || r.GroupCategory() != category {
			continue
		}
		if i, ok := pos[MonthKey(r.Date)]; ok {
			out[i] = out[i].Add(r.Amount)
		}
	}
	return out
}

func selectMonth(records []model.Record, kind model.Kind, key string) []model.Record {
	var out []model.Record
	for _, r := range records {
		if r.Kind == kind && r.CountsAsSpending() && MonthKey(r.Date) == key {
			out = append(out, r)
		}
	}
	return out
}
