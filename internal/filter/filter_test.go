package filter

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billbook-dev/billbook/internal/model"
)

var now = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func bound(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func fixtures() ([]model.Bill, []model.Expense) {
	bills := []model.Bill{
		{ID: "b1", Title: "Kira", Category: "Kira", Amount: dec("1500"), DueDate: day(2024, 1, 1), Paid: true},
		{ID: "b2", Title: "Su", Category: "Su", Amount: dec("80"), DueDate: day(2024, 1, 20)},
		{ID: "b3", Title: "Elektrik", Amount: dec("300"), DueDate: day(2023, 12, 10)},
		{ID: "b4", Title: "Netflix", Category: "Diğer", Amount: dec("99"), DueDate: day(2024, 3, 1)},
	}
	expenses := []model.Expense{
		{ID: "e1", Category: "Market", Amount: dec("45"), Date: day(2024, 1, 14)},
		{ID: "e2", Category: "Sosyal", Amount: dec("200"), Date: day(2024, 1, 5)},
		{ID: "e3", Category: "Market", Amount: dec("12.5"), Date: day(2023, 12, 31)},
	}
	return bills, expenses
}

func ids(records []model.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestApply_ZeroOptionsKeepsEverything(t *testing.T) {
	bills, expenses := fixtures()
	got := Apply(bills, expenses, Options{}, now)
	assert.Equal(t, []string{"b4", "b2", "e1", "e2", "b1", "e3", "b3"}, ids(got))
}

func TestApply_Scope(t *testing.T) {
	bills, expenses := fixtures()

	got := Apply(bills, expenses, Options{Scope: ScopeBills}, now)
	assert.Equal(t, []string{"b4", "b2", "b1", "b3"}, ids(got))

	got = Apply(bills, expenses, Options{Scope: ScopeExpenses}, now)
	assert.Equal(t, []string{"e1", "e2", "e3"}, ids(got))
}

func TestApply_Last7DaysIncludesFuture(t *testing.T) {
	bills, expenses := fixtures()
	got := Apply(bills, expenses, Options{Window: Window{Kind: WindowLast7Days}}, now)
	// b4 is two months ahead and still passes: the window only bounds the past.
	assert.Equal(t, []string{"b4", "b2", "e1"}, ids(got))
}

func TestWindow_Last7DaysBoundary(t *testing.T) {
	w := Window{Kind: WindowLast7Days}
	assert.True(t, w.Contains(now.Add(-7*24*time.Hour), now), "exactly seven days ago is inside")
	assert.False(t, w.Contains(now.Add(-7*24*time.Hour-time.Millisecond), now))
	assert.True(t, w.Contains(now.AddDate(1, 0, 0), now))
}

func TestApply_ThisMonth(t *testing.T) {
	bills, expenses := fixtures()
	got := Apply(bills, expenses, Options{Window: Window{Kind: WindowThisMonth}}, now)
	assert.Equal(t, []string{"b2", "e1", "e2", "b1"}, ids(got))
}

func TestWindow_ThisMonthUsesNowLocation(t *testing.T) {
	istanbul := time.FixedZone("TRT", 3*60*60)
	localNow := time.Date(2024, 2, 10, 12, 0, 0, 0, istanbul)
	w := Window{Kind: WindowThisMonth}

	assert.True(t, w.Contains(time.Date(2024, 1, 31, 22, 0, 0, 0, time.UTC), localNow),
		"22:00 UTC on Jan 31 is February in Istanbul")
	assert.False(t, w.Contains(time.Date(2024, 1, 31, 20, 0, 0, 0, time.UTC), localNow))
	assert.False(t, w.Contains(time.Date(2023, 2, 10, 0, 0, 0, 0, istanbul), localNow), "same month last year")
}

func TestApply_CustomInclusive(t *testing.T) {
	bills, expenses := fixtures()
	opts := Options{Window: Window{Kind: WindowCustom, Start: day(2024, 1, 5), End: day(2024, 1, 14)}}
	got := Apply(bills, expenses, opts, now)
	assert.Equal(t, []string{"e1", "e2"}, ids(got))
}

func TestApply_AmountRange(t *testing.T) {
	bills, expenses := fixtures()

	tests := []struct {
		name string
		min  decimal.NullDecimal
		max  decimal.NullDecimal
		want []string
	}{
		{"min only", bound("200"), decimal.NullDecimal{}, []string{"e2", "b1", "b3"}},
		{"max only", decimal.NullDecimal{}, bound("80"), []string{"b2", "e1", "e3"}},
		{"both inclusive", bound("80"), bound("200"), []string{"b4", "b2", "e2"}},
		{"empty range", bound("1000"), bound("1400"), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(bills, expenses, Options{Min: tt.min, Max: tt.max}, now)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApply_CategoryFallsBackToTitle(t *testing.T) {
	bills, expenses := fixtures()

	got := Apply(bills, expenses, Options{Category: "Elektrik"}, now)
	assert.Equal(t, []string{"b3"}, ids(got), "legacy bill matched by title")

	got = Apply(bills, expenses, Options{Category: "Market"}, now)
	assert.Equal(t, []string{"e1", "e3"}, ids(got))

	got = Apply(bills, expenses, Options{Category: "Netflix"}, now)
	assert.Empty(t, got, "a bill with a category is not matched by its title")
}

func TestApply_Combined(t *testing.T) {
	bills, expenses := fixtures()
	opts := Options{
		Scope:    ScopeExpenses,
		Window:   Window{Kind: WindowThisMonth},
		Min:      bound("40"),
		Category: "Market",
	}
	got := Apply(bills, expenses, opts, now)
	assert.Equal(t, []string{"e1"}, ids(got))
}

func TestApply_SortedMostRecentFirst(t *testing.T) {
	bills, expenses := fixtures()
	got := Apply(bills, expenses, Options{}, now)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].Date.After(got[i-1].Date), "records must be in descending date order")
	}
}

func TestApply_DoesNotModifyInputs(t *testing.T) {
	bills, expenses := fixtures()
	before := append([]model.Bill(nil), bills...)
	_ = Apply(bills, expenses, Options{Scope: ScopeBills}, now)
	assert.Equal(t, before, bills)
}

func TestParseScopeAndWindow(t *testing.T) {
	s, err := ParseScope("Bills")
	require.NoError(t, err)
	assert.Equal(t, ScopeBills, s)

	_, err = ParseScope("invoices")
	require.Error(t, err)

	w, err := ParseWindowKind("7d")
	require.NoError(t, err)
	assert.Equal(t, WindowLast7Days, w)

	w, err = ParseWindowKind("")
	require.NoError(t, err)
	assert.Equal(t, WindowAll, w)

	_, err = ParseWindowKind("year")
	require.Error(t, err)
}

func TestOptions_Validate(t *testing.T) {
	assert.NoError(t, Options{}.Validate())
	assert.Error(t, Options{Window: Window{Kind: WindowCustom, Start: day(2024, 2, 1), End: day(2024, 1, 1)}}.Validate())
	assert.Error(t, Options{Min: bound("10"), Max: bound("5")}.Validate())
}
