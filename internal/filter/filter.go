// Package filter narrows bills and expenses down to the records a list view
// should show.
package filter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/billbook-dev/billbook/internal/model"
)

// Scope selects which collections are searched.
type Scope int

const (
	ScopeAll Scope = iota
	ScopeBills
	ScopeExpenses
)

// ParseScope accepts "all", "bills" and "expenses".
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return ScopeAll, nil
	case "bills", "bill":
		return ScopeBills, nil
	case "expenses", "expense":
		return ScopeExpenses, nil
	default:
		return ScopeAll, fmt.Errorf("unknown record type %q (want all, bills or expenses)", s)
	}
}

// WindowKind is the kind of date window.
type WindowKind int

const (
	WindowAll WindowKind = iota
	WindowLast7Days
	WindowThisMonth
	WindowCustom
)

// ParseWindowKind accepts "all", "7d", "month" and "custom".
func ParseWindowKind(s string) (WindowKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return WindowAll, nil
	case "7d", "week", "last7days":
		return WindowLast7Days, nil
	case "month", "thismonth":
		return WindowThisMonth, nil
	case "custom":
		return WindowCustom, nil
	default:
		return WindowAll, fmt.Errorf("unknown date window %q (want all, 7d, month or custom)", s)
	}
}

// Window restricts records by date. Start and End are only used by
// WindowCustom and are both inclusive.
type Window struct {
	Kind  WindowKind
	Start time.Time
	End   time.Time
}

const week = 7 * 24 * time.Hour

// Contains reports whether t falls in the window relative to now.
//
// Last7Days keeps every t with now-t <= 7 days, so records dated in the
// future always pass.
func (w Window) Contains(t, now time.Time) bool {
	switch w.Kind {
	case WindowLast7Days:
		return now.Sub(t) <= week
	case WindowThisMonth:
		t = t.In(now.Location())
		return t.Year() == now.Year() && t.Month() == now.Month()
	case WindowCustom:
		return !t.Before(w.Start) && !t.After(w.End)
	default:
		return true
	}
}

// Options is the full set of predicates applied by Apply. Zero Options keep
// everything.
type Options struct {
	Scope    Scope
	Window   Window
	Min      decimal.NullDecimal
	Max      decimal.NullDecimal
	Category string // exact label; empty means any
}

// Validate reports options that can never match.
func (o Options) Validate() error {
	if o.Window.Kind == WindowCustom && o.Window.End.Before(o.Window.Start) {
		return fmt.Errorf("date window ends before it starts")
	}
	if o.Min.Valid && o.Max.Valid && o.Max.Decimal.LessThan(o.Min.Decimal) {
		return fmt.Errorf("maximum amount %s is below minimum %s", o.Max.Decimal, o.Min.Decimal)
	}
	return nil
}

// Match reports whether a single record passes every predicate except scope.
func (o Options) Match(r model.Record, now time.Time) bool {
	if !o.Window.Contains(r.Date, now) {
		return false
	}
	if o.Min.Valid && r.Amount.LessThan(o.Min.Decimal) {
		return false
	}
	if o.Max.Valid && r.Amount.GreaterThan(o.Max.Decimal) {
		return false
	}
	if o.Category != "" && r.CategoryOrTitle() != o.Category {
		return false
	}
	return true
}

// Apply returns the records of the selected scope that match opts, most
// recent first. The inputs are not modified.
func Apply(bills []model.Bill, expenses []model.Expense, opts Options, now time.Time) []model.Record {
	var candidates []model.Record
	switch opts.Scope {
	case ScopeBills:
		candidates = model.Records(bills, nil)
	case ScopeExpenses:
		candidates = model.Records(nil, expenses)
	default:
		candidates = model.Records(bills, expenses)
	}

	out := make([]model.Record, 0, len(candidates))
	for _, r := range candidates {
		if opts.Match(r, now) {
			out = append(out, r)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}
