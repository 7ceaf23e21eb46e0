package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/billbook-dev/billbook/internal/categories"
	"github.com/billbook-dev/billbook/internal/model"
)

const dayFormat = "2006-01-02"

// barWidth is the length of the longest chart bar.
const barWidth = 24

func parseDay(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dayFormat, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("want YYYY-MM-DD, got %q", s)
	}
	return t, nil
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dayFormat)
}

func joinNames(c *categories.Catalog) string {
	return strings.Join(c.Names(), ", ")
}

// displayCategory returns the English name of a record's category, or "-"
// for legacy rows without one.
func displayCategory(r model.Record) string {
	if r.Category == "" {
		return "-"
	}
	return categories.ForKind(r.Kind).DisplayName(r.Category)
}

func displayTitle(r model.Record) string {
	return categories.ForKind(r.Kind).DisplayName(r.Title)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// bar renders v as a bar scaled against peak.
func bar(v, peak decimal.Decimal) string {
	if !peak.IsPositive() || !v.IsPositive() {
		return ""
	}
	n := int(v.Div(peak).Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())
	if n < 1 {
		n = 1
	}
	return strings.Repeat("#", n)
}

// share renders part as a percentage of total with one decimal.
func share(part, total decimal.Decimal) string {
	if total.IsZero() {
		return "0.0%"
	}
	return part.Div(total).Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}
