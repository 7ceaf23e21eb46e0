package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders amounts with two fraction digits and the grouping and
// decimal separators of a locale.
type Formatter struct {
	locale language.Tag
	symbol string
}

// NewFormatter creates a Formatter for a BCP 47 locale such as "tr" or
// "en-US". The symbol, when set, is appended after the number.
func NewFormatter(locale, symbol string) (Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return Formatter{}, fmt.Errorf("parsing locale %q: %w", locale, err)
	}
	return Formatter{locale: tag, symbol: symbol}, nil
}

// Format renders d, e.g. "1.234,50 TL" for locale "tr".
func (f Formatter) Format(d decimal.Decimal) string {
	p := message.NewPrinter(f.locale)
	s := p.Sprintf("%v", number.Decimal(
		d.Round(2).InexactFloat64(),
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
	if f.symbol == "" {
		return s
	}
	return s + " " + f.symbol
}

// Percent renders a percent change with an explicit sign, e.g. "+12.50%".
func Percent(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if !d.IsNegative() {
		s = "+" + s
	}
	return s + "%"
}
