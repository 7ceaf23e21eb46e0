package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/billbook-dev/billbook/internal/model"
	"github.com/billbook-dev/billbook/internal/money"
)

// Storage keys used by the mobile app.
const (
	BillsKey    = "@faturalar"
	ExpensesKey = "@harcamalar"
)

// timeFormat matches JavaScript's Date.prototype.toISOString.
const timeFormat = "2006-01-02T15:04:05.000Z07:00"

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// JavaScript Date's valid range, ±8.64e15 ms around the epoch.
const (
	minUnixMilli = -8.64e15
	maxUnixMilli = 8.64e15
)

// wireBill is one element of the @faturalar array. Every field is kept raw
// so that one row with an unexpected JSON type is coerced on its own instead
// of failing the whole array.
type wireBill struct {
	ID          json.RawMessage `json:"id"`
	Title       json.RawMessage `json:"baslik"`
	Amount      json.RawMessage `json:"miktar"`
	Date        json.RawMessage `json:"tarih"`
	Category    json.RawMessage `json:"kategori"`
	AltCategory json.RawMessage `json:"category"`
	Paid        json.RawMessage `json:"odendiMi"`
}

// wireExpense is one element of the @harcamalar array. Older app versions
// wrote "category" instead of "kategori".
type wireExpense struct {
	ID          json.RawMessage `json:"id"`
	Category    json.RawMessage `json:"kategori"`
	AltCategory json.RawMessage `json:"category"`
	Amount      json.RawMessage `json:"miktar"`
	Date        json.RawMessage `json:"tarih"`
}

type billOut struct {
	ID       string      `json:"id"`
	Title    string      `json:"baslik"`
	Amount   json.Number `json:"miktar"`
	Date     string      `json:"tarih"`
	Category string      `json:"kategori,omitempty"`
	Paid     bool        `json:"odendiMi"`
}

type expenseOut struct {
	ID       string      `json:"id"`
	Category string      `json:"kategori"`
	Amount   json.Number `json:"miktar"`
	Date     string      `json:"tarih"`
}

// codec converts between stored blobs and model values. Dates are converted
// into loc so that calendar-month logic runs in the user's time zone.
type codec struct {
	loc *time.Location
	log *slog.Logger
}

// DecodeBills parses an @faturalar blob.
func DecodeBills(data []byte, loc *time.Location, log *slog.Logger) ([]model.Bill, error) {
	return codec{loc: loc, log: log}.decodeBills(data)
}

// DecodeExpenses parses an @harcamalar blob.
func DecodeExpenses(data []byte, loc *time.Location, log *slog.Logger) ([]model.Expense, error) {
	return codec{loc: loc, log: log}.decodeExpenses(data)
}

// EncodeBills renders bills as an @faturalar blob.
func EncodeBills(bills []model.Bill) ([]byte, error) {
	out := make([]billOut, len(bills))
	for i, b := range bills {
		out[i] = billOut{
			ID:       b.ID,
			Title:    b.Title,
			Amount:   json.Number(b.Amount.String()),
			Date:     formatTime(b.DueDate),
			Category: b.Category,
			Paid:     b.Paid,
		}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encoding bills: %w", err)
	}
	return data, nil
}

// EncodeExpenses renders expenses as an @harcamalar blob.
func EncodeExpenses(expenses []model.Expense) ([]byte, error) {
	out := make([]expenseOut, len(expenses))
	for i, e := range expenses {
		out[i] = expenseOut{
			ID:       e.ID,
			Category: e.Category,
			Amount:   json.Number(e.Amount.String()),
			Date:     formatTime(e.Date),
		}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encoding expenses: %w", err)
	}
	return data, nil
}

func (c codec) decodeBills(data []byte) ([]model.Bill, error) {
	var rows []wireBill
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, BillsKey, err)
	}
	bills := make([]model.Bill, 0, len(rows))
	for _, row := range rows {
		id := rawString(row.ID)
		bills = append(bills, model.Bill{
			ID:       id,
			Title:    rawString(row.Title),
			Amount:   rawAmount(row.Amount),
			DueDate:  c.rawTime(BillsKey, id, row.Date),
			Category: pickCategory(rawString(row.Category), rawString(row.AltCategory)),
			Paid:     rawTruthy(row.Paid),
		})
	}
	return bills, nil
}

func (c codec) decodeExpenses(data []byte) ([]model.Expense, error) {
	var rows []wireExpense
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, ExpensesKey, err)
	}
	expenses := make([]model.Expense, 0, len(rows))
	for _, row := range rows {
		id := rawString(row.ID)
		expenses = append(expenses, model.Expense{
			ID:       id,
			Amount:   rawAmount(row.Amount),
			Date:     c.rawTime(ExpensesKey, id, row.Date),
			Category: pickCategory(rawString(row.Category), rawString(row.AltCategory)),
		})
	}
	return expenses, nil
}

// pickCategory prefers "kategori" and falls back to "category".
func pickCategory(kategori, category string) string {
	if kategori != "" {
		return kategori
	}
	return category
}

// rawAmount accepts a JSON number, a numeric string, or anything else
// (which counts as zero).
func rawAmount(raw json.RawMessage) decimal.Decimal {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return decimal.Zero
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero
		}
		return money.Coerce(s)
	}
	return money.Coerce(string(raw))
}

// rawString accepts a JSON string, number or boolean. Objects and arrays
// yield "".
func rawString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '{', '[':
		return ""
	}
	return string(raw)
}

// rawTruthy follows JavaScript truthiness, which is how the app reads
// odendiMi: false, 0, "" and null are false, everything else is true.
func rawTruthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch string(raw) {
	case "null", "false", `""`:
		return false
	case "true":
		return true
	}
	switch raw[0] {
	case '"', '{', '[':
		return true
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		// Only numbers beyond float64 range get here, and those are non-zero.
		return true
	}
	return f != 0
}

// rawTime accepts a date string or a number of Unix milliseconds.
func (c codec) rawTime(key, id string, raw json.RawMessage) time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && (raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')) {
		var ms float64
		if err := json.Unmarshal(raw, &ms); err == nil && ms >= minUnixMilli && ms <= maxUnixMilli {
			return time.UnixMilli(int64(ms)).In(c.location())
		}
		c.warnDate(key, id, string(raw))
		return time.Time{}
	}
	return c.parseTime(key, id, rawString(raw))
}

func (c codec) parseTime(key, id, s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(c.location())
		}
	}
	c.warnDate(key, id, s)
	return time.Time{}
}

func (c codec) warnDate(key, id, value string) {
	if c.log != nil {
		c.log.Warn("unparsable record date", "key", key, "id", id, "value", value)
	}
}

func (c codec) location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeFormat)
}
