package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind distinguishes the two record collections.
type Kind string

const (
	KindBill    Kind = "bill"
	KindExpense Kind = "expense"
)

// OtherLabel is the persisted label of the "Other" category. Both catalogs
// share it, and records with no category are grouped under it.
const OtherLabel = "Diğer"

// Bill is a recurring obligation with a due date and a paid flag.
type Bill struct {
	ID       string
	Title    string // category name, or free text for "Other"
	Amount   decimal.Decimal
	DueDate  time.Time
	Category string // persisted label; empty on legacy rows
	Paid     bool
}

// Record returns the unified view of the bill.
func (b Bill) Record() Record {
	return Record{
		Kind:     KindBill,
		ID:       b.ID,
		Title:    b.Title,
		Category: b.Category,
		Amount:   b.Amount,
		Date:     b.DueDate,
		Paid:     b.Paid,
	}
}
