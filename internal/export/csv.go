// Package export writes bills and expenses as a flat CSV file for
// spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/billbook-dev/billbook/internal/id"
	"github.com/billbook-dev/billbook/internal/model"
)

// Header is the first row of every export.
const Header = "id,kind,date,title,category,amount,paid,created"

const (
	numFields   = 8
	dateFormat  = "2006-01-02"
	timeFormat  = "2006-01-02T15:04:05Z07:00"
	colID       = 0
	colKind     = 1
	colDate     = 2
	colTitle    = 3
	colCategory = 4
	colAmount   = 5
	colPaid     = 6
	colCreated  = 7
)

// WriteRecords writes the header followed by one row per record.
func WriteRecords(w io.Writer, records []model.Record) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range records {
		if err := cw.Write(MarshalRecord(r)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRecord converts a record to a CSV row. Records with no date get an
// empty date cell, and the paid column is empty for expenses. The created
// column is read from the timestamp ID and is empty for IDs that are not
// timestamps.
func MarshalRecord(r model.Record) []string {
	row := make([]string, numFields)
	row[colID] = r.ID
	row[colKind] = string(r.Kind)
	if !r.Date.IsZero() {
		row[colDate] = r.Date.Format(dateFormat)
	}
	row[colTitle] = r.Title
	row[colCategory] = r.Category
	row[colAmount] = r.Amount.StringFixed(2)
	if r.Kind == model.KindBill {
		row[colPaid] = strconv.FormatBool(r.Paid)
	}
	if created, err := id.Time(r.ID); err == nil {
		row[colCreated] = created.Format(timeFormat)
	}
	return row
}
