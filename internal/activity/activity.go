// Package activity keeps an append-only CSV history of changes made to a
// billbook project: bills added or paid, expenses recorded or imported.
package activity

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/billbook-dev/billbook/internal/model"
)

// Actions recorded in the log.
const (
	ActionAdd    = "add"
	ActionPay    = "pay"
	ActionUnpay  = "unpay"
	ActionImport = "import"
)

// Entry is one row of the activity log.
type Entry struct {
	Timestamp time.Time
	Action    string
	Kind      model.Kind
	RecordID  string
	Details   string
}

// Header is the CSV header for activity.csv.
const Header = "timestamp,action,kind,record_id,details"

const (
	numFields    = 5
	logDir       = "logs"
	logFile      = "logs/activity.csv"
	colTimestamp = 0
	colAction    = 1
	colKind      = 2
	colRecordID  = 3
	colDetails   = 4
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colAction] = e.Action
	row[colKind] = string(e.Kind)
	row[colRecordID] = e.RecordID
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return Entry{
		Timestamp: ts,
		Action:    record[colAction],
		Kind:      model.Kind(record[colKind]),
		RecordID:  record[colRecordID],
		Details:   record[colDetails],
	}, nil
}

// Append writes entries to <dir>/logs/activity.csv, creating the file and
// header if needed.
func Append(dir string, entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Join(dir, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(dir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <dir>/logs/activity.csv, oldest first. A
// missing log yields no entries.
func Read(dir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dir, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity log CSV: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range rows[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Tail returns the last n entries, or all of them when n <= 0.
func Tail(entries []Entry, n int) []Entry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[len(entries)-n:]
}
