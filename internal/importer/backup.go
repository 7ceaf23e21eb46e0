package importer

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/billbook-dev/billbook/internal/model"
	"github.com/billbook-dev/billbook/internal/records"
)

// FormatBackup is the name of the mobile-app backup format: a raw
// @harcamalar JSON array.
const FormatBackup = "backup"

// BackupParser restores expenses from an app backup. The stored-data rules
// apply, so legacy field names and garbage amounts are tolerated, and IDs
// are kept when they do not collide.
type BackupParser struct {
	Location *time.Location
	Logger   *slog.Logger
}

// Format returns the parser name.
func (p *BackupParser) Format() string { return FormatBackup }

// Parse decodes the backup. A file that is not a JSON array is an error.
func (p *BackupParser) Parse(r io.Reader) ([]model.Expense, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading backup: %w", err)
	}
	expenses, err := records.DecodeExpenses(data, p.Location, p.Logger)
	if err != nil {
		return nil, fmt.Errorf("decoding backup: %w", err)
	}
	if len(expenses) == 0 {
		return nil, nil
	}
	return expenses, nil
}
