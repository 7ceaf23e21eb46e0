package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/billbook-dev/billbook/internal/categories"
	"github.com/billbook-dev/billbook/internal/model"
	"github.com/billbook-dev/billbook/internal/money"
)

// FormatCSV is the name of the plain CSV format.
const FormatCSV = "csv"

const (
	csvDateFormat = "2006-01-02"
	csvNumFields  = 3
	csvColDate    = 0
	csvColCat     = 1
	csvColAmount  = 2
)

var csvHeader = []string{"date", "category", "amount"}

// CSVParser reads "date,category,amount" files. Categories may be given by
// label or English name; amounts are strict.
type CSVParser struct {
	Location *time.Location // nil means time.Local
}

// Format returns the parser name.
func (p *CSVParser) Format() string { return FormatCSV }

// Parse reads the CSV and returns expenses in file order.
func (p *CSVParser) Parse(r io.Reader) ([]model.Expense, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = csvNumFields
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading expense CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if err := checkHeader(rows[0]); err != nil {
		return nil, err
	}

	cats := categories.Expenses()
	loc := p.Location
	if loc == nil {
		loc = time.Local
	}

	var expenses []model.Expense
	for i, rec := range rows[1:] {
		e, err := parseCSVRow(rec, cats, loc)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

func checkHeader(rec []string) error {
	for i, want := range csvHeader {
		got := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(rec[i], "\ufeff")))
		if got != want {
			return fmt.Errorf("unexpected CSV header %q (want %s)", strings.Join(rec, ","), strings.Join(csvHeader, ","))
		}
	}
	return nil
}

func parseCSVRow(rec []string, cats *categories.Catalog, loc *time.Location) (model.Expense, error) {
	date, err := time.ParseInLocation(csvDateFormat, strings.TrimSpace(rec[csvColDate]), loc)
	if err != nil {
		return model.Expense{}, fmt.Errorf("parsing date %q: %w", rec[csvColDate], err)
	}

	cat, ok := cats.Lookup(rec[csvColCat])
	if !ok {
		return model.Expense{}, fmt.Errorf("unknown category %q", rec[csvColCat])
	}

	amount, err := money.Parse(rec[csvColAmount])
	if err != nil {
		if errors.Is(err, money.ErrMissingAmount) {
			return model.Expense{}, err
		}
		return model.Expense{}, fmt.Errorf("parsing amount %q: %w", rec[csvColAmount], err)
	}

	return model.Expense{
		Amount:   amount,
		Date:     date,
		Category: cat.Label,
	}, nil
}
