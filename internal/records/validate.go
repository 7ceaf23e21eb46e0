package records

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/billbook-dev/billbook/internal/categories"
	"github.com/billbook-dev/billbook/internal/money"
)

// ErrValidation wraps every rejected add-bill or add-expense request.
var ErrValidation = errors.New("validation failed")

// ValidationError describes a single problem with user input.
type ValidationError struct {
	Field       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Description)
}

// BillInput is what the user supplies when adding a bill.
type BillInput struct {
	Category string // label or English name
	Title    string // required for "Other"
	Amount   string
	DueDate  time.Time
}

// ExpenseInput is what the user supplies when adding an expense.
type ExpenseInput struct {
	Category string
	Amount   string
	Date     time.Time // zero means now
}

// ValidateBill checks a BillInput against the bill catalog and reports every
// violation at once.
func ValidateBill(in BillInput, cats *categories.Catalog) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(in.Category) == "" {
		errs = append(errs, ValidationError{Field: "category", Description: "please choose a category"})
	} else if cat, ok := cats.Lookup(in.Category); !ok {
		errs = append(errs, ValidationError{
			Field:       "category",
			Description: fmt.Sprintf("unknown category %q (want one of %s)", in.Category, strings.Join(cats.Names(), ", ")),
		})
	} else if cat.IsOther() && strings.TrimSpace(in.Title) == "" {
		errs = append(errs, ValidationError{Field: "title", Description: "please enter a bill name for the Other category"})
	}

	if _, err := money.Parse(in.Amount); err != nil {
		errs = append(errs, ValidationError{Field: "amount", Description: amountProblem(err)})
	}

	if in.DueDate.IsZero() {
		errs = append(errs, ValidationError{Field: "due date", Description: "please choose a due date"})
	}

	return errs
}

// ValidateExpense checks an ExpenseInput against the expense catalog.
func ValidateExpense(in ExpenseInput, cats *categories.Catalog) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(in.Category) == "" {
		errs = append(errs, ValidationError{Field: "category", Description: "please choose a category"})
	} else if !cats.Exists(in.Category) {
		errs = append(errs, ValidationError{
			Field:       "category",
			Description: fmt.Sprintf("unknown category %q (want one of %s)", in.Category, strings.Join(cats.Names(), ", ")),
		})
	}

	if _, err := money.Parse(in.Amount); err != nil {
		errs = append(errs, ValidationError{Field: "amount", Description: amountProblem(err)})
	}

	return errs
}

func amountProblem(err error) string {
	if errors.Is(err, money.ErrMissingAmount) {
		return "please enter an amount"
	}
	return err.Error()
}

// joinValidation folds violations into one ErrValidation error.
func joinValidation(verrs []ValidationError) error {
	msgs := make([]string, len(verrs))
	for i, ve := range verrs {
		msgs[i] = ve.Error()
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

// mustAmount parses an amount that has already passed validation.
func mustAmount(s string) decimal.Decimal {
	d, _ := money.Parse(s)
	return d
}
