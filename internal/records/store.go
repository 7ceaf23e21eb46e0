// Package records persists bills and expenses as JSON blobs in a kv.Store.
//
// Every write replaces a whole collection. Read-modify-write operations hold
// a store-wide lock so that two writers in one process cannot lose each
// other's updates; across processes the last write wins.
package records

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/billbook-dev/billbook/internal/categories"
	"github.com/billbook-dev/billbook/internal/id"
	"github.com/billbook-dev/billbook/internal/kv"
	"github.com/billbook-dev/billbook/internal/model"
)

var (
	// ErrNotFound is returned when no bill has the requested ID.
	ErrNotFound = errors.New("bill not found")
	// ErrMalformed is returned when a stored blob cannot be parsed.
	ErrMalformed = errors.New("malformed stored data")
)

// Store is the repository for the bill and expense collections.
type Store struct {
	kv  kv.Store
	log *slog.Logger
	loc *time.Location
	now func() time.Time

	mu sync.Mutex
}

// NewStore creates a Store over kv. Dates are presented in loc; a nil loc
// means time.Local and a nil log means slog.Default().
func NewStore(store kv.Store, log *slog.Logger, loc *time.Location) *Store {
	if log == nil {
		log = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Store{kv: store, log: log.With("component", "records"), loc: loc, now: time.Now}
}

// SetClock replaces the clock used for new IDs and default expense dates.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Location returns the time zone dates are presented in.
func (s *Store) Location() *time.Location {
	return s.loc
}

// LoadBills returns all bills. A missing key yields no bills. A malformed
// blob is logged and also yields no bills; only storage failures are errors.
func (s *Store) LoadBills(ctx context.Context) ([]model.Bill, error) {
	bills, err := s.readBills(ctx)
	if errors.Is(err, ErrMalformed) {
		s.log.Warn("treating malformed bills as empty", "key", BillsKey, "error", err)
		return []model.Bill{}, nil
	}
	return bills, err
}

// LoadExpenses returns all expenses, with the same tolerance as LoadBills.
func (s *Store) LoadExpenses(ctx context.Context) ([]model.Expense, error) {
	expenses, err := s.readExpenses(ctx)
	if errors.Is(err, ErrMalformed) {
		s.log.Warn("treating malformed expenses as empty", "key", ExpensesKey, "error", err)
		return []model.Expense{}, nil
	}
	return expenses, err
}

// SaveBills replaces the bill collection.
func (s *Store) SaveBills(ctx context.Context, bills []model.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeBills(ctx, bills)
}

// SaveExpenses replaces the expense collection.
func (s *Store) SaveExpenses(ctx context.Context, expenses []model.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeExpenses(ctx, expenses)
}

// AppendBill adds bill to the collection. An empty or already used ID is
// replaced with a fresh one. The stored bill is returned.
func (s *Store) AppendBill(ctx context.Context, bill model.Bill) (model.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bills, err := s.readBills(ctx)
	if err != nil {
		return model.Bill{}, err
	}

	taken := id.Set(billIDs(bills))
	if bill.ID == "" || taken(bill.ID) {
		bill.ID = id.New(s.now(), taken)
	}

	if err := s.writeBills(ctx, append(bills, bill)); err != nil {
		return model.Bill{}, err
	}
	s.log.Debug("bill appended", "id", bill.ID, "category", bill.Category)
	return bill, nil
}

// AppendExpenses adds expenses to the collection, assigning fresh IDs where
// needed.
func (s *Store) AppendExpenses(ctx context.Context, expenses []model.Expense) ([]model.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.readExpenses(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(existing)+len(expenses))
	for _, e := range existing {
		ids = append(ids, e.ID)
	}
	used := make(map[string]bool, len(ids))
	for _, v := range ids {
		used[v] = true
	}
	taken := func(v string) bool { return used[v] }

	added := make([]model.Expense, len(expenses))
	for i, e := range expenses {
		if e.ID == "" || taken(e.ID) {
			e.ID = id.New(s.now(), taken)
		}
		used[e.ID] = true
		added[i] = e
	}

	if err := s.writeExpenses(ctx, append(existing, added...)); err != nil {
		return nil, err
	}
	s.log.Debug("expenses appended", "count", len(added))
	return added, nil
}

// SetBillPaid sets the paid flag of one bill. The whole collection is
// rewritten.
func (s *Store) SetBillPaid(ctx context.Context, billID string, paid bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bills, err := s.readBills(ctx)
	if err != nil {
		return err
	}

	found := false
	for i := range bills {
		if bills[i].ID == billID {
			bills[i].Paid = paid
			found = true
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, billID)
	}

	if err := s.writeBills(ctx, bills); err != nil {
		return err
	}
	s.log.Debug("bill paid flag set", "id", billID, "paid", paid)
	return nil
}

// AddBill validates in, builds a bill from it and appends it. Nothing is
// written when validation fails.
func (s *Store) AddBill(ctx context.Context, in BillInput) (model.Bill, error) {
	cats := categories.Bills()
	if verrs := ValidateBill(in, cats); len(verrs) > 0 {
		return model.Bill{}, joinValidation(verrs)
	}

	cat, _ := cats.Lookup(in.Category)
	title := cat.Label
	if cat.IsOther() {
		title = strings.TrimSpace(in.Title)
	}

	return s.AppendBill(ctx, model.Bill{
		Title:    title,
		Amount:   mustAmount(in.Amount),
		DueDate:  in.DueDate,
		Category: cat.Label,
	})
}

// AddExpense validates in and appends it as a new expense.
func (s *Store) AddExpense(ctx context.Context, in ExpenseInput) (model.Expense, error) {
	added, err := s.AddExpenses(ctx, []ExpenseInput{in})
	if err != nil {
		return model.Expense{}, err
	}
	return added[0], nil
}

// AddExpenses validates every input and appends them all, or none.
func (s *Store) AddExpenses(ctx context.Context, inputs []ExpenseInput) ([]model.Expense, error) {
	cats := categories.Expenses()

	expenses := make([]model.Expense, len(inputs))
	for i, in := range inputs {
		if verrs := ValidateExpense(in, cats); len(verrs) > 0 {
			err := joinValidation(verrs)
			if len(inputs) > 1 {
				err = fmt.Errorf("expense %d: %w", i+1, err)
			}
			return nil, err
		}
		cat, _ := cats.Lookup(in.Category)
		date := in.Date
		if date.IsZero() {
			date = s.now().In(s.loc)
		}
		expenses[i] = model.Expense{
			Amount:   mustAmount(in.Amount),
			Date:     date,
			Category: cat.Label,
		}
	}

	return s.AppendExpenses(ctx, expenses)
}

func (s *Store) readBills(ctx context.Context) ([]model.Bill, error) {
	raw, ok, err := s.kv.Get(ctx, BillsKey)
	if err != nil {
		return nil, fmt.Errorf("loading bills: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []model.Bill{}, nil
	}
	return codec{loc: s.loc, log: s.log}.decodeBills([]byte(raw))
}

func (s *Store) readExpenses(ctx context.Context) ([]model.Expense, error) {
	raw, ok, err := s.kv.Get(ctx, ExpensesKey)
	if err != nil {
		return nil, fmt.Errorf("loading expenses: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []model.Expense{}, nil
	}
	return codec{loc: s.loc, log: s.log}.decodeExpenses([]byte(raw))
}

func (s *Store) writeBills(ctx context.Context, bills []model.Bill) error {
	data, err := EncodeBills(bills)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, BillsKey, string(data)); err != nil {
		return fmt.Errorf("saving bills: %w", err)
	}
	return nil
}

func (s *Store) writeExpenses(ctx context.Context, expenses []model.Expense) error {
	data, err := EncodeExpenses(expenses)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, ExpensesKey, string(data)); err != nil {
		return fmt.Errorf("saving expenses: %w", err)
	}
	return nil
}

func billIDs(bills []model.Bill) []string {
	ids := make([]string, len(bills))
	for i, b := range bills {
		ids[i] = b.ID
	}
	return ids
}
