package records

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billbook-dev/billbook/internal/kv"
	"github.com/billbook-dev/billbook/internal/model"
)

var fixedNow = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *kv.Memory) {
	t.Helper()
	mem := kv.NewMemory()
	s := NewStore(mem, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), time.UTC)
	s.now = func() time.Time { return fixedNow }
	return s, mem
}

func TestStore_LoadMissingKeys(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	bills, err := s.LoadBills(ctx)
	require.NoError(t, err)
	assert.Empty(t, bills)
	assert.NotNil(t, bills)

	expenses, err := s.LoadExpenses(ctx)
	require.NoError(t, err)
	assert.Empty(t, expenses)
}

func TestStore_LoadMalformedIsEmpty(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, BillsKey, "not json"))
	require.NoError(t, mem.Set(ctx, ExpensesKey, `{"a":1}`))

	bills, err := s.LoadBills(ctx)
	require.NoError(t, err)
	assert.Empty(t, bills)

	expenses, err := s.LoadExpenses(ctx)
	require.NoError(t, err)
	assert.Empty(t, expenses)
}

func TestStore_WritesRefuseMalformed(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, BillsKey, "not json"))

	_, err := s.AppendBill(ctx, model.Bill{Title: "Su", Amount: dec("10"), DueDate: fixedNow})
	require.ErrorIs(t, err, ErrMalformed)

	raw, _, err := mem.Get(ctx, BillsKey)
	require.NoError(t, err)
	assert.Equal(t, "not json", raw, "corrupt data must not be overwritten")
}

func TestStore_AddBill(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()

	bill, err := s.AddBill(ctx, BillInput{Category: "Rent", Amount: "1500", DueDate: fixedNow})
	require.NoError(t, err)
	assert.Equal(t, "1705312800000", bill.ID)
	assert.Equal(t, "Kira", bill.Title)
	assert.Equal(t, "Kira", bill.Category)
	assert.False(t, bill.Paid)

	other, err := s.AddBill(ctx, BillInput{Category: "Diğer", Title: "  Gym  ", Amount: "30,5", DueDate: fixedNow})
	require.NoError(t, err)
	assert.Equal(t, "1705312800001", other.ID, "IDs are bumped until unique")
	assert.Equal(t, "Gym", other.Title)
	assert.Equal(t, model.OtherLabel, other.Category)
	assert.True(t, dec("30.5").Equal(other.Amount))

	raw, ok, err := mem.Get(ctx, BillsKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `"baslik":"Gym"`)

	bills, err := s.LoadBills(ctx)
	require.NoError(t, err)
	assert.Len(t, bills, 2)
}

func TestStore_AddBill_Validation(t *testing.T) {
	tests := []struct {
		name   string
		input  BillInput
		fields []string
	}{
		{"missing category", BillInput{Amount: "10", DueDate: fixedNow}, []string{"category"}},
		{"unknown category", BillInput{Category: "Internet", Amount: "10", DueDate: fixedNow}, []string{"category"}},
		{"missing amount", BillInput{Category: "Su", DueDate: fixedNow}, []string{"amount"}},
		{"invalid amount", BillInput{Category: "Su", Amount: "12abc", DueDate: fixedNow}, []string{"amount"}},
		{"negative amount", BillInput{Category: "Su", Amount: "-5", DueDate: fixedNow}, []string{"amount"}},
		{"other without title", BillInput{Category: "Other", Amount: "5", DueDate: fixedNow}, []string{"title"}},
		{"missing due date", BillInput{Category: "Su", Amount: "5"}, []string{"due date"}},
		{"everything", BillInput{}, []string{"category", "amount", "due date"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mem := newTestStore(t)
			ctx := context.Background()

			_, err := s.AddBill(ctx, tt.input)
			require.ErrorIs(t, err, ErrValidation)
			for _, f := range tt.fields {
				assert.Contains(t, err.Error(), f+":")
			}

			_, ok, err := mem.Get(ctx, BillsKey)
			require.NoError(t, err)
			assert.False(t, ok, "nothing is written when validation fails")
		})
	}
}

func TestStore_SetBillPaid(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	first, err := s.AddBill(ctx, BillInput{Category: "Su", Amount: "80", DueDate: fixedNow})
	require.NoError(t, err)
	second, err := s.AddBill(ctx, BillInput{Category: "Telefon", Amount: "120", DueDate: fixedNow})
	require.NoError(t, err)

	require.NoError(t, s.SetBillPaid(ctx, second.ID, true))

	bills, err := s.LoadBills(ctx)
	require.NoError(t, err)
	require.Len(t, bills, 2)
	assert.False(t, bills[0].Paid)
	assert.True(t, bills[1].Paid)
	assert.Equal(t, first.ID, bills[0].ID)

	require.NoError(t, s.SetBillPaid(ctx, second.ID, false))
	bills, err = s.LoadBills(ctx)
	require.NoError(t, err)
	assert.False(t, bills[1].Paid)

	err = s.SetBillPaid(ctx, "nope", true)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_SetBillPaid_LooseRows(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, mem.Set(ctx, BillsKey, `[
		{"id":"1","baslik":"Kira","miktar":1000,"tarih":"2024-01-15T10:00:00.000Z","kategori":"Kira","odendiMi":false},
		{"id":"2","baslik":"Su","miktar":80,"tarih":1705312800000,"kategori":"Su","odendiMi":"true"}
	]`))

	require.NoError(t, s.SetBillPaid(ctx, "1", true))

	bills, err := s.LoadBills(ctx)
	require.NoError(t, err)
	require.Len(t, bills, 2)
	assert.True(t, bills[0].Paid)
	assert.True(t, bills[1].Paid)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), bills[1].DueDate)
}

func TestStore_AddExpenses(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	when := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	added, err := s.AddExpenses(ctx, []ExpenseInput{
		{Category: "Shopping", Amount: "200", Date: when},
		{Category: "market", Amount: "45.90"},
	})
	require.NoError(t, err)
	require.Len(t, added, 2)

	assert.Equal(t, "Alışveriş", added[0].Category)
	assert.Equal(t, when, added[0].Date)
	assert.Equal(t, "Market", added[1].Category)
	assert.Equal(t, fixedNow, added[1].Date, "zero date means now")
	assert.NotEqual(t, added[0].ID, added[1].ID)

	expenses, err := s.LoadExpenses(ctx)
	require.NoError(t, err)
	assert.Len(t, expenses, 2)
}

func TestStore_AddExpenses_AllOrNothing(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddExpenses(ctx, []ExpenseInput{
		{Category: "Market", Amount: "10"},
		{Category: "Groceries", Amount: "10"},
	})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "expense 2")

	expenses, err := s.LoadExpenses(ctx)
	require.NoError(t, err)
	assert.Empty(t, expenses)
}

func TestStore_AppendKeepsUniqueIDs(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveBills(ctx, []model.Bill{{ID: "1705312800000", Title: "Su", Amount: dec("1"), DueDate: fixedNow}}))

	bill, err := s.AppendBill(ctx, model.Bill{ID: "1705312800000", Title: "Su", Amount: dec("2"), DueDate: fixedNow})
	require.NoError(t, err)
	assert.Equal(t, "1705312800001", bill.ID)

	kept, err := s.AppendBill(ctx, model.Bill{ID: "custom", Title: "Su", Amount: dec("3"), DueDate: fixedNow})
	require.NoError(t, err)
	assert.Equal(t, "custom", kept.ID)
}

type failingKV struct{ kv.Store }

var errDisk = errors.New("disk on fire")

func (failingKV) Get(context.Context, string) (string, bool, error) { return "", false, errDisk }
func (failingKV) Set(context.Context, string, string) error         { return errDisk }

func TestStore_StorageErrors(t *testing.T) {
	s := NewStore(failingKV{}, nil, time.UTC)
	ctx := context.Background()

	_, err := s.LoadBills(ctx)
	require.ErrorIs(t, err, errDisk)

	err = s.SaveExpenses(ctx, nil)
	require.ErrorIs(t, err, errDisk)
	assert.Contains(t, err.Error(), "saving expenses")
}

func TestStore_LoadAppFixture(t *testing.T) {
	data, err := os.ReadFile("../../testdata/bills.json")
	require.NoError(t, err)

	s, mem := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, BillsKey, string(data)))

	bills, err := s.LoadBills(ctx)
	require.NoError(t, err)
	require.Len(t, bills, 4)

	assert.Equal(t, "Kira", bills[0].Category)
	assert.True(t, bills[0].Paid)
	assert.Equal(t, "", bills[1].Category, "bills saved before categories existed")
	assert.Equal(t, "Elektrik", bills[1].Record().CategoryOrTitle())
	assert.True(t, dec("310.40").Equal(bills[1].Amount))

	require.NoError(t, s.SetBillPaid(ctx, "1705276800000", true))
	raw, _, err := mem.Get(ctx, BillsKey)
	require.NoError(t, err)
	assert.Contains(t, raw, `"id":"1705276800000","baslik":"Su","miktar":80,"tarih":"2024-01-15T09:00:00.000Z","kategori":"Su","odendiMi":true`)
	assert.NotContains(t, raw, `"baslik":"Elektrik","miktar":310.4,"tarih":"2024-01-02T09:00:00.000Z","kategori"`, "no category is invented for legacy bills")
}
