package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryOrTitle(t *testing.T) {
	tests := []struct {
		rec  Record
		want string
	}{
		{Record{Category: "Kira", Title: "Kira"}, "Kira"},
		{Record{Category: "", Title: "İnternet"}, "İnternet"},
		{Record{}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.rec.CategoryOrTitle(), "record %+v", tt.rec)
	}
}

func TestGroupCategory(t *testing.T) {
	assert.Equal(t, "Market", Record{Category: "Market"}.GroupCategory())
	assert.Equal(t, OtherLabel, Record{Title: "legacy"}.GroupCategory())
}

func TestCountsAsSpending(t *testing.T) {
	assert.True(t, Record{Kind: KindExpense}.CountsAsSpending())
	assert.True(t, Record{Kind: KindBill, Paid: true}.CountsAsSpending())
	assert.False(t, Record{Kind: KindBill}.CountsAsSpending())
}

func TestRecords(t *testing.T) {
	due := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	bills := []Bill{{ID: "1", Title: "Kira", Category: "Kira", Amount: decimal.NewFromInt(100), DueDate: due, Paid: true}}
	expenses := []Expense{{ID: "2", Category: "Market", Amount: decimal.NewFromInt(5), Date: due}}

	recs := Records(bills, expenses)
	require.Len(t, recs, 2)

	assert.Equal(t, KindBill, recs[0].Kind)
	assert.True(t, recs[0].Paid)
	assert.True(t, recs[0].Date.Equal(due))

	assert.Equal(t, KindExpense, recs[1].Kind)
	assert.Equal(t, "Market", recs[1].Title, "expense title falls back to category")
	assert.False(t, recs[1].Paid)
}
