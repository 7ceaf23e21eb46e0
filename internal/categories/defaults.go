package categories

import "github.com/billbook-dev/billbook/internal/model"

// Bills returns the bill category catalog.
func Bills() *Catalog {
	return NewCatalog(model.KindBill, billCategories())
}

// Expenses returns the expense category catalog.
func Expenses() *Catalog {
	return NewCatalog(model.KindExpense, expenseCategories())
}

// ForKind returns the catalog for a record kind.
func ForKind(kind model.Kind) *Catalog {
	if kind == model.KindBill {
		return Bills()
	}
	return Expenses()
}

// The order here is significant: aggregation output and comparison
// tie-breaks follow it.
func billCategories() []Category {
	return []Category{
		{Label: "Elektrik", Name: "Electricity"},
		{Label: "Su", Name: "Water"},
		{Label: "Doğalgaz", Name: "Gas"},
		{Label: "Kira", Name: "Rent"},
		{Label: "Telefon", Name: "Phone"},
		{Label: model.OtherLabel, Name: "Other"},
	}
}

func expenseCategories() []Category {
	return []Category{
		{Label: "Market", Name: "Market"},
		{Label: "Alışveriş", Name: "Shopping"},
		{Label: "Sosyal", Name: "Social"},
		{Label: "Eğlence", Name: "Entertainment"},
		{Label: "Ulaşım", Name: "Transport"},
		{Label: model.OtherLabel, Name: "Other"},
	}
}
