package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/malex-office/internal/model"
)

func sampleTransactions() []model.Transaction {
	return []model.Transaction{
		{ID: "a", Date: "2024-01-10", Type: model.TransactionIncome, Category: "Sales", Amount: 5000, Reference: "KCB1"},
		{ID: "b", Date: "2024-01-15", Type: model.TransactionExpense, Category: "Rent", Amount: 1500},
		{ID: "c", Date: "2024-03-02T09:00:00.000Z", Type: model.TransactionExpense, Category: "Utilities", Amount: 300},
		{ID: "d", Date: "2023-03-20", Type: model.TransactionIncome, Category: "Sales", Amount: 700},
		{ID: "e", Date: "2024-03-21", Type: model.TransactionExpense, Amount: 200},
		{ID: "f", Date: "garbage", Type: model.TransactionExpense, Category: "Rent", Amount: 100},
	}
}

func TestSummarize(t *testing.T) {
	totals := Summarize(sampleTransactions())
	assert.InDelta(t, 5700.0, totals.Income, 0.001)
	assert.InDelta(t, 2100.0, totals.Expense, 0.001)
	assert.InDelta(t, 3600.0, totals.Profit, 0.001)
	assert.InDelta(t, totals.Profit, totals.Balance, 0.001)

	assert.Equal(t, Totals{}, Summarize(nil))
}

func TestMonthlySeries(t *testing.T) {
	series := MonthlySeries(sampleTransactions())

	assert.Equal(t, time.January, series[0].Month)
	assert.Equal(t, time.December, series[11].Month)
	assert.InDelta(t, 5000.0, series[0].Income, 0.001)
	assert.InDelta(t, 1500.0, series[0].Expense, 0.001)
	assert.InDelta(t, 700.0, series[2].Income, 0.001, "months ignore the year")
	assert.InDelta(t, 500.0, series[2].Expense, 0.001)
	assert.Zero(t, series[5].Income)
}

func TestExpenseBreakdown(t *testing.T) {
	breakdown := ExpenseBreakdown(sampleTransactions())
	require.Len(t, breakdown, 3)
	assert.Equal(t, CategoryTotal{Category: "Rent", Amount: 1600}, breakdown[0])
	assert.Equal(t, "Utilities", breakdown[1].Category)
	assert.Equal(t, Uncategorized, breakdown[2].Category)
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"Rent", "Sales", "Utilities"}, Categories(sampleTransactions()))
}

func TestFilter_Apply(t *testing.T) {
	txs := sampleTransactions()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "all", filter: Filter{Type: All, Category: All}, want: []string{"a", "b", "c", "d", "e", "f"}},
		{name: "income", filter: Filter{Type: "income"}, want: []string{"a", "d"}},
		{name: "category", filter: Filter{Category: "Rent"}, want: []string{"b", "f"}},
		{name: "exact date", filter: Filter{Date: "2024-01-15"}, want: []string{"b"}},
		{name: "timestamp dates do not match a day", filter: Filter{Date: "2024-03-02"}, want: []string{}},
		{name: "combined", filter: Filter{Type: "expense", Category: "Rent", Date: "garbage"}, want: []string{"f"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []string{}
			for _, tx := range tt.filter.Apply(txs) {
				got = append(got, tx.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Len(t, txs, 6, "source list untouched")
}

func TestNewImports(t *testing.T) {
	drafts := []model.TransactionDraft{
		{Reference: "KCB1", Description: "already there"},
		{Reference: "KCB2", Description: "new"},
		{Reference: "KCB2", Description: "duplicate within statement"},
		{Description: "no reference"},
	}

	fresh := NewImports(sampleTransactions(), drafts)
	require.Len(t, fresh, 2)
	assert.Equal(t, "new", fresh[0].Description)
	assert.Equal(t, "no reference", fresh[1].Description)
}
