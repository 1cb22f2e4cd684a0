// Package ledger computes the accounting dashboard from a list of transactions.
package ledger

import (
	"sort"
	"time"

	"github.com/Veraticus/malex-office/internal/model"
)

// Uncategorized labels expenses that carry no category.
const Uncategorized = "Uncategorized"

// Totals summarizes a list of transactions. Balance equals profit since no
// opening balance is tracked.
type Totals struct {
	Income  float64
	Expense float64
	Profit  float64
	Balance float64
}

// Summarize adds up income and expenses.
func Summarize(txs []model.Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Type {
		case model.TransactionIncome:
			t.Income += tx.Amount
		case model.TransactionExpense:
			t.Expense += tx.Amount
		}
	}
	t.Profit = t.Income - t.Expense
	t.Balance = t.Profit
	return t
}

// MonthTotal is the income and expense of one calendar month.
type MonthTotal struct {
	Month   time.Month
	Income  float64
	Expense float64
}

// MonthlySeries buckets transactions by calendar month, January to December,
// regardless of year. Transactions with an unparseable date are skipped.
func MonthlySeries(txs []model.Transaction) [12]MonthTotal {
	var series [12]MonthTotal
	for i := range series {
		series[i].Month = time.Month(i + 1)
	}

	for _, tx := range txs {
		ts := tx.Time()
		if ts.IsZero() {
			continue
		}
		bucket := &series[ts.Month()-1]
		switch tx.Type {
		case model.TransactionIncome:
			bucket.Income += tx.Amount
		case model.TransactionExpense:
			bucket.Expense += tx.Amount
		}
	}
	return series
}

// CategoryTotal is the spending of one expense category.
type CategoryTotal struct {
	Category string
	Amount   float64
}

// ExpenseBreakdown sums expenses per category, largest first.
func ExpenseBreakdown(txs []model.Transaction) []CategoryTotal {
	sums := make(map[string]float64)
	for _, tx := range txs {
		if tx.Type != model.TransactionExpense {
			continue
		}
		category := tx.Category
		if category == "" {
			category = Uncategorized
		}
		sums[category] += tx.Amount
	}

	breakdown := make([]CategoryTotal, 0, len(sums))
	for category, amount := range sums {
		breakdown = append(breakdown, CategoryTotal{Category: category, Amount: amount})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Amount != breakdown[j].Amount {
			return breakdown[i].Amount > breakdown[j].Amount
		}
		return breakdown[i].Category < breakdown[j].Category
	})
	return breakdown
}

// Categories returns the distinct categories in use, sorted.
func Categories(txs []model.Transaction) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, tx := range txs {
		if tx.Category == "" || seen[tx.Category] {
			continue
		}
		seen[tx.Category] = true
		categories = append(categories, tx.Category)
	}
	sort.Strings(categories)
	return categories
}
