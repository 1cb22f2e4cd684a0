// Package payroll aggregates employees, salary cycles and payment history for
// the payroll screens.
package payroll

import (
	"sort"
	"time"

	"github.com/Veraticus/malex-office/internal/model"
)

// MonthTotals sums one month of salary payments.
type MonthTotals struct {
	BasicSalary float64
	Commission  float64
	Allowances  float64
	Deductions  float64
	Total       float64
	Employees   int
}

// MonthGroup is the salary history of one (year, month).
type MonthGroup struct {
	Payments []model.SalaryPayment
	Totals   MonthTotals
	Year     int
	Month    time.Month
}

// Title renders the group heading, e.g. "May 2024".
func (g MonthGroup) Title() string {
	return time.Date(g.Year, g.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

// GroupHistory groups payments by year and month, newest month first.
// Payments keep their original order within a group.
func GroupHistory(payments []model.SalaryPayment) []MonthGroup {
	type key struct{ year, month int }

	index := make(map[key]int)
	var groups []MonthGroup
	for _, p := range payments {
		k := key{p.Year, p.Month}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, MonthGroup{Year: p.Year, Month: time.Month(p.Month)})
		}
		groups[i].Payments = append(groups[i].Payments, p)
	}

	for i := range groups {
		groups[i].Totals = monthTotals(groups[i].Payments)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Year != groups[j].Year {
			return groups[i].Year > groups[j].Year
		}
		return groups[i].Month > groups[j].Month
	})
	return groups
}

func monthTotals(payments []model.SalaryPayment) MonthTotals {
	totals := MonthTotals{Employees: len(payments)}
	for _, p := range payments {
		totals.BasicSalary += p.BasicSalary
		totals.Commission += p.Commission
		totals.Allowances += p.Allowances
		totals.Deductions += p.Deductions
		totals.Total += p.TotalAmount
	}
	return totals
}

// HistoryFilter restricts the history to a year and/or month. Zero means any.
type HistoryFilter struct {
	Year  int
	Month time.Month
}

// Apply returns the groups matching the filter.
func (f HistoryFilter) Apply(groups []MonthGroup) []MonthGroup {
	var kept []MonthGroup
	for _, g := range groups {
		if f.Year != 0 && g.Year != f.Year {
			continue
		}
		if f.Month != 0 && g.Month != f.Month {
			continue
		}
		kept = append(kept, g)
	}
	return kept
}
