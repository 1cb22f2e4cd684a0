package payroll

import (
	"sort"
	"strings"

	"github.com/Veraticus/malex-office/internal/model"
)

// All disables an employee filter dimension.
const All = "all"

// EmployeeFilter narrows the employee list by position and status.
type EmployeeFilter struct {
	Position string
	Status   string
}

// Apply returns the matching employees. Position matches when the filter
// value occurs in the position's display name, so "sales" finds
// "Sales Executive".
func (f EmployeeFilter) Apply(employees []model.Employee) []model.Employee {
	position := strings.ToLower(f.Position)

	kept := make([]model.Employee, 0, len(employees))
	for _, e := range employees {
		if position != "" && position != All &&
			!strings.Contains(strings.ToLower(model.FormatPosition(e.Position)), position) {
			continue
		}
		if f.Status != "" && f.Status != All && !strings.EqualFold(e.Status, f.Status) {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// SearchEntries returns the cycle entries whose employee name or position
// contains term, case-insensitively.
func SearchEntries(entries []model.CycleEntry, term string) []model.CycleEntry {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return entries
	}

	var kept []model.CycleEntry
	for _, entry := range entries {
		name := strings.ToLower(entry.Employee.FullName())
		position := strings.ToLower(model.FormatPosition(entry.Employee.Position))
		if strings.Contains(name, term) || strings.Contains(position, term) {
			kept = append(kept, entry)
		}
	}
	return kept
}

// PositionTotal is the basic salary paid to one position.
type PositionTotal struct {
	Position string
	Amount   float64
}

// SalaryByPosition sums the basic salary of active employees per position
// display name, largest first.
func SalaryByPosition(employees []model.Employee) []PositionTotal {
	sums := make(map[string]float64)
	for _, e := range employees {
		if !e.Active() {
			continue
		}
		sums[model.FormatPosition(e.Position)] += e.BasicSalary
	}

	totals := make([]PositionTotal, 0, len(sums))
	for position, amount := range sums {
		totals = append(totals, PositionTotal{Position: position, Amount: amount})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Amount != totals[j].Amount {
			return totals[i].Amount > totals[j].Amount
		}
		return totals[i].Position < totals[j].Position
	})
	return totals
}
