package model

import "time"

// EntryStatusPending is the status of a cycle entry that has not been paid.
const EntryStatusPending = "pending"

// SalaryCycle is a monthly payroll run that has been started but not yet processed.
type SalaryCycle struct {
	ID          string       `json:"_id" yaml:"id"`
	CycleName   string       `json:"cycleName" yaml:"cycleName"`
	PaymentDate string       `json:"paymentDate" yaml:"paymentDate"`
	Status      string       `json:"status" yaml:"status"`
	Employees   []CycleEntry `json:"employees" yaml:"employees"`
	Month       int          `json:"month" yaml:"month"`
	Year        int          `json:"year" yaml:"year"`
}

// FindEntry returns the cycle entry with the given id.
func (c SalaryCycle) FindEntry(id string) (CycleEntry, bool) {
	for _, entry := range c.Employees {
		if entry.ID == id {
			return entry, true
		}
	}
	return CycleEntry{}, false
}

// CycleEntry is one employee's pay within a salary cycle.
type CycleEntry struct {
	ID          string   `json:"_id" yaml:"id"`
	Notes       string   `json:"notes" yaml:"notes"`
	Status      string   `json:"status" yaml:"status"`
	Employee    Employee `json:"employee" yaml:"employee"`
	BasicSalary float64  `json:"basicSalary" yaml:"basicSalary"`
	Commission  float64  `json:"commission" yaml:"commission"`
	Allowances  float64  `json:"allowances" yaml:"allowances"`
	Deductions  float64  `json:"deductions" yaml:"deductions"`
}

// Total is basic salary plus commission and allowances, less deductions.
func (e CycleEntry) Total() float64 {
	return e.BasicSalary + e.Commission + e.Allowances - e.Deductions
}

// EffectiveStatus returns the entry status, defaulting to pending.
func (e CycleEntry) EffectiveStatus() string {
	if e.Status == "" {
		return EntryStatusPending
	}
	return e.Status
}

// CycleEntryUpdate adjusts the variable parts of a cycle entry.
type CycleEntryUpdate struct {
	Notes      string  `json:"notes" yaml:"notes"`
	Commission float64 `json:"commission" yaml:"commission"`
	Allowances float64 `json:"allowances" yaml:"allowances"`
	Deductions float64 `json:"deductions" yaml:"deductions"`
}

// CycleRequest starts a new salary cycle.
type CycleRequest struct {
	PaymentDate         string `json:"paymentDate" yaml:"paymentDate"`
	Month               int    `json:"month" yaml:"month"`
	Year                int    `json:"year" yaml:"year"`
	IncludeAllEmployees bool   `json:"includeAllEmployees" yaml:"includeAllEmployees"`
}

// DefaultPaymentDate returns the last day of the month containing now.
func DefaultPaymentDate(now time.Time) time.Time {
	firstOfNext := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
	return firstOfNext.AddDate(0, 0, -1)
}

// SalaryPayment is a processed payment in the salary history.
type SalaryPayment struct {
	ID          string   `json:"_id" yaml:"id"`
	Status      string   `json:"status" yaml:"status"`
	Employee    Employee `json:"employee" yaml:"employee"`
	BasicSalary float64  `json:"basicSalary" yaml:"basicSalary"`
	Commission  float64  `json:"commission" yaml:"commission"`
	Allowances  float64  `json:"allowances" yaml:"allowances"`
	Deductions  float64  `json:"deductions" yaml:"deductions"`
	TotalAmount float64  `json:"totalAmount" yaml:"totalAmount"`
	Month       int      `json:"month" yaml:"month"`
	Year        int      `json:"year" yaml:"year"`
}

// MonthlyStat is one month of aggregated payment statistics.
type MonthlyStat struct {
	Month           int     `json:"_id" yaml:"id"`
	TotalCommission float64 `json:"totalCommission" yaml:"totalCommission"`
	TotalAmount     float64 `json:"totalAmount" yaml:"totalAmount"`
	Count           int     `json:"count" yaml:"count"`
}

// PaymentStats is the payload of the salary payment statistics endpoint.
type PaymentStats struct {
	MonthlyStats []MonthlyStat `json:"monthlyStats" yaml:"monthlyStats"`
}

// ForMonth returns the statistics of the given month (1-12).
func (s PaymentStats) ForMonth(month int) (MonthlyStat, bool) {
	for _, stat := range s.MonthlyStats {
		if stat.Month == month {
			return stat, true
		}
	}
	return MonthlyStat{}, false
}
