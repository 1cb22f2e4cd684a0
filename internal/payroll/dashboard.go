package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/malex-office/internal/common"
	"github.com/Veraticus/malex-office/internal/model"
)

// Source is the part of the backend the payroll screens read from.
type Source interface {
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	CurrentCycle(ctx context.Context) (*model.SalaryCycle, error)
	SalaryPayments(ctx context.Context, year int) ([]model.SalaryPayment, error)
	PaymentStats(ctx context.Context) (model.PaymentStats, error)
}

// Dashboard holds the four headline figures of the payroll page.
type Dashboard struct {
	TotalSalary      float64
	Commissions      float64
	AverageSalary    float64
	EmployeesInCycle int
}

// ComputeDashboard derives the headline figures. The total is the basic
// salary of active employees; the average divides it by the number of
// employees in the current cycle and is 0 without a cycle.
func ComputeDashboard(employees []model.Employee, cycle *model.SalaryCycle, stats model.PaymentStats, now time.Time) Dashboard {
	var d Dashboard
	for _, e := range employees {
		if e.Active() {
			d.TotalSalary += e.BasicSalary
		}
	}
	if cycle != nil {
		d.EmployeesInCycle = len(cycle.Employees)
	}
	if d.EmployeesInCycle > 0 {
		d.AverageSalary = d.TotalSalary / float64(d.EmployeesInCycle)
	}
	if stat, ok := stats.ForMonth(int(now.Month())); ok {
		d.Commissions = stat.TotalCommission
	}
	return d
}

// Overview is everything the payroll page shows.
type Overview struct {
	Cycle     *model.SalaryCycle
	Employees []model.Employee
	History   []MonthGroup
	Positions []PositionTotal
	Dashboard Dashboard
}

// LoadOverview fetches employees, the current cycle, this year's history and
// payment statistics concurrently. Statistics are optional: when they fail
// the commission figure is 0.
func LoadOverview(ctx context.Context, src Source, now time.Time) (Overview, error) {
	var (
		employees []model.Employee
		cycle     *model.SalaryCycle
		payments  []model.SalaryPayment
		stats     model.PaymentStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = src.ListEmployees(gctx)
		if err != nil {
			return fmt.Errorf("failed to load employees: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		cycle, err = src.CurrentCycle(gctx)
		if err != nil {
			return fmt.Errorf("failed to load current salary cycle: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		payments, err = src.SalaryPayments(gctx, now.Year())
		if err != nil {
			return fmt.Errorf("failed to load salary history: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		s, err := src.PaymentStats(gctx)
		if err != nil {
			common.LogBestEffort(err, "load payment stats")
			return nil
		}
		stats = s
		return nil
	})

	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	slog.Debug("payroll overview loaded",
		"employees", len(employees),
		"payments", len(payments),
		"has_cycle", cycle != nil)

	return Overview{
		Employees: employees,
		Cycle:     cycle,
		History:   GroupHistory(payments),
		Positions: SalaryByPosition(employees),
		Dashboard: ComputeDashboard(employees, cycle, stats, now),
	}, nil
}
