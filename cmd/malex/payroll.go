package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Veraticus/malex-office/internal/cli"
	"github.com/Veraticus/malex-office/internal/common"
	"github.com/Veraticus/malex-office/internal/format"
	"github.com/Veraticus/malex-office/internal/model"
	"github.com/Veraticus/malex-office/internal/payroll"
	"github.com/Veraticus/malex-office/internal/storage"
)

func payrollCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "payroll",
		Aliases: []string{"salaries"},
		Short:   "Run the monthly salary cycle",
	}

	cmd.AddCommand(payrollDashboardCmd())
	cmd.AddCommand(payrollStatusCmd())
	cmd.AddCommand(payrollStartCmd())
	cmd.AddCommand(payrollUpdateEntryCmd())
	cmd.AddCommand(payrollProcessCmd())
	cmd.AddCommand(payrollHistoryCmd())

	return cmd
}

func payrollDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the payroll overview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := initAuthedApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			overview, err := payroll.LoadOverview(ctx, a.client, time.Now().In(a.cfg.Location))
			if err != nil {
				return err
			}

			fmt.Println(renderDashboard(overview)) //nolint:forbidigo // User-facing output
			return nil
		},
	}
}

func renderDashboard(o payroll.Overview) string {
	d := o.Dashboard
	box := cli.RenderBox(cli.ChartIcon+" Payroll", strings.Join([]string{
		"Total salary:      " + cli.BoldStyle.Render(format.Money(d.TotalSalary)),
		"Commissions:       " + format.Money(d.Commissions),
		"Average salary:    " + format.Money(d.AverageSalary),
		fmt.Sprintf("Employees in cycle: %d", d.EmployeesInCycle),
	}, "\n"))

	sections := []string{box}

	if o.Cycle != nil {
		sections = append(sections, cli.FormatInfo(fmt.Sprintf("Current cycle: %s, paid %s",
			cycleName(*o.Cycle), isoDate(o.Cycle.PaymentDate))))
	} else {
		sections = append(sections, cli.FormatInfo("No active salary cycle"))
	}

	if len(o.Positions) > 0 {
		bars := make([]cli.Bar, 0, len(o.Positions))
		for _, p := range o.Positions {
			bars = append(bars, cli.Bar{Label: p.Position, Value: p.Amount, Color: cli.PrimaryColor})
		}
		sections = append(sections, cli.FormatTitle("Salary by position"), cli.RenderBars(bars, 40, format.RoundedMoney))
	}

	if len(o.History) > 0 {
		latest := o.History[0]
		sections = append(sections, cli.FormatTitle("Last payroll: "+latest.Title()),
			fmt.Sprintf("%d employees · %s", latest.Totals.Employees, format.Money(latest.Totals.Total)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func cycleName(c model.SalaryCycle) string {
	if c.CycleName != "" {
		return c.CycleName
	}
	return time.Date(c.Year, time.Month(c.Month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

func payrollStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current salary cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			search, _ := cmd.Flags().GetString("search")

			output, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			a, err := initAuthedApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			cycle, err := a.client.CurrentCycle(ctx)
			if err != nil {
				return err
			}
			if cycle == nil {
				fmt.Println(cli.FormatInfo("No active salary cycle. Start one with: malex payroll start")) //nolint:forbidigo // User-facing output
				return nil
			}

			entries := payroll.SearchEntries(cycle.Employees, search)
			if output != outputTable {
				return writeStructured(a.out, output, entries)
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("%s · payment date %s", cycleName(*cycle), isoDate(cycle.PaymentDate)))) //nolint:forbidigo // User-facing output
			fmt.Println(renderEntries(entries))                                                                              //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().StringP("search", "s", "", "filter entries by employee name or position")
	addOutputFlag(cmd)

	return cmd
}

func renderEntries(entries []model.CycleEntry) string {
	rows := make([][]string, 0, len(entries))
	var total float64
	for _, e := range entries {
		total += e.Total()
		rows = append(rows, []string{
			e.ID,
			e.Employee.FullName(),
			model.FormatPosition(e.Employee.Position),
			format.Money(e.BasicSalary),
			format.Money(e.Commission),
			format.Money(e.Allowances),
			format.Money(e.Deductions),
			format.Money(e.Total()),
			e.EffectiveStatus(),
		})
	}
	table := cli.RenderTable([]string{"Entry", "Employee", "Position", "Basic", "Commission", "Allowances", "Deductions", "Total", "Status"}, rows)
	return table + "\n" + cli.BoldStyle.Render(fmt.Sprintf("%d employees · %s", len(entries), format.Money(total)))
}

func payrollStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a salary cycle",
		Long: `Start the salary cycle of a month. By default the current month is used and
the payment date is its last day.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := initAuthedApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			now := time.Now().In(a.cfg.Location)
			req := model.CycleRequest{
				Month:       int(now.Month()),
				Year:        now.Year(),
				PaymentDate: model.DefaultPaymentDate(now).Format("2006-01-02"),
			}
			if cmd.Flags().Changed("month") {
				req.Month, _ = cmd.Flags().GetInt("month")
			}
			if cmd.Flags().Changed("year") {
				req.Year, _ = cmd.Flags().GetInt("year")
			}
			if cmd.Flags().Changed("payment-date") {
				req.PaymentDate, _ = cmd.Flags().GetString("payment-date")
			}
			req.IncludeAllEmployees, _ = cmd.Flags().GetBool("all-employees")

			if req.Month < 1 || req.Month > 12 {
				return common.NewUserError("Month must be between 1 and 12", common.ErrInvalidConfig)
			}

			cycle, err := a.client.StartCycle(ctx, req)
			if err != nil {
				return err
			}
			a.logActivity(ctx, storage.ActionCreate, "salary cycle", cycle.ID, cycleName(*cycle))

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("✓ Started %s with %d employees", cycleName(*cycle), len(cycle.Employees)))) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().Int("month", 0, "month (1-12, default: current)")
	cmd.Flags().Int("year", 0, "year (default: current)")
	cmd.Flags().String("payment-date", "", "payment date (default: last day of the month)")
	cmd.Flags().Bool("all-employees", true, "include every active employee")

	return cmd
}

func payrollUpdateEntryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-entry <entry-id>",
		Short: "Adjust commission, allowances or deductions of a cycle entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			entryID := args[0]

			a, err := initAuthedApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			cycle, err := a.client.CurrentCycle(ctx)
			if err != nil {
				return err
			}
			if cycle == nil {
				return common.NewUserError("There is no active salary cycle", common.ErrNotFound)
			}
			entry, ok := cycle.FindEntry(entryID)
			if !ok {
				return common.NewUserError(fmt.Sprintf("Entry %s is not in the current cycle", entryID), common.ErrNotFound)
			}

			update := model.CycleEntryUpdate{
				Commission: entry.Commission,
				Allowances: entry.Allowances,
				Deductions: entry.Deductions,
				Notes:      entry.Notes,
			}
			interactive := !anyChanged(cmd, "commission", "allowances", "deductions", "notes")
			amounts := []struct {
				target *float64
				flag   string
				label  string
			}{
				{&update.Commission, "commission", "Commission"},
				{&update.Allowances, "allowances", "Allowances"},
				{&update.Deductions, "deductions", "Deductions"},
			}
			for _, f := range amounts {
				if cmd.Flags().Changed(f.flag) {
					*f.target, _ = cmd.Flags().GetFloat64(f.flag)
					continue
				}
				if !interactive {
					continue
				}
				if *f.target, err = a.askFloat(ctx, f.label, *f.target); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("notes") {
				update.Notes, _ = cmd.Flags().GetString("notes")
			} else if interactive {
				if update.Notes, err = a.ask(ctx, "Notes", update.Notes); err != nil {
					return err
				}
			}

			updated, err := a.client.UpdateCycleEntry(ctx, cycle.ID, entryID, update)
			if err != nil {
				return err
			}
			a.logActivity(ctx, storage.ActionUpdate, "salary entry", entryID, entry.Employee.FullName())

			if e, ok := updated.FindEntry(entryID); ok {
				entry = e
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("✓ %s now totals %s", entry.Employee.FullName(), format.Money(entry.Total())))) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().Float64("commission", 0, "commission")
	cmd.Flags().Float64("allowances", 0, "allowances")
	cmd.Flags().Float64("deductions", 0, "deductions")
	cmd.Flags().String("notes", "", "notes")

	return cmd
}

func payrollProcessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process the current salary cycle",
		Long:  `Pay every entry of the current cycle. Processed payments move to the salary history.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			force, _ := cmd.Flags().GetBool("force")

			a, err := initAuthedApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.auth.RequireRole(adminRole); err != nil {
				return err
			}

			cycle, err := a.client.CurrentCycle(ctx)
			if err != nil {
				return err
			}
			if cycle == nil {
				return common.NewUserError("There is no active salary cycle", common.ErrNotFound)
			}

			fmt.Println(renderEntries(cycle.Employees)) //nolint:forbidigo // User-facing output
			ok, err := a.confirm(ctx, force, fmt.Sprintf("Process %s for %d employees?", cycleName(*cycle), len(cycle.Employees)))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Operation canceled.") //nolint:forbidigo // User-facing output
				return nil
			}

			message, err := a.client.ProcessCycle(ctx, cycle.ID)
			if err != nil {
				return err
			}
			a.logActivity(ctx, storage.ActionUpdate, "salary cycle", cycle.ID, "processed")

			if message == "" {
				message = "Salary cycle processed"
			}
			fmt.Println(cli.FormatSuccess("✓ " + message)) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")

	return cmd
}

func payrollHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show processed salary payments by month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			output, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			a, err := initAuthedApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			filter := payroll.HistoryFilter{Year: time.Now().In(a.cfg.Location).Year()}
			if cmd.Flags().Changed("year") {
				filter.Year, _ = cmd.Flags().GetInt("year")
			}
			month, _ := cmd.Flags().GetInt("month")
			filter.Month = time.Month(month)

			payments, err := a.client.SalaryPayments(ctx, filter.Year)
			if err != nil {
				return fmt.Errorf("failed to load salary history: %w", err)
			}
			groups := filter.Apply(payroll.GroupHistory(payments))

			if output != outputTable {
				return writeStructured(a.out, output, groups)
			}
			if len(groups) == 0 {
				fmt.Println(cli.FormatInfo("No salary payments found")) //nolint:forbidigo // User-facing output
				return nil
			}

			for _, g := range groups {
				fmt.Println(cli.FormatTitle(g.Title())) //nolint:forbidigo // User-facing output
				rows := make([][]string, 0, len(g.Payments))
				for _, p := range g.Payments {
					rows = append(rows, []string{
						p.Employee.FullName(),
						format.Money(p.BasicSalary),
						format.Money(p.Commission),
						format.Money(p.Allowances),
						format.Money(p.Deductions),
						format.Money(p.TotalAmount),
						p.Status,
					})
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d employees", g.Totals.Employees),
					format.Money(g.Totals.BasicSalary),
					format.Money(g.Totals.Commission),
					format.Money(g.Totals.Allowances),
					format.Money(g.Totals.Deductions),
					format.Money(g.Totals.Total),
					"",
				})
				fmt.Println(cli.RenderTable([]string{"Employee", "Basic", "Commission", "Allowances", "Deductions", "Total", "Status"}, rows)) //nolint:forbidigo // User-facing output
			}
			return nil
		},
	}

	cmd.Flags().Int("year", 0, "year (default: current)")
	cmd.Flags().Int("month", 0, "month (1-12)")
	addOutputFlag(cmd)

	return cmd
}
