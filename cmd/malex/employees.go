package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/malex-office/internal/cli"
	"github.com/Veraticus/malex-office/internal/common"
	"github.com/Veraticus/malex-office/internal/format"
	"github.com/Veraticus/malex-office/internal/model"
	"github.com/Veraticus/malex-office/internal/payroll"
	"github.com/Veraticus/malex-office/internal/storage"
)

// adminRole is required for payroll mutations.
const adminRole = "admin"

func employeesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "employees",
		Aliases: []string{"emp"},
		Short:   "Manage the staff on the payroll",
	}

	cmd.AddCommand(employeesListCmd())
	cmd.AddCommand(employeesAddCmd())
	cmd.AddCommand(employeesEditCmd())
	cmd.AddCommand(employeesDeleteCmd())

	return cmd
}

func employeesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			output, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			var filter payroll.EmployeeFilter
			filter.Position, _ = cmd.Flags().GetString("position")
			filter.Status, _ = cmd.Flags().GetString("status")

			a, err := initAuthedApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			employees, err := a.client.ListEmployees(ctx)
			if err != nil {
				return fmt.Errorf("failed to load employees: %w", err)
			}
			shown := filter.Apply(employees)

			if output != outputTable {
				return writeStructured(a.out, output, shown)
			}
			if len(shown) == 0 {
				fmt.Println(cli.FormatInfo("No employees found")) //nolint:forbidigo // User-facing output
				return nil
			}
			fmt.Println(renderEmployees(shown)) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().String("position", payroll.All, "position (matches the display name, e.g. sales)")
	cmd.Flags().String("status", payroll.All, "status (active, inactive)")
	addOutputFlag(cmd)

	return cmd
}

func renderEmployees(employees []model.Employee) string {
	rows := make([][]string, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, []string{
			e.ID,
			e.FullName(),
			model.FormatPosition(e.Position),
			format.Money(e.BasicSalary),
			strconv.FormatFloat(e.CommissionRate, 'f', -1, 64) + "%",
			model.FormatPaymentMethod(e.PaymentMethod),
			e.Phone,
			e.Status,
		})
	}
	return cli.RenderTable([]string{"ID", "Name", "Position", "Basic Salary", "Commission", "Payment", "Phone", "Status"}, rows)
}

func addEmployeeFields(cmd *cobra.Command) {
	cmd.Flags().String("first-name", "", "first name")
	cmd.Flags().String("last-name", "", "last name")
	cmd.Flags().String("position", "", "position (manager, sales, technician, admin, driver, other)")
	cmd.Flags().String("payment-method", "", "payment method (bank, mpesa, cash)")
	cmd.Flags().String("email", "", "email")
	cmd.Flags().String("phone", "", "phone")
	cmd.Flags().Float64("basic-salary", 0, "monthly basic salary")
	cmd.Flags().Float64("commission-rate", 0, "commission rate in percent")
}

var employeeFieldFlags = []string{"first-name", "last-name", "position", "payment-method", "email", "phone", "basic-salary", "commission-rate"}

func (a *app) fillEmployeeDraft(ctx context.Context, cmd *cobra.Command, draft *model.EmployeeDraft, interactive bool) error {
	flags := cmd.Flags()

	fields := []struct {
		target *string
		flag   string
		label  string
	}{
		{&draft.FirstName, "first-name", "First name"},
		{&draft.LastName, "last-name", "Last name"},
		{&draft.Position, "position", "Position (manager, sales, technician, admin, driver, other)"},
		{&draft.PaymentMethod, "payment-method", "Payment method (bank, mpesa, cash)"},
		{&draft.Email, "email", "Email"},
		{&draft.Phone, "phone", "Phone"},
	}
	for _, f := range fields {
		if flags.Changed(f.flag) {
			*f.target, _ = flags.GetString(f.flag)
			continue
		}
		if !interactive {
			continue
		}
		value, err := a.ask(ctx, f.label, *f.target)
		if err != nil {
			return err
		}
		*f.target = value
	}

	amounts := []struct {
		target *float64
		flag   string
		label  string
	}{
		{&draft.BasicSalary, "basic-salary", "Basic salary"},
		{&draft.CommissionRate, "commission-rate", "Commission rate (%)"},
	}
	for _, f := range amounts {
		if flags.Changed(f.flag) {
			*f.target, _ = flags.GetFloat64(f.flag)
			continue
		}
		if !interactive {
			continue
		}
		value, err := a.askFloat(ctx, f.label, *f.target)
		if err != nil {
			return err
		}
		*f.target = value
	}

	return draft.Validate()
}

func employeesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := initAuthedApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			draft := model.EmployeeDraft{PaymentMethod: "bank"}
			interactive := !anyChanged(cmd, "first-name", "last-name")
			if err := a.fillEmployeeDraft(ctx, cmd, &draft, interactive); err != nil {
				return err
			}

			if err := a.client.SaveEmployee(ctx, "", draft); err != nil {
				return err
			}
			name := draft.FirstName + " " + draft.LastName
			a.logActivity(ctx, storage.ActionCreate, "employee", "", name)

			fmt.Println(cli.FormatSuccess("✓ Added " + name)) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	addEmployeeFields(cmd)

	return cmd
}

// findEmployee looks an employee up in the full list; there is no single
// employee endpoint.
func (a *app) findEmployee(ctx context.Context, id string) (model.Employee, error) {
	employees, err := a.client.ListEmployees(ctx)
	if err != nil {
		return model.Employee{}, fmt.Errorf("failed to load employees: %w", err)
	}
	for _, e := range employees {
		if e.ID == id {
			return e, nil
		}
	}
	return model.Employee{}, common.NewUserError(fmt.Sprintf("Employee %s not found", id), common.ErrNotFound)
}

func employeesEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <employee-id>",
		Short: "Update an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			a, err := initAuthedApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			employee, err := a.findEmployee(ctx, id)
			if err != nil {
				return err
			}

			draft := model.DraftFromEmployee(employee)
			if err := a.fillEmployeeDraft(ctx, cmd, &draft, !anyChanged(cmd, employeeFieldFlags...)); err != nil {
				return err
			}

			if err := a.client.SaveEmployee(ctx, id, draft); err != nil {
				return err
			}
			a.logActivity(ctx, storage.ActionUpdate, "employee", id, employee.FullName())

			fmt.Println(cli.FormatSuccess("✓ Updated " + employee.FullName())) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	addEmployeeFields(cmd)

	return cmd
}

func employeesDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <employee-id>",
		Short: "Remove an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]
			force, _ := cmd.Flags().GetBool("force")

			a, err := initAuthedApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.auth.RequireRole(adminRole); err != nil {
				return err
			}

			employee, err := a.findEmployee(ctx, id)
			if err != nil {
				return err
			}

			ok, err := a.confirm(ctx, force, fmt.Sprintf("Remove %s from the payroll?", employee.FullName()))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Operation canceled.") //nolint:forbidigo // User-facing output
				return nil
			}

			if err := a.client.DeleteEmployee(ctx, id); err != nil {
				return err
			}
			a.logActivity(ctx, storage.ActionDelete, "employee", id, employee.FullName())

			fmt.Println(cli.FormatSuccess("✓ Removed " + employee.FullName())) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")

	return cmd
}
