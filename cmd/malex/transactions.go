package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Veraticus/malex-office/internal/cli"
	"github.com/Veraticus/malex-office/internal/common"
	"github.com/Veraticus/malex-office/internal/format"
	"github.com/Veraticus/malex-office/internal/ledger"
	"github.com/Veraticus/malex-office/internal/model"
	"github.com/Veraticus/malex-office/internal/storage"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx", "accounting"},
		Short:   "Keep the accounting ledger",
	}

	cmd.AddCommand(transactionsListCmd())
	cmd.AddCommand(transactionsSummaryCmd())
	cmd.AddCommand(transactionsAddCmd())
	cmd.AddCommand(transactionsEditCmd())
	cmd.AddCommand(transactionsDeleteCmd())
	cmd.AddCommand(importOFXCmd())

	return cmd
}

// fetchTransactions loads the ledger and keeps a snapshot of it.
func (a *app) fetchTransactions(ctx context.Context) ([]model.Transaction, error) {
	txs, err := a.client.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	if err := storage.SaveSnapshot(ctx, a.store, storage.SnapshotTransactions, txs); err != nil {
		common.LogBestEffort(err, "save transactions snapshot")
	}
	return txs, nil
}

func addLedgerFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("type", "t", ledger.All, "transaction type (all, income, expense)")
	cmd.Flags().StringP("category", "c", ledger.All, "category")
	cmd.Flags().String("date", "", "exact date as stored")
}

func ledgerFilterFromFlags(cmd *cobra.Command) ledger.Filter {
	var f ledger.Filter
	f.Type, _ = cmd.Flags().GetString("type")
	f.Category, _ = cmd.Flags().GetString("category")
	f.Date, _ = cmd.Flags().GetString("date")
	return f
}

func transactionsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Args:  cobra.NoArgs,
		RunE:  runTransactionsList,
	}

	addLedgerFilterFlags(cmd)
	addOutputFlag(cmd)

	return cmd
}

func runTransactionsList(cmd *cobra.Command, _ []string) error {
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

	txs, err := a.fetchTransactions(ctx)
	if err != nil {
		return err
	}
	shown := ledgerFilterFromFlags(cmd).Apply(txs)

	if output != outputTable {
		return writeStructured(a.out, output, shown)
	}

	if len(shown) == 0 {
		fmt.Println(cli.FormatInfo("No transactions found")) //nolint:forbidigo // User-facing output
		return nil
	}

	rows := make([][]string, 0, len(shown))
	for _, tx := range shown {
		rows = append(rows, []string{
			tx.ID,
			a.clock.Date(tx.Date),
			tx.Description,
			tx.Category,
			tx.Method,
			string(tx.Type),
			format.SignedMoney(tx),
			tx.Status,
		})
	}
	fmt.Println(cli.RenderTable( //nolint:forbidigo // User-facing output
		[]string{"ID", "Date", "Description", "Category", "Method", "Type", "Amount", "Status"}, rows))

	totals := ledger.Summarize(shown)
	fmt.Printf("%d transactions · income %s · expenses %s · profit %s\n", //nolint:forbidigo // User-facing output
		len(shown), format.Money(totals.Income), format.Money(totals.Expense), format.Money(totals.Profit))
	return nil
}

func transactionsSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the accounting dashboard",
		Long:  `Show income, expenses, profit and balance, the monthly series and the expense breakdown.`,
		Args:  cobra.NoArgs,
		RunE:  runTransactionsSummary,
	}

	cmd.Flags().Int("year", 0, "only count transactions of this year")

	return cmd
}

func runTransactionsSummary(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	year, _ := cmd.Flags().GetInt("year")

	a, err := initAuthedApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	txs, err := a.fetchTransactions(ctx)
	if err != nil {
		return err
	}
	if year > 0 {
		kept := txs[:0:0]
		for _, tx := range txs {
			if tx.Time().Year() == year {
				kept = append(kept, tx)
			}
		}
		txs = kept
	}

	fmt.Println(renderSummary(txs)) //nolint:forbidigo // User-facing output
	return nil
}

// renderSummary draws the totals box, the monthly bars and the expense
// breakdown.
func renderSummary(txs []model.Transaction) string {
	totals := ledger.Summarize(txs)
	box := cli.RenderBox(cli.ChartIcon+" Accounting", strings.Join([]string{
		"Income:   " + cli.FormatSuccess(format.Money(totals.Income)),
		"Expenses: " + cli.FormatError(format.Money(totals.Expense)),
		"Profit:   " + cli.BoldStyle.Render(format.Money(totals.Profit)),
		"Balance:  " + cli.BoldStyle.Render(format.Money(totals.Balance)),
	}, "\n"))

	series := ledger.MonthlySeries(txs)
	var monthly []cli.Bar
	for _, m := range series {
		if m.Income == 0 && m.Expense == 0 {
			continue
		}
		label := m.Month.String()[:3]
		monthly = append(monthly,
			cli.Bar{Label: label + " in", Value: m.Income, Color: cli.SuccessColor},
			cli.Bar{Label: label + " out", Value: m.Expense, Color: cli.ErrorColor},
		)
	}

	breakdown := ledger.ExpenseBreakdown(txs)
	expenses := make([]cli.Bar, 0, len(breakdown))
	for _, c := range breakdown {
		expenses = append(expenses, cli.Bar{Label: c.Category, Value: c.Amount})
	}

	sections := []string{box}
	if len(monthly) > 0 {
		sections = append(sections, cli.FormatTitle("Monthly income and expenses"), cli.RenderBars(monthly, 40, format.RoundedMoney))
	}
	if len(expenses) > 0 {
		sections = append(sections, cli.FormatTitle("Expenses by category"), cli.RenderBars(expenses, 40, format.RoundedMoney))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func addTransactionFields(cmd *cobra.Command) {
	cmd.Flags().StringP("type", "t", "", "income or expense")
	cmd.Flags().String("description", "", "description")
	cmd.Flags().String("method", "", "payment method")
	cmd.Flags().String("reference", "", "reference")
	cmd.Flags().String("category", "", "category")
	cmd.Flags().String("date", "", "date (YYYY-MM-DD)")
	cmd.Flags().Float64("amount", 0, "amount")
}

var transactionFieldFlags = []string{"type", "description", "method", "reference", "category", "date", "amount"}

func (a *app) fillTransactionDraft(ctx context.Context, cmd *cobra.Command, draft *model.TransactionDraft, interactive bool) error {
	flags := cmd.Flags()

	if flags.Changed("type") {
		raw, _ := flags.GetString("type")
		draft.Type = model.TransactionType(strings.ToLower(raw))
	} else if interactive {
		raw, err := a.ask(ctx, "Type (income, expense)", string(draft.Type))
		if err != nil {
			return err
		}
		draft.Type = model.TransactionType(strings.ToLower(raw))
	}

	fields := []struct {
		target *string
		flag   string
		label  string
	}{
		{&draft.Description, "description", "Description"},
		{&draft.Method, "method", "Method"},
		{&draft.Reference, "reference", "Reference"},
		{&draft.Category, "category", "Category"},
		{&draft.Date, "date", "Date (YYYY-MM-DD)"},
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

	if flags.Changed("amount") {
		draft.Amount, _ = flags.GetFloat64("amount")
	} else if interactive {
		amount, err := a.askFloat(ctx, "Amount", draft.Amount)
		if err != nil {
			return err
		}
		draft.Amount = amount
	}

	return draft.Validate()
}

func transactionsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Long: `Record an income or expense. Fields not given as flags are prompted for.

Example:
  malex transactions add --type expense --description "Office rent" --category Rent --method bank --amount 45000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := initAuthedApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			draft := model.TransactionDraft{Date: time.Now().In(a.cfg.Location).Format("2006-01-02")}
			interactive := !anyChanged(cmd, "description", "amount")
			if err := a.fillTransactionDraft(ctx, cmd, &draft, interactive); err != nil {
				return err
			}

			if err := a.client.SaveTransaction(ctx, "", draft); err != nil {
				return err
			}
			a.logActivity(ctx, storage.ActionCreate, "transaction", "", draft.Description)

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("✓ %s of %s recorded", draft.Type, format.Money(draft.Amount)))) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	addTransactionFields(cmd)

	return cmd
}

func transactionsEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <transaction-id>",
		Short: "Update a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			a, err := initAuthedApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			tx, err := a.client.GetTransaction(ctx, id)
			if err != nil {
				return err
			}

			draft := model.TransactionDraft{
				Type:        tx.Type,
				Description: tx.Description,
				Method:      tx.Method,
				Reference:   tx.Reference,
				Category:    tx.Category,
				Date:        isoDate(tx.Date),
				Amount:      tx.Amount,
			}
			if err := a.fillTransactionDraft(ctx, cmd, &draft, !anyChanged(cmd, transactionFieldFlags...)); err != nil {
				return err
			}

			if err := a.client.SaveTransaction(ctx, id, draft); err != nil {
				return err
			}
			a.logActivity(ctx, storage.ActionUpdate, "transaction", id, draft.Description)

			fmt.Println(cli.FormatSuccess("✓ Transaction updated")) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	addTransactionFields(cmd)

	return cmd
}

func transactionsDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Delete a transaction",
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

			ok, err := a.confirm(ctx, force, fmt.Sprintf("Delete transaction %s?", id))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Operation canceled.") //nolint:forbidigo // User-facing output
				return nil
			}

			if err := a.client.DeleteTransaction(ctx, id); err != nil {
				return err
			}
			a.logActivity(ctx, storage.ActionDelete, "transaction", id, "")

			fmt.Println(cli.FormatSuccess("✓ Transaction deleted")) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")

	return cmd
}

// isoDate trims a stored timestamp to its YYYY-MM-DD date.
func isoDate(ts string) string {
	if len(ts) > 10 {
		return ts[:10]
	}
	return ts
}
