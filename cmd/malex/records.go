package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/malex-office/internal/cli"
	"github.com/Veraticus/malex-office/internal/common"
	"github.com/Veraticus/malex-office/internal/export"
	"github.com/Veraticus/malex-office/internal/format"
	"github.com/Veraticus/malex-office/internal/model"
	"github.com/Veraticus/malex-office/internal/pager"
	"github.com/Veraticus/malex-office/internal/records"
	"github.com/Veraticus/malex-office/internal/storage"
	"github.com/Veraticus/malex-office/internal/tui"
)

func recordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "records",
		Aliases: []string{"rec"},
		Short:   "Browse and manage invoices, cash sales and quotations",
	}

	cmd.AddCommand(recordsListCmd())
	cmd.AddCommand(recordsBrowseCmd())
	cmd.AddCommand(recordsAddCmd())
	cmd.AddCommand(recordsEditCmd())
	cmd.AddCommand(recordsDeleteCmd())
	cmd.AddCommand(recordsExportCmd())

	return cmd
}

func addRecordFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("type", "t", records.All, "record type (all, invoice, cashSale, quotation)")
	cmd.Flags().StringP("search", "s", "", "search customer, document number, facilitator and creator")
	cmd.Flags().String("date", "", "date prefix (YYYY, YYYY-MM or YYYY-MM-DD)")
	cmd.Flags().String("customer", records.All, "exact customer name")
	cmd.Flags().Bool("offline", false, "use the last saved snapshot instead of the backend")
}

// recordFilterFromFlags reads the filter controls, normalizing the type name.
func recordFilterFromFlags(cmd *cobra.Command) (records.Filter, error) {
	f := records.Filter{}
	f.Type, _ = cmd.Flags().GetString("type")
	f.Search, _ = cmd.Flags().GetString("search")
	f.Date, _ = cmd.Flags().GetString("date")
	f.Customer, _ = cmd.Flags().GetString("customer")

	if f.Type != "" && f.Type != records.All {
		t, err := model.ParseRecordType(f.Type)
		if err != nil {
			return records.Filter{}, common.NewUserError(fmt.Sprintf("Unknown record type %q", f.Type), err)
		}
		f.Type = string(t)
	}
	return f, nil
}

// describeFilter summarizes the active filter dimensions for report titles.
func describeFilter(f records.Filter) string {
	var parts []string
	if f.Type != "" && f.Type != records.All {
		parts = append(parts, "type "+model.RecordType(f.Type).Label())
	}
	if f.Customer != "" && f.Customer != records.All {
		parts = append(parts, "customer "+f.Customer)
	}
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", f.Search))
	}
	if f.Date != "" {
		parts = append(parts, "date "+f.Date)
	}
	if len(parts) == 0 {
		return "All records"
	}
	return strings.Join(parts, ", ")
}

// loadRecords returns a controller holding the full dataset. Online, a failed
// fetch falls back to the last snapshot when there is one.
func (a *app) loadRecords(ctx context.Context, offline bool, opts ...records.Option) (*records.Controller, error) {
	if offline {
		return a.snapshotController(ctx, opts...)
	}

	controller, err := a.onlineRecords(ctx, opts...)
	if !errors.Is(err, errReported) {
		return controller, err
	}

	fallback, snapErr := a.snapshotController(ctx, opts...)
	if snapErr != nil {
		return nil, err
	}
	fmt.Fprintln(os.Stderr, cli.FormatWarning("Showing the last saved snapshot")) //nolint:forbidigo // User-facing output
	return fallback, nil
}

// onlineRecords fetches the dataset from the backend. Failures are printed
// by the controller's notifier and returned as errReported.
func (a *app) onlineRecords(ctx context.Context, opts ...records.Option) (*records.Controller, error) {
	if err := a.auth.RequireAuth(); err != nil {
		return nil, err
	}

	online := append([]records.Option{
		records.WithErrorReporter(cli.NewNotifier(os.Stderr)),
		records.WithJournal(records.StorageJournal{Store: a.store}, a.userName()),
	}, opts...)
	controller := records.NewController(a.client, online...)

	if err := controller.Load(ctx); err != nil {
		return nil, errReported
	}
	return controller, nil
}

func (a *app) snapshotController(ctx context.Context, opts ...records.Option) (*records.Controller, error) {
	seed, takenAt, err := storage.LoadSnapshot[model.Record](ctx, a.store, storage.SnapshotRecords)
	if err != nil {
		return nil, common.NewUserError("No offline snapshot yet; list the records once while online", err)
	}
	slog.Info("Using records snapshot", "taken_at", takenAt, "records", len(seed))
	return records.NewController(nil, append([]records.Option{records.WithSeed(seed)}, opts...)...), nil
}

func recordsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records page by page",
		Long: `List records with the same filters and pagination as the records page.

Filters narrow the fetched dataset in the order type, search, date, customer.

Examples:
  malex records list
  malex records list --type invoice --date 2024-05 --page 2
  malex records list --search acme --output json`,
		RunE: runRecordsList,
	}

	addRecordFilterFlags(cmd)
	addOutputFlag(cmd)
	cmd.Flags().IntP("page", "p", 1, "page number")
	cmd.Flags().Bool("all", false, "print every matching record (json and yaml output)")

	return cmd
}

func runRecordsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	output, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	filter, err := recordFilterFromFlags(cmd)
	if err != nil {
		return err
	}
	page, _ := cmd.Flags().GetInt("page")
	offline, _ := cmd.Flags().GetBool("offline")
	all, _ := cmd.Flags().GetBool("all")

	a, err := initApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	controller, err := a.loadRecords(ctx, offline)
	if err != nil {
		return err
	}

	controller.Apply(filter)
	if page > 1 {
		controller.Goto(page - 1)
	}

	if output != outputTable {
		items := controller.Page().Items
		if all {
			items = controller.Dataset()
		}
		return writeStructured(a.out, output, export.Rows(items, a.clock))
	}

	writeRecordsPage(a.out, a.clock, filter, controller.Page(), controller.Buttons())
	return nil
}

// writeRecordsPage prints the title, the page and its pagination bar to w.
func writeRecordsPage(w io.Writer, clock format.Clock, filter records.Filter, page pager.Page[model.Record], buttons []pager.Button) {
	_, _ = fmt.Fprintln(w, cli.FormatTitle(cli.OfficeIcon+"  Records · "+describeFilter(filter)))
	cli.NewRecordsView(w, clock).Render(page, buttons)
}

func recordsBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse records interactively",
		Long: `Open the interactive records browser.

Keys: ←/→ page, / search, d date, t type, c customer, x delete, r reload, q quit.
Filters narrow the loaded records until the next reload.`,
		RunE: runRecordsBrowse,
	}

	cmd.Flags().Bool("offline", false, "browse the last saved snapshot")

	return cmd
}

func runRecordsBrowse(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	offline, _ := cmd.Flags().GetBool("offline")

	a, err := initApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	view := tui.NewView()
	opts := []records.Option{records.WithRenderer(view), records.WithErrorReporter(view)}

	var controller *records.Controller
	if offline {
		if controller, err = a.snapshotController(ctx, opts...); err != nil {
			return err
		}
	} else {
		if err := a.auth.RequireAuth(); err != nil {
			return err
		}
		// Seed with the snapshot so a failed first load still shows data.
		seed, _, snapErr := storage.LoadSnapshot[model.Record](ctx, a.store, storage.SnapshotRecords)
		if snapErr != nil {
			slog.Debug("No records snapshot to seed the browser", "error", snapErr)
		}
		opts = append(opts,
			records.WithSeed(seed),
			records.WithJournal(records.StorageJournal{Store: a.store}, a.userName()))
		controller = records.NewController(a.client, opts...)
	}

	// The browser owns the terminal; keep log lines out of it.
	common.SetupLogger(io.Discard, slog.LevelError, a.cfg.LogFormat)

	return tui.Run(ctx, controller, view,
		tui.WithClock(a.clock),
		tui.WithUser(a.userName()),
	)
}

func addRecordFields(cmd *cobra.Command) {
	cmd.Flags().StringP("type", "t", "", "record type (invoice, cashSale, quotation)")
	cmd.Flags().String("date", "", "date (YYYY-MM-DD)")
	cmd.Flags().String("time", "", "time (HH:MM)")
	cmd.Flags().String("customer", "", "customer name")
	cmd.Flags().String("facilitator", "", "facilitator")
	cmd.Flags().String("document-no", "", "invoice, cash sale or quotation number")
	cmd.Flags().Float64("amount", 0, "amount")
}

// fillRecordDraft applies the changed flags to draft and prompts for the rest
// when interactive is set.
func (a *app) fillRecordDraft(ctx context.Context, cmd *cobra.Command, draft *model.RecordDraft, interactive bool) error {
	flags := cmd.Flags()

	if flags.Changed("type") {
		raw, _ := flags.GetString("type")
		t, err := model.ParseRecordType(raw)
		if err != nil {
			return common.NewUserError(fmt.Sprintf("Unknown record type %q", raw), err)
		}
		draft.Type = t
	} else if interactive {
		for {
			raw, err := a.ask(ctx, "Type (invoice, cashSale, quotation)", string(draft.Type))
			if err != nil {
				return err
			}
			t, err := model.ParseRecordType(raw)
			if err == nil {
				draft.Type = t
				break
			}
			fmt.Fprintln(a.out, cli.FormatWarning(err.Error())) //nolint:forbidigo // User-facing output
		}
	}

	fields := []struct {
		target *string
		flag   string
		label  string
	}{
		{&draft.Date, "date", "Date (YYYY-MM-DD)"},
		{&draft.Time, "time", "Time (HH:MM)"},
		{&draft.CustomerName, "customer", "Customer"},
		{&draft.Facilitator, "facilitator", "Facilitator"},
		{&draft.DocumentNo, "document-no", "Document number"},
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

	return nil
}

// anyChanged reports whether any of the named flags was set.
func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

var recordFieldFlags = []string{"type", "date", "time", "customer", "facilitator", "document-no", "amount"}

func recordsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a record",
		Long: `Create an invoice, cash sale or quotation. Fields not given as flags are prompted for.

Example:
  malex records add --type invoice --date 2024-05-13 --customer "Acme Ltd" --document-no INV-1042 --amount 25000`,
		Args: cobra.NoArgs,
		RunE: runRecordsAdd,
	}

	addRecordFields(cmd)

	return cmd
}

func runRecordsAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := initAuthedApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	now := time.Now().In(a.cfg.Location)
	draft := model.RecordDraft{
		Date:      now.Format("2006-01-02"),
		Time:      now.Format("15:04"),
		CreatedBy: a.userName(),
	}
	interactive := !anyChanged(cmd, "customer", "document-no")
	if err := a.fillRecordDraft(ctx, cmd, &draft, interactive); err != nil {
		return err
	}

	controller := records.NewController(a.client,
		records.WithJournal(records.StorageJournal{Store: a.store}, a.userName()))
	if err := controller.Save(ctx, "", draft); err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("✓ %s %s created", draft.Type.Label(), draft.DocumentNo))) //nolint:forbidigo // User-facing output
	return nil
}

func recordsEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <record-id>",
		Short: "Update a record",
		Long: `Update a record. Without field flags every field is prompted for, prefilled
with its current value.`,
		Args: cobra.ExactArgs(1),
		RunE: runRecordsEdit,
	}

	addRecordFields(cmd)

	return cmd
}

func runRecordsEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id := args[0]

	a, err := initApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	controller, err := a.onlineRecords(ctx)
	if err != nil {
		return err
	}

	existing, ok := controller.Find(id)
	if !ok {
		return common.NewUserError(fmt.Sprintf("Record %s not found", id), common.ErrNotFound)
	}

	draft := model.DraftFromRecord(existing)
	if err := a.fillRecordDraft(ctx, cmd, &draft, !anyChanged(cmd, recordFieldFlags...)); err != nil {
		return err
	}

	if err := controller.Save(ctx, id, draft); err != nil {
		return errReported
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("✓ %s %s updated", draft.Type.Label(), draft.DocumentNo))) //nolint:forbidigo // User-facing output
	return nil
}

func recordsDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <record-id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
		RunE:  runRecordsDelete,
	}

	cmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")

	return cmd
}

func runRecordsDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id := args[0]
	force, _ := cmd.Flags().GetBool("force")

	a, err := initApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	controller, err := a.onlineRecords(ctx)
	if err != nil {
		return err
	}

	existing, ok := controller.Find(id)
	if !ok {
		return common.NewUserError(fmt.Sprintf("Record %s not found", id), common.ErrNotFound)
	}

	fmt.Println(cli.RenderTable(cli.RecordColumns, [][]string{cli.RecordRow(existing, a.clock)})) //nolint:forbidigo // User-facing output

	ok, err = a.confirm(ctx, force, fmt.Sprintf("Delete %s %s?", existing.Type().Label(), existing.DocumentNo()))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Operation canceled.") //nolint:forbidigo // User-facing output
		return nil
	}

	if err := controller.Delete(ctx, id); err != nil {
		return errReported
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("✓ %s deleted", existing.DocumentNo()))) //nolint:forbidigo // User-facing output
	return nil
}
