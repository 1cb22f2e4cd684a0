package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/malex-office/internal/cli"
	"github.com/Veraticus/malex-office/internal/format"
	"github.com/Veraticus/malex-office/internal/ledger"
	"github.com/Veraticus/malex-office/internal/model"
	"github.com/Veraticus/malex-office/internal/ofx"
	"github.com/Veraticus/malex-office/internal/storage"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX bank statements",
		Long: `Post the transactions of OFX or QFX statements to the ledger.

Credits become income and debits expenses. Transactions whose reference (the
bank's FITID or cheque number) is already in the ledger are skipped, so a
statement can be imported again safely.

Examples:
  malex transactions import-ofx ~/Downloads/equity_may_2024.ofx
  malex transactions import-ofx ~/Downloads/*.qfx --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	cmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")

	return cmd
}

// expandFiles resolves glob patterns, keeping plain paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err == nil {
			files = append(files, pattern)
		} else {
			slog.Warn("No files found matching pattern", "pattern", pattern)
		}
	}
	return files, nil
}

// parseStatements reads every file; unreadable files are logged and skipped.
func parseStatements(ctx context.Context, files []string) []model.TransactionDraft {
	parser := ofx.NewParser()

	var drafts []model.TransactionDraft
	for _, path := range files {
		f, err := os.Open(path) // #nosec G304
		if err != nil {
			slog.Error("Failed to open file", "file", path, "error", err)
			continue
		}

		statement, err := parser.ParseFile(ctx, f)
		_ = f.Close()
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", path, "error", err)
			continue
		}

		slog.Info("Processed file",
			"file", filepath.Base(path),
			"accounts", statement.Accounts,
			"transactions", len(statement.Drafts))
		drafts = append(drafts, statement.Drafts...)
	}
	return drafts
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	yes, _ := cmd.Flags().GetBool("yes")

	files, err := expandFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to import")
	}

	a, err := initAuthedApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	drafts := parseStatements(ctx, files)
	if len(drafts) == 0 {
		fmt.Println(cli.FormatWarning("No transactions found in any file")) //nolint:forbidigo // User-facing output
		return nil
	}

	existing, err := a.fetchTransactions(ctx)
	if err != nil {
		return err
	}
	fresh := ledger.NewImports(existing, drafts)

	fmt.Println(cli.FormatTitle(fmt.Sprintf("📁 %d transactions in %d files, %d new", len(drafts), len(files), len(fresh)))) //nolint:forbidigo // User-facing output
	if len(fresh) == 0 {
		fmt.Println(cli.FormatInfo("Everything is already in the ledger")) //nolint:forbidigo // User-facing output
		return nil
	}
	fmt.Println(cli.RenderTable([]string{"Date", "Description", "Category", "Method", "Reference", "Amount"}, draftRows(fresh))) //nolint:forbidigo // User-facing output

	if dryRun {
		fmt.Println(cli.FormatInfo("Dry run: nothing was saved")) //nolint:forbidigo // User-facing output
		return nil
	}

	ok, err := a.confirm(ctx, yes, fmt.Sprintf("Import %d transactions?", len(fresh)))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Operation canceled.") //nolint:forbidigo // User-facing output
		return nil
	}

	handler := cli.NewInterruptHandler(os.Stderr, "Import", "Run the import again to post the remaining transactions.")
	importCtx, stop := handler.HandleInterrupts(ctx)
	defer stop()

	imported, failed := a.postDrafts(importCtx, fresh)

	a.logActivity(ctx, storage.ActionImport, "transaction", "", fmt.Sprintf("%d of %d from %d files", imported, len(fresh), len(files)))

	if handler.WasInterrupted() {
		return fmt.Errorf("import interrupted after %d transactions", imported)
	}
	if failed > 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%d transactions failed; see the log for details", failed))) //nolint:forbidigo // User-facing output
	}
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("✓ Imported %d transactions", imported))) //nolint:forbidigo // User-facing output
	return nil
}

// postDrafts creates the transactions one by one, stopping when ctx ends.
func (a *app) postDrafts(ctx context.Context, drafts []model.TransactionDraft) (imported, failed int) {
	bar := cli.NewProgressBar(os.Stderr, len(drafts), "Importing transactions...")
	for i, d := range drafts {
		if ctx.Err() != nil {
			break
		}
		if err := a.client.SaveTransaction(ctx, "", d); err != nil {
			slog.Error("Failed to import transaction", "reference", d.Reference, "error", err)
			failed++
		} else {
			imported++
		}
		cli.SetProgress(bar, i+1)
	}
	return imported, failed
}

func draftRows(drafts []model.TransactionDraft) [][]string {
	rows := make([][]string, 0, len(drafts))
	for _, d := range drafts {
		amount := format.Money(d.Amount)
		if d.Type == model.TransactionExpense {
			amount = "-" + amount
		}
		rows = append(rows, []string{d.Date, d.Description, d.Category, d.Method, d.Reference, amount})
	}
	return rows
}
