package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/malex-office/internal/cli"
	"github.com/Veraticus/malex-office/internal/common"
	"github.com/Veraticus/malex-office/internal/config"
	"github.com/Veraticus/malex-office/internal/export"
	"github.com/Veraticus/malex-office/internal/model"
	"github.com/Veraticus/malex-office/internal/records"
	"github.com/Veraticus/malex-office/internal/sheets"
	"github.com/Veraticus/malex-office/internal/storage"
)

// formatSheets sends the export to Google Sheets instead of a file.
const formatSheets = "sheets"

func recordsExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export records to a file or Google Sheets",
		Long: `Export the records matching the filters.

Formats: csv, json, yaml and xlsx write to --out (stdout when omitted, except
xlsx which defaults to records.xlsx); sheets replaces the configured Google
Sheet.

Examples:
  malex records export --format xlsx --out may.xlsx --date 2024-05
  malex records export --format csv --type invoice > invoices.csv
  malex records export --format sheets`,
		Args: cobra.NoArgs,
		RunE: runRecordsExport,
	}

	addRecordFilterFlags(cmd)
	cmd.Flags().StringP("format", "f", string(export.FormatCSV), "export format (csv, json, yaml, xlsx, sheets)")
	cmd.Flags().String("out", "", "output file")

	return cmd
}

func runRecordsExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	rawFormat, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")
	offline, _ := cmd.Flags().GetBool("offline")

	toSheets := strings.EqualFold(rawFormat, formatSheets)
	var fileFormat export.Format
	if !toSheets {
		f, err := export.ParseFormat(rawFormat)
		if err != nil {
			return err
		}
		fileFormat = f
	}

	filter, err := recordFilterFromFlags(cmd)
	if err != nil {
		return err
	}

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
	items := controller.Dataset()

	if len(items) == 0 {
		fmt.Fprintln(os.Stderr, cli.FormatWarning("No records match the filters")) //nolint:forbidigo // User-facing output
		return nil
	}

	var destination string
	if toSheets {
		destination, err = a.exportToSheets(ctx, filter, items)
	} else {
		destination, err = a.exportToFile(fileFormat, out, items)
	}
	if err != nil {
		return err
	}

	a.logActivity(ctx, storage.ActionExport, "records", "", fmt.Sprintf("%d records to %s", len(items), destination))
	if destination != "stdout" {
		fmt.Fprintln(os.Stderr, cli.FormatSuccess(fmt.Sprintf("✓ Exported %d records to %s", len(items), destination))) //nolint:forbidigo // User-facing output
	}
	return nil
}

func (a *app) exportToFile(f export.Format, out string, items []model.Record) (string, error) {
	if out == "" && f == export.FormatXLSX {
		out = "records.xlsx"
	}
	rows := export.Rows(items, a.clock)

	if out == "" || out == "-" {
		return "stdout", export.Write(a.out, f, rows)
	}

	path := config.ExpandPath(out)
	file, err := os.Create(path) // #nosec G304
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := export.Write(file, f, rows); err != nil {
		_ = file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

func (a *app) exportToSheets(ctx context.Context, filter records.Filter, items []model.Record) (string, error) {
	cfg := config.LoadSheetsConfig(viper.GetViper())
	if err := cfg.Validate(); err != nil {
		return "", common.NewUserError("Google Sheets is not configured; see malex sheets auth", err)
	}

	writer, err := sheets.NewWriter(ctx, cfg, a.clock, slog.Default())
	if err != nil {
		return "", err
	}

	var bar *progressbar.ProgressBar
	writer.OnProgress(func(written, total int) {
		if bar == nil {
			bar = cli.NewProgressBar(os.Stderr, total, "Writing to Google Sheets...")
		}
		cli.SetProgress(bar, written)
	})

	url, err := writer.Write(ctx, sheets.Report{
		Title:   "Malex Office Records",
		Filter:  describeFilter(filter),
		Records: items,
	})
	if err != nil {
		return "", err
	}
	return url, nil
}
