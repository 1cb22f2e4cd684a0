// Package export writes the records dataset to files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/malex-office/internal/format"
	"github.com/Veraticus/malex-office/internal/model"
)

// Format is an output file format.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// ErrUnknownFormat is returned for formats this package cannot write.
var ErrUnknownFormat = errors.New("unknown export format")

// SheetName is the worksheet name used in xlsx exports.
const SheetName = "Records"

// Headers are the column titles of tabular exports.
var Headers = []string{"Date", "Type", "Document No", "Customer", "Facilitator", "Created By", "Amount"}

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatCSV, FormatJSON, FormatYAML, FormatXLSX:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Row is one exported record with display values.
type Row struct {
	Date        string  `json:"date" yaml:"date"`
	Type        string  `json:"type" yaml:"type"`
	DocumentNo  string  `json:"documentNo" yaml:"documentNo"`
	Customer    string  `json:"customer" yaml:"customer"`
	Facilitator string  `json:"facilitator" yaml:"facilitator"`
	CreatedBy   string  `json:"createdBy" yaml:"createdBy"`
	Amount      float64 `json:"amount" yaml:"amount"`
}

// Rows converts records to display rows, rendering dates with clock.
func Rows(records []model.Record, clock format.Clock) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, Row{
			Date:        clock.DateTime(r.Date),
			Type:        r.Type().Label(),
			DocumentNo:  r.DocumentNo(),
			Customer:    r.CustomerName,
			Facilitator: r.Facilitator,
			CreatedBy:   r.CreatedBy,
			Amount:      r.Amount,
		})
	}
	return rows
}

func (r Row) strings() []string {
	return []string{
		r.Date,
		r.Type,
		r.DocumentNo,
		r.Customer,
		r.Facilitator,
		r.CreatedBy,
		strconv.FormatFloat(r.Amount, 'f', 2, 64),
	}
}

// Write encodes rows to w in the given format.
func Write(w io.Writer, f Format, rows []Row) error {
	switch f {
	case FormatCSV:
		return writeCSV(w, rows)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	case FormatXLSX:
		return writeXLSX(w, rows)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

func writeCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row.strings()); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{row.Date, row.Type, row.DocumentNo, row.Customer, row.Facilitator, row.CreatedBy, row.Amount}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := styleXLSX(f, len(rows)); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func styleXLSX(f *excelize.File, rowCount int) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "G1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	if rowCount > 0 {
		// Built-in format 4 is "#,##0.00".
		money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
		if err != nil {
			return fmt.Errorf("failed to create amount style: %w", err)
		}
		last, err := excelize.CoordinatesToCellName(7, rowCount+1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, "G2", last, money); err != nil {
			return fmt.Errorf("failed to style amounts: %w", err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 22); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "B", "G", 16); err != nil {
		return err
	}

	return f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
