package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/malex-office/internal/common"
	"github.com/Veraticus/malex-office/internal/format"
	"github.com/Veraticus/malex-office/internal/model"
)

// headerRows is the size of the title block.
const headerRows = 4

// ProgressFunc is told how many rows have been written so far.
type ProgressFunc func(written, total int)

// Writer exports records to a Google Sheet.
type Writer struct {
	service  *sheets.Service
	logger   *slog.Logger
	progress ProgressFunc
	clock    format.Clock
	config   Config
}

// NewWriter creates a new Google Sheets writer.
func NewWriter(ctx context.Context, config Config, clock format.Clock, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: service,
		clock:   clock,
		logger:  logger,
	}, nil
}

// OnProgress registers a callback invoked after every written batch.
func (w *Writer) OnProgress(fn ProgressFunc) {
	w.progress = fn
}

// Write replaces the sheet contents with the report and returns the
// spreadsheet URL.
func (w *Writer) Write(ctx context.Context, report Report) (string, error) {
	w.logger.Info("starting sheets export", "records", len(report.Records))

	spreadsheetID, url, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	retryOpts := common.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	if err := common.WithRetry(ctx, func() error {
		return classify(w.clearSheet(ctx, spreadsheetID))
	}, retryOpts); err != nil {
		return "", fmt.Errorf("failed to clear sheet: %w", err)
	}

	values := prepareReportValues(report, w.clock)

	for start := 0; start < len(values); start += w.config.BatchSize {
		end := min(start+w.config.BatchSize, len(values))
		err := common.WithRetry(ctx, func() error {
			return classify(w.writeBatch(ctx, spreadsheetID, start, values[start:end]))
		}, retryOpts)
		if err != nil {
			return "", fmt.Errorf("failed to write data: %w", err)
		}
		if w.progress != nil {
			w.progress(end, len(values))
		}
	}

	if w.config.EnableFormatting {
		err := common.WithRetry(ctx, func() error {
			return classify(w.applyFormatting(ctx, spreadsheetID, len(values)))
		}, retryOpts)
		if err != nil {
			// Formatting is cosmetic; the data is already written.
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("sheets export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(values))

	return url, nil
}

// classify marks rate limiting and server errors from the Sheets API as retryable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		retryable := apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500
		if apiErr.Code == http.StatusTooManyRequests {
			return &common.RetryableError{Err: fmt.Errorf("%w: %w", common.ErrRateLimit, err), Retryable: true}
		}
		return &common.RetryableError{Err: err, Retryable: retryable}
	}
	return err
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		token, err := oauthToken(config)
		if err != nil {
			return nil, err
		}
		tokenSource = oauthConfig(config, "").TokenSource(ctx, token)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, tokenSource)))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// getOrCreateSpreadsheet gets an existing spreadsheet or creates a new one.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, string, error) {
	if w.config.SpreadsheetID != "" {
		existing, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return "", "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return existing.SpreadsheetId, existing.SpreadsheetUrl, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: w.config.SheetTitle}},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created.SpreadsheetId, created.SpreadsheetUrl, nil
}

func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, w.config.SheetTitle+"!A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (w *Writer) writeBatch(ctx context.Context, spreadsheetID string, offset int, batch [][]any) error {
	rangeStr := fmt.Sprintf("%s!A%d", w.config.SheetTitle, offset+1)
	_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, rangeStr, &sheets.ValueRange{Values: batch}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write batch starting at row %d: %w", offset+1, err)
	}

	w.logger.Debug("wrote batch", "start_row", offset+1, "rows", len(batch))
	return nil
}

// prepareReportValues lays out the title block, per-type totals and the
// record table, newest records first.
func prepareReportValues(report Report, clock format.Clock) [][]any {
	totals, grand := Totals(report.Records)

	values := make([][]any, 0, headerRows+len(totals)+3+len(report.Records))
	values = append(values,
		[]any{report.Title, report.Filter},
		[]any{"Generated", time.Now().Format(format.DateTimeLayout)},
		[]any{},
		[]any{"Type", "Count", "Amount"},
	)
	for _, t := range totals {
		values = append(values, []any{t.Type.Label(), t.Count, t.Amount})
	}
	values = append(values,
		[]any{"Total", len(report.Records), grand},
		[]any{},
		RecordHeader,
	)

	records := append(report.Records[:0:0], report.Records...)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date > records[j].Date
	})

	for _, r := range records {
		values = append(values, []any{
			clock.DateTime(r.Date),
			r.CustomerName,
			r.Type().Label(),
			r.DocumentNo(),
			r.Amount,
			r.Facilitator,
			r.CreatedBy,
		})
	}

	return values
}

// applyFormatting bolds the title and table header and formats the amount column.
func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, totalRows int) error {
	sheetID, err := w.sheetID(ctx, spreadsheetID)
	if err != nil {
		return err
	}

	requests := []*sheets.Request{
		boldRow(sheetID, 0, 16),
		boldRow(sheetID, headerRows-1, 0),
		boldRow(sheetID, tableHeaderRow(), 0),
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      int64(totalRows),
					StartColumnIndex: 4,
					EndColumnIndex:   5,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						NumberFormat: &sheets.NumberFormat{
							Type:    "CURRENCY",
							Pattern: w.config.CurrencyPattern,
						},
					},
				},
				Fields: "userEnteredFormat.numberFormat",
			},
		},
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   int64(len(RecordHeader)),
				},
			},
		},
	}

	_, err = w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}

// tableHeaderRow is the zero-based row of RecordHeader: the title block,
// one row per type, the total row and a blank row precede it.
func tableHeaderRow() int64 {
	return int64(headerRows + len(model.RecordTypes) + 2)
}

func boldRow(sheetID, row int64, fontSize int64) *sheets.Request {
	textFormat := &sheets.TextFormat{Bold: true}
	if fontSize > 0 {
		textFormat.FontSize = fontSize
	}
	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:       sheetID,
				StartRowIndex: row,
				EndRowIndex:   row + 1,
			},
			Cell:   &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{TextFormat: textFormat}},
			Fields: "userEnteredFormat.textFormat",
		},
	}
}

func (w *Writer) sheetID(ctx context.Context, spreadsheetID string) (int64, error) {
	ss, err := w.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("unable to read spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == w.config.SheetTitle {
			return sh.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("%w: sheet %q", common.ErrNotFound, w.config.SheetTitle)
}
