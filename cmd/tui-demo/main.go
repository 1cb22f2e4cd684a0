// Package main provides a demo program for the records browser
package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/malex-office/internal/model"
	"github.com/Veraticus/malex-office/internal/records"
	"github.com/Veraticus/malex-office/internal/tui"
)

// memoryBackend serves generated records and applies deletes in memory.
type memoryBackend struct {
	records []model.Record
	mu      sync.Mutex
}

func (b *memoryBackend) FetchAll(context.Context) ([]model.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.records), nil
}

func (b *memoryBackend) SaveRecord(context.Context, string, model.RecordDraft) error {
	return fmt.Errorf("the demo backend is read-only")
}

func (b *memoryBackend) DeleteRecord(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = slices.DeleteFunc(b.records, func(r model.Record) bool { return r.ID == id })
	return nil
}

func generate(count int, customers []string) []model.Record {
	start := time.Date(2024, time.January, 2, 9, 0, 0, 0, time.UTC)
	out := make([]model.Record, 0, count)
	for i := range count {
		r := model.Record{
			ID:           uuid.NewString(),
			Date:         start.AddDate(0, 0, i*3).Format("2006-01-02T15:04:05.000Z"),
			CustomerName: customers[i%len(customers)],
			Facilitator:  "Front Desk",
			CreatedBy:    "Demo",
			Amount:       float64(1500 + (i*7919)%48000),
		}
		switch model.RecordTypes[i%len(model.RecordTypes)] {
		case model.RecordInvoice:
			r.InvoiceNo = fmt.Sprintf("INV-%04d", i+1)
		case model.RecordCashSale:
			r.CashSaleNo = fmt.Sprintf("CS-%04d", i+1)
		case model.RecordQuotation:
			r.QuotationNo = fmt.Sprintf("QT-%04d", i+1)
		}
		out = append(out, r)
	}
	return out
}

func main() {
	ctx := context.Background()

	backend := &memoryBackend{records: generate(100, []string{
		"Acme Hardware",
		"Beta Ltd",
		"Gamma Motors",
		"Kilimani Pharmacy",
		"Nakuru Agrovet",
		"Riverside Hotel",
		"Savannah Logistics",
		"Tana Builders",
	})}

	view := tui.NewView()
	controller := records.NewController(backend,
		records.WithRenderer(view),
		records.WithErrorReporter(view))

	if err := tui.Run(ctx, controller, view, tui.WithUser("Demo User"), tui.WithSize(120, 40)); err != nil {
		// Use explicit error check to satisfy forbidigo
		_, _ = fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
