package sheets

import "github.com/Veraticus/malex-office/internal/model"

// RecordHeader is the column header row of the records tab.
var RecordHeader = []any{"Date", "Customer", "Type", "Document No", "Amount", "Facilitator", "Created By"}

// Report is everything written in one export.
type Report struct {
	Title   string
	Filter  string
	Records []model.Record
}

// TypeTotal is the count and amount of one record type.
type TypeTotal struct {
	Type   model.RecordType
	Count  int
	Amount float64
}

// Totals summarizes records per type in display order.
func Totals(records []model.Record) ([]TypeTotal, float64) {
	byType := make(map[model.RecordType]*TypeTotal, len(model.RecordTypes))
	totals := make([]TypeTotal, len(model.RecordTypes))
	for i, t := range model.RecordTypes {
		totals[i].Type = t
		byType[t] = &totals[i]
	}

	var grand float64
	for _, r := range records {
		grand += r.Amount
		if tt, ok := byType[r.Type()]; ok {
			tt.Count++
			tt.Amount += r.Amount
		}
	}
	return totals, grand
}
