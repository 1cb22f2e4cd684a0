// Package records drives the records view: filters, pagination and the
// create/update/delete round trips that resynchronize the cached dataset.
package records

import (
	"strings"

	"github.com/Veraticus/malex-office/internal/model"
	"github.com/Veraticus/malex-office/internal/pager"
)

// All is the selector value that disables the type and customer filters.
const All = "all"

// Filter holds the four filter controls of the records view. Type and
// Customer are inactive when empty or All; Search and Date when empty.
type Filter struct {
	Type     string
	Search   string
	Date     string
	Customer string
}

// Active reports whether any dimension constrains the dataset.
func (f Filter) Active() bool {
	return len(f.Predicates()) > 0
}

// Predicates returns one predicate per active dimension.
func (f Filter) Predicates() []pager.Predicate[model.Record] {
	var preds []pager.Predicate[model.Record]
	if isSet(f.Type) {
		preds = append(preds, ByType(model.RecordType(f.Type)))
	}
	if f.Search != "" {
		preds = append(preds, BySearch(f.Search))
	}
	if f.Date != "" {
		preds = append(preds, ByDatePrefix(f.Date))
	}
	if isSet(f.Customer) {
		preds = append(preds, ByCustomer(f.Customer))
	}
	return preds
}

func isSet(v string) bool {
	return v != "" && v != All
}

// ByType keeps records whose document number field for t is set. An unknown
// type keeps nothing.
func ByType(t model.RecordType) pager.Predicate[model.Record] {
	return func(r model.Record) bool {
		switch t {
		case model.RecordInvoice:
			return r.InvoiceNo != ""
		case model.RecordCashSale:
			return r.CashSaleNo != ""
		case model.RecordQuotation:
			return r.QuotationNo != ""
		}
		return false
	}
}

// BySearch keeps records where query occurs, case-insensitively, in the
// customer name, document number, facilitator or creator.
func BySearch(query string) pager.Predicate[model.Record] {
	q := strings.ToLower(query)
	return func(r model.Record) bool {
		for _, field := range []string{r.CustomerName, r.DocumentNo(), r.Facilitator, r.CreatedBy} {
			if strings.Contains(strings.ToLower(field), q) {
				return true
			}
		}
		return false
	}
}

// ByDatePrefix keeps records whose raw date starts with prefix, so both
// "2024-05" and "2024-05-13" work.
func ByDatePrefix(prefix string) pager.Predicate[model.Record] {
	return func(r model.Record) bool {
		return strings.HasPrefix(r.Date, prefix)
	}
}

// ByCustomer keeps records of exactly one customer.
func ByCustomer(name string) pager.Predicate[model.Record] {
	return func(r model.Record) bool {
		return r.CustomerName == name
	}
}
