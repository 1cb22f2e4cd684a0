package model

import (
	"errors"
	"fmt"
	"strings"
)

// RecordType identifies which kind of business document a record is.
type RecordType string

// Record types. The wire value of each matches the filter values used by the console.
const (
	RecordInvoice   RecordType = "invoice"
	RecordCashSale  RecordType = "cashSale"
	RecordQuotation RecordType = "quotation"
)

// RecordTypes lists every record type in display order.
var RecordTypes = []RecordType{RecordInvoice, RecordCashSale, RecordQuotation}

// ErrInvalidRecord is returned when a record draft fails validation.
var ErrInvalidRecord = errors.New("invalid record")

// ParseRecordType converts a user supplied type name into a RecordType.
func ParseRecordType(s string) (RecordType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "invoice":
		return RecordInvoice, nil
	case "cashsale", "cash-sale", "cash_sale":
		return RecordCashSale, nil
	case "quotation", "quote":
		return RecordQuotation, nil
	}
	return "", fmt.Errorf("%w: unknown record type %q", ErrInvalidRecord, s)
}

// Label returns the capitalized badge text for the type.
func (t RecordType) Label() string {
	if t == "" {
		return ""
	}
	s := string(t)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Record is one invoice, cash sale or quotation as served by the records endpoint.
// Exactly one of the document number fields is expected to be set.
type Record struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"`
	Time         string  `json:"time,omitempty"`
	CustomerName string  `json:"customerName"`
	Facilitator  string  `json:"facilitator"`
	CreatedBy    string  `json:"createdBy"`
	InvoiceNo    string  `json:"invoiceNo,omitempty"`
	CashSaleNo   string  `json:"cashSaleNo,omitempty"`
	QuotationNo  string  `json:"quotationNo,omitempty"`
	Amount       float64 `json:"amount"`
}

// Type derives the record type from whichever document number is set.
// Records with no document number report an empty type; records with
// several set report the first in invoice, cash sale, quotation order.
func (r Record) Type() RecordType {
	switch {
	case r.InvoiceNo != "":
		return RecordInvoice
	case r.CashSaleNo != "":
		return RecordCashSale
	case r.QuotationNo != "":
		return RecordQuotation
	}
	return ""
}

// DocumentNo returns the record's document number, whichever kind it is.
func (r Record) DocumentNo() string {
	switch {
	case r.InvoiceNo != "":
		return r.InvoiceNo
	case r.CashSaleNo != "":
		return r.CashSaleNo
	}
	return r.QuotationNo
}

// RecordDraft is the payload sent to create or update a record.
type RecordDraft struct {
	Type         RecordType
	Date         string
	Time         string
	CustomerName string
	Facilitator  string
	CreatedBy    string
	DocumentNo   string
	Amount       float64
}

// Validate checks the required fields of a draft.
func (d RecordDraft) Validate() error {
	var missing []string
	if d.Type == "" {
		missing = append(missing, "type")
	}
	if strings.TrimSpace(d.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(d.CustomerName) == "" {
		missing = append(missing, "customer")
	}
	if strings.TrimSpace(d.DocumentNo) == "" {
		missing = append(missing, "document number")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidRecord, strings.Join(missing, ", "))
	}
	if d.Amount < 0 {
		return fmt.Errorf("%w: amount cannot be negative", ErrInvalidRecord)
	}
	return nil
}

// Payload builds the JSON body for the draft, placing the document number
// under the field that matches its type.
func (d RecordDraft) Payload() map[string]any {
	payload := map[string]any{
		"date":         d.Date,
		"time":         d.Time,
		"customerName": d.CustomerName,
		"facilitator":  d.Facilitator,
		"amount":       d.Amount,
		"createdBy":    d.CreatedBy,
	}

	switch d.Type {
	case RecordInvoice:
		payload["invoiceNo"] = d.DocumentNo
	case RecordCashSale:
		payload["cashSaleNo"] = d.DocumentNo
	case RecordQuotation:
		payload["quotationNo"] = d.DocumentNo
	}

	return payload
}

// DraftFromRecord prefills a draft from an existing record for editing.
func DraftFromRecord(r Record) RecordDraft {
	date := r.Date
	if len(date) > 10 {
		date = date[:10]
	}
	return RecordDraft{
		Type:         r.Type(),
		Date:         date,
		Time:         r.Time,
		CustomerName: r.CustomerName,
		Facilitator:  r.Facilitator,
		CreatedBy:    r.CreatedBy,
		DocumentNo:   r.DocumentNo(),
		Amount:       r.Amount,
	}
}
