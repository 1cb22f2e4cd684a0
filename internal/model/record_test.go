package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_Type(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   RecordType
		docNo  string
	}{
		{name: "invoice only", record: Record{InvoiceNo: "INV-1"}, want: RecordInvoice, docNo: "INV-1"},
		{name: "cash sale only", record: Record{CashSaleNo: "CS-7"}, want: RecordCashSale, docNo: "CS-7"},
		{name: "quotation only", record: Record{QuotationNo: "Q-3"}, want: RecordQuotation, docNo: "Q-3"},
		{name: "no document number", record: Record{}, want: "", docNo: ""},
		{name: "several set takes invoice first", record: Record{InvoiceNo: "INV-2", QuotationNo: "Q-9"}, want: RecordInvoice, docNo: "INV-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.Type())
			assert.Equal(t, tt.docNo, tt.record.DocumentNo())
		})
	}
}

func TestRecordType_Label(t *testing.T) {
	assert.Equal(t, "Invoice", RecordInvoice.Label())
	assert.Equal(t, "CashSale", RecordCashSale.Label())
	assert.Equal(t, "Quotation", RecordQuotation.Label())
	assert.Empty(t, RecordType("").Label())
}

func TestParseRecordType(t *testing.T) {
	for input, want := range map[string]RecordType{
		"invoice":   RecordInvoice,
		"CashSale":  RecordCashSale,
		"cash-sale": RecordCashSale,
		"quote":     RecordQuotation,
	} {
		got, err := ParseRecordType(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseRecordType("receipt")
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestRecordDraft_Payload(t *testing.T) {
	draft := RecordDraft{
		Type:         RecordCashSale,
		Date:         "2024-05-13",
		Time:         "10:30",
		CustomerName: "Acme",
		Facilitator:  "Jane",
		CreatedBy:    "admin",
		DocumentNo:   "CS-100",
		Amount:       2500,
	}

	payload := draft.Payload()
	assert.Equal(t, "CS-100", payload["cashSaleNo"])
	assert.NotContains(t, payload, "invoiceNo")
	assert.NotContains(t, payload, "quotationNo")
	assert.Equal(t, 2500.0, payload["amount"])
	assert.Equal(t, "Acme", payload["customerName"])
}

func TestRecordDraft_Validate(t *testing.T) {
	valid := RecordDraft{Type: RecordInvoice, Date: "2024-01-01", CustomerName: "Acme", DocumentNo: "INV-1"}
	require.NoError(t, valid.Validate())

	missing := RecordDraft{Type: RecordInvoice}
	err := missing.Validate()
	require.ErrorIs(t, err, ErrInvalidRecord)
	assert.Contains(t, err.Error(), "date")
	assert.Contains(t, err.Error(), "customer")
	assert.Contains(t, err.Error(), "document number")

	negative := valid
	negative.Amount = -1
	assert.ErrorIs(t, negative.Validate(), ErrInvalidRecord)
}

func TestDraftFromRecord(t *testing.T) {
	r := Record{
		ID:           "r1",
		Date:         "2024-05-13T09:00:00.000Z",
		Time:         "09:00",
		CustomerName: "Acme",
		QuotationNo:  "Q-1",
		Amount:       10,
	}

	draft := DraftFromRecord(r)
	assert.Equal(t, "2024-05-13", draft.Date)
	assert.Equal(t, RecordQuotation, draft.Type)
	assert.Equal(t, "Q-1", draft.DocumentNo)
}
