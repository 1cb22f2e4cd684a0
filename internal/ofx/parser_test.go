package ofx

import (
	"context"
	"strings"
	"testing"

	"github.com/aclindsa/ofxgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/malex-office/internal/model"
)

const ofxHeader = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240601120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
`

const bankStatement = ofxHeader + `<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>KES
<BANKACCTFROM>
<BANKID>01100
<ACCTID>0112233445
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240501120000[0:GMT]
<DTEND>20240531120000[0:GMT]
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240503120000[0:GMT]
<TRNAMT>45000.00
<FITID>KCB0503001
<NAME>ACH CREDIT ACME LTD
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240510120000[0:GMT]
<TRNAMT>-3200.50
<FITID>KCB0510001
<NAME>DEBIT
<MEMO>KPLC ELECTRICITY
</STMTTRN>
<STMTTRN>
<TRNTYPE>FEE
<DTPOSTED>20240531120000[0:GMT]
<TRNAMT>-150.00
<FITID>KCB0531001
<NAME>LEDGER FEE
</STMTTRN>
<STMTTRN>
<TRNTYPE>CHECK
<DTPOSTED>20240520120000[0:GMT]
<TRNAMT>-12000.00
<FITID>KCB0520001
<CHECKNUM>000481
<NAME>CHEQUE 000481
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>29649.50
<DTASOF>20240531120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const cardStatement = ofxHeader + `<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>KES
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240501120000[0:GMT]
<DTEND>20240531120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240512120000[0:GMT]
<TRNAMT>-2499.00
<FITID>CC0512001
<NAME>05/12 OFFICE SUPPLIES LTD
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-2499.00
<DTASOF>20240531120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestParseFile(t *testing.T) {
	tests := []struct {
		name          string
		ofxData       string
		expectedCount int
		expectedError bool
	}{
		{name: "bank statement", ofxData: bankStatement, expectedCount: 4},
		{name: "credit card statement", ofxData: cardStatement, expectedCount: 1},
		{name: "leading blank lines", ofxData: "\n\n  " + cardStatement, expectedCount: 1},
		{name: "invalid OFX data", ofxData: "not valid OFX", expectedError: true},
		{name: "empty OFX", ofxData: "", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := NewParser().ParseFile(context.Background(), strings.NewReader(tt.ofxData))
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, stmt.Drafts, tt.expectedCount)
		})
	}
}

func TestParseBankStatement(t *testing.T) {
	stmt, err := NewParser().ParseFile(context.Background(), strings.NewReader(bankStatement))
	require.NoError(t, err)
	require.Len(t, stmt.Drafts, 4)
	assert.Equal(t, []string{"0112233445"}, stmt.Accounts)

	credit := stmt.Drafts[0]
	assert.Equal(t, model.TransactionIncome, credit.Type)
	assert.Equal(t, "ACME LTD", credit.Description)
	assert.InDelta(t, 45000.0, credit.Amount, 0.001)
	assert.Equal(t, "2024-05-03", credit.Date)
	assert.Equal(t, "KCB0503001", credit.Reference)
	assert.Equal(t, MethodBank, credit.Method)
	require.NoError(t, credit.Validate())

	debit := stmt.Drafts[1]
	assert.Equal(t, model.TransactionExpense, debit.Type)
	assert.Equal(t, "KPLC ELECTRICITY", debit.Description, "generic NAME falls back to MEMO")
	assert.InDelta(t, 3200.50, debit.Amount, 0.001)

	fee := stmt.Drafts[2]
	assert.Equal(t, "Bank Charges", fee.Category)

	cheque := stmt.Drafts[3]
	assert.Equal(t, MethodCheque, cheque.Method)
	assert.Equal(t, "CHQ 000481", cheque.Reference)
}

func TestParseCardStatement(t *testing.T) {
	stmt, err := NewParser().ParseFile(context.Background(), strings.NewReader(cardStatement))
	require.NoError(t, err)
	require.Len(t, stmt.Drafts, 1)

	draft := stmt.Drafts[0]
	assert.Equal(t, MethodCard, draft.Method)
	assert.Equal(t, "OFFICE SUPPLIES LTD", draft.Description, "date stamp stripped")
	assert.Equal(t, model.TransactionExpense, draft.Type)
}

func TestParseFile_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewParser().ParseFile(ctx, strings.NewReader(bankStatement))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractDescription(t *testing.T) {
	tests := []struct {
		name string
		tx   ofxgo.Transaction
		want string
	}{
		{name: "payee wins", tx: ofxgo.Transaction{Name: "POS 1234", Payee: &ofxgo.Payee{Name: "Naivas Supermarket"}}, want: "Naivas Supermarket"},
		{name: "prefix stripped", tx: ofxgo.Transaction{Name: "POS PURCHASE JAVA HOUSE"}, want: "JAVA HOUSE"},
		{name: "generic name uses memo", tx: ofxgo.Transaction{Name: "PAYMENT", Memo: "Landlord rent"}, want: "Landlord rent"},
		{name: "plain name", tx: ofxgo.Transaction{Name: "  Safaricom  "}, want: "Safaricom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractDescription(tt.tx))
		})
	}
}
