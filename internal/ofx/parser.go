// Package ofx turns OFX/QFX bank statements into accounting transaction drafts.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/Veraticus/malex-office/internal/model"
)

// Payment methods assigned to imported entries.
const (
	MethodBank   = "bank"
	MethodCard   = "card"
	MethodCheque = "cheque"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// categoryByType maps OFX transaction types onto ledger categories.
var categoryByType = map[string]string{
	"INT":    "Interest",
	"DIV":    "Interest",
	"FEE":    "Bank Charges",
	"SRVCHG": "Bank Charges",
	"ATM":    "Cash Withdrawal",
}

// Statement is the parsed content of one OFX file.
type Statement struct {
	Accounts []string
	Drafts   []model.TransactionDraft
}

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper-case for ofxgo.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML exports sometimes drop the closing bracket of a bare tag line.
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseFile parses an OFX/QFX file. Debits become expenses and credits
// become income; the bank's FITID is kept as the reference.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) (Statement, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return Statement{}, fmt.Errorf("failed to read OFX file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Statement{}, err
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return Statement{}, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var stmt Statement
	accounts := make(map[string]bool)

	for _, msg := range resp.Bank {
		bank, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			continue
		}
		account := string(bank.BankAcctFrom.AcctID)
		accounts[account] = account != ""
		if bank.BankTranList != nil {
			stmt.Drafts = append(stmt.Drafts, p.convertAll(bank.BankTranList.Transactions, MethodBank)...)
		}
	}

	for _, msg := range resp.CreditCard {
		card, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok {
			continue
		}
		account := string(card.CCAcctFrom.AcctID)
		accounts[account] = account != ""
		if card.BankTranList != nil {
			stmt.Drafts = append(stmt.Drafts, p.convertAll(card.BankTranList.Transactions, MethodCard)...)
		}
	}

	for account, ok := range accounts {
		if ok {
			stmt.Accounts = append(stmt.Accounts, account)
		}
	}
	sort.Strings(stmt.Accounts)

	slog.Info("Parsed OFX file",
		"transactions", len(stmt.Drafts),
		"accounts", len(stmt.Accounts))

	return stmt, nil
}

func (p *Parser) convertAll(txs []ofxgo.Transaction, method string) []model.TransactionDraft {
	drafts := make([]model.TransactionDraft, 0, len(txs))
	for _, tx := range txs {
		drafts = append(drafts, p.convertTransaction(tx, method))
	}
	return drafts
}

// convertTransaction converts one OFX entry. OFX amounts are negative for debits.
func (p *Parser) convertTransaction(tx ofxgo.Transaction, method string) model.TransactionDraft {
	amount, _ := tx.TrnAmt.Float64()

	draft := model.TransactionDraft{
		Type:        model.TransactionIncome,
		Description: extractDescription(tx),
		Method:      method,
		Reference:   string(tx.FiTID),
		Date:        tx.DtPosted.Format("2006-01-02"),
		Amount:      amount,
	}
	if amount < 0 {
		draft.Type = model.TransactionExpense
		draft.Amount = -amount
	}

	if tx.CheckNum != "" {
		draft.Method = MethodCheque
		draft.Reference = "CHQ " + string(tx.CheckNum)
	}

	draft.Category = categoryByType[strings.ToUpper(tx.TrnType.String())]
	return draft
}

// extractDescription prefers the payee, then NAME, then MEMO when NAME is generic.
func extractDescription(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && (name == "" || isGenericDescription(name)) {
		name = strings.TrimSpace(string(tx.Memo))
	}

	upper := strings.ToUpper(name)
	for _, prefix := range []string{"POS PURCHASE ", "DEBIT CARD PURCHASE ", "ACH DEBIT ", "ACH CREDIT ", "MPESA PAYMENT ", "CHECK CARD "} {
		if strings.HasPrefix(upper, prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Drop a leading "MM/DD " stamp.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "DEPOSIT", "TRANSFER":
		return true
	}
	return false
}
