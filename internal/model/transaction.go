package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TransactionType separates money coming in from money going out.
type TransactionType string

// Transaction types.
const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// ErrInvalidTransaction is returned when a transaction draft fails validation.
var ErrInvalidTransaction = errors.New("invalid transaction")

// Transaction is a single accounting entry served by the transactions endpoint.
type Transaction struct {
	ID          string          `json:"_id" yaml:"id"`
	Date        string          `json:"date" yaml:"date"`
	Type        TransactionType `json:"type" yaml:"type"`
	Description string          `json:"description" yaml:"description"`
	Method      string          `json:"method" yaml:"method"`
	Status      string          `json:"status" yaml:"status"`
	Category    string          `json:"category" yaml:"category"`
	Reference   string          `json:"reference,omitempty" yaml:"reference,omitempty"`
	Amount      float64         `json:"amount" yaml:"amount"`
}

// Time parses the transaction date. Both RFC 3339 timestamps and plain
// YYYY-MM-DD dates are accepted; the zero time is returned otherwise.
func (t Transaction) Time() time.Time {
	return ParseTimestamp(t.Date)
}

// SignedAmount formats the amount with a leading + for income and - for expenses.
func (t Transaction) SignedAmount() float64 {
	if t.Type == TransactionIncome {
		return t.Amount
	}
	return -t.Amount
}

// TransactionDraft is the payload used to create or update a transaction.
type TransactionDraft struct {
	Type        TransactionType `json:"type" yaml:"type"`
	Description string          `json:"description" yaml:"description"`
	Method      string          `json:"method" yaml:"method"`
	Reference   string          `json:"reference" yaml:"reference"`
	Category    string          `json:"category,omitempty" yaml:"category,omitempty"`
	Date        string          `json:"date,omitempty" yaml:"date,omitempty"`
	Amount      float64         `json:"amount" yaml:"amount"`
}

// Validate checks the draft before it is sent to the backend.
func (d TransactionDraft) Validate() error {
	if d.Type != TransactionIncome && d.Type != TransactionExpense {
		return fmt.Errorf("%w: type must be income or expense, got %q", ErrInvalidTransaction, d.Type)
	}
	if strings.TrimSpace(d.Description) == "" {
		return fmt.Errorf("%w: missing description", ErrInvalidTransaction)
	}
	if d.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidTransaction)
	}
	return nil
}

// ParseTimestamp parses the date formats the backend emits.
func ParseTimestamp(s string) time.Time {
	layouts := []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}
