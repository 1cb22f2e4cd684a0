package ledger

import (
	"strings"

	"github.com/Veraticus/malex-office/internal/model"
)

// All disables the type and category filters.
const All = "all"

// Filter selects transactions for display. Unlike the records view, it never
// changes the underlying list.
type Filter struct {
	Type     string
	Category string
	Date     string
}

// Apply returns the transactions matching every active dimension. Date
// matches the raw date field exactly.
func (f Filter) Apply(txs []model.Transaction) []model.Transaction {
	filtered := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.Type != "" && f.Type != All && string(tx.Type) != f.Type {
			continue
		}
		if f.Category != "" && f.Category != All && tx.Category != f.Category {
			continue
		}
		if f.Date != "" && tx.Date != f.Date {
			continue
		}
		filtered = append(filtered, tx)
	}
	return filtered
}

// NewImports drops drafts whose reference is already used by an existing
// transaction, so a statement can be imported more than once safely. Drafts
// without a reference are always kept.
func NewImports(existing []model.Transaction, drafts []model.TransactionDraft) []model.TransactionDraft {
	known := make(map[string]bool, len(existing))
	for _, tx := range existing {
		if ref := strings.TrimSpace(tx.Reference); ref != "" {
			known[ref] = true
		}
	}

	fresh := make([]model.TransactionDraft, 0, len(drafts))
	for _, d := range drafts {
		ref := strings.TrimSpace(d.Reference)
		if ref != "" {
			if known[ref] {
				continue
			}
			known[ref] = true
		}
		fresh = append(fresh, d)
	}
	return fresh
}
