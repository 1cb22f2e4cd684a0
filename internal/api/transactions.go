package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Veraticus/malex-office/internal/model"
)

const transactionsPath = "/transactions"

// ListTransactions fetches all accounting transactions. The payload lives
// under "records" or "transactions" depending on the backend version.
func (c *Client) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, transactionsPath, nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return decodeCollection[model.Transaction](raw, "records", "transactions")
}

// GetTransaction fetches one transaction for editing.
func (c *Client) GetTransaction(ctx context.Context, id string) (model.Transaction, error) {
	env, err := c.call(ctx, http.MethodGet, transactionsPath+"/"+url.PathEscape(id), nil, "Error loading transaction")
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to get transaction %s: %w", id, err)
	}

	var tx model.Transaction
	raw := env.Transaction
	if len(raw) == 0 {
		raw = env.Data
	}
	if err := decodeData(raw, &tx); err != nil {
		return model.Transaction{}, err
	}
	return tx, nil
}

// SaveTransaction creates the transaction when id is empty and updates it otherwise.
func (c *Client) SaveTransaction(ctx context.Context, id string, draft model.TransactionDraft) error {
	method, path := http.MethodPost, transactionsPath
	if id != "" {
		method, path = http.MethodPut, transactionsPath+"/"+url.PathEscape(id)
	}

	if _, err := c.call(ctx, method, path, draft, "Error saving transaction"); err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

// DeleteTransaction removes a transaction.
func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	if _, err := c.call(ctx, http.MethodDelete, transactionsPath+"/"+url.PathEscape(id), nil, "Error deleting transaction"); err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", id, err)
	}
	return nil
}
