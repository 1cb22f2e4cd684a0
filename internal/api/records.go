package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Veraticus/malex-office/internal/model"
)

const recordsPath = "/records"

// ListRecords fetches the complete records collection. The endpoint returns a
// bare JSON array; {records: [...]} and {data: [...]} envelopes are accepted too.
func (c *Client) ListRecords(ctx context.Context) ([]model.Record, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, recordsPath, nil, &raw); err != nil {
		return nil, err
	}
	return decodeCollection[model.Record](raw, "records")
}

// FetchAll satisfies pager.Fetcher for the records cache.
func (c *Client) FetchAll(ctx context.Context) ([]model.Record, error) {
	return c.ListRecords(ctx)
}

// SaveRecord creates the record when id is empty and updates it otherwise.
func (c *Client) SaveRecord(ctx context.Context, id string, draft model.RecordDraft) error {
	method, path := http.MethodPost, recordsPath
	if id != "" {
		method, path = http.MethodPut, recordsPath+"/"+url.PathEscape(id)
	}

	if _, err := c.call(ctx, method, path, draft.Payload(), "Failed to save record"); err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

// DeleteRecord removes a record. Any 2xx answer counts as success.
func (c *Client) DeleteRecord(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, recordsPath+"/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete record %s: %w", id, err)
	}
	return nil
}

// decodeCollection accepts either a JSON array or an object holding the array
// under one of keys, falling back to "data".
func decodeCollection[T any](raw json.RawMessage, keys ...string) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return []T{}, nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("failed to decode collection: %w", err)
		}
		return items, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, fmt.Errorf("failed to decode collection: %w", err)
	}
	for _, key := range append(keys, "data") {
		if field, ok := obj[key]; ok && string(field) != "null" {
			var items []T
			if err := json.Unmarshal(field, &items); err != nil {
				return nil, fmt.Errorf("failed to decode %s: %w", key, err)
			}
			return items, nil
		}
	}
	return []T{}, nil
}
