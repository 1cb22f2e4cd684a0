package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Veraticus/malex-office/internal/model"
)

const (
	cyclesPath   = "/salary-cycles"
	paymentsPath = "/salary-payments"
)

// CurrentCycle returns the open salary cycle. A nil cycle with a nil error
// means no cycle is running.
func (c *Client) CurrentCycle(ctx context.Context) (*model.SalaryCycle, error) {
	var env envelope
	err := c.do(ctx, http.MethodGet, cyclesPath+"/current", nil, &env)

	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load current salary cycle: %w", err)
	}
	if !env.Success {
		return nil, nil
	}

	var cycle model.SalaryCycle
	if err := decodeData(env.Data, &cycle); err != nil {
		return nil, err
	}
	return &cycle, nil
}

// StartCycle opens a new salary cycle.
func (c *Client) StartCycle(ctx context.Context, req model.CycleRequest) (*model.SalaryCycle, error) {
	env, err := c.call(ctx, http.MethodPost, cyclesPath, req, "Error starting salary cycle")
	if err != nil {
		return nil, fmt.Errorf("failed to start salary cycle: %w", err)
	}
	return decodeCycle(env)
}

// UpdateCycleEntry changes one employee's commission, allowances, deductions
// and notes within a cycle and returns the updated cycle.
func (c *Client) UpdateCycleEntry(ctx context.Context, cycleID, entryID string, update model.CycleEntryUpdate) (*model.SalaryCycle, error) {
	path := cyclesPath + "/" + url.PathEscape(cycleID) + "/employees/" + url.PathEscape(entryID)
	env, err := c.call(ctx, http.MethodPut, path, update, "Error updating salary details")
	if err != nil {
		return nil, fmt.Errorf("failed to update cycle entry %s: %w", entryID, err)
	}
	return decodeCycle(env)
}

// ProcessCycle pays out a cycle and returns the backend's confirmation message.
func (c *Client) ProcessCycle(ctx context.Context, cycleID string) (string, error) {
	env, err := c.call(ctx, http.MethodPut, cyclesPath+"/"+url.PathEscape(cycleID)+"/process", nil, "Error processing payroll")
	if err != nil {
		return "", fmt.Errorf("failed to process salary cycle %s: %w", cycleID, err)
	}
	if env.Message == "" {
		return "Payroll processed successfully", nil
	}
	return env.Message, nil
}

// SalaryPayments lists processed payments for a year.
func (c *Client) SalaryPayments(ctx context.Context, year int) ([]model.SalaryPayment, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(year))

	env, err := c.call(ctx, http.MethodGet, paymentsPath+"?"+q.Encode(), nil, "Failed to load salary history")
	if err != nil {
		return nil, fmt.Errorf("failed to load salary history: %w", err)
	}

	payments := []model.SalaryPayment{}
	if err := decodeData(env.Data, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// PaymentStats returns per-month payment aggregates.
func (c *Client) PaymentStats(ctx context.Context) (model.PaymentStats, error) {
	env, err := c.call(ctx, http.MethodGet, paymentsPath+"/stats", nil, "Could not load commission stats")
	if err != nil {
		return model.PaymentStats{}, fmt.Errorf("failed to load payment stats: %w", err)
	}

	var stats model.PaymentStats
	if err := decodeData(env.Data, &stats); err != nil {
		return model.PaymentStats{}, err
	}
	return stats, nil
}

func decodeCycle(env envelope) (*model.SalaryCycle, error) {
	var cycle model.SalaryCycle
	if err := decodeData(env.Data, &cycle); err != nil {
		return nil, err
	}
	return &cycle, nil
}
