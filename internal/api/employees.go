package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Veraticus/malex-office/internal/model"
)

const employeesPath = "/employees"

// ListEmployees fetches every employee.
func (c *Client) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	env, err := c.call(ctx, http.MethodGet, employeesPath, nil, "Error loading employees")
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	employees := []model.Employee{}
	if err := decodeData(env.Data, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

// SaveEmployee creates the employee when id is empty and updates it otherwise.
func (c *Client) SaveEmployee(ctx context.Context, id string, draft model.EmployeeDraft) error {
	method, path := http.MethodPost, employeesPath
	if id != "" {
		method, path = http.MethodPut, employeesPath+"/"+url.PathEscape(id)
	}

	if _, err := c.call(ctx, method, path, draft, "Error saving employee"); err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

// DeleteEmployee removes an employee.
func (c *Client) DeleteEmployee(ctx context.Context, id string) error {
	if _, err := c.call(ctx, http.MethodDelete, employeesPath+"/"+url.PathEscape(id), nil, "Error deleting employee"); err != nil {
		return fmt.Errorf("failed to delete employee %s: %w", id, err)
	}
	return nil
}
