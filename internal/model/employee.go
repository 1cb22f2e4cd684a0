package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidEmployee is returned when an employee draft fails validation.
var ErrInvalidEmployee = errors.New("invalid employee")

// EmployeeStatusActive marks employees included in salary totals.
const EmployeeStatusActive = "active"

var positionNames = map[string]string{
	"manager":    "Manager",
	"sales":      "Sales Executive",
	"technician": "Technician",
	"admin":      "Administrator",
	"driver":     "Driver",
	"other":      "Other",
}

var paymentMethodNames = map[string]string{
	"bank":  "Bank Transfer",
	"mpesa": "M-Pesa",
	"cash":  "Cash",
}

// FormatPosition returns the display name of a position code.
// Unknown codes are returned unchanged.
func FormatPosition(position string) string {
	if name, ok := positionNames[position]; ok {
		return name
	}
	return position
}

// FormatPaymentMethod returns the display name of a payment method code.
func FormatPaymentMethod(method string) string {
	if name, ok := paymentMethodNames[method]; ok {
		return name
	}
	return method
}

// Employee is a staff member on the payroll.
type Employee struct {
	ID             string  `json:"_id" yaml:"id"`
	FirstName      string  `json:"firstName" yaml:"firstName"`
	LastName       string  `json:"lastName" yaml:"lastName"`
	Position       string  `json:"position" yaml:"position"`
	PaymentMethod  string  `json:"paymentMethod" yaml:"paymentMethod"`
	Email          string  `json:"email" yaml:"email"`
	Phone          string  `json:"phone" yaml:"phone"`
	Status         string  `json:"status" yaml:"status"`
	BasicSalary    float64 `json:"basicSalary" yaml:"basicSalary"`
	CommissionRate float64 `json:"commissionRate" yaml:"commissionRate"`
}

// FullName joins first and last name.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Active reports whether the employee counts towards salary totals.
func (e Employee) Active() bool {
	return e.Status == EmployeeStatusActive
}

// EmployeeDraft is the payload used to create or update an employee.
type EmployeeDraft struct {
	FirstName      string  `json:"firstName" yaml:"firstName"`
	LastName       string  `json:"lastName" yaml:"lastName"`
	Position       string  `json:"position" yaml:"position"`
	PaymentMethod  string  `json:"paymentMethod" yaml:"paymentMethod"`
	Email          string  `json:"email" yaml:"email"`
	Phone          string  `json:"phone" yaml:"phone"`
	BasicSalary    float64 `json:"basicSalary" yaml:"basicSalary"`
	CommissionRate float64 `json:"commissionRate" yaml:"commissionRate"`
}

// DraftFromEmployee prefills a draft from an existing employee.
func DraftFromEmployee(e Employee) EmployeeDraft {
	return EmployeeDraft{
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Position:       e.Position,
		PaymentMethod:  e.PaymentMethod,
		Email:          e.Email,
		Phone:          e.Phone,
		BasicSalary:    e.BasicSalary,
		CommissionRate: e.CommissionRate,
	}
}

// Validate checks the required employee fields.
func (d EmployeeDraft) Validate() error {
	if strings.TrimSpace(d.FirstName) == "" || strings.TrimSpace(d.LastName) == "" {
		return fmt.Errorf("%w: first and last name are required", ErrInvalidEmployee)
	}
	if d.Position == "" {
		return fmt.Errorf("%w: position is required", ErrInvalidEmployee)
	}
	if d.BasicSalary < 0 || d.CommissionRate < 0 {
		return fmt.Errorf("%w: salary and commission rate cannot be negative", ErrInvalidEmployee)
	}
	return nil
}
