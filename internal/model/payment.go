package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentSalary        = "salary"
	PaymentAdvance       = "advance"
	PaymentBonus         = "bonus"
	PaymentReimbursement = "reimbursement"

	MethodCash         = "cash"
	MethodBankTransfer = "bank_transfer"
	MethodUPI          = "upi"
	MethodCheque       = "cheque"
)

type Payment struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id" validate:"required"`
	EmployeeName string          `json:"employee_name,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Date         string          `json:"date" validate:"required,isodate"`
	Type         string          `json:"type" validate:"required,oneof=salary advance bonus reimbursement"`
	Method       string          `json:"method" validate:"required,oneof=cash bank_transfer upi cheque"`
	Period       string          `json:"period,omitempty" validate:"omitempty,period"`
	Reference    string          `json:"reference,omitempty" validate:"omitempty,max=50,reference"`
	Notes        string          `json:"notes,omitempty" validate:"max=200"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (p *Payment) Normalize() {
	p.EmployeeID = strings.TrimSpace(p.EmployeeID)
	p.Date = strings.TrimSpace(p.Date)
	p.Type = strings.ToLower(strings.TrimSpace(p.Type))
	p.Method = strings.ToLower(strings.TrimSpace(p.Method))
	p.Period = strings.TrimSpace(p.Period)
	p.Reference = strings.TrimSpace(p.Reference)
	p.Notes = strings.TrimSpace(p.Notes)
}

func (p *Payment) Validate(now time.Time) error {
	errs := validateStruct(p)

	checkAmount(errs, "amount", p.Amount)

	if !errs.Has("date") && isFutureDate(p.Date, now) {
		errs.Add("date", "cannot be in the future")
	}

	if p.Type == PaymentSalary && p.Period == "" {
		errs.Add("period", "is required for salary payments")
	}
	if !errs.Has("period") && p.Period > now.Format(PeriodLayout) {
		errs.Add("period", "cannot be in the future")
	}

	if p.RequiresReference() && p.Reference == "" {
		errs.Add("reference", "is required for cheque and bank_transfer payments")
	}

	return errs.OrNil()
}

// RequiresReference reports whether the method leaves a traceable reference.
func (p *Payment) RequiresReference() bool {
	return p.Method == MethodCheque || p.Method == MethodBankTransfer
}

func (p *Payment) IsSalary() bool {
	return p.Type == PaymentSalary
}

type PaymentFilter struct {
	EmployeeID string
	From       string
	To         string
	Type       string
	Method     string
	Period     string
}

func (f PaymentFilter) Validate() error {
	bad := checkRange(f.From, f.To)

	switch f.Type {
	case "", PaymentSalary, PaymentAdvance, PaymentBonus, PaymentReimbursement:
	default:
		bad = append(bad, "type")
	}
	switch f.Method {
	case "", MethodCash, MethodBankTransfer, MethodUPI, MethodCheque:
	default:
		bad = append(bad, "method")
	}
	if f.Period != "" {
		if _, err := time.Parse(PeriodLayout, f.Period); err != nil {
			bad = append(bad, "period")
		}
	}

	if len(bad) > 0 {
		return invalidParams(bad...)
	}
	return nil
}

type PaymentSummary struct {
	Count    int                        `json:"count"`
	Total    decimal.Decimal            `json:"total"`
	ByType   map[string]decimal.Decimal `json:"by_type"`
	ByMethod map[string]decimal.Decimal `json:"by_method"`
}

func NewPaymentSummary() *PaymentSummary {
	return &PaymentSummary{
		Total:    decimal.Zero,
		ByType:   map[string]decimal.Decimal{},
		ByMethod: map[string]decimal.Decimal{},
	}
}

func (s *PaymentSummary) Add(p Payment) {
	s.Count++
	s.Total = s.Total.Add(p.Amount)
	s.ByType[p.Type] = s.ByType[p.Type].Add(p.Amount)
	s.ByMethod[p.Method] = s.ByMethod[p.Method].Add(p.Amount)
}

type Dashboard struct {
	Date              string          `json:"date"`
	ActiveEmployees   int             `json:"active_employees"`
	InactiveEmployees int             `json:"inactive_employees"`
	Attendance        map[string]int  `json:"attendance"`
	Unmarked          int             `json:"unmarked"`
	MonthPayments     decimal.Decimal `json:"month_payments"`
	MonthPaymentCount int             `json:"month_payment_count"`
}
