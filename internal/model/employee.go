package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EmployeeActive   = "active"
	EmployeeInactive = "inactive"
)

type Employee struct {
	ID          string          `json:"id"`
	Name        string          `json:"name" validate:"required,min=2,max=100,personname"`
	Age         int             `json:"age" validate:"required,gte=18,lte=65"`
	Gender      string          `json:"gender" validate:"required,oneof=male female other"`
	Phone       string          `json:"phone" validate:"required,phone10"`
	Email       string          `json:"email,omitempty" validate:"omitempty,max=100,email"`
	AadharID    string          `json:"aadhar_id" validate:"required,aadhar"`
	Address     string          `json:"address,omitempty" validate:"max=250"`
	Designation string          `json:"designation" validate:"required,min=2,max=50"`
	Department  string          `json:"department,omitempty" validate:"max=50"`
	Salary      decimal.Decimal `json:"salary"`
	JoiningDate string          `json:"joining_date" validate:"required,isodate"`
	Status      string          `json:"status" validate:"required,oneof=active inactive"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Normalize cleans user input before validation.
func (e *Employee) Normalize() {
	e.Name = collapseSpaces(e.Name)
	e.Gender = strings.ToLower(strings.TrimSpace(e.Gender))
	e.Phone = digitsOnly(e.Phone)
	e.Email = strings.ToLower(strings.TrimSpace(e.Email))
	e.AadharID = digitsOnly(e.AadharID)
	e.Address = strings.TrimSpace(e.Address)
	e.Designation = collapseSpaces(e.Designation)
	e.Department = collapseSpaces(e.Department)
	e.JoiningDate = strings.TrimSpace(e.JoiningDate)
	e.Status = strings.ToLower(strings.TrimSpace(e.Status))
	if e.Status == "" {
		e.Status = EmployeeActive
	}
}

// Validate checks every field rule and returns ValidationErrors listing all problems.
func (e *Employee) Validate(now time.Time) error {
	errs := validateStruct(e)

	checkAmount(errs, "salary", e.Salary)

	if !errs.Has("joining_date") && isFutureDate(e.JoiningDate, now) {
		errs.Add("joining_date", "cannot be in the future")
	}

	return errs.OrNil()
}

func (e *Employee) IsActive() bool {
	return e.Status == EmployeeActive
}

type EmployeeFilter struct {
	Status     string
	Department string
	// Search matches a case-insensitive substring of the name.
	Search string
}

func (f EmployeeFilter) Validate() error {
	if f.Status != "" && f.Status != EmployeeActive && f.Status != EmployeeInactive {
		return invalidParams("status")
	}
	return nil
}
