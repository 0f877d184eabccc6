package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

func validEmployee() Employee {
	return Employee{
		Name:        "Asha Verma",
		Age:         30,
		Gender:      "female",
		Phone:       "9876543210",
		Email:       "asha@example.com",
		AadharID:    "123456789012",
		Designation: "Accountant",
		Department:  "Finance",
		Salary:      decimal.NewFromInt(35000),
		JoiningDate: "2024-07-01",
		Status:      EmployeeActive,
	}
}

func TestEmployee_Validate(t *testing.T) {
	tests := []struct {
		desc   string
		mutate func(*Employee)
		fields map[string]string
	}{
		{"valid", func(*Employee) {}, nil},
		{"age below range", func(e *Employee) { e.Age = 17 }, map[string]string{"age": "must be at least 18"}},
		{"age above range", func(e *Employee) { e.Age = 66 }, map[string]string{"age": "must be at most 65"}},
		{"age boundaries", func(e *Employee) { e.Age = 65 }, nil},
		{"aadhar 11 digits", func(e *Employee) { e.AadharID = "12345678901" }, map[string]string{"aadhar_id": "must be exactly 12 digits"}},
		{"aadhar letters", func(e *Employee) { e.AadharID = "12345678901a" }, map[string]string{"aadhar_id": "must be exactly 12 digits"}},
		{"phone short", func(e *Employee) { e.Phone = "98765" }, map[string]string{"phone": "must be exactly 10 digits"}},
		{"bad email", func(e *Employee) { e.Email = "nope" }, map[string]string{"email": "must be a valid email address"}},
		{"empty email allowed", func(e *Employee) { e.Email = "" }, nil},
		{"name digits", func(e *Employee) { e.Name = "R2D2" }, map[string]string{"name": "may contain only letters, spaces, dots, apostrophes and hyphens"}},
		{"name too short", func(e *Employee) { e.Name = "A" }, map[string]string{"name": "must be at least 2 characters"}},
		{"bad gender", func(e *Employee) { e.Gender = "x" }, map[string]string{"gender": "must be one of: male, female, other"}},
		{"zero salary", func(e *Employee) { e.Salary = decimal.Zero }, map[string]string{"salary": "must be greater than 0"}},
		{"huge salary", func(e *Employee) { e.Salary = decimal.NewFromInt(10_000_001) }, map[string]string{"salary": "must not exceed 10000000"}},
		{"salary fractions", func(e *Employee) { e.Salary = decimal.RequireFromString("100.123") }, map[string]string{"salary": "must have at most 2 decimal places"}},
		{"future joining", func(e *Employee) { e.JoiningDate = "2026-10-16" }, map[string]string{"joining_date": "cannot be in the future"}},
		{"joining today", func(e *Employee) { e.JoiningDate = "2026-10-15" }, nil},
		{"joining malformed", func(e *Employee) { e.JoiningDate = "15/10/2026" }, map[string]string{"joining_date": "must be a date in YYYY-MM-DD format"}},
		{"missing designation", func(e *Employee) { e.Designation = "" }, map[string]string{"designation": "is required"}},
	}

	for i, tc := range tests {
		e := validEmployee()
		tc.mutate(&e)

		err := e.Validate(testNow)
		if tc.fields == nil {
			assert.NoError(t, err, "TEST[%d], failed.\n%s", i, tc.desc)
			continue
		}

		var verr ValidationErrors
		require.ErrorAs(t, err, &verr, "TEST[%d], failed.\n%s", i, tc.desc)
		assert.Equal(t, ValidationErrors(tc.fields), verr, "TEST[%d], failed.\n%s", i, tc.desc)
	}
}

func TestEmployee_ValidateReportsAllProblems(t *testing.T) {
	e := Employee{}
	e.Normalize()

	err := e.Validate(testNow)

	var verr ValidationErrors
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"name", "age", "gender", "phone", "aadhar_id", "designation", "salary", "joining_date"} {
		assert.True(t, verr.Has(field), "expected problem for %s", field)
	}
	assert.False(t, verr.Has("status"), "status defaults to active")
}

func TestEmployee_Normalize(t *testing.T) {
	e := Employee{
		Name:     "  asha   verma ",
		Gender:   " Female",
		Phone:    "98765 43210",
		Email:    " Asha@Example.COM ",
		AadharID: "1234 5678-9012",
	}

	e.Normalize()

	assert.Equal(t, "asha verma", e.Name)
	assert.Equal(t, "female", e.Gender)
	assert.Equal(t, "9876543210", e.Phone)
	assert.Equal(t, "asha@example.com", e.Email)
	assert.Equal(t, "123456789012", e.AadharID)
	assert.Equal(t, EmployeeActive, e.Status)
}

func TestValidationErrors_Error(t *testing.T) {
	v := ValidationErrors{"b": "is bad", "a": "is required"}
	assert.Equal(t, "validation failed: a is required; b is bad", v.Error())
	assert.Nil(t, ValidationErrors{}.OrNil())
}

func TestEmployeeFilter_Validate(t *testing.T) {
	assert.NoError(t, EmployeeFilter{Status: "active"}.Validate())
	assert.Error(t, EmployeeFilter{Status: "fired"}.Validate())
}
