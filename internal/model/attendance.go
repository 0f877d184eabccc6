package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceHalfDay = "half_day"
	AttendanceLeave   = "leave"
)

type Attendance struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employee_id" validate:"required"`
	EmployeeName string    `json:"employee_name,omitempty"`
	Date         string    `json:"date" validate:"required,isodate"`
	Status       string    `json:"status" validate:"required,oneof=present absent half_day leave"`
	CheckIn      string    `json:"check_in,omitempty" validate:"omitempty,hhmm"`
	CheckOut     string    `json:"check_out,omitempty" validate:"omitempty,hhmm"`
	Notes        string    `json:"notes,omitempty" validate:"max=200"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AttendanceID is the deterministic key of an employee's attendance for one day.
func AttendanceID(employeeID, date string) string {
	return employeeID + "_" + date
}

// ParseAttendanceID splits an ID built by AttendanceID.
func ParseAttendanceID(id string) (employeeID, date string, err error) {
	i := strings.LastIndex(id, "_")
	if i <= 0 || i == len(id)-1 {
		return "", "", fmt.Errorf("malformed attendance id %q", id)
	}

	employeeID, date = id[:i], id[i+1:]
	if _, err := time.Parse(DateLayout, date); err != nil {
		return "", "", fmt.Errorf("malformed attendance id %q: %w", id, err)
	}

	return employeeID, date, nil
}

func (a *Attendance) Normalize() {
	a.EmployeeID = strings.TrimSpace(a.EmployeeID)
	a.Date = strings.TrimSpace(a.Date)
	a.Status = strings.ToLower(strings.TrimSpace(a.Status))
	a.CheckIn = strings.TrimSpace(a.CheckIn)
	a.CheckOut = strings.TrimSpace(a.CheckOut)
	a.Notes = strings.TrimSpace(a.Notes)
}

// AssignID sets ID from EmployeeID and Date.
func (a *Attendance) AssignID() {
	a.ID = AttendanceID(a.EmployeeID, a.Date)
}

func (a *Attendance) Validate(now time.Time) error {
	errs := validateStruct(a)

	if !errs.Has("date") && isFutureDate(a.Date, now) {
		errs.Add("date", "cannot be in the future")
	}

	hasTimes := a.CheckIn != "" || a.CheckOut != ""
	switch {
	case hasTimes && !a.tracksTime() && !errs.Has("status"):
		field := "check_in"
		if a.CheckIn == "" {
			field = "check_out"
		}
		errs.Add(field, "is not allowed when status is "+a.Status)
	case a.CheckOut != "" && a.CheckIn == "":
		errs.Add("check_out", "requires check_in")
	case a.CheckIn != "" && a.CheckOut != "" && !errs.Has("check_in") && !errs.Has("check_out"):
		if a.CheckOut <= a.CheckIn {
			errs.Add("check_out", "must be after check_in")
		}
	}

	return errs.OrNil()
}

func (a *Attendance) tracksTime() bool {
	return a.Status == AttendancePresent || a.Status == AttendanceHalfDay
}

// WorkedMinutes is the span between check-in and check-out, 0 when either is missing.
func (a *Attendance) WorkedMinutes() int {
	in, err := time.Parse(ClockLayout, a.CheckIn)
	if err != nil {
		return 0
	}
	out, err := time.Parse(ClockLayout, a.CheckOut)
	if err != nil || !out.After(in) {
		return 0
	}
	return int(out.Sub(in).Minutes())
}

type AttendanceFilter struct {
	EmployeeID string
	From       string
	To         string
	Status     string
}

func (f AttendanceFilter) Validate() error {
	bad := checkRange(f.From, f.To)
	switch f.Status {
	case "", AttendancePresent, AttendanceAbsent, AttendanceHalfDay, AttendanceLeave:
	default:
		bad = append(bad, "status")
	}
	if len(bad) > 0 {
		return invalidParams(bad...)
	}
	return nil
}

type BulkAttendanceRequest struct {
	Date        string   `json:"date"`
	Status      string   `json:"status"`
	EmployeeIDs []string `json:"employee_ids"`
	CheckIn     string   `json:"check_in,omitempty"`
	CheckOut    string   `json:"check_out,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

const (
	BulkCreated   = "created"
	BulkDuplicate = "duplicate"
	BulkFailed    = "failed"
)

type BulkAttendanceResult struct {
	EmployeeID string `json:"employee_id"`
	ID         string `json:"id,omitempty"`
	Result     string `json:"result"`
	Error      string `json:"error,omitempty"`
}

type AttendanceSummary struct {
	EmployeeID        string  `json:"employee_id"`
	Month             string  `json:"month"`
	Present           int     `json:"present"`
	Absent            int     `json:"absent"`
	HalfDay           int     `json:"half_day"`
	Leave             int     `json:"leave"`
	MarkedDays        int     `json:"marked_days"`
	WorkedMinutes     int     `json:"worked_minutes"`
	AttendancePercent float64 `json:"attendance_percent"`
}

// Add folds one record into the summary.
func (s *AttendanceSummary) Add(a Attendance) {
	s.MarkedDays++
	switch a.Status {
	case AttendancePresent:
		s.Present++
	case AttendanceAbsent:
		s.Absent++
	case AttendanceHalfDay:
		s.HalfDay++
	case AttendanceLeave:
		s.Leave++
	}
	s.WorkedMinutes += a.WorkedMinutes()

	if s.MarkedDays > 0 {
		attended := float64(s.Present) + 0.5*float64(s.HalfDay)
		s.AttendancePercent = roundTo(attended/float64(s.MarkedDays)*100, 2)
	}
}
