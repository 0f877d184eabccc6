package model

// Display blocks carry values already formatted for the admin screens.

type EmployeeDisplay struct {
	Name        string `json:"name"`
	Aadhar      string `json:"aadhar"`
	Phone       string `json:"phone"`
	Salary      string `json:"salary"`
	JoiningDate string `json:"joining_date"`
	Tenure      string `json:"tenure"`
	Status      string `json:"status"`
}

type EmployeeResponse struct {
	Employee
	Display EmployeeDisplay `json:"display"`
}

type AttendanceDisplay struct {
	Date        string `json:"date"`
	Status      string `json:"status"`
	WorkedHours string `json:"worked_hours,omitempty"`
}

type AttendanceResponse struct {
	Attendance
	Display AttendanceDisplay `json:"display"`
}

type PaymentDisplay struct {
	Amount string `json:"amount"`
	Date   string `json:"date"`
	Type   string `json:"type"`
	Method string `json:"method"`
	Period string `json:"period,omitempty"`
}

type PaymentResponse struct {
	Payment
	Display PaymentDisplay `json:"display"`
}

type PaymentSummaryDisplay struct {
	Total    string            `json:"total"`
	ByType   map[string]string `json:"by_type"`
	ByMethod map[string]string `json:"by_method"`
}

type PaymentSummaryResponse struct {
	*PaymentSummary
	Display PaymentSummaryDisplay `json:"display"`
}

type AttendanceSummaryResponse struct {
	*AttendanceSummary
	Display struct {
		Month       string `json:"month"`
		WorkedHours string `json:"worked_hours"`
	} `json:"display"`
}

type DashboardResponse struct {
	*Dashboard
	Display struct {
		Date          string `json:"date"`
		MonthPayments string `json:"month_payments"`
	} `json:"display"`
}
