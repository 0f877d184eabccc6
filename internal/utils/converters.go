package utils

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/roksva123/go-bizadmin-backend/internal/format"
	"github.com/roksva123/go-bizadmin-backend/internal/model"
)

// ConvertEmployeeToResponse adds display values. Unless revealAadhar is set
// the Aadhar number is masked in both the raw and the display field.
func ConvertEmployeeToResponse(e model.Employee, now time.Time, revealAadhar bool) model.EmployeeResponse {
	aadhar := format.MaskAadhar(e.AadharID)
	if revealAadhar {
		aadhar = format.GroupAadhar(e.AadharID)
	} else {
		e.AadharID = aadhar
	}

	return model.EmployeeResponse{
		Employee: e,
		Display: model.EmployeeDisplay{
			Name:        format.Title(e.Name),
			Aadhar:      aadhar,
			Phone:       format.Phone(e.Phone),
			Salary:      format.Currency(e.Salary),
			JoiningDate: format.Date(e.JoiningDate),
			Tenure:      format.Tenure(e.JoiningDate, now),
			Status:      format.Label(e.Status),
		},
	}
}

func ConvertEmployeesToResponse(emps []model.Employee, now time.Time, revealAadhar bool) []model.EmployeeResponse {
	resp := make([]model.EmployeeResponse, 0, len(emps))
	for _, e := range emps {
		resp = append(resp, ConvertEmployeeToResponse(e, now, revealAadhar))
	}
	return resp
}

func ConvertAttendanceToResponse(a model.Attendance) model.AttendanceResponse {
	resp := model.AttendanceResponse{
		Attendance: a,
		Display: model.AttendanceDisplay{
			Date:   format.Date(a.Date),
			Status: format.Label(a.Status),
		},
	}
	if m := a.WorkedMinutes(); m > 0 {
		resp.Display.WorkedHours = format.Minutes(m)
	}
	return resp
}

func ConvertAttendancesToResponse(records []model.Attendance) []model.AttendanceResponse {
	resp := make([]model.AttendanceResponse, 0, len(records))
	for _, a := range records {
		resp = append(resp, ConvertAttendanceToResponse(a))
	}
	return resp
}

func ConvertPaymentToResponse(p model.Payment) model.PaymentResponse {
	resp := model.PaymentResponse{
		Payment: p,
		Display: model.PaymentDisplay{
			Amount: format.Currency(p.Amount),
			Date:   format.Date(p.Date),
			Type:   format.Label(p.Type),
			Method: format.Label(p.Method),
		},
	}
	if p.Period != "" {
		resp.Display.Period = format.Period(p.Period)
	}
	return resp
}

func ConvertPaymentsToResponse(payments []model.Payment) []model.PaymentResponse {
	resp := make([]model.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		resp = append(resp, ConvertPaymentToResponse(p))
	}
	return resp
}

func ConvertPaymentSummaryToResponse(s *model.PaymentSummary) model.PaymentSummaryResponse {
	return model.PaymentSummaryResponse{
		PaymentSummary: s,
		Display: model.PaymentSummaryDisplay{
			Total:    format.Currency(s.Total),
			ByType:   currencies(s.ByType),
			ByMethod: currencies(s.ByMethod),
		},
	}
}

func ConvertAttendanceSummaryToResponse(s *model.AttendanceSummary) model.AttendanceSummaryResponse {
	resp := model.AttendanceSummaryResponse{AttendanceSummary: s}
	resp.Display.Month = format.Period(s.Month)
	resp.Display.WorkedHours = format.Minutes(s.WorkedMinutes)
	return resp
}

func ConvertDashboardToResponse(d *model.Dashboard) model.DashboardResponse {
	resp := model.DashboardResponse{Dashboard: d}
	resp.Display.Date = format.Date(d.Date)
	resp.Display.MonthPayments = format.Currency(d.MonthPayments)
	return resp
}

func currencies(m map[string]decimal.Decimal) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[format.Label(k)] = format.Currency(v)
	}
	return out
}
