package handlers

import (
	"context"

	"github.com/roksva123/go-bizadmin-backend/internal/model"
	"github.com/roksva123/go-bizadmin-backend/internal/service"
)

// The interfaces below are satisfied by the types in package service.

type AuthService interface {
	Login(ctx context.Context, username, password string) (*model.LoginResponse, error)
	GoogleLogin(ctx context.Context, idToken string) (*model.LoginResponse, error)
	Logout(session *service.Session)
}

type EmployeeService interface {
	Create(ctx context.Context, e *model.Employee) (*model.Employee, error)
	Get(ctx context.Context, id string) (*model.Employee, error)
	List(ctx context.Context, f model.EmployeeFilter) ([]model.Employee, error)
	Update(ctx context.Context, id string, e *model.Employee) (*model.Employee, error)
	Delete(ctx context.Context, id string, force bool) error
}

type AttendanceService interface {
	Mark(ctx context.Context, a *model.Attendance) (*model.Attendance, error)
	MarkBulk(ctx context.Context, req model.BulkAttendanceRequest) ([]model.BulkAttendanceResult, error)
	Get(ctx context.Context, id string) (*model.Attendance, error)
	List(ctx context.Context, f model.AttendanceFilter) ([]model.Attendance, error)
	Update(ctx context.Context, id string, a *model.Attendance) (*model.Attendance, error)
	Delete(ctx context.Context, id string) error
	MonthlySummary(ctx context.Context, employeeID, month string) (*model.AttendanceSummary, error)
}

type PaymentService interface {
	Record(ctx context.Context, p *model.Payment) (*model.Payment, error)
	Get(ctx context.Context, id string) (*model.Payment, error)
	List(ctx context.Context, f model.PaymentFilter) ([]model.Payment, error)
	Update(ctx context.Context, id string, p *model.Payment) (*model.Payment, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context, f model.PaymentFilter) (*model.PaymentSummary, error)
}

type DashboardService interface {
	Get(ctx context.Context) (*model.Dashboard, error)
}

var (
	_ AuthService       = (*service.AuthService)(nil)
	_ EmployeeService   = (*service.EmployeeService)(nil)
	_ AttendanceService = (*service.AttendanceService)(nil)
	_ PaymentService    = (*service.PaymentService)(nil)
	_ DashboardService  = (*service.DashboardService)(nil)
	_ RevocationChecker = (*service.AuthService)(nil)
)
