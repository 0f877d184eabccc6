package repository

import (
	"context"

	"github.com/roksva123/go-bizadmin-backend/internal/model"
)

type EmployeeStore interface {
	CreateEmployee(ctx context.Context, e *model.Employee) error
	GetEmployee(ctx context.Context, id string) (*model.Employee, error)
	FindEmployeeByAadhar(ctx context.Context, aadhar string) (*model.Employee, error)
	ListEmployees(ctx context.Context, f model.EmployeeFilter) ([]model.Employee, error)
	UpdateEmployee(ctx context.Context, e *model.Employee) error
	DeleteEmployee(ctx context.Context, id string) error
}

type AttendanceStore interface {
	CreateAttendance(ctx context.Context, a *model.Attendance) error
	GetAttendance(ctx context.Context, id string) (*model.Attendance, error)
	ListAttendance(ctx context.Context, f model.AttendanceFilter) ([]model.Attendance, error)
	UpdateAttendance(ctx context.Context, a *model.Attendance) error
	DeleteAttendance(ctx context.Context, id string) error
	DeleteAttendanceByEmployee(ctx context.Context, employeeID string) (int64, error)
}

type PaymentStore interface {
	CreatePayment(ctx context.Context, p *model.Payment) error
	GetPayment(ctx context.Context, id string) (*model.Payment, error)
	FindSalaryPayment(ctx context.Context, employeeID, period string) (*model.Payment, error)
	ListPayments(ctx context.Context, f model.PaymentFilter) ([]model.Payment, error)
	UpdatePayment(ctx context.Context, p *model.Payment) error
	DeletePayment(ctx context.Context, id string) error
	DeletePaymentsByEmployee(ctx context.Context, employeeID string) (int64, error)
}

type AdminStore interface {
	GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error)
	UpsertAdmin(ctx context.Context, username, passwordHash string) error
}

// Store is the full persistence surface used by the server.
type Store interface {
	EmployeeStore
	AttendanceStore
	PaymentStore
	AdminStore

	Ping(ctx context.Context) error
	RunMigrations(ctx context.Context) error
	Close(ctx context.Context) error
}
