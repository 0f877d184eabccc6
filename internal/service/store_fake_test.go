package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/roksva123/go-bizadmin-backend/internal/apperror"
	"github.com/roksva123/go-bizadmin-backend/internal/model"
)

// memStore is an in-memory repository.Store for service tests.
type memStore struct {
	mu         sync.Mutex
	employees  map[string]model.Employee
	attendance map[string]model.Attendance
	payments   map[string]model.Payment
	admins     map[string]model.Admin

	failWith error
}

func newMemStore() *memStore {
	return &memStore{
		employees:  map[string]model.Employee{},
		attendance: map[string]model.Attendance{},
		payments:   map[string]model.Payment{},
		admins:     map[string]model.Admin{},
	}
}

func (m *memStore) Ping(context.Context) error          { return m.failWith }
func (m *memStore) RunMigrations(context.Context) error { return m.failWith }
func (m *memStore) Close(context.Context) error         { return nil }

func (m *memStore) GetAdminByUsername(_ context.Context, username string) (*model.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.admins[username]
	if !ok {
		return nil, apperror.EntityNotFound{Entity: "admin", ID: username}
	}
	return &a, nil
}

func (m *memStore) UpsertAdmin(_ context.Context, username, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a := m.admins[username]
	if a.ID == "" {
		a.ID = "admin-" + username
	}
	a.Username, a.PasswordHash = username, hash
	m.admins[username] = a
	return nil
}

func (m *memStore) CreateEmployee(_ context.Context, e *model.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return m.failWith
	}
	m.employees[e.ID] = *e
	return nil
}

func (m *memStore) GetEmployee(_ context.Context, id string) (*model.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return nil, m.failWith
	}
	e, ok := m.employees[id]
	if !ok {
		return nil, apperror.EntityNotFound{Entity: "employee", ID: id}
	}
	return &e, nil
}

func (m *memStore) FindEmployeeByAadhar(_ context.Context, aadhar string) (*model.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.employees {
		if e.AadharID == aadhar {
			return &e, nil
		}
	}
	return nil, apperror.EntityNotFound{Entity: "employee", ID: aadhar}
}

func (m *memStore) ListEmployees(_ context.Context, f model.EmployeeFilter) ([]model.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return nil, m.failWith
	}

	out := []model.Employee{}
	for _, e := range m.employees {
		if (f.Status == "" || e.Status == f.Status) &&
			(f.Department == "" || e.Department == f.Department) &&
			(f.Search == "" || strings.Contains(strings.ToLower(e.Name), strings.ToLower(f.Search))) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) UpdateEmployee(_ context.Context, e *model.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.employees[e.ID]; !ok {
		return apperror.EntityNotFound{Entity: "employee", ID: e.ID}
	}
	m.employees[e.ID] = *e
	return nil
}

func (m *memStore) DeleteEmployee(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.employees[id]; !ok {
		return apperror.EntityNotFound{Entity: "employee", ID: id}
	}
	delete(m.employees, id)
	return nil
}

func (m *memStore) CreateAttendance(_ context.Context, a *model.Attendance) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.attendance[a.ID]; ok {
		return apperror.EntityAlreadyExists{Entity: "attendance", ID: a.ID}
	}
	m.attendance[a.ID] = *a
	return nil
}

func (m *memStore) GetAttendance(_ context.Context, id string) (*model.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.attendance[id]
	if !ok {
		return nil, apperror.EntityNotFound{Entity: "attendance", ID: id}
	}
	return &a, nil
}

func inRange(date, from, to string) bool {
	return (from == "" || date >= from) && (to == "" || date <= to)
}

func (m *memStore) ListAttendance(_ context.Context, f model.AttendanceFilter) ([]model.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []model.Attendance{}
	for _, a := range m.attendance {
		if (f.EmployeeID == "" || a.EmployeeID == f.EmployeeID) &&
			(f.Status == "" || a.Status == f.Status) &&
			inRange(a.Date, f.From, f.To) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (m *memStore) UpdateAttendance(_ context.Context, a *model.Attendance) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.attendance[a.ID]; !ok {
		return apperror.EntityNotFound{Entity: "attendance", ID: a.ID}
	}
	m.attendance[a.ID] = *a
	return nil
}

func (m *memStore) DeleteAttendance(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.attendance[id]; !ok {
		return apperror.EntityNotFound{Entity: "attendance", ID: id}
	}
	delete(m.attendance, id)
	return nil
}

func (m *memStore) DeleteAttendanceByEmployee(_ context.Context, employeeID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, a := range m.attendance {
		if a.EmployeeID == employeeID {
			delete(m.attendance, id)
			n++
		}
	}
	return n, nil
}

func (m *memStore) CreatePayment(_ context.Context, p *model.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.payments[p.ID] = *p
	return nil
}

func (m *memStore) GetPayment(_ context.Context, id string) (*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.payments[id]
	if !ok {
		return nil, apperror.EntityNotFound{Entity: "payment", ID: id}
	}
	return &p, nil
}

func (m *memStore) FindSalaryPayment(_ context.Context, employeeID, period string) (*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.payments {
		if p.EmployeeID == employeeID && p.Period == period && p.IsSalary() {
			return &p, nil
		}
	}
	return nil, apperror.EntityNotFound{Entity: "salary payment", ID: employeeID + "/" + period}
}

func (m *memStore) ListPayments(_ context.Context, f model.PaymentFilter) ([]model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []model.Payment{}
	for _, p := range m.payments {
		if (f.EmployeeID == "" || p.EmployeeID == f.EmployeeID) &&
			(f.Type == "" || p.Type == f.Type) &&
			(f.Method == "" || p.Method == f.Method) &&
			(f.Period == "" || p.Period == f.Period) &&
			inRange(p.Date, f.From, f.To) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (m *memStore) UpdatePayment(_ context.Context, p *model.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.payments[p.ID]; !ok {
		return apperror.EntityNotFound{Entity: "payment", ID: p.ID}
	}
	m.payments[p.ID] = *p
	return nil
}

func (m *memStore) DeletePayment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.payments[id]; !ok {
		return apperror.EntityNotFound{Entity: "payment", ID: id}
	}
	delete(m.payments, id)
	return nil
}

func (m *memStore) DeletePaymentsByEmployee(_ context.Context, employeeID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, p := range m.payments {
		if p.EmployeeID == employeeID {
			delete(m.payments, id)
			n++
		}
	}
	return n, nil
}
