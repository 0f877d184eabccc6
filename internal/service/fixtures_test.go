package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roksva123/go-bizadmin-backend/internal/events"
	"github.com/roksva123/go-bizadmin-backend/internal/model"
)

var testNow = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(ev events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Collection+":"+ev.Action)
	}
	return out
}

func newEmployee(name, aadhar string) *model.Employee {
	return &model.Employee{
		Name:        name,
		Age:         30,
		Gender:      "female",
		Phone:       "98765 43210",
		AadharID:    aadhar,
		Designation: "Accountant",
		Salary:      decimal.NewFromInt(35000),
		JoiningDate: "2024-07-01",
	}
}

// seedEmployee stores an employee directly, bypassing the service.
func seedEmployee(t *testing.T, store *memStore, id, name string) *model.Employee {
	t.Helper()

	e := newEmployee(name, "1234567890"+id[len(id)-2:])
	e.ID = id
	e.Normalize()
	require.NoError(t, store.CreateEmployee(context.Background(), e))

	return e
}

func newEmployeeService(store *memStore, rec *recorder) *EmployeeService {
	s := NewEmployeeService(store, rec, zap.NewNop())
	s.now = fixedClock
	return s
}

func newAttendanceService(store *memStore, rec *recorder) *AttendanceService {
	s := NewAttendanceService(store, rec, zap.NewNop())
	s.now = fixedClock
	return s
}

func newPaymentService(store *memStore, rec *recorder) *PaymentService {
	s := NewPaymentService(store, rec, zap.NewNop())
	s.now = fixedClock
	return s
}
