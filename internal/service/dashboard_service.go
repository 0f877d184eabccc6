package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roksva123/go-bizadmin-backend/internal/model"
	"github.com/roksva123/go-bizadmin-backend/internal/repository"
)

type DashboardService struct {
	store repository.Store
	now   Clock
}

func NewDashboardService(store repository.Store) *DashboardService {
	return &DashboardService{store: store, now: time.Now}
}

// Get summarises today's headcount and attendance and this month's payments.
func (s *DashboardService) Get(ctx context.Context) (*model.Dashboard, error) {
	now := s.now()
	today := now.Format(model.DateLayout)

	employees, err := s.store.ListEmployees(ctx, model.EmployeeFilter{})
	if err != nil {
		return nil, err
	}

	d := &model.Dashboard{
		Date:          today,
		Attendance:    map[string]int{},
		MonthPayments: decimal.Zero,
	}

	active := make(map[string]bool, len(employees))
	for _, e := range employees {
		if e.IsActive() {
			d.ActiveEmployees++
			active[e.ID] = true
		} else {
			d.InactiveEmployees++
		}
	}

	records, err := s.store.ListAttendance(ctx, model.AttendanceFilter{From: today, To: today})
	if err != nil {
		return nil, err
	}

	marked := 0
	for _, a := range records {
		d.Attendance[a.Status]++
		if active[a.EmployeeID] {
			marked++
		}
	}
	d.Unmarked = d.ActiveEmployees - marked

	from, to, err := model.MonthRange(now.Format(model.PeriodLayout))
	if err != nil {
		return nil, err
	}

	payments, err := s.store.ListPayments(ctx, model.PaymentFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}

	for _, p := range payments {
		d.MonthPayments = d.MonthPayments.Add(p.Amount)
		d.MonthPaymentCount++
	}

	return d, nil
}
