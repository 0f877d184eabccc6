package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/roksva123/go-bizadmin-backend/internal/apperror"
	"github.com/roksva123/go-bizadmin-backend/internal/events"
	"github.com/roksva123/go-bizadmin-backend/internal/model"
	"github.com/roksva123/go-bizadmin-backend/internal/repository"
)

// MaxBulkEmployees caps a single bulk attendance request.
const MaxBulkEmployees = 500

type AttendanceService struct {
	store  repository.Store
	events events.Publisher
	logger *zap.Logger
	now    Clock
}

func NewAttendanceService(store repository.Store, pub events.Publisher, logger *zap.Logger) *AttendanceService {
	return &AttendanceService{store: store, events: pub, logger: logger, now: time.Now}
}

// Mark records one day of attendance. The record ID is employeeID_date, so a
// second mark for the same employee and day fails with EntityAlreadyExists.
func (s *AttendanceService) Mark(ctx context.Context, a *model.Attendance) (*model.Attendance, error) {
	now := s.now()

	a.Normalize()
	if err := a.Validate(now); err != nil {
		return nil, err
	}

	emp, err := referencedEmployee(ctx, s.store, a.EmployeeID)
	if err != nil {
		return nil, err
	}

	if a.Date < emp.JoiningDate {
		return nil, model.ValidationErrors{"date": "cannot be before the employee's joining date"}
	}

	a.AssignID()
	a.EmployeeName = emp.Name

	_, err = s.store.GetAttendance(ctx, a.ID)
	switch {
	case err == nil:
		return nil, apperror.EntityAlreadyExists{Entity: "attendance", ID: a.ID}
	case !isNotFound(err):
		return nil, err
	}

	a.CreatedAt = now.UTC()
	a.UpdatedAt = a.CreatedAt

	if err := s.store.CreateAttendance(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("attendance marked", zap.String("id", a.ID), zap.String("status", a.Status))
	publish(s.events, events.CollectionAttendance, events.ActionCreated, a.ID, a)

	return a, nil
}

// MarkBulk marks the same day and status for many employees. Each employee
// gets its own result; an existing record is reported as a duplicate. Only a
// storage failure aborts the batch.
func (s *AttendanceService) MarkBulk(ctx context.Context, req model.BulkAttendanceRequest) ([]model.BulkAttendanceResult, error) {
	ids := uniqueIDs(req.EmployeeIDs)
	switch {
	case len(ids) == 0:
		return nil, model.ValidationErrors{"employee_ids": "is required"}
	case len(ids) > MaxBulkEmployees:
		return nil, model.ValidationErrors{"employee_ids": "must contain at most 500 employees"}
	}

	req.Date = strings.TrimSpace(req.Date)

	results := make([]model.BulkAttendanceResult, 0, len(ids))
	for _, id := range ids {
		a := &model.Attendance{
			EmployeeID: id,
			Date:       req.Date,
			Status:     req.Status,
			CheckIn:    req.CheckIn,
			CheckOut:   req.CheckOut,
			Notes:      req.Notes,
		}

		res := model.BulkAttendanceResult{EmployeeID: id, ID: model.AttendanceID(id, req.Date)}

		created, err := s.Mark(ctx, a)

		var dbErr apperror.DB
		switch {
		case err == nil:
			res.ID = created.ID
			res.Result = model.BulkCreated
		case isAlreadyExists(err):
			res.Result = model.BulkDuplicate
		case errors.As(err, &dbErr):
			return results, err
		default:
			res.Result = model.BulkFailed
			res.Error = err.Error()
		}

		results = append(results, res)
	}

	return results, nil
}

func (s *AttendanceService) Get(ctx context.Context, id string) (*model.Attendance, error) {
	if _, _, err := model.ParseAttendanceID(id); err != nil {
		return nil, apperror.InvalidParam{Param: []string{"id"}}
	}
	return s.store.GetAttendance(ctx, id)
}

func (s *AttendanceService) List(ctx context.Context, f model.AttendanceFilter) ([]model.Attendance, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return s.store.ListAttendance(ctx, f)
}

// Update changes status, times and notes. Employee and date identify the
// record and cannot change.
func (s *AttendanceService) Update(ctx context.Context, id string, a *model.Attendance) (*model.Attendance, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	a.Normalize()

	errs := model.ValidationErrors{}
	if a.EmployeeID != "" && a.EmployeeID != current.EmployeeID {
		errs.Add("employee_id", "cannot be changed")
	}
	if a.Date != "" && a.Date != current.Date {
		errs.Add("date", "cannot be changed")
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	a.ID = current.ID
	a.EmployeeID = current.EmployeeID
	a.EmployeeName = current.EmployeeName
	a.Date = current.Date

	now := s.now()
	if err := a.Validate(now); err != nil {
		return nil, err
	}

	a.CreatedAt = current.CreatedAt
	a.UpdatedAt = now.UTC()

	if err := s.store.UpdateAttendance(ctx, a); err != nil {
		return nil, err
	}

	publish(s.events, events.CollectionAttendance, events.ActionUpdated, a.ID, a)

	return a, nil
}

func (s *AttendanceService) Delete(ctx context.Context, id string) error {
	if _, _, err := model.ParseAttendanceID(id); err != nil {
		return apperror.InvalidParam{Param: []string{"id"}}
	}

	if err := s.store.DeleteAttendance(ctx, id); err != nil {
		return err
	}

	s.logger.Info("attendance deleted", zap.String("id", id))
	publish(s.events, events.CollectionAttendance, events.ActionDeleted, id, nil)

	return nil
}

// MonthlySummary counts an employee's attendance for a YYYY-MM month.
func (s *AttendanceService) MonthlySummary(ctx context.Context, employeeID, month string) (*model.AttendanceSummary, error) {
	from, to, err := model.MonthRange(month)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	records, err := s.store.ListAttendance(ctx, model.AttendanceFilter{EmployeeID: employeeID, From: from, To: to})
	if err != nil {
		return nil, err
	}

	summary := &model.AttendanceSummary{EmployeeID: employeeID, Month: month}
	for _, a := range records {
		summary.Add(a)
	}

	return summary, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
