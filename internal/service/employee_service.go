package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roksva123/go-bizadmin-backend/internal/apperror"
	"github.com/roksva123/go-bizadmin-backend/internal/events"
	"github.com/roksva123/go-bizadmin-backend/internal/format"
	"github.com/roksva123/go-bizadmin-backend/internal/model"
	"github.com/roksva123/go-bizadmin-backend/internal/repository"
)

type EmployeeService struct {
	store  repository.Store
	events events.Publisher
	logger *zap.Logger
	now    Clock
}

func NewEmployeeService(store repository.Store, pub events.Publisher, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{store: store, events: pub, logger: logger, now: time.Now}
}

func (s *EmployeeService) Create(ctx context.Context, e *model.Employee) (*model.Employee, error) {
	now := s.now()

	e.Normalize()
	if err := e.Validate(now); err != nil {
		return nil, err
	}

	if err := s.ensureUniqueAadhar(ctx, e.AadharID, ""); err != nil {
		return nil, err
	}

	e.ID = uuid.NewString()
	e.CreatedAt = now.UTC()
	e.UpdatedAt = e.CreatedAt

	if err := s.store.CreateEmployee(ctx, e); err != nil {
		return nil, err
	}

	s.logger.Info("employee created", zap.String("id", e.ID), zap.String("name", e.Name))
	publish(s.events, events.CollectionEmployees, events.ActionCreated, e.ID, e)

	return e, nil
}

func (s *EmployeeService) Get(ctx context.Context, id string) (*model.Employee, error) {
	return s.store.GetEmployee(ctx, id)
}

func (s *EmployeeService) List(ctx context.Context, f model.EmployeeFilter) ([]model.Employee, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return s.store.ListEmployees(ctx, f)
}

// Update replaces the editable fields of employee id. ID and creation time are kept.
func (s *EmployeeService) Update(ctx context.Context, id string, e *model.Employee) (*model.Employee, error) {
	current, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()

	e.Normalize()
	if err := e.Validate(now); err != nil {
		return nil, err
	}

	if err := s.ensureUniqueAadhar(ctx, e.AadharID, id); err != nil {
		return nil, err
	}

	if e.JoiningDate > current.JoiningDate {
		if err := s.ensureNoAttendanceBefore(ctx, id, e.JoiningDate); err != nil {
			return nil, err
		}
	}

	e.ID = current.ID
	e.CreatedAt = current.CreatedAt
	e.UpdatedAt = now.UTC()

	if err := s.store.UpdateEmployee(ctx, e); err != nil {
		return nil, err
	}

	s.logger.Info("employee updated", zap.String("id", e.ID))
	publish(s.events, events.CollectionEmployees, events.ActionUpdated, e.ID, e)

	return e, nil
}

// Delete removes an employee. While attendance or payments still reference
// the employee the call fails with apperror.Conflict unless force is set,
// in which case those records are removed first.
func (s *EmployeeService) Delete(ctx context.Context, id string, force bool) error {
	if _, err := s.store.GetEmployee(ctx, id); err != nil {
		return err
	}

	attendance, err := s.store.ListAttendance(ctx, model.AttendanceFilter{EmployeeID: id})
	if err != nil {
		return err
	}

	payments, err := s.store.ListPayments(ctx, model.PaymentFilter{EmployeeID: id})
	if err != nil {
		return err
	}

	if !force && (len(attendance) > 0 || len(payments) > 0) {
		return apperror.Conflict{Reason: fmt.Sprintf(
			"employee has %d attendance records and %d payments; delete with force=true to remove them too",
			len(attendance), len(payments))}
	}

	if force {
		removedAttendance, err := s.store.DeleteAttendanceByEmployee(ctx, id)
		if err != nil {
			return err
		}

		removedPayments, err := s.store.DeletePaymentsByEmployee(ctx, id)
		if err != nil {
			return err
		}

		if removedAttendance > 0 || removedPayments > 0 {
			s.logger.Warn("removed employee records",
				zap.String("employee_id", id),
				zap.Int64("attendance", removedAttendance),
				zap.Int64("payments", removedPayments))
		}
	}

	if err := s.store.DeleteEmployee(ctx, id); err != nil {
		return err
	}

	s.logger.Info("employee deleted", zap.String("id", id))
	publish(s.events, events.CollectionEmployees, events.ActionDeleted, id, nil)

	return nil
}

// ensureUniqueAadhar fails when another employee than selfID holds aadhar.
func (s *EmployeeService) ensureUniqueAadhar(ctx context.Context, aadhar, selfID string) error {
	existing, err := s.store.FindEmployeeByAadhar(ctx, aadhar)
	switch {
	case isNotFound(err):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return apperror.EntityAlreadyExists{Entity: "employee with aadhar", ID: format.MaskAadhar(aadhar)}
	}
	return nil
}

// ensureNoAttendanceBefore refuses a joining date later than attendance
// already recorded for the employee.
func (s *EmployeeService) ensureNoAttendanceBefore(ctx context.Context, id, joiningDate string) error {
	records, err := s.store.ListAttendance(ctx, model.AttendanceFilter{EmployeeID: id, To: joiningDate})
	if err != nil {
		return err
	}

	for _, a := range records {
		if a.Date < joiningDate {
			return model.ValidationErrors{"joining_date": "cannot be after attendance recorded on " + a.Date}
		}
	}
	return nil
}
