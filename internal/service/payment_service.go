package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roksva123/go-bizadmin-backend/internal/apperror"
	"github.com/roksva123/go-bizadmin-backend/internal/events"
	"github.com/roksva123/go-bizadmin-backend/internal/model"
	"github.com/roksva123/go-bizadmin-backend/internal/repository"
)

type PaymentService struct {
	store  repository.Store
	events events.Publisher
	logger *zap.Logger
	now    Clock
}

func NewPaymentService(store repository.Store, pub events.Publisher, logger *zap.Logger) *PaymentService {
	return &PaymentService{store: store, events: pub, logger: logger, now: time.Now}
}

// Record stores a payment. An employee is paid salary at most once per period.
func (s *PaymentService) Record(ctx context.Context, p *model.Payment) (*model.Payment, error) {
	now := s.now()

	p.Normalize()
	if err := p.Validate(now); err != nil {
		return nil, err
	}

	emp, err := referencedEmployee(ctx, s.store, p.EmployeeID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureSingleSalary(ctx, p, ""); err != nil {
		return nil, err
	}

	p.ID = uuid.NewString()
	p.EmployeeName = emp.Name
	p.CreatedAt = now.UTC()
	p.UpdatedAt = p.CreatedAt

	if err := s.store.CreatePayment(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("id", p.ID),
		zap.String("employee_id", p.EmployeeID),
		zap.String("type", p.Type),
		zap.String("amount", p.Amount.StringFixed(2)))
	publish(s.events, events.CollectionPayments, events.ActionCreated, p.ID, p)

	return p, nil
}

func (s *PaymentService) Get(ctx context.Context, id string) (*model.Payment, error) {
	return s.store.GetPayment(ctx, id)
}

func (s *PaymentService) List(ctx context.Context, f model.PaymentFilter) ([]model.Payment, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return s.store.ListPayments(ctx, f)
}

// Update edits a payment. The paid employee cannot change.
func (s *PaymentService) Update(ctx context.Context, id string, p *model.Payment) (*model.Payment, error) {
	current, err := s.store.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Normalize()
	if p.EmployeeID != "" && p.EmployeeID != current.EmployeeID {
		return nil, model.ValidationErrors{"employee_id": "cannot be changed"}
	}

	p.ID = current.ID
	p.EmployeeID = current.EmployeeID
	p.EmployeeName = current.EmployeeName

	now := s.now()
	if err := p.Validate(now); err != nil {
		return nil, err
	}

	if err := s.ensureSingleSalary(ctx, p, current.ID); err != nil {
		return nil, err
	}

	p.CreatedAt = current.CreatedAt
	p.UpdatedAt = now.UTC()

	if err := s.store.UpdatePayment(ctx, p); err != nil {
		return nil, err
	}

	publish(s.events, events.CollectionPayments, events.ActionUpdated, p.ID, p)

	return p, nil
}

func (s *PaymentService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeletePayment(ctx, id); err != nil {
		return err
	}

	s.logger.Info("payment deleted", zap.String("id", id))
	publish(s.events, events.CollectionPayments, events.ActionDeleted, id, nil)

	return nil
}

// Summary totals the payments matching f, overall and per type and method.
func (s *PaymentService) Summary(ctx context.Context, f model.PaymentFilter) (*model.PaymentSummary, error) {
	payments, err := s.List(ctx, f)
	if err != nil {
		return nil, err
	}

	summary := model.NewPaymentSummary()
	for _, p := range payments {
		summary.Add(p)
	}

	return summary, nil
}

// ensureSingleSalary fails when p is a salary payment for a period already
// paid by a payment other than selfID.
func (s *PaymentService) ensureSingleSalary(ctx context.Context, p *model.Payment, selfID string) error {
	if !p.IsSalary() {
		return nil
	}

	existing, err := s.store.FindSalaryPayment(ctx, p.EmployeeID, p.Period)
	switch {
	case isNotFound(err):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return apperror.EntityAlreadyExists{Entity: "salary payment", ID: p.EmployeeID + "/" + p.Period}
	}
	return nil
}
