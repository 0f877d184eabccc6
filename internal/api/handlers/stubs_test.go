package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/roksva123/go-bizadmin-backend/internal/api/middleware"
	"github.com/roksva123/go-bizadmin-backend/internal/apperror"
	"github.com/roksva123/go-bizadmin-backend/internal/model"
	"github.com/roksva123/go-bizadmin-backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testNow = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

// tokenParser accepts the tokens "admin", "viewer" and "short", a viewer
// session that expires almost at once.
type tokenParser struct{}

func (tokenParser) Parse(token string) (*service.Session, error) {
	switch token {
	case "admin":
		return &service.Session{Principal: model.Principal{Subject: "a1", Role: model.RoleAdmin}, TokenID: "t1"}, nil
	case "viewer":
		return &service.Session{Principal: model.Principal{Subject: "v1", Role: model.RoleViewer}, TokenID: "t2"}, nil
	case "short":
		return &service.Session{Principal: model.Principal{Subject: "v2", Role: model.RoleViewer}, TokenID: "t3",
			ExpiresAt: time.Now().Add(200 * time.Millisecond)}, nil
	}
	return nil, apperror.Unauthorized{Reason: "invalid token"}
}

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(middleware.Auth(tokenParser{}))
	return r
}

func newEngineWithoutAuth() *gin.Engine {
	return gin.New()
}

func do(t *testing.T, r http.Handler, method, target, token, body string) (*httptest.ResponseRecorder, model.ResponseApi) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp model.ResponseApi
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}

	return w, resp
}

type stubEmployees struct {
	created *model.Employee
	deleted struct {
		id    string
		force bool
	}
	err error
}

func (s *stubEmployees) Create(_ context.Context, e *model.Employee) (*model.Employee, error) {
	if s.err != nil {
		return nil, s.err
	}
	e.ID = "emp01"
	s.created = e
	return e, nil
}

func (s *stubEmployees) Get(_ context.Context, id string) (*model.Employee, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.Employee{ID: id, Name: "asha verma", AadharID: "123456789012", Phone: "9876543210",
		JoiningDate: "2024-07-01", Status: "active"}, nil
}

func (s *stubEmployees) List(_ context.Context, f model.EmployeeFilter) ([]model.Employee, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return []model.Employee{}, s.err
}

func (s *stubEmployees) Update(_ context.Context, id string, e *model.Employee) (*model.Employee, error) {
	e.ID = id
	return e, s.err
}

func (s *stubEmployees) Delete(_ context.Context, id string, force bool) error {
	s.deleted.id, s.deleted.force = id, force
	return s.err
}

type stubAttendance struct {
	filter model.AttendanceFilter
	bulk   []model.BulkAttendanceResult
	err    error
}

func (s *stubAttendance) Mark(_ context.Context, a *model.Attendance) (*model.Attendance, error) {
	if s.err != nil {
		return nil, s.err
	}
	a.AssignID()
	return a, nil
}

func (s *stubAttendance) MarkBulk(context.Context, model.BulkAttendanceRequest) ([]model.BulkAttendanceResult, error) {
	return s.bulk, s.err
}

func (s *stubAttendance) Get(_ context.Context, id string) (*model.Attendance, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.Attendance{ID: id}, nil
}

func (s *stubAttendance) List(_ context.Context, f model.AttendanceFilter) ([]model.Attendance, error) {
	s.filter = f
	return []model.Attendance{}, s.err
}

func (s *stubAttendance) Update(_ context.Context, id string, a *model.Attendance) (*model.Attendance, error) {
	a.ID = id
	return a, s.err
}

func (s *stubAttendance) Delete(context.Context, string) error { return s.err }

func (s *stubAttendance) MonthlySummary(_ context.Context, employeeID, month string) (*model.AttendanceSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.AttendanceSummary{EmployeeID: employeeID, Month: month, Present: 20, MarkedDays: 20,
		WorkedMinutes: 9600, AttendancePercent: 100}, nil
}

type stubPayments struct {
	filter model.PaymentFilter
	err    error
}

func (s *stubPayments) Record(_ context.Context, p *model.Payment) (*model.Payment, error) {
	if s.err != nil {
		return nil, s.err
	}
	p.ID = "p1"
	return p, nil
}

func (s *stubPayments) Get(_ context.Context, id string) (*model.Payment, error) {
	return &model.Payment{ID: id}, s.err
}

func (s *stubPayments) List(_ context.Context, f model.PaymentFilter) ([]model.Payment, error) {
	s.filter = f
	return []model.Payment{}, s.err
}

func (s *stubPayments) Update(_ context.Context, id string, p *model.Payment) (*model.Payment, error) {
	p.ID = id
	return p, s.err
}

func (s *stubPayments) Delete(context.Context, string) error { return s.err }

func (s *stubPayments) Summary(_ context.Context, f model.PaymentFilter) (*model.PaymentSummary, error) {
	s.filter = f
	return model.NewPaymentSummary(), s.err
}
