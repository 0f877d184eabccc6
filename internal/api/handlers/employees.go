package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/roksva123/go-bizadmin-backend/internal/api/middleware"
	"github.com/roksva123/go-bizadmin-backend/internal/model"
	"github.com/roksva123/go-bizadmin-backend/internal/utils"
)

type EmployeeHandler struct {
	Employees  EmployeeService
	Attendance AttendanceService
	Logger     *zap.Logger
	Now        func() time.Time
}

func NewEmployeeHandler(employees EmployeeService, attendance AttendanceService, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{Employees: employees, Attendance: attendance, Logger: logger, Now: time.Now}
}

// revealAadhar reports whether the caller may see full Aadhar numbers.
func revealAadhar(c *gin.Context) bool {
	s := middleware.SessionFrom(c)
	return s != nil && s.IsAdmin()
}

func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	f := model.EmployeeFilter{
		Status:     c.Query("status"),
		Department: c.Query("department"),
		Search:     c.Query("search"),
	}

	list, err := h.Employees.List(c.Request.Context(), f)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}

	respond(c, http.StatusOK, "OK", utils.ConvertEmployeesToResponse(list, h.Now(), revealAadhar(c)))
}

func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	e, err := h.Employees.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}

	respond(c, http.StatusOK, "OK", utils.ConvertEmployeeToResponse(*e, h.Now(), revealAadhar(c)))
}

func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req model.Employee
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	e, err := h.Employees.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}

	respond(c, http.StatusCreated, "Employee created", utils.ConvertEmployeeToResponse(*e, h.Now(), true))
}

func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	var req model.Employee
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	e, err := h.Employees.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}

	respond(c, http.StatusOK, "Employee updated", utils.ConvertEmployeeToResponse(*e, h.Now(), true))
}

func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	force, err := queryBool(c, "force")
	if err != nil {
		fail(c, h.Logger, err)
		return
	}

	if err := h.Employees.Delete(c.Request.Context(), c.Param("id"), force); err != nil {
		fail(c, h.Logger, err)
		return
	}

	respond(c, http.StatusOK, "Employee deleted", nil)
}

// AttendanceSummary reports one employee's attendance for ?month=YYYY-MM,
// defaulting to the current month.
func (h *EmployeeHandler) AttendanceSummary(c *gin.Context) {
	month := c.DefaultQuery("month", h.Now().Format(model.PeriodLayout))

	summary, err := h.Attendance.MonthlySummary(c.Request.Context(), c.Param("id"), month)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}

	respond(c, http.StatusOK, "OK", utils.ConvertAttendanceSummaryToResponse(summary))
}
