package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/roksva123/go-bizadmin-backend/internal/model"
	"github.com/roksva123/go-bizadmin-backend/internal/utils"
)

type AttendanceHandler struct {
	Attendance AttendanceService
	Logger     *zap.Logger
}

func NewAttendanceHandler(attendance AttendanceService, logger *zap.Logger) *AttendanceHandler {
	return &AttendanceHandler{Attendance: attendance, Logger: logger}
}

// ListAttendance filters by employee_id, status and an inclusive from/to
// range. ?date= is shorthand for a single day.
func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	f := model.AttendanceFilter{
		EmployeeID: c.Query("employee_id"),
		From:       c.Query("from"),
		To:         c.Query("to"),
		Status:     c.Query("status"),
	}
	if d := c.Query("date"); d != "" {
		f.From, f.To = d, d
	}

	list, err := h.Attendance.List(c.Request.Context(), f)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}

	respond(c, http.StatusOK, "OK", utils.ConvertAttendancesToResponse(list))
}

func (h *AttendanceHandler) GetAttendance(c *gin.Context) {
	a, err := h.Attendance.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}

	respond(c, http.StatusOK, "OK", utils.ConvertAttendanceToResponse(*a))
}

func (h *AttendanceHandler) MarkAttendance(c *gin.Context) {
	var req model.Attendance
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	a, err := h.Attendance.Mark(c.Request.Context(), &req)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}

	respond(c, http.StatusCreated, "Attendance marked", utils.ConvertAttendanceToResponse(*a))
}

func (h *AttendanceHandler) MarkBulk(c *gin.Context) {
	var req model.BulkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	results, err := h.Attendance.MarkBulk(c.Request.Context(), req)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}

	counts := map[string]int{}
	for _, r := range results {
		counts[r.Result]++
	}

	respond(c, http.StatusOK, "Bulk attendance processed", gin.H{"results": results, "counts": counts})
}

func (h *AttendanceHandler) UpdateAttendance(c *gin.Context) {
	var req model.Attendance
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	a, err := h.Attendance.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}

	respond(c, http.StatusOK, "Attendance updated", utils.ConvertAttendanceToResponse(*a))
}

func (h *AttendanceHandler) DeleteAttendance(c *gin.Context) {
	if err := h.Attendance.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}

	respond(c, http.StatusOK, "Attendance deleted", nil)
}
