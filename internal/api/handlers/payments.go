package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/roksva123/go-bizadmin-backend/internal/model"
	"github.com/roksva123/go-bizadmin-backend/internal/utils"
)

type PaymentHandler struct {
	Payments PaymentService
	Logger   *zap.Logger
}

func NewPaymentHandler(payments PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{Payments: payments, Logger: logger}
}

func paymentFilter(c *gin.Context) model.PaymentFilter {
	return model.PaymentFilter{
		EmployeeID: c.Query("employee_id"),
		From:       c.Query("from"),
		To:         c.Query("to"),
		Type:       c.Query("type"),
		Method:     c.Query("method"),
		Period:     c.Query("period"),
	}
}

func (h *PaymentHandler) ListPayments(c *gin.Context) {
	list, err := h.Payments.List(c.Request.Context(), paymentFilter(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}

	respond(c, http.StatusOK, "OK", utils.ConvertPaymentsToResponse(list))
}

func (h *PaymentHandler) Summary(c *gin.Context) {
	summary, err := h.Payments.Summary(c.Request.Context(), paymentFilter(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}

	respond(c, http.StatusOK, "OK", utils.ConvertPaymentSummaryToResponse(summary))
}

func (h *PaymentHandler) GetPayment(c *gin.Context) {
	p, err := h.Payments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}

	respond(c, http.StatusOK, "OK", utils.ConvertPaymentToResponse(*p))
}

func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	var req model.Payment
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.Payments.Record(c.Request.Context(), &req)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}

	respond(c, http.StatusCreated, "Payment recorded", utils.ConvertPaymentToResponse(*p))
}

func (h *PaymentHandler) UpdatePayment(c *gin.Context) {
	var req model.Payment
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.Payments.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}

	respond(c, http.StatusOK, "Payment updated", utils.ConvertPaymentToResponse(*p))
}

func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	if err := h.Payments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}

	respond(c, http.StatusOK, "Payment deleted", nil)
}
