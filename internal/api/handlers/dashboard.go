package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/roksva123/go-bizadmin-backend/internal/utils"
)

type DashboardHandler struct {
	Dashboard DashboardService
	Logger    *zap.Logger
}

func NewDashboardHandler(dashboard DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{Dashboard: dashboard, Logger: logger}
}

func (h *DashboardHandler) Get(c *gin.Context) {
	d, err := h.Dashboard.Get(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}

	respond(c, http.StatusOK, "OK", utils.ConvertDashboardToResponse(d))
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	Store  Pinger
	Logger *zap.Logger
}

func NewHealthHandler(store Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{Store: store, Logger: logger}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		h.Logger.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "down",
			"message": "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "bizadmin backend is running",
	})
}
