// Package api wires handlers and middleware into the HTTP router.
package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/roksva123/go-bizadmin-backend/internal/api/handlers"
	"github.com/roksva123/go-bizadmin-backend/internal/api/middleware"
	"github.com/roksva123/go-bizadmin-backend/internal/events"
)

type Deps struct {
	Logger      *zap.Logger
	CORSOrigins []string

	Store      handlers.Pinger
	Sessions   middleware.SessionParser
	Auth       handlers.AuthService
	Employees  handlers.EmployeeService
	Attendance handlers.AttendanceService
	Payments   handlers.PaymentService
	Dashboard  handlers.DashboardService
	Hub        *events.Hub

	Registry prometheus.Registerer
	Gatherer prometheus.Gatherer
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(d.Logger))

	allowCredentials := true
	for _, o := range d.CORSOrigins {
		if o == "*" {
			allowCredentials = false
		}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	metrics := middleware.NewMetrics(d.Registry)
	r.Use(metrics.Handler())

	factory := promauto.With(d.Registry)
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "bizadmin_event_subscribers",
		Help: "Number of live event subscribers",
	}, func() float64 { return float64(d.Hub.Subscribers()) })
	factory.NewCounterFunc(prometheus.CounterOpts{
		Name: "bizadmin_events_dropped_total",
		Help: "Events not delivered to a slow subscriber",
	}, func() float64 { return float64(d.Hub.Dropped()) })

	authHandler := handlers.NewAuthHandler(d.Auth, d.Logger)
	employeeHandler := handlers.NewEmployeeHandler(d.Employees, d.Attendance, d.Logger)
	attendanceHandler := handlers.NewAttendanceHandler(d.Attendance, d.Logger)
	paymentHandler := handlers.NewPaymentHandler(d.Payments, d.Logger)
	dashboardHandler := handlers.NewDashboardHandler(d.Dashboard, d.Logger)
	eventsHandler := handlers.NewEventsHandler(d.Hub, d.CORSOrigins, d.Logger)
	if rc, ok := d.Sessions.(handlers.RevocationChecker); ok {
		eventsHandler.Revocations = rc
	}
	healthHandler := handlers.NewHealthHandler(d.Store, d.Logger)

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api/v1")

	// AUTH ROUTES
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/google", authHandler.GoogleLogin)
	}

	private := api.Group("", middleware.Auth(d.Sessions))
	admin := middleware.RequireAdmin()

	private.POST("/auth/logout", authHandler.Logout)
	private.GET("/auth/me", authHandler.Me)

	// EMPLOYEE ROUTES
	emp := private.Group("/employees")
	{
		emp.GET("", employeeHandler.ListEmployees)
		emp.GET("/:id", employeeHandler.GetEmployee)
		emp.GET("/:id/attendance/summary", employeeHandler.AttendanceSummary)
		emp.POST("", admin, employeeHandler.CreateEmployee)
		emp.PUT("/:id", admin, employeeHandler.UpdateEmployee)
		emp.DELETE("/:id", admin, employeeHandler.DeleteEmployee)
	}

	// ATTENDANCE ROUTES
	att := private.Group("/attendance")
	{
		att.GET("", attendanceHandler.ListAttendance)
		att.GET("/:id", attendanceHandler.GetAttendance)
		att.POST("", admin, attendanceHandler.MarkAttendance)
		att.POST("/bulk", admin, attendanceHandler.MarkBulk)
		att.PUT("/:id", admin, attendanceHandler.UpdateAttendance)
		att.DELETE("/:id", admin, attendanceHandler.DeleteAttendance)
	}

	// PAYMENT ROUTES
	pay := private.Group("/payments")
	{
		pay.GET("", paymentHandler.ListPayments)
		pay.GET("/summary", paymentHandler.Summary)
		pay.GET("/:id", paymentHandler.GetPayment)
		pay.POST("", admin, paymentHandler.RecordPayment)
		pay.PUT("/:id", admin, paymentHandler.UpdatePayment)
		pay.DELETE("/:id", admin, paymentHandler.DeletePayment)
	}

	private.GET("/dashboard", dashboardHandler.Get)
	private.GET("/events", eventsHandler.Stream)

	return r
}
