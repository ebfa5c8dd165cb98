package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/confirm"
	"github.com/BruksfildServices01/clinic-scheduler/internal/db"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/activity"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/product"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/user"
	"github.com/BruksfildServices01/clinic-scheduler/internal/handlers"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/session"
	ucActivity "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/activity"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
	ucAuth "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/auth"
	ucDashboard "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/dashboard"
	ucProduct "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/product"
	ucUser "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/user"
)

// Deps is everything the HTTP surface needs. cmd/api fills it with the gorm
// repositories and Redis; tests use the in-memory store.
type Deps struct {
	Users        user.Repository
	Products     product.Repository
	Appointments appointment.Repository
	Logs         activity.Repository
	Tx           db.Transactor

	Audit  audit.Recorder
	Events ucAuth.SessionEvents

	Sessions *session.Manager
	Tokens   *confirm.Tokens

	Metrics      *metrics.Metrics
	Log          *zap.Logger
	Now          func() time.Time
	LoginPerMin  int
	HealthChecks []func() error
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.GinLogger(d.Log))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
	}

	// ======================================================
	// USE CASES
	// ======================================================
	authSvc := ucAuth.NewService(d.Users, d.Tx, d.Audit, d.Events, d.Sessions)
	profile := ucUser.NewProfile(d.Users, d.Tx, d.Audit)
	accounts := ucUser.NewAccounts(d.Users, d.Products, d.Appointments, d.Logs, d.Tx, d.Audit)
	catalog := ucProduct.NewCatalog(d.Products, d.Tx, d.Audit)
	logs := ucActivity.NewLogs(d.Logs, d.Tx, d.Audit)
	dash := ucDashboard.New(d.Users, d.Products, d.Appointments, d.Logs)

	appointmentUC := handlers.AppointmentUseCases{
		Book:        ucAppointment.NewBookAppointment(d.Appointments, d.Tx, d.Audit, d.Metrics, d.Now),
		Edit:        ucAppointment.NewEditOwnAppointment(d.Appointments, d.Tx, d.Audit, d.Metrics, d.Now),
		CancelToken: ucAppointment.NewIssueCancelToken(d.Appointments, d.Tokens),
		Cancel:      ucAppointment.NewCancelAppointment(d.Appointments, d.Tx, d.Audit, d.Tokens),
		AdminEdit:   ucAppointment.NewAdminEditAppointment(d.Appointments, d.Tx, d.Audit, d.Metrics),
		AdminDelete: ucAppointment.NewAdminDeleteAppointment(d.Appointments, d.Tx, d.Audit),
		List:        ucAppointment.NewListAppointments(d.Appointments),
	}

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(authSvc, d.Log)
	meHandler := handlers.NewMeHandler(profile, dash, d.Log)
	adminHandler := handlers.NewAdminHandler(accounts, logs, dash, d.Log)
	productHandler := handlers.NewProductHandler(catalog, d.Log)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentUC, d.Log)

	authn := middleware.NewAuthenticator(d.Sessions, d.Users, d.Log)
	loginLimiter := middleware.NewRateLimiter(d.LoginPerMin)

	// ======================================================
	// OPERATIONAL
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		for _, check := range d.HealthChecks {
			if err := check(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	api := r.Group("/api")

	// ======================================================
	// PUBLIC
	// ======================================================
	api.POST("/auth/register", loginLimiter.Middleware(), authHandler.Register)
	api.POST("/auth/login", loginLimiter.Middleware(), authHandler.Login)

	// ======================================================
	// AUTHENTICATED
	// ======================================================
	private := api.Group("")
	private.Use(authn.Middleware())

	private.POST("/auth/logout", authHandler.Logout)
	private.GET("/me", meHandler.Get)
	private.PATCH("/me", meHandler.Update)
	private.GET("/dashboard", meHandler.Dashboard)
	private.GET("/appointments/options", appointmentHandler.Options)

	userAppointments := private.Group("/user/appointments")
	{
		userAppointments.GET("", appointmentHandler.ListOwn)
		userAppointments.POST("", appointmentHandler.Book)
		userAppointments.PATCH("/:id", appointmentHandler.EditOwn)
		userAppointments.POST("/:id/cancel-token", appointmentHandler.IssueCancelToken)
		userAppointments.POST("/:id/cancel", appointmentHandler.Cancel)
	}

	// ======================================================
	// ADMIN / STAFF
	// ======================================================
	backOffice := private.Group("/admin")
	backOffice.Use(middleware.RequireAny(access.RoleAdmin, access.RoleStaff))
	{
		backOffice.GET("/products", productHandler.List)
		backOffice.POST("/products", productHandler.Create)
		backOffice.GET("/products/:id", productHandler.Get)
		backOffice.PATCH("/products/:id", productHandler.Update)
		backOffice.DELETE("/products/:id", productHandler.Delete)

		backOffice.GET("/appointments", appointmentHandler.ListAll)
	}

	admin := backOffice.Group("")
	admin.Use(middleware.RequireAny(access.RoleAdmin))
	{
		admin.GET("/dashboard", adminHandler.Dashboard)

		admin.GET("/users", adminHandler.ListUsers)
		admin.POST("/users", adminHandler.CreateUser)
		admin.GET("/users/:id", adminHandler.GetUser)
		admin.PATCH("/users/:id", adminHandler.UpdateUser)
		admin.DELETE("/users/:id", adminHandler.DeleteUser)

		admin.PATCH("/appointments/:id", appointmentHandler.AdminEdit)
		admin.DELETE("/appointments/:id", appointmentHandler.AdminDelete)

		admin.GET("/activity-logs", adminHandler.ListLogs)
		admin.DELETE("/activity-logs/:id", adminHandler.DeleteLog)
	}
}
