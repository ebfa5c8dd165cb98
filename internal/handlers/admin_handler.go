package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/activity"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/dashboard"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/user"
)

// ======================================================
// HANDLER
// ======================================================

type AdminHandler struct {
	accounts  *user.Accounts
	logs      *activity.Logs
	dashboard *dashboard.Dashboard
	log       *zap.Logger
}

func NewAdminHandler(
	accounts *user.Accounts,
	logs *activity.Logs,
	d *dashboard.Dashboard,
	log *zap.Logger,
) *AdminHandler {
	return &AdminHandler{accounts: accounts, logs: logs, dashboard: d, log: log}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateUserRequest struct {
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required"`
	Roles    []string `json:"roles" binding:"omitempty,dive,role"`
	Status   string   `json:"status" binding:"omitempty,oneof=active inactive"`
}

type UpdateUserRequest struct {
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles" binding:"omitempty,dive,role"`
	Status   string   `json:"status" binding:"omitempty,oneof=active inactive"`
}

// ======================================================
// DASHBOARD
// ======================================================

func (h *AdminHandler) Dashboard(c *gin.Context) {
	s, err := h.dashboard.Admin(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, gin.H{
		"users":               s.Users,
		"staff_only":          s.StaffOnly,
		"regular_users":       s.RegularUsers,
		"products":            s.Products,
		"activity_logs":       s.ActivityLogs,
		"appointments":        s.Appointments,
		"recent_appointments": dto.Appointments(s.RecentAppointments),
	})
}

// ======================================================
// USERS
// ======================================================

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.accounts.List(c.Request.Context(), middleware.Actor(c), c.Query("status"))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.List(c, users)
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	u, err := h.accounts.Get(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, u)
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !bind(c, &req) {
		return
	}

	u, err := h.accounts.Create(c.Request.Context(), middleware.Actor(c), user.CreateInput{
		Email:    req.Email,
		Password: req.Password,
		Roles:    req.Roles,
		Status:   req.Status,
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.Created(c, u)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !bind(c, &req) {
		return
	}

	u, err := h.accounts.Update(c.Request.Context(), middleware.Actor(c), id, user.UpdateInput{
		Email:    req.Email,
		Password: req.Password,
		Roles:    req.Roles,
		Status:   req.Status,
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, u)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.accounts.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.NoContent(c)
}

// ======================================================
// ACTIVITY LOGS
// ======================================================

func (h *AdminHandler) ListLogs(c *gin.Context) {
	var q struct {
		Action string `form:"action"`
		Entity string `form:"entity"`
		From   string `form:"from"`
		To     string `form:"to"`
		Page   int    `form:"page"`
		Limit  int    `form:"limit"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid query.")
		return
	}

	page, err := h.logs.List(c.Request.Context(), middleware.Actor(c), activity.ListInput{
		Action:     q.Action,
		EntityType: q.Entity,
		From:       q.From,
		To:         q.To,
		Page:       q.Page,
		Limit:      q.Limit,
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, page)
}

func (h *AdminHandler) DeleteLog(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.logs.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.NoContent(c)
}
