package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/dashboard"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/user"
)

type MeHandler struct {
	profile   *user.Profile
	dashboard *dashboard.Dashboard
	log       *zap.Logger
}

func NewMeHandler(profile *user.Profile, d *dashboard.Dashboard, log *zap.Logger) *MeHandler {
	return &MeHandler{profile: profile, dashboard: d, log: log}
}

type UpdateMeRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password"`
}

func (h *MeHandler) Get(c *gin.Context) {
	u, err := h.profile.Get(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, u)
}

func (h *MeHandler) Update(c *gin.Context) {
	var req UpdateMeRequest
	if !bind(c, &req) {
		return
	}

	u, err := h.profile.Update(c.Request.Context(), middleware.Actor(c), user.ProfileInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, u)
}

func (h *MeHandler) Dashboard(c *gin.Context) {
	s, err := h.dashboard.User(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, gin.H{
		"recent_appointments": dto.Appointments(s.RecentAppointments),
	})
}
