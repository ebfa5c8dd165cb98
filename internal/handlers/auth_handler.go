package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/auth"
)

type AuthHandler struct {
	auth *auth.Service
	log  *zap.Logger
}

func NewAuthHandler(svc *auth.Service, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: svc, log: log}
}

// --------- Requests ---------

type CredentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req CredentialsRequest
	if !bind(c, &req) {
		return
	}

	u, err := h.auth.Register(c.Request.Context(), auth.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.Created(c, u)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.auth.Login(c.Request.Context(), auth.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), middleware.Actor(c), middleware.Claims(c)); err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.NoContent(c)
}
