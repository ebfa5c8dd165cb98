package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	usecase "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentUseCases struct {
	Book        *usecase.BookAppointment
	Edit        *usecase.EditOwnAppointment
	CancelToken *usecase.IssueCancelToken
	Cancel      *usecase.CancelAppointment
	AdminEdit   *usecase.AdminEditAppointment
	AdminDelete *usecase.AdminDeleteAppointment
	List        *usecase.ListAppointments
}

type AppointmentHandler struct {
	uc  AppointmentUseCases
	log *zap.Logger
}

func NewAppointmentHandler(uc AppointmentUseCases, log *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{uc: uc, log: log}
}

// ======================================================
// REQUESTS
// ======================================================

type BookAppointmentRequest struct {
	Service         string `json:"service" binding:"required,clinic_service"`
	AppointmentDate string `json:"appointment_date" binding:"required"`
	TimeSlot        string `json:"time_slot" binding:"required,time_slot"`
}

type AdminEditAppointmentRequest struct {
	BookAppointmentRequest
	Status string `json:"status" binding:"required"`
}

type CancelAppointmentRequest struct {
	Token string `json:"token" binding:"required"`
}

// ======================================================
// OPTIONS
// ======================================================

func (h *AppointmentHandler) Options(c *gin.Context) {
	httpresp.OK(c, gin.H{
		"services":   domain.Services(),
		"time_slots": domain.TimeSlots(),
	})
}

// ======================================================
// USER
// ======================================================

func (h *AppointmentHandler) ListOwn(c *gin.Context) {
	aps, err := h.uc.List.Own(c.Request.Context(), middleware.Actor(c), 0)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.List(c, dto.Appointments(aps))
}

func (h *AppointmentHandler) Book(c *gin.Context) {
	var req BookAppointmentRequest
	if !bind(c, &req) {
		return
	}

	ap, err := h.uc.Book.Execute(c.Request.Context(), middleware.Actor(c), usecase.BookInput{
		Service:  req.Service,
		Date:     req.AppointmentDate,
		TimeSlot: req.TimeSlot,
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.Created(c, dto.Appointment(ap))
}

func (h *AppointmentHandler) EditOwn(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req BookAppointmentRequest
	if !bind(c, &req) {
		return
	}

	ap, err := h.uc.Edit.Execute(c.Request.Context(), middleware.Actor(c), usecase.EditInput{
		ID:       id,
		Service:  req.Service,
		Date:     req.AppointmentDate,
		TimeSlot: req.TimeSlot,
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, dto.Appointment(ap))
}

func (h *AppointmentHandler) IssueCancelToken(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	token, err := h.uc.CancelToken.Execute(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.Created(c, gin.H{
		"token":      token,
		"expires_in": int(h.uc.CancelToken.ExpiresIn().Seconds()),
	})
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req CancelAppointmentRequest
	if !bind(c, &req) {
		return
	}

	ap, err := h.uc.Cancel.Execute(c.Request.Context(), middleware.Actor(c), id, req.Token)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, dto.Appointment(ap))
}

// ======================================================
// ADMIN / STAFF
// ======================================================

func (h *AppointmentHandler) ListAll(c *gin.Context) {
	aps, err := h.uc.List.All(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.List(c, dto.Appointments(aps))
}

func (h *AppointmentHandler) AdminEdit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req AdminEditAppointmentRequest
	if !bind(c, &req) {
		return
	}

	ap, err := h.uc.AdminEdit.Execute(c.Request.Context(), middleware.Actor(c), usecase.AdminEditInput{
		ID:       id,
		Service:  req.Service,
		Date:     req.AppointmentDate,
		TimeSlot: req.TimeSlot,
		Status:   req.Status,
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, dto.Appointment(ap))
}

func (h *AppointmentHandler) AdminDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.uc.AdminDelete.Execute(c.Request.Context(), middleware.Actor(c), id); err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.NoContent(c)
}
