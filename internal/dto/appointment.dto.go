package dto

import (
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AppointmentDTO struct {
	ID              uint      `json:"id"`
	UserID          *uint     `json:"user_id"`
	OwnerEmail      string    `json:"owner_email"`
	Service         string    `json:"service"`
	AppointmentDate string    `json:"appointment_date"`
	TimeSlot        string    `json:"time_slot"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

func Appointment(ap *models.Appointment) AppointmentDTO {
	return AppointmentDTO{
		ID:              ap.ID,
		UserID:          ap.UserID,
		OwnerEmail:      ap.OwnerEmail,
		Service:         ap.Service,
		AppointmentDate: ap.AppointmentDate.Format(domain.DateLayout),
		TimeSlot:        ap.TimeSlot,
		Status:          ap.Status,
		CreatedAt:       ap.CreatedAt,
	}
}

func Appointments(aps []models.Appointment) []AppointmentDTO {
	out := make([]AppointmentDTO, 0, len(aps))
	for i := range aps {
		out = append(out, Appointment(&aps[i]))
	}
	return out
}
