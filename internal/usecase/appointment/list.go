package appointment

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

// Own lists the actor's appointments, newest date first.
func (uc *ListAppointments) Own(
	ctx context.Context,
	actor access.Actor,
	limit int,
) ([]models.Appointment, error) {
	id := actor.ID
	return uc.repo.ListAppointments(ctx, domain.ListFilter{UserID: &id, Limit: limit})
}

// All is for admin and staff.
func (uc *ListAppointments) All(
	ctx context.Context,
	actor access.Actor,
) ([]models.Appointment, error) {
	if !access.CanViewAllAppointments(actor) {
		return nil, httperr.ErrForbidden("forbidden")
	}
	return uc.repo.ListAppointments(ctx, domain.ListFilter{})
}
