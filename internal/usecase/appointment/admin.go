package appointment

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/db"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AdminEditInput struct {
	ID       uint
	Service  string
	Date     string
	TimeSlot string
	Status   string
}

// AdminEditAppointment may move any appointment and change its status.
// The booking-date rule does not apply here.
type AdminEditAppointment struct {
	repo    domain.Repository
	tx      db.Transactor
	audit   audit.Recorder
	metrics *metrics.Metrics
}

func NewAdminEditAppointment(
	repo domain.Repository,
	tx db.Transactor,
	audit audit.Recorder,
	m *metrics.Metrics,
) *AdminEditAppointment {
	return &AdminEditAppointment{repo: repo, tx: tx, audit: audit, metrics: m}
}

func (uc *AdminEditAppointment) Execute(
	ctx context.Context,
	actor access.Actor,
	in AdminEditInput,
) (*models.Appointment, error) {

	if !access.CanAdministerAppointments(actor) {
		return nil, httperr.ErrForbidden("forbidden")
	}

	date, err := validateSlot(in.Service, in.Date, in.TimeSlot)
	if err != nil {
		return nil, err
	}
	status, err := domain.ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}

	var ap *models.Appointment
	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		ap, err = uc.repo.GetAppointment(ctx, in.ID)
		if err != nil {
			return err
		}

		if err := domain.CanTransition(domain.Status(ap.Status), status); err != nil {
			return err
		}
		if status.Occupies() {
			if err := ensureSlotFree(ctx, uc.repo, uc.metrics, date, in.TimeSlot, ap.ID); err != nil {
				return err
			}
		}

		ap.Service = in.Service
		ap.AppointmentDate = date
		ap.TimeSlot = in.TimeSlot
		ap.Status = string(status)

		if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		uc.audit.Record(ctx, actor, audit.VerbUpdate, audit.EntityAppointment, ap.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ap, nil
}

type AdminDeleteAppointment struct {
	repo  domain.Repository
	tx    db.Transactor
	audit audit.Recorder
}

func NewAdminDeleteAppointment(
	repo domain.Repository,
	tx db.Transactor,
	audit audit.Recorder,
) *AdminDeleteAppointment {
	return &AdminDeleteAppointment{repo: repo, tx: tx, audit: audit}
}

func (uc *AdminDeleteAppointment) Execute(
	ctx context.Context,
	actor access.Actor,
	id uint,
) error {

	if !access.CanAdministerAppointments(actor) {
		return httperr.ErrForbidden("forbidden")
	}

	return uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.repo.DeleteAppointment(ctx, id); err != nil {
			return err
		}

		uc.audit.Record(ctx, actor, audit.VerbDelete, audit.EntityAppointment, id)
		return nil
	})
}
