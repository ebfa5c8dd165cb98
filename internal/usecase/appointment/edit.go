package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/db"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type EditInput struct {
	ID       uint
	Service  string
	Date     string
	TimeSlot string
}

// EditOwnAppointment lets a user move their own pending appointment.
type EditOwnAppointment struct {
	repo    domain.Repository
	tx      db.Transactor
	audit   audit.Recorder
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewEditOwnAppointment(
	repo domain.Repository,
	tx db.Transactor,
	audit audit.Recorder,
	m *metrics.Metrics,
	now func() time.Time,
) *EditOwnAppointment {
	return &EditOwnAppointment{
		repo:    repo,
		tx:      tx,
		audit:   audit,
		metrics: m,
		now:     now,
	}
}

func (uc *EditOwnAppointment) Execute(
	ctx context.Context,
	actor access.Actor,
	in EditInput,
) (*models.Appointment, error) {

	date, err := validateSlot(in.Service, in.Date, in.TimeSlot)
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

		if err := ownedBy(ap, actor); err != nil {
			return err
		}
		if err := domain.CanEdit(domain.Status(ap.Status)); err != nil {
			return err
		}
		if err := domain.ValidateBookingDate(date, uc.now()); err != nil {
			return err
		}
		if err := ensureSlotFree(ctx, uc.repo, uc.metrics, date, in.TimeSlot, ap.ID); err != nil {
			return err
		}

		ap.Service = in.Service
		ap.AppointmentDate = date
		ap.TimeSlot = in.TimeSlot

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
