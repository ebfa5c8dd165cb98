package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/db"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type BookInput struct {
	Service  string
	Date     string
	TimeSlot string
}

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	repo    domain.Repository
	tx      db.Transactor
	audit   audit.Recorder
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewBookAppointment(
	repo domain.Repository,
	tx db.Transactor,
	audit audit.Recorder,
	m *metrics.Metrics,
	now func() time.Time,
) *BookAppointment {
	return &BookAppointment{
		repo:    repo,
		tx:      tx,
		audit:   audit,
		metrics: m,
		now:     now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BookAppointment) Execute(
	ctx context.Context,
	actor access.Actor,
	in BookInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Service, slot and date
	// --------------------------------------------------
	date, err := validateSlot(in.Service, in.Date, in.TimeSlot)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateBookingDate(date, uc.now()); err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		UserID:          &actor.ID,
		OwnerEmail:      actor.Email,
		Service:         in.Service,
		AppointmentDate: date,
		TimeSlot:        in.TimeSlot,
		Status:          string(domain.InitialStatus()),
	}

	// --------------------------------------------------
	// 2. Conflict check + insert + audit, one transaction
	// --------------------------------------------------
	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := ensureSlotFree(ctx, uc.repo, uc.metrics, date, in.TimeSlot, 0); err != nil {
			return err
		}

		if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		uc.audit.Record(ctx, actor, audit.VerbCreate, audit.EntityAppointment, ap.ID)
		return nil
	})
	if err != nil {
		if httperr.IsKind(err, httperr.KindConflict) {
			uc.metrics.SlotRejected("conflict")
		}
		return nil, err
	}

	uc.metrics.Booked()
	return ap, nil
}

// --------------------------------------------------
// Shared checks
// --------------------------------------------------

func validateSlot(service, date, slot string) (time.Time, error) {
	if err := domain.ValidateService(service); err != nil {
		return time.Time{}, err
	}
	if err := domain.ValidateTimeSlot(slot); err != nil {
		return time.Time{}, err
	}
	return domain.ParseDate(date)
}

// ensureSlotFree is the in-transaction pre-check. The active-slot index
// still catches a concurrent committer that slips past it.
func ensureSlotFree(
	ctx context.Context,
	repo domain.Repository,
	m *metrics.Metrics,
	date time.Time,
	slot string,
	excludeID uint,
) error {
	taken, err := repo.SlotTaken(ctx, date, slot, excludeID)
	if err != nil {
		return err
	}
	if taken {
		m.SlotRejected("precheck")
		return httperr.ErrBusiness("slot_unavailable")
	}
	return nil
}

func ownedBy(ap *models.Appointment, actor access.Actor) error {
	if ap.UserID == nil || *ap.UserID != actor.ID {
		return httperr.ErrForbidden("appointment_not_owned")
	}
	return nil
}
