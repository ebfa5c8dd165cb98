package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type ListFilter struct {
	UserID *uint
	Limit  int
}

type Repository interface {
	// CreateAppointment and UpdateAppointment return a conflict error when
	// the store's active-slot index rejects the row.
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		id uint,
	) error

	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	// SlotTaken ignores cancelled rows and the appointment excludeID.
	SlotTaken(
		ctx context.Context,
		date time.Time,
		slot string,
		excludeID uint,
	) (bool, error)

	ListAppointments(
		ctx context.Context,
		f ListFilter,
	) ([]models.Appointment, error)

	CountAppointments(ctx context.Context) (int64, error)

	// DetachUser clears the owner of every appointment booked by userID and
	// returns the affected ids.
	DetachUser(
		ctx context.Context,
		userID uint,
	) ([]uint, error)
}
