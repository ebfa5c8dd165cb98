package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/clinic-scheduler/internal/db"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// mapSlotErr turns a hit on the active-slot index into a conflict.
func mapSlotErr(err error) error {
	if httperr.IsUniqueViolation(err, db.ActiveSlotIndex) {
		return httperr.ErrConflict("slot_conflict")
	}
	return err
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return mapSlotErr(db.Conn(ctx, r.db).Create(ap).Error)
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return mapSlotErr(db.Conn(ctx, r.db).Omit("User").Save(ap).Error)
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	id uint,
) error {
	res := db.Conn(ctx, r.db).Delete(&models.Appointment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("appointment_not_found")
	}
	return nil
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := db.Conn(ctx, r.db).
		Clauses(lockingFor(ctx)...).
		First(&ap, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrNotFound("appointment_not_found")
	}
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) SlotTaken(
	ctx context.Context,
	date time.Time,
	slot string,
	excludeID uint,
) (bool, error) {

	var count int64
	q := db.Conn(ctx, r.db).
		Model(&models.Appointment{}).
		Where(
			"appointment_date = ? AND time_slot = ? AND status <> ?",
			date,
			slot,
			string(domain.StatusCancelled),
		)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	if err := q.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	q := db.Conn(ctx, r.db).
		Order("appointment_date DESC").
		Order("time_slot ASC").
		Order("id DESC")
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	if err := q.Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) CountAppointments(ctx context.Context) (int64, error) {
	var n int64
	err := db.Conn(ctx, r.db).Model(&models.Appointment{}).Count(&n).Error
	return n, err
}

func (r *AppointmentGormRepository) DetachUser(
	ctx context.Context,
	userID uint,
) ([]uint, error) {

	var ids []uint
	conn := db.Conn(ctx, r.db)

	if err := conn.
		Model(&models.Appointment{}).
		Where("user_id = ?", userID).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return ids, nil
	}

	if err := conn.
		Model(&models.Appointment{}).
		Where("id IN ?", ids).
		Update("user_id", nil).Error; err != nil {
		return nil, err
	}

	return ids, nil
}

// lockingFor takes a row lock when reading inside a transaction so the
// read-check-write sequence of an edit does not interleave.
func lockingFor(ctx context.Context) []clause.Expression {
	if db.InTransaction(ctx) {
		return []clause.Expression{clause.Locking{Strength: "UPDATE"}}
	}
	return nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
