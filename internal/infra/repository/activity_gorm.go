package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/db"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/activity"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type ActivityGormRepository struct {
	db *gorm.DB
}

func NewActivityGormRepository(db *gorm.DB) *ActivityGormRepository {
	return &ActivityGormRepository{db: db}
}

func (r *ActivityGormRepository) ListLogs(
	ctx context.Context,
	f domain.Filter,
) ([]models.ActivityLog, int64, error) {

	q := db.Conn(ctx, r.db).Model(&models.ActivityLog{})

	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.EntityType != "" {
		q = q.Where("entity_type = ?", f.EntityType)
	}
	if f.From != nil {
		q = q.Where("date_time >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("date_time <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.ActivityLog
	q = q.Order("date_time DESC").Order("id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset())
	}
	if err := q.Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

func (r *ActivityGormRepository) GetLog(ctx context.Context, id uint) (*models.ActivityLog, error) {
	var row models.ActivityLog
	if err := db.Conn(ctx, r.db).First(&row, id).Error; err != nil {
		return nil, notFound(err, "activity_log_not_found")
	}
	return &row, nil
}

func (r *ActivityGormRepository) DeleteLog(ctx context.Context, id uint) error {
	res := db.Conn(ctx, r.db).Delete(&models.ActivityLog{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("activity_log_not_found")
	}
	return nil
}

func (r *ActivityGormRepository) CountLogs(ctx context.Context) (int64, error) {
	var n int64
	err := db.Conn(ctx, r.db).Model(&models.ActivityLog{}).Count(&n).Error
	return n, err
}

func (r *ActivityGormRepository) DetachUser(
	ctx context.Context,
	userID uint,
	email string,
) (int64, error) {

	res := db.Conn(ctx, r.db).
		Model(&models.ActivityLog{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"username": gorm.Expr("COALESCE(NULLIF(username, ''), ?)", email),
			"user_id":  nil,
		})

	return res.RowsAffected, res.Error
}

var _ domain.Repository = (*ActivityGormRepository)(nil)
