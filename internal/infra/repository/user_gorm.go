package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/db"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/user"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

// users has a single unique index besides the primary key.
func mapEmailErr(err error) error {
	if httperr.IsUniqueViolation(err, "") {
		return httperr.ErrBusiness("email_taken")
	}
	return err
}

func (r *UserGormRepository) CreateUser(ctx context.Context, u *models.User) error {
	return mapEmailErr(db.Conn(ctx, r.db).Create(u).Error)
}

func (r *UserGormRepository) UpdateUser(ctx context.Context, u *models.User) error {
	return mapEmailErr(db.Conn(ctx, r.db).Save(u).Error)
}

func (r *UserGormRepository) DeleteUser(ctx context.Context, id uint) error {
	res := db.Conn(ctx, r.db).Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("user_not_found")
	}
	return nil
}

func (r *UserGormRepository) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := db.Conn(ctx, r.db).First(&u, id).Error; err != nil {
		return nil, notFound(err, "user_not_found")
	}
	return &u, nil
}

func (r *UserGormRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := db.Conn(ctx, r.db).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, notFound(err, "user_not_found")
	}
	return &u, nil
}

func (r *UserGormRepository) ListUsers(ctx context.Context, status string) ([]models.User, error) {
	var users []models.User

	q := db.Conn(ctx, r.db).Order("id ASC")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserGormRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	q := db.Conn(ctx, r.db).
		Model(&models.User{}).
		Where("email = ?", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func notFound(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound(code)
	}
	return err
}

var _ domain.Repository = (*UserGormRepository)(nil)
