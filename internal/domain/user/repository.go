package user

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type Repository interface {
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id uint) error

	GetUser(ctx context.Context, id uint) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)

	// ListUsers filters by status when status is not empty.
	ListUsers(ctx context.Context, status string) ([]models.User, error)

	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
}
