package activity

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type Filter struct {
	Action     string
	EntityType string
	From       *time.Time
	To         *time.Time

	Page  int
	Limit int
}

func (f Filter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type Repository interface {
	ListLogs(ctx context.Context, f Filter) ([]models.ActivityLog, int64, error)
	GetLog(ctx context.Context, id uint) (*models.ActivityLog, error)
	DeleteLog(ctx context.Context, id uint) error
	CountLogs(ctx context.Context) (int64, error)

	// DetachUser clears the actor reference on every row written by userID,
	// filling username with email where it is still empty.
	DetachUser(ctx context.Context, userID uint, email string) (int64, error)
}
