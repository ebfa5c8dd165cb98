package models

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Email        string     `gorm:"size:180;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	Roles        access.Set `gorm:"type:smallint;not null;default:1" json:"roles"`
	Status       string     `gorm:"size:20;not null;default:'active'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
