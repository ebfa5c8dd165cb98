package models

import "time"

type ActivityLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID   *uint   `gorm:"index" json:"user_id"`
	User     *User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	Username *string `gorm:"size:180" json:"username"`

	Role   string `gorm:"size:255;not null" json:"role"`
	Action string `gorm:"size:255;not null;index" json:"action"`

	EntityType *string `gorm:"size:50;index" json:"entity_type"`
	EntityID   *uint   `json:"entity_id"`

	DateTime time.Time `gorm:"not null;index" json:"date_time"`
}
