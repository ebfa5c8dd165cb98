package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// UserID is cleared when the owner account is deleted; OwnerEmail keeps
	// the booking attributable.
	UserID     *uint  `gorm:"index" json:"user_id"`
	User       *User  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	OwnerEmail string `gorm:"size:180" json:"owner_email"`

	Service         string    `gorm:"size:50;not null" json:"service"`
	AppointmentDate time.Time `gorm:"type:date;not null" json:"appointment_date"`
	TimeSlot        string    `gorm:"size:20;not null" json:"time_slot"`

	Status string `gorm:"size:20;not null;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
