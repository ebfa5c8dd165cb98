package user

import (
	"strings"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/validators"
)

const MinPasswordLength = 6

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) error {
	if !validators.IsEmail(email) {
		return httperr.ErrBusiness("invalid_email")
	}
	return nil
}

func ValidatePassword(pw string) error {
	if len(pw) < MinPasswordLength {
		return httperr.ErrBusiness("password_too_short")
	}
	return nil
}

func ValidateStatus(status string) error {
	switch status {
	case models.UserStatusActive, models.UserStatusInactive:
		return nil
	}
	return httperr.ErrBusiness("invalid_user_status")
}
