package appointment

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

const DateLayout = "2006-01-02"

// ParseDate reads a calendar date. Dates are stored as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness("invalid_date")
	}
	return d, nil
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateBookingDate rejects anything before tomorrow; now must already be
// in the clinic's timezone.
func ValidateBookingDate(date, now time.Time) error {
	tomorrow := DateOf(now).AddDate(0, 0, 1)
	if DateOf(date).Before(tomorrow) {
		return httperr.ErrBusiness("date_too_soon")
	}
	return nil
}
