package appointment

import "github.com/BruksfildServices01/clinic-scheduler/internal/httperr"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return st, nil
	}
	return "", httperr.ErrBusiness("invalid_status")
}

func InitialStatus() Status {
	return StatusPending
}

// Occupies reports whether an appointment in this status holds its slot.
func (s Status) Occupies() bool {
	return s != StatusCancelled
}

// CanEdit: owners may only change pending appointments.
func CanEdit(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("appointment_not_pending")
	}
	return nil
}

func CanCancel(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("appointment_not_pending")
	}
	return nil
}

// CanTransition: pending moves anywhere, confirmed and cancelled are final.
func CanTransition(from, to Status) error {
	if from == to || from == StatusPending {
		return nil
	}
	return httperr.ErrBusiness("invalid_status_change")
}
