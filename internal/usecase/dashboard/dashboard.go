package dashboard

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/activity"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/product"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/user"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const recentLimit = 5

type AdminSummary struct {
	Users        int `json:"users"`
	StaffOnly    int `json:"staff_only"`
	RegularUsers int `json:"regular_users"`

	Products     int64 `json:"products"`
	ActivityLogs int64 `json:"activity_logs"`
	Appointments int64 `json:"appointments"`

	RecentAppointments []models.Appointment `json:"recent_appointments"`
}

type UserSummary struct {
	RecentAppointments []models.Appointment `json:"recent_appointments"`
}

type Dashboard struct {
	users        user.Repository
	products     product.Repository
	appointments appointment.Repository
	logs         activity.Repository
}

func New(
	users user.Repository,
	products product.Repository,
	appointments appointment.Repository,
	logs activity.Repository,
) *Dashboard {
	return &Dashboard{
		users:        users,
		products:     products,
		appointments: appointments,
		logs:         logs,
	}
}

func (d *Dashboard) Admin(ctx context.Context, actor access.Actor) (*AdminSummary, error) {
	if !actor.IsAdmin() {
		return nil, httperr.ErrForbidden("forbidden")
	}

	users, err := d.users.ListUsers(ctx, "")
	if err != nil {
		return nil, err
	}

	s := &AdminSummary{Users: len(users)}
	for _, u := range users {
		switch {
		case access.IsStaffOnly(u.Roles):
			s.StaffOnly++
		case access.IsRegular(u.Roles):
			s.RegularUsers++
		}
	}

	if s.Products, err = d.products.CountProducts(ctx, nil); err != nil {
		return nil, err
	}
	if s.ActivityLogs, err = d.logs.CountLogs(ctx); err != nil {
		return nil, err
	}
	if s.Appointments, err = d.appointments.CountAppointments(ctx); err != nil {
		return nil, err
	}
	if s.RecentAppointments, err = d.appointments.ListAppointments(ctx, appointment.ListFilter{Limit: recentLimit}); err != nil {
		return nil, err
	}

	return s, nil
}

func (d *Dashboard) User(ctx context.Context, actor access.Actor) (*UserSummary, error) {
	id := actor.ID
	recent, err := d.appointments.ListAppointments(ctx, appointment.ListFilter{UserID: &id, Limit: recentLimit})
	if err != nil {
		return nil, err
	}
	return &UserSummary{RecentAppointments: recent}, nil
}
