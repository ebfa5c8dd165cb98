// Package memory is an in-process implementation of every repository, used
// by use case and handler tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/activity"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/product"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/user"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type txKey struct{}

type state struct {
	users        map[uint]models.User
	products     map[uint]models.Product
	appointments map[uint]models.Appointment
	logs         map[uint]models.ActivityLog
	nextID       uint
}

func (s state) clone() state {
	c := state{
		users:        make(map[uint]models.User, len(s.users)),
		products:     make(map[uint]models.Product, len(s.products)),
		appointments: make(map[uint]models.Appointment, len(s.appointments)),
		logs:         make(map[uint]models.ActivityLog, len(s.logs)),
		nextID:       s.nextID,
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.appointments {
		c.appointments[k] = v
	}
	for k, v := range s.logs {
		c.logs[k] = v
	}
	return c
}

type Store struct {
	mu  sync.Mutex
	st  state
	Now func() time.Time

	// FailAudit makes every audit write fail, to exercise best-effort logging.
	FailAudit bool
	// AuditFailures counts swallowed audit errors.
	AuditFailures int
}

func New() *Store {
	return &Store{
		st: state{
			users:        map[uint]models.User{},
			products:     map[uint]models.Product{},
			appointments: map[uint]models.Appointment{},
			logs:         map[uint]models.ActivityLog{},
		},
		Now: time.Now,
	}
}

func (s *Store) id() uint {
	s.st.nextID++
	return s.st.nextID
}

// WithinTransaction restores the previous state when fn fails.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, other := range s.st.users {
		if other.Email == u.Email {
			return httperr.ErrBusiness("email_taken")
		}
	}
	u.ID = s.id()
	u.CreatedAt = s.Now()
	u.UpdatedAt = u.CreatedAt
	s.st.users[u.ID] = *u
	return nil
}

func (s *Store) UpdateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.st.users[u.ID]; !ok {
		return httperr.ErrNotFound("user_not_found")
	}
	for _, other := range s.st.users {
		if other.ID != u.ID && other.Email == u.Email {
			return httperr.ErrBusiness("email_taken")
		}
	}
	u.UpdatedAt = s.Now()
	s.st.users[u.ID] = *u
	return nil
}

func (s *Store) DeleteUser(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.st.users[id]; !ok {
		return httperr.ErrNotFound("user_not_found")
	}
	delete(s.st.users, id)

	// mirror ON DELETE SET NULL
	for k, l := range s.st.logs {
		if l.UserID != nil && *l.UserID == id {
			l.UserID = nil
			s.st.logs[k] = l
		}
	}
	for k, a := range s.st.appointments {
		if a.UserID != nil && *a.UserID == id {
			a.UserID = nil
			s.st.appointments[k] = a
		}
	}
	return nil
}

func (s *Store) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.st.users[id]
	if !ok {
		return nil, httperr.ErrNotFound("user_not_found")
	}
	return &u, nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.st.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, httperr.ErrNotFound("user_not_found")
}

func (s *Store) ListUsers(_ context.Context, status string) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.User{}
	for _, u := range s.st.users {
		if status == "" || u.Status == status {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) EmailTaken(_ context.Context, email string, excludeID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.st.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// --------------------------------------------------
// Products
// --------------------------------------------------

func (s *Store) CreateProduct(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.id()
	p.CreatedAt = s.Now()
	p.UpdatedAt = p.CreatedAt
	s.st.products[p.ID] = *p
	return nil
}

func (s *Store) UpdateProduct(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.st.products[p.ID]; !ok {
		return httperr.ErrNotFound("product_not_found")
	}
	p.UpdatedAt = s.Now()
	s.st.products[p.ID] = *p
	return nil
}

func (s *Store) DeleteProduct(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.st.products[id]; !ok {
		return httperr.ErrNotFound("product_not_found")
	}
	delete(s.st.products, id)
	return nil
}

func (s *Store) GetProduct(_ context.Context, id uint) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.st.products[id]
	if !ok {
		return nil, httperr.ErrNotFound("product_not_found")
	}
	return &p, nil
}

func (s *Store) ListProducts(_ context.Context, ownerID *uint) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Product{}
	for _, p := range s.st.products {
		if ownerID == nil || p.CreatedByID == *ownerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CountProducts(ctx context.Context, ownerID *uint) (int64, error) {
	ps, err := s.ListProducts(ctx, ownerID)
	return int64(len(ps)), err
}

// --------------------------------------------------
// Appointments
// --------------------------------------------------

func (s *Store) slotHeld(ap *models.Appointment) bool {
	if !appointment.Status(ap.Status).Occupies() {
		return false
	}
	for _, other := range s.st.appointments {
		if other.ID != ap.ID &&
			appointment.Status(other.Status).Occupies() &&
			other.AppointmentDate.Equal(ap.AppointmentDate) &&
			other.TimeSlot == ap.TimeSlot {
			return true
		}
	}
	return false
}

func (s *Store) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.slotHeld(ap) {
		return httperr.ErrConflict("slot_conflict")
	}
	ap.ID = s.id()
	ap.CreatedAt = s.Now()
	ap.UpdatedAt = ap.CreatedAt
	s.st.appointments[ap.ID] = *ap
	return nil
}

func (s *Store) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.st.appointments[ap.ID]; !ok {
		return httperr.ErrNotFound("appointment_not_found")
	}
	if s.slotHeld(ap) {
		return httperr.ErrConflict("slot_conflict")
	}
	ap.UpdatedAt = s.Now()
	s.st.appointments[ap.ID] = *ap
	return nil
}

func (s *Store) DeleteAppointment(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.st.appointments[id]; !ok {
		return httperr.ErrNotFound("appointment_not_found")
	}
	delete(s.st.appointments, id)
	return nil
}

func (s *Store) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ap, ok := s.st.appointments[id]
	if !ok {
		return nil, httperr.ErrNotFound("appointment_not_found")
	}
	return &ap, nil
}

func (s *Store) SlotTaken(_ context.Context, date time.Time, slot string, excludeID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	probe := models.Appointment{
		ID:              excludeID,
		AppointmentDate: date,
		TimeSlot:        slot,
		Status:          string(appointment.StatusPending),
	}
	return s.slotHeld(&probe), nil
}

func (s *Store) ListAppointments(_ context.Context, f appointment.ListFilter) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Appointment{}
	for _, ap := range s.st.appointments {
		if f.UserID != nil && (ap.UserID == nil || *ap.UserID != *f.UserID) {
			continue
		}
		out = append(out, ap)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.AppointmentDate.Equal(b.AppointmentDate) {
			return a.AppointmentDate.After(b.AppointmentDate)
		}
		if a.TimeSlot != b.TimeSlot {
			return a.TimeSlot < b.TimeSlot
		}
		return a.ID > b.ID
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) CountAppointments(ctx context.Context) (int64, error) {
	aps, err := s.ListAppointments(ctx, appointment.ListFilter{})
	return int64(len(aps)), err
}

func (s *Store) DetachUser(_ context.Context, userID uint) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := []uint{}
	for k, ap := range s.st.appointments {
		if ap.UserID != nil && *ap.UserID == userID {
			ap.UserID = nil
			s.st.appointments[k] = ap
			ids = append(ids, k)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// --------------------------------------------------
// Activity logs
// --------------------------------------------------

// Logs is the activity log repository view of the store. It is a separate
// type because DetachUser has a different shape there.
type Logs struct{ s *Store }

func (s *Store) Logs() *Logs { return &Logs{s: s} }

func (l *Logs) ListLogs(_ context.Context, f activity.Filter) ([]models.ActivityLog, int64, error) {
	s := l.s
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.ActivityLog{}
	for _, row := range s.st.logs {
		if f.Action != "" && row.Action != f.Action {
			continue
		}
		if f.EntityType != "" && (row.EntityType == nil || *row.EntityType != f.EntityType) {
			continue
		}
		if f.From != nil && row.DateTime.Before(*f.From) {
			continue
		}
		if f.To != nil && row.DateTime.After(*f.To) {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateTime.Equal(out[j].DateTime) {
			return out[i].DateTime.After(out[j].DateTime)
		}
		return out[i].ID > out[j].ID
	})

	total := int64(len(out))
	if f.Limit > 0 {
		start := f.Offset()
		if start > len(out) {
			start = len(out)
		}
		end := start + f.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, total, nil
}

func (l *Logs) GetLog(_ context.Context, id uint) (*models.ActivityLog, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	row, ok := l.s.st.logs[id]
	if !ok {
		return nil, httperr.ErrNotFound("activity_log_not_found")
	}
	return &row, nil
}

func (l *Logs) DeleteLog(_ context.Context, id uint) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	if _, ok := l.s.st.logs[id]; !ok {
		return httperr.ErrNotFound("activity_log_not_found")
	}
	delete(l.s.st.logs, id)
	return nil
}

func (l *Logs) CountLogs(_ context.Context) (int64, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return int64(len(l.s.st.logs)), nil
}

func (l *Logs) DetachUser(_ context.Context, userID uint, email string) (int64, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	var n int64
	for k, row := range l.s.st.logs {
		if row.UserID == nil || *row.UserID != userID {
			continue
		}
		if row.Username == nil || *row.Username == "" {
			e := email
			row.Username = &e
		}
		row.UserID = nil
		l.s.st.logs[k] = row
		n++
	}
	return n, nil
}

// Record implements audit.Recorder.
func (s *Store) Record(_ context.Context, actor access.Actor, verb audit.Verb, entityType string, entityID uint) {
	id := entityID
	s.write(audit.Entry{Actor: actor, Verb: verb, EntityType: entityType, EntityID: &id})
}

// Dispatch records session events synchronously.
func (s *Store) Dispatch(e audit.Entry) {
	s.write(e)
}

func (s *Store) write(e audit.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailAudit {
		s.AuditFailures++
		return
	}

	row := models.ActivityLog{
		ID:       s.id(),
		Role:     e.Actor.Roles.String(),
		Action:   e.Action(),
		EntityID: e.EntityID,
		DateTime: s.Now(),
	}
	if e.EntityType != "" {
		et := e.EntityType
		row.EntityType = &et
	}
	if e.Actor.ID != 0 {
		aid := e.Actor.ID
		row.UserID = &aid
	}
	s.st.logs[row.ID] = row
}

// AllLogs returns every activity log row ordered by id.
func (s *Store) AllLogs() []models.ActivityLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.ActivityLog, 0, len(s.st.logs))
	for _, row := range s.st.logs {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

var (
	_ user.Repository        = (*Store)(nil)
	_ product.Repository     = (*Store)(nil)
	_ appointment.Repository = (*Store)(nil)
	_ activity.Repository    = (*Logs)(nil)
	_ audit.Recorder         = (*Store)(nil)
)
