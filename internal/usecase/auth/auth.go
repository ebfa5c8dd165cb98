package auth

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/db"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/user"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/session"
)

// SessionEvents receives LOGIN and LOGOUT entries. audit.Dispatcher writes
// them off the request path.
type SessionEvents interface {
	Dispatch(e audit.Entry)
}

type Credentials struct {
	Email    string
	Password string
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type Service struct {
	users    domain.Repository
	tx       db.Transactor
	audit    audit.Recorder
	events   SessionEvents
	sessions *session.Manager
}

func NewService(
	users domain.Repository,
	tx db.Transactor,
	audit audit.Recorder,
	events SessionEvents,
	sessions *session.Manager,
) *Service {
	return &Service{
		users:    users,
		tx:       tx,
		audit:    audit,
		events:   events,
		sessions: sessions,
	}
}

func ActorOf(u *models.User) access.Actor {
	return access.Actor{ID: u.ID, Email: u.Email, Roles: u.Roles}
}

// Register opens a plain, active account. The new user is the actor of its
// own CREATE User entry.
func (s *Service) Register(ctx context.Context, in Credentials) (*models.User, error) {
	email := domain.NormalizeEmail(in.Email)
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := domain.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Email:        email,
		PasswordHash: hash,
		Roles:        access.NewSet(),
		Status:       models.UserStatusActive,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		taken, err := s.users.EmailTaken(ctx, email, 0)
		if err != nil {
			return err
		}
		if taken {
			return httperr.ErrBusiness("email_taken")
		}

		if err := s.users.CreateUser(ctx, u); err != nil {
			return err
		}
		s.audit.Record(ctx, ActorOf(u), audit.VerbCreate, audit.EntityUser, u.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Login(ctx context.Context, in Credentials) (*LoginResult, error) {
	u, err := s.users.FindUserByEmail(ctx, domain.NormalizeEmail(in.Email))
	if httperr.IsKind(err, httperr.KindNotFound) {
		return nil, httperr.ErrUnauthorized("invalid_credentials")
	}
	if err != nil {
		return nil, err
	}

	if !domain.CheckPassword(u.PasswordHash, in.Password) {
		return nil, httperr.ErrUnauthorized("invalid_credentials")
	}
	if !u.IsActive() {
		return nil, httperr.ErrUnauthorized("account_inactive")
	}

	token, err := s.sessions.Issue(u)
	if err != nil {
		return nil, err
	}

	s.events.Dispatch(audit.Entry{Actor: ActorOf(u), Verb: audit.VerbLogin})
	return &LoginResult{Token: token, User: u}, nil
}

func (s *Service) Logout(ctx context.Context, actor access.Actor, claims *session.Claims) error {
	if err := s.sessions.Revoke(ctx, claims); err != nil {
		return err
	}
	s.events.Dispatch(audit.Entry{Actor: actor, Verb: audit.VerbLogout})
	return nil
}
