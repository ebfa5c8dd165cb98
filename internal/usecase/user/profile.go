package user

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/db"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/user"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type ProfileInput struct {
	Email    string
	Password string
}

// Profile lets any signed-in account read and change its own email and
// password.
type Profile struct {
	users domain.Repository
	tx    db.Transactor
	audit audit.Recorder
}

func NewProfile(users domain.Repository, tx db.Transactor, audit audit.Recorder) *Profile {
	return &Profile{users: users, tx: tx, audit: audit}
}

func (uc *Profile) Get(ctx context.Context, actor access.Actor) (*models.User, error) {
	return uc.users.GetUser(ctx, actor.ID)
}

func (uc *Profile) Update(ctx context.Context, actor access.Actor, in ProfileInput) (*models.User, error) {
	email := domain.NormalizeEmail(in.Email)
	if email != "" {
		if err := domain.ValidateEmail(email); err != nil {
			return nil, err
		}
	}
	if in.Password != "" {
		if err := domain.ValidatePassword(in.Password); err != nil {
			return nil, err
		}
	}

	var u *models.User
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if u, err = uc.users.GetUser(ctx, actor.ID); err != nil {
			return err
		}

		if email != "" && email != u.Email {
			taken, err := uc.users.EmailTaken(ctx, email, u.ID)
			if err != nil {
				return err
			}
			if taken {
				return httperr.ErrBusiness("email_taken")
			}
			u.Email = email
		}
		if in.Password != "" {
			if u.PasswordHash, err = domain.HashPassword(in.Password); err != nil {
				return err
			}
		}

		if err := uc.users.UpdateUser(ctx, u); err != nil {
			return err
		}
		uc.audit.Record(ctx, actor, audit.VerbUpdate, audit.EntityUser, u.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}
