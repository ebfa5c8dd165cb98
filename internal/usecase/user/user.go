package user

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/db"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/activity"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/product"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/user"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateInput struct {
	Email    string
	Password string
	Roles    []string
	Status   string
}

// UpdateInput leaves the password unchanged when blank, the roles when nil
// and the status when empty.
type UpdateInput struct {
	Email    string
	Password string
	Roles    []string
	Status   string
}

// ======================================================
// USE CASE
// ======================================================

// Accounts is the admin-only user management surface.
type Accounts struct {
	users        domain.Repository
	products     product.Repository
	appointments appointment.Repository
	logs         activity.Repository
	tx           db.Transactor
	audit        audit.Recorder
}

func NewAccounts(
	users domain.Repository,
	products product.Repository,
	appointments appointment.Repository,
	logs activity.Repository,
	tx db.Transactor,
	audit audit.Recorder,
) *Accounts {
	return &Accounts{
		users:        users,
		products:     products,
		appointments: appointments,
		logs:         logs,
		tx:           tx,
		audit:        audit,
	}
}

func guard(actor access.Actor) error {
	if !access.CanManageUsers(actor) {
		return httperr.ErrForbidden("forbidden")
	}
	return nil
}

func (uc *Accounts) List(ctx context.Context, actor access.Actor, status string) ([]models.User, error) {
	if err := guard(actor); err != nil {
		return nil, err
	}
	if status != "" {
		if err := domain.ValidateStatus(status); err != nil {
			return nil, err
		}
	}
	return uc.users.ListUsers(ctx, status)
}

func (uc *Accounts) Get(ctx context.Context, actor access.Actor, id uint) (*models.User, error) {
	if err := guard(actor); err != nil {
		return nil, err
	}
	return uc.users.GetUser(ctx, id)
}

func (uc *Accounts) Create(ctx context.Context, actor access.Actor, in CreateInput) (*models.User, error) {
	if err := guard(actor); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 1. Validation
	// --------------------------------------------------
	email := domain.NormalizeEmail(in.Email)
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	roles, err := access.ParseSet(in.Roles)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_roles")
	}
	status := in.Status
	if status == "" {
		status = models.UserStatusActive
	}
	if err := domain.ValidateStatus(status); err != nil {
		return nil, err
	}

	hash, err := domain.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Email:        email,
		PasswordHash: hash,
		Roles:        roles,
		Status:       status,
	}

	// --------------------------------------------------
	// 2. Insert + audit
	// --------------------------------------------------
	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		taken, err := uc.users.EmailTaken(ctx, email, 0)
		if err != nil {
			return err
		}
		if taken {
			return httperr.ErrBusiness("email_taken")
		}

		if err := uc.users.CreateUser(ctx, u); err != nil {
			return err
		}
		uc.audit.Record(ctx, actor, audit.VerbCreate, audit.EntityUser, u.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (uc *Accounts) Update(ctx context.Context, actor access.Actor, id uint, in UpdateInput) (*models.User, error) {
	if err := guard(actor); err != nil {
		return nil, err
	}

	email := domain.NormalizeEmail(in.Email)
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}
	if in.Password != "" {
		if err := domain.ValidatePassword(in.Password); err != nil {
			return nil, err
		}
	}
	if in.Status != "" {
		if err := domain.ValidateStatus(in.Status); err != nil {
			return nil, err
		}
	}
	var roles access.Set
	if in.Roles != nil {
		var err error
		if roles, err = access.ParseSet(in.Roles); err != nil {
			return nil, httperr.ErrBusiness("invalid_roles")
		}
	}

	var u *models.User
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if u, err = uc.users.GetUser(ctx, id); err != nil {
			return err
		}

		taken, err := uc.users.EmailTaken(ctx, email, u.ID)
		if err != nil {
			return err
		}
		if taken {
			return httperr.ErrBusiness("email_taken")
		}

		u.Email = email
		if in.Password != "" {
			if u.PasswordHash, err = domain.HashPassword(in.Password); err != nil {
				return err
			}
		}
		if in.Roles != nil {
			u.Roles = roles
		}
		if in.Status != "" {
			u.Status = in.Status
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

// Delete removes an account. Its appointments stay, detached from the owner,
// and the activity rows it wrote keep its email as username. Its products
// pass to the acting admin.
func (uc *Accounts) Delete(ctx context.Context, actor access.Actor, id uint) error {
	if err := guard(actor); err != nil {
		return err
	}

	return uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		u, err := uc.users.GetUser(ctx, id)
		if err != nil {
			return err
		}

		if err := uc.handOverProducts(ctx, actor, u.ID); err != nil {
			return err
		}

		detached, err := uc.appointments.DetachUser(ctx, u.ID)
		if err != nil {
			return err
		}
		for _, apID := range detached {
			uc.audit.Record(ctx, actor, audit.VerbDetach, audit.EntityAppointment, apID)
		}
		uc.audit.Record(ctx, actor, audit.VerbDelete, audit.EntityUser, u.ID)

		// runs after the records above so a self-deletion's own rows are
		// detached too
		if _, err := uc.logs.DetachUser(ctx, u.ID, u.Email); err != nil {
			return err
		}

		return uc.users.DeleteUser(ctx, u.ID)
	})
}

// handOverProducts moves the owner's catalog to the actor. An admin deleting
// itself has nobody to hand over to, so owned products block that case.
func (uc *Accounts) handOverProducts(ctx context.Context, actor access.Actor, ownerID uint) error {
	owned, err := uc.products.ListProducts(ctx, &ownerID)
	if err != nil {
		return err
	}
	if len(owned) == 0 {
		return nil
	}
	if actor.ID == ownerID || actor.ID == 0 {
		return httperr.ErrBusiness("user_owns_products")
	}

	for i := range owned {
		p := &owned[i]
		p.CreatedByID = actor.ID
		if err := uc.products.UpdateProduct(ctx, p); err != nil {
			return err
		}
		uc.audit.Record(ctx, actor, audit.VerbUpdate, audit.EntityProduct, p.ID)
	}
	return nil
}
