package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/confirm"
	"github.com/BruksfildServices01/clinic-scheduler/internal/db"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const cancelPurpose = "cancel-appointment"

// IssueCancelToken hands the owner of a pending appointment a single-use
// token that CancelAppointment must present.
type IssueCancelToken struct {
	repo   domain.Repository
	tokens *confirm.Tokens
}

func NewIssueCancelToken(repo domain.Repository, tokens *confirm.Tokens) *IssueCancelToken {
	return &IssueCancelToken{repo: repo, tokens: tokens}
}

func (uc *IssueCancelToken) Execute(
	ctx context.Context,
	actor access.Actor,
	appointmentID uint,
) (string, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return "", err
	}
	if err := ownedBy(ap, actor); err != nil {
		return "", err
	}
	if err := domain.CanCancel(domain.Status(ap.Status)); err != nil {
		return "", err
	}

	return uc.tokens.Issue(ctx, cancelPurpose, ap.ID, actor.ID)
}

// ExpiresIn is how long an issued token stays valid.
func (uc *IssueCancelToken) ExpiresIn() time.Duration {
	return uc.tokens.TTL()
}

type CancelAppointment struct {
	repo   domain.Repository
	tx     db.Transactor
	audit  audit.Recorder
	tokens *confirm.Tokens
}

func NewCancelAppointment(
	repo domain.Repository,
	tx db.Transactor,
	audit audit.Recorder,
	tokens *confirm.Tokens,
) *CancelAppointment {
	return &CancelAppointment{
		repo:   repo,
		tx:     tx,
		audit:  audit,
		tokens: tokens,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	actor access.Actor,
	appointmentID uint,
	token string,
) (*models.Appointment, error) {

	// the token is burned even when a later check fails
	if err := uc.tokens.Consume(ctx, cancelPurpose, appointmentID, actor.ID, token); err != nil {
		return nil, err
	}

	var ap *models.Appointment
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		ap, err = uc.repo.GetAppointment(ctx, appointmentID)
		if err != nil {
			return err
		}

		if err := ownedBy(ap, actor); err != nil {
			return err
		}
		if err := domain.CanCancel(domain.Status(ap.Status)); err != nil {
			return err
		}

		ap.Status = string(domain.StatusCancelled)
		if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		uc.audit.Record(ctx, actor, audit.VerbUpdate, audit.EntityAppointment, ap.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ap, nil
}
