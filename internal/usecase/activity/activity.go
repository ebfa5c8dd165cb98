package activity

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/db"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/activity"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

type ListInput struct {
	Action     string
	EntityType string
	From       string
	To         string
	Page       int
	Limit      int
}

type Page struct {
	Items []models.ActivityLog `json:"items"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

type Logs struct {
	repo  domain.Repository
	tx    db.Transactor
	audit audit.Recorder
}

func NewLogs(repo domain.Repository, tx db.Transactor, audit audit.Recorder) *Logs {
	return &Logs{repo: repo, tx: tx, audit: audit}
}

// List returns the trail newest first. From and To are calendar dates; To
// includes the whole day.
func (uc *Logs) List(ctx context.Context, actor access.Actor, in ListInput) (*Page, error) {
	if !access.CanManageActivityLogs(actor) {
		return nil, httperr.ErrForbidden("forbidden")
	}

	f := domain.Filter{
		Action:     in.Action,
		EntityType: in.EntityType,
		Page:       in.Page,
		Limit:      in.Limit,
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}

	if in.From != "" {
		from, err := time.Parse(time.DateOnly, in.From)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
		f.From = &from
	}
	if in.To != "" {
		to, err := time.Parse(time.DateOnly, in.To)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		f.To = &end
	}

	items, total, err := uc.repo.ListLogs(ctx, f)
	if err != nil {
		return nil, err
	}

	return &Page{Items: items, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

// Delete removes one entry. Removing a "DELETE ActivityLog" row is not
// itself logged so cleaning the trail cannot grow it.
func (uc *Logs) Delete(ctx context.Context, actor access.Actor, id uint) error {
	if !access.CanManageActivityLogs(actor) {
		return httperr.ErrForbidden("forbidden")
	}

	return uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		row, err := uc.repo.GetLog(ctx, id)
		if err != nil {
			return err
		}
		if err := uc.repo.DeleteLog(ctx, id); err != nil {
			return err
		}

		self := audit.Entry{Verb: audit.VerbDelete, EntityType: audit.EntityActivityLog}.Action()
		if row.Action != self {
			uc.audit.Record(ctx, actor, audit.VerbDelete, audit.EntityActivityLog, id)
		}
		return nil
	})
}
