package product

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/db"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/product"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type Input struct {
	Name        string
	Description string
	Price       float64
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Name) == "" || in.Price < 0 {
		return httperr.ErrBusiness("invalid_product")
	}
	return nil
}

// Catalog is the product CRUD surface. Admins see and change every product,
// staff only the ones they created, plain users nothing.
type Catalog struct {
	repo  domain.Repository
	tx    db.Transactor
	audit audit.Recorder
}

func NewCatalog(repo domain.Repository, tx db.Transactor, audit audit.Recorder) *Catalog {
	return &Catalog{repo: repo, tx: tx, audit: audit}
}

func (uc *Catalog) List(ctx context.Context, actor access.Actor) ([]models.Product, error) {
	if !access.CanManageProducts(actor) {
		return nil, httperr.ErrForbidden("forbidden")
	}

	if actor.IsAdmin() {
		return uc.repo.ListProducts(ctx, nil)
	}
	id := actor.ID
	return uc.repo.ListProducts(ctx, &id)
}

func (uc *Catalog) Get(ctx context.Context, actor access.Actor, id uint) (*models.Product, error) {
	if !access.CanManageProducts(actor) {
		return nil, httperr.ErrForbidden("forbidden")
	}
	return uc.owned(ctx, actor, id)
}

func (uc *Catalog) Create(ctx context.Context, actor access.Actor, in Input) (*models.Product, error) {
	if !access.CanManageProducts(actor) {
		return nil, httperr.ErrForbidden("forbidden")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	p := &models.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		CreatedByID: actor.ID,
	}

	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.repo.CreateProduct(ctx, p); err != nil {
			return err
		}
		uc.audit.Record(ctx, actor, audit.VerbCreate, audit.EntityProduct, p.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *Catalog) Update(ctx context.Context, actor access.Actor, id uint, in Input) (*models.Product, error) {
	if !access.CanManageProducts(actor) {
		return nil, httperr.ErrForbidden("forbidden")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	var p *models.Product
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if p, err = uc.owned(ctx, actor, id); err != nil {
			return err
		}

		p.Name = strings.TrimSpace(in.Name)
		p.Description = in.Description
		p.Price = in.Price

		if err := uc.repo.UpdateProduct(ctx, p); err != nil {
			return err
		}
		uc.audit.Record(ctx, actor, audit.VerbUpdate, audit.EntityProduct, p.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *Catalog) Delete(ctx context.Context, actor access.Actor, id uint) error {
	if !access.CanManageProducts(actor) {
		return httperr.ErrForbidden("forbidden")
	}

	return uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := uc.owned(ctx, actor, id); err != nil {
			return err
		}
		if err := uc.repo.DeleteProduct(ctx, id); err != nil {
			return err
		}
		uc.audit.Record(ctx, actor, audit.VerbDelete, audit.EntityProduct, id)
		return nil
	})
}

// owned loads the product and runs the ownership check before any mutation.
func (uc *Catalog) owned(ctx context.Context, actor access.Actor, id uint) (*models.Product, error) {
	p, err := uc.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanMutateProduct(actor, p.CreatedByID) {
		return nil, httperr.ErrForbidden("product_not_owned")
	}
	return p, nil
}
