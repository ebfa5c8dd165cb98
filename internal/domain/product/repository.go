package product

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type Repository interface {
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error

	GetProduct(ctx context.Context, id uint) (*models.Product, error)

	// ListProducts returns every product when ownerID is nil.
	ListProducts(ctx context.Context, ownerID *uint) ([]models.Product, error)

	CountProducts(ctx context.Context, ownerID *uint) (int64, error)
}
