package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/clinic-scheduler/internal/db"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/product"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type ProductGormRepository struct {
	db *gorm.DB
}

func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

func (r *ProductGormRepository) CreateProduct(ctx context.Context, p *models.Product) error {
	return db.Conn(ctx, r.db).Omit(clause.Associations).Create(p).Error
}

func (r *ProductGormRepository) UpdateProduct(ctx context.Context, p *models.Product) error {
	return db.Conn(ctx, r.db).Omit(clause.Associations).Save(p).Error
}

func (r *ProductGormRepository) DeleteProduct(ctx context.Context, id uint) error {
	res := db.Conn(ctx, r.db).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("product_not_found")
	}
	return nil
}

func (r *ProductGormRepository) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := db.Conn(ctx, r.db).First(&p, id).Error; err != nil {
		return nil, notFound(err, "product_not_found")
	}
	return &p, nil
}

func (r *ProductGormRepository) scope(ctx context.Context, ownerID *uint) *gorm.DB {
	q := db.Conn(ctx, r.db).Model(&models.Product{})
	if ownerID != nil {
		q = q.Where("created_by_id = ?", *ownerID)
	}
	return q
}

func (r *ProductGormRepository) ListProducts(ctx context.Context, ownerID *uint) ([]models.Product, error) {
	var products []models.Product
	if err := r.scope(ctx, ownerID).Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductGormRepository) CountProducts(ctx context.Context, ownerID *uint) (int64, error) {
	var n int64
	err := r.scope(ctx, ownerID).Count(&n).Error
	return n, err
}

var _ domain.Repository = (*ProductGormRepository)(nil)
