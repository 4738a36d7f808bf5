package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asifmahmud/banglahat-backend/pkg/db"
	"github.com/asifmahmud/banglahat-backend/pkg/db/models"
	pkgerrors "github.com/asifmahmud/banglahat-backend/pkg/errors"
)

// ProductFilter narrows the product listing.
type ProductFilter struct {
	CategoryID *uuid.UUID
	ActiveOnly bool
	Limit      int
	Offset     int
}

// Repository persists the storefront catalog.
type Repository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error)

	CreateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]models.Category, error)

	CreateOffer(ctx context.Context, offer *models.Offer) error
	UpdateOffer(ctx context.Context, offer *models.Offer) error
	DeleteOffer(ctx context.Context, id uuid.UUID) error
	ListOffers(ctx context.Context, activeAt *time.Time) ([]models.Offer, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inserting product")
	}
	return nil
}

func (r *gormRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		Select("name", "description", "price", "image_url", "category_id", "is_customizable", "active").
		Updates(product)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "updating product")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (r *gormRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "deleting product")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (r *gormRepository) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	return &product, nil
}

func (r *gormRepository) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}

	var products []models.Product
	err := query.Order("created_at DESC").Limit(limit).Offset(filter.Offset).Find(&products).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing products")
	}
	return products, nil
}

func (r *gormRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inserting category")
	}
	return nil
}

func (r *gormRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "deleting category")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	return nil
}

func (r *gormRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing categories")
	}
	return categories, nil
}

func (r *gormRepository) CreateOffer(ctx context.Context, offer *models.Offer) error {
	if err := r.db.WithContext(ctx).Create(offer).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inserting offer")
	}
	return nil
}

func (r *gormRepository) UpdateOffer(ctx context.Context, offer *models.Offer) error {
	result := r.db.WithContext(ctx).
		Model(&models.Offer{}).
		Where("id = ?", offer.ID).
		Select("title", "description", "image_url", "product_id", "active", "starts_at", "ends_at").
		Updates(offer)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "updating offer")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
	}
	return nil
}

func (r *gormRepository) DeleteOffer(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Offer{}, "id = ?", id)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "deleting offer")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
	}
	return nil
}

func (r *gormRepository) ListOffers(ctx context.Context, activeAt *time.Time) ([]models.Offer, error) {
	query := r.db.WithContext(ctx).Model(&models.Offer{})
	if activeAt != nil {
		query = query.
			Where("active = ?", true).
			Where("starts_at IS NULL OR starts_at <= ?", *activeAt).
			Where("ends_at IS NULL OR ends_at >= ?", *activeAt)
	}

	var offers []models.Offer
	if err := query.Order("created_at DESC").Find(&offers).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing offers")
	}
	return offers, nil
}
