package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asifmahmud/banglahat-backend/pkg/db/models"
	"github.com/asifmahmud/banglahat-backend/pkg/enums"
	pkgerrors "github.com/asifmahmud/banglahat-backend/pkg/errors"
)

// Repository persists and queries orders.
type Repository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByTrackingID(ctx context.Context, trackingID string) (*models.Order, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inserting order")
	}
	return nil
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	return &order, nil
}

func (r *gormRepository) GetByTrackingID(ctx context.Context, trackingID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).First(&order, "tracking_id = ?", trackingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	return &order, nil
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func (r *gormRepository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	query := r.db.WithContext(ctx).Model(&models.Order{})
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Phone != "" {
		query = query.Where("phone = ?", params.Phone)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting orders")
	}

	var rows []models.Order
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(params.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}

	return &ListResult{Orders: rows, Total: total}, nil
}

func (r *gormRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "updating order status")
	}
	if result.RowsAffected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return r.GetByID(ctx, id)
}
