package admin

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/asifmahmud/banglahat-backend/pkg/db"
	"github.com/asifmahmud/banglahat-backend/pkg/db/models"
	pkgerrors "github.com/asifmahmud/banglahat-backend/pkg/errors"
)

// Repository persists back-office accounts.
type Repository interface {
	Create(ctx context.Context, admin *models.AdminUser) error
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, admin *models.AdminUser) error {
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inserting admin user")
	}
	return nil
}

func (r *gormRepository) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var admin models.AdminUser
	err := r.db.WithContext(ctx).
		First(&admin, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "admin user not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading admin user")
	}
	return &admin, nil
}
