package promos

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/asifmahmud/banglahat-backend/pkg/db"
	"github.com/asifmahmud/banglahat-backend/pkg/db/models"
	pkgerrors "github.com/asifmahmud/banglahat-backend/pkg/errors"
)

// Discount is the outcome of applying a promo code to a subtotal.
type Discount struct {
	Code            string          `json:"code"`
	DiscountPercent int             `json:"discountPercent"`
	Amount          decimal.Decimal `json:"amount"`
	DiscountedTotal decimal.Decimal `json:"discountedTotal"`
}

// Service manages discount codes and applies them at checkout preview.
type Service interface {
	Create(ctx context.Context, code string, discountPercent int, expiresAt *time.Time) (*models.PromoCode, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]models.PromoCode, error)

	// Apply validates a code against the subtotal and returns the discount.
	Apply(ctx context.Context, code string, subtotal decimal.Decimal) (*Discount, error)
}

type service struct {
	db *gorm.DB
}

func NewService(conn *gorm.DB) Service {
	return &service{db: conn}
}

func (s *service) Create(ctx context.Context, code string, discountPercent int, expiresAt *time.Time) (*models.PromoCode, error) {
	code = normalize(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is required")
	}
	if discountPercent < 1 || discountPercent > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount percent must be between 1 and 100")
	}

	promo := &models.PromoCode{
		Code:            code,
		DiscountPercent: discountPercent,
		Active:          true,
		ExpiresAt:       expiresAt,
	}
	if err := s.db.WithContext(ctx).Create(promo).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "promo code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inserting promo code")
	}
	return promo, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.PromoCode{}, "id = ?", id)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "deleting promo code")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "promo code not found")
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]models.PromoCode, error) {
	var promos []models.PromoCode
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&promos).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing promo codes")
	}
	return promos, nil
}

func (s *service) Apply(ctx context.Context, code string, subtotal decimal.Decimal) (*Discount, error) {
	code = normalize(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is required")
	}

	var promo models.PromoCode
	err := s.db.WithContext(ctx).First(&promo, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promo code not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading promo code")
	}

	if !promo.Active {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is no longer active")
	}
	if promo.ExpiresAt != nil && promo.ExpiresAt.Before(time.Now().UTC()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code has expired")
	}

	amount := subtotal.
		Mul(decimal.NewFromInt(int64(promo.DiscountPercent))).
		Div(decimal.NewFromInt(100)).
		Round(2)

	return &Discount{
		Code:            promo.Code,
		DiscountPercent: promo.DiscountPercent,
		Amount:          amount,
		DiscountedTotal: subtotal.Sub(amount),
	}, nil
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
