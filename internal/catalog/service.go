package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/asifmahmud/banglahat-backend/pkg/db/models"
	pkgerrors "github.com/asifmahmud/banglahat-backend/pkg/errors"
)

// ProductInput carries a product create/update payload.
type ProductInput struct {
	Name           string
	Description    string
	Price          decimal.Decimal
	ImageURL       string
	CategoryID     *uuid.UUID
	IsCustomizable bool
	Active         bool
}

// OfferInput carries an offer create/update payload.
type OfferInput struct {
	Title       string
	Description string
	ImageURL    string
	ProductID   *uuid.UUID
	Active      bool
	StartsAt    *time.Time
	EndsAt      *time.Time
}

// Service manages the storefront catalog.
type Service interface {
	CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error)

	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]models.Category, error)

	CreateOffer(ctx context.Context, input OfferInput) (*models.Offer, error)
	UpdateOffer(ctx context.Context, id uuid.UUID, input OfferInput) (*models.Offer, error)
	DeleteOffer(ctx context.Context, id uuid.UUID) error
	ListOffers(ctx context.Context, activeOnly bool) ([]models.Offer, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	product := &models.Product{
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		Price:          input.Price,
		ImageURL:       input.ImageURL,
		CategoryID:     input.CategoryID,
		IsCustomizable: input.IsCustomizable,
		Active:         input.Active,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	product := &models.Product{
		ID:             id,
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		Price:          input.Price,
		ImageURL:       input.ImageURL,
		CategoryID:     input.CategoryID,
		IsCustomizable: input.IsCustomizable,
		Active:         input.Active,
	}
	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	return s.repo.GetProduct(ctx, id)
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteProduct(ctx, id)
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *service) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	return s.repo.ListProducts(ctx, filter)
}

func (s *service) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	category := &models.Category{Name: name, Slug: slugify(name)}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *service) CreateOffer(ctx context.Context, input OfferInput) (*models.Offer, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer title is required")
	}
	offer := &models.Offer{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		ImageURL:    input.ImageURL,
		ProductID:   input.ProductID,
		Active:      input.Active,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
	}
	if err := s.repo.CreateOffer(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

func (s *service) UpdateOffer(ctx context.Context, id uuid.UUID, input OfferInput) (*models.Offer, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer title is required")
	}
	offer := &models.Offer{
		ID:          id,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		ImageURL:    input.ImageURL,
		ProductID:   input.ProductID,
		Active:      input.Active,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
	}
	if err := s.repo.UpdateOffer(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

func (s *service) DeleteOffer(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteOffer(ctx, id)
}

func (s *service) ListOffers(ctx context.Context, activeOnly bool) ([]models.Offer, error) {
	if !activeOnly {
		return s.repo.ListOffers(ctx, nil)
	}
	now := time.Now().UTC()
	return s.repo.ListOffers(ctx, &now)
}

func validateProductInput(input ProductInput) error {
	fieldErrors := map[string]string{}
	if strings.TrimSpace(input.Name) == "" {
		fieldErrors["name"] = "name is required"
	}
	if input.Price.IsNegative() || input.Price.IsZero() {
		fieldErrors["price"] = "price must be positive"
	}
	if len(fieldErrors) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product").
			WithDetails(map[string]any{"fields": fieldErrors})
	}
	return nil
}

// slugify builds a URL-safe identifier. Bengali characters survive as-is;
// spaces collapse to hyphens.
func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	return slug
}
