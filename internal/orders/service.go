package orders

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/asifmahmud/banglahat-backend/pkg/db"
	"github.com/asifmahmud/banglahat-backend/pkg/db/models"
	"github.com/asifmahmud/banglahat-backend/pkg/enums"
	pkgerrors "github.com/asifmahmud/banglahat-backend/pkg/errors"
	"github.com/asifmahmud/banglahat-backend/pkg/logger"
	"github.com/asifmahmud/banglahat-backend/pkg/metrics"
	"github.com/asifmahmud/banglahat-backend/pkg/types"
)

// Service owns the order lifecycle from creation to status changes.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByTrackingID(ctx context.Context, trackingID string) (*models.Order, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)

	// SetStatus moves an order to the given status. Any known status may be
	// set from any other, including moves out of terminal statuses; support
	// staff routinely reopen delivered orders for returns and corrections.
	SetStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error)
}

type service struct {
	repo    Repository
	logg    *logger.Logger
	metrics *metrics.CheckoutMetrics
}

func NewService(repo Repository, logg *logger.Logger, m *metrics.CheckoutMetrics) Service {
	return &service{repo: repo, logg: logg, metrics: m}
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}

	items, err := json.Marshal(input.Items)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding order items")
	}

	var paymentInfo types.RawJSON
	if input.Payment != nil {
		encoded, err := json.Marshal(input.Payment)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding payment info")
		}
		paymentInfo = types.RawJSON(encoded)
	}

	var customImages types.RawJSON
	if len(input.CustomImages) > 0 {
		encoded, err := json.Marshal(input.CustomImages)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding custom images")
		}
		customImages = types.RawJSON(encoded)
	}

	order := &models.Order{
		TrackingID:           NewTrackingID(),
		CustomerName:         input.CustomerName,
		Phone:                input.Phone,
		District:             input.District,
		Thana:                input.Thana,
		Address:              input.Address,
		Items:                types.RawJSON(items),
		Subtotal:             input.Subtotal,
		DeliveryFee:          input.DeliveryFee,
		Total:                input.Total,
		PaymentInfo:          paymentInfo,
		CustomInstructions:   input.CustomInstructions,
		CustomImages:         customImages,
		IsCustomOrder:        input.IsCustomOrder,
		AdvancePaymentAmount: input.AdvancePaymentAmount,
		Status:               enums.OrderStatusPending,
	}

	err = s.repo.Create(ctx, order)
	if err != nil && db.IsUniqueViolation(err, "tracking_id") {
		// one retry with a fresh id on the rare collision
		order.TrackingID = NewTrackingID()
		err = s.repo.Create(ctx, order)
	}
	if err != nil {
		return nil, err
	}

	s.metrics.IncOrdersCreated()
	if s.logg != nil {
		s.logg.Info(s.logg.WithTrackingID(ctx, order.TrackingID), "order created")
	}
	return order, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByTrackingID(ctx context.Context, trackingID string) (*models.Order, error) {
	return s.repo.GetByTrackingID(ctx, trackingID)
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	return s.repo.List(ctx, params)
}

func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").
			WithDetails(map[string]any{"status": status.String()})
	}

	order, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.metrics.IncStatusChange(status.String())
	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderID(ctx, id.String()), "order status updated")
	}
	return order, nil
}
