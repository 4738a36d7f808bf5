package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/asifmahmud/banglahat-backend/pkg/db/models"
	"github.com/asifmahmud/banglahat-backend/pkg/enums"
	"github.com/asifmahmud/banglahat-backend/pkg/flexible"
	"github.com/asifmahmud/banglahat-backend/pkg/logger"
)

// CreateOrderInput carries everything a confirmed checkout produces.
type CreateOrderInput struct {
	CustomerName         string
	Phone                string
	District             string
	Thana                string
	Address              string
	Items                []flexible.LineItem
	Subtotal             decimal.Decimal
	DeliveryFee          int
	Total                decimal.Decimal
	Payment              *flexible.PaymentInfo
	CustomInstructions   string
	CustomImages         []string
	IsCustomOrder        bool
	AdvancePaymentAmount *decimal.Decimal
}

// ListParams filters and pages the admin order listing.
type ListParams struct {
	Status *enums.OrderStatus
	Phone  string
	Limit  int
	Offset int
}

// ListResult pairs one page of orders with the total match count.
type ListResult struct {
	Orders []models.Order
	Total  int64
}

// Detail is the display-ready projection of a stored order. The JSON payload
// columns are decoded defensively so a malformed historical row still renders.
type Detail struct {
	ID                   uuid.UUID             `json:"id"`
	TrackingID           string                `json:"trackingId"`
	CustomerName         string                `json:"customerName"`
	Phone                string                `json:"phone"`
	District             string                `json:"district"`
	Thana                string                `json:"thana,omitempty"`
	Address              string                `json:"address"`
	Items                []flexible.LineItem   `json:"items"`
	Subtotal             decimal.Decimal       `json:"subtotal"`
	DeliveryFee          int                   `json:"deliveryFee"`
	Total                decimal.Decimal       `json:"total"`
	Payment              flexible.PaymentInfo  `json:"payment"`
	CustomInstructions   string                `json:"customInstructions,omitempty"`
	CustomImages         []string              `json:"customImages"`
	IsCustomOrder        bool                  `json:"isCustomOrder"`
	AdvancePaymentAmount *decimal.Decimal      `json:"advancePaymentAmount,omitempty"`
	Status               enums.OrderStatus     `json:"status"`
	CreatedAt            time.Time             `json:"createdAt"`
	UpdatedAt            time.Time             `json:"updatedAt"`
}

// TrackingView is the reduced public projection served by the tracking page.
type TrackingView struct {
	TrackingID  string            `json:"trackingId"`
	Status      enums.OrderStatus `json:"status"`
	District    string            `json:"district"`
	Total       decimal.Decimal   `json:"total"`
	DeliveryFee int               `json:"deliveryFee"`
	ItemCount   int               `json:"itemCount"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// NewDetail projects a stored order for display. Decode failures on the JSON
// payload columns are logged and rendered as empty sections rather than
// failing the whole view.
func NewDetail(ctx context.Context, logg *logger.Logger, order models.Order) Detail {
	items, err := flexible.Items([]byte(order.Items))
	if err != nil && logg != nil {
		logg.Error(logg.WithOrderID(ctx, order.ID.String()), "order items payload undecodable", err)
	}
	payment, err := flexible.Payment([]byte(order.PaymentInfo))
	if err != nil && logg != nil {
		logg.Error(logg.WithOrderID(ctx, order.ID.String()), "order payment payload undecodable", err)
	}
	images, err := flexible.Images([]byte(order.CustomImages))
	if err != nil && logg != nil {
		logg.Error(logg.WithOrderID(ctx, order.ID.String()), "order custom images payload undecodable", err)
	}

	return Detail{
		ID:                   order.ID,
		TrackingID:           order.TrackingID,
		CustomerName:         order.CustomerName,
		Phone:                order.Phone,
		District:             order.District,
		Thana:                order.Thana,
		Address:              order.Address,
		Items:                items,
		Subtotal:             order.Subtotal,
		DeliveryFee:          order.DeliveryFee,
		Total:                order.Total,
		Payment:              payment,
		CustomInstructions:   order.CustomInstructions,
		CustomImages:         images,
		IsCustomOrder:        order.IsCustomOrder,
		AdvancePaymentAmount: order.AdvancePaymentAmount,
		Status:               order.Status,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}
}

// NewTrackingView projects a stored order for the public tracking page.
func NewTrackingView(ctx context.Context, logg *logger.Logger, order models.Order) TrackingView {
	items, err := flexible.Items([]byte(order.Items))
	if err != nil && logg != nil {
		logg.Error(logg.WithTrackingID(ctx, order.TrackingID), "order items payload undecodable", err)
	}
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return TrackingView{
		TrackingID:  order.TrackingID,
		Status:      order.Status,
		District:    order.District,
		Total:       order.Total,
		DeliveryFee: order.DeliveryFee,
		ItemCount:   count,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
}
