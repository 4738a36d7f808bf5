package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/asifmahmud/banglahat-backend/pkg/enums"
	"github.com/asifmahmud/banglahat-backend/pkg/types"
)

// Order is the authoritative record produced by a confirmed checkout.
// Items, CustomImages and PaymentInfo are stored verbatim as JSON; readers
// decode them through pkg/flexible because historical rows carry the payloads
// as JSON-encoded strings rather than native structures.
type Order struct {
	ID                   uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	TrackingID           string            `gorm:"column:tracking_id;uniqueIndex;not null"`
	CustomerName         string            `gorm:"column:customer_name;not null"`
	Phone                string            `gorm:"column:phone;not null"`
	District             string            `gorm:"column:district;not null"`
	Thana                string            `gorm:"column:thana"`
	Address              string            `gorm:"column:address;not null"`
	Items                types.RawJSON     `gorm:"column:items;type:jsonb;not null"`
	Subtotal             decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DeliveryFee          int               `gorm:"column:delivery_fee;not null"`
	Total                decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	PaymentInfo          types.RawJSON     `gorm:"column:payment_info;type:jsonb"`
	CustomInstructions   string            `gorm:"column:custom_instructions"`
	CustomImages         types.RawJSON     `gorm:"column:custom_images;type:jsonb"`
	IsCustomOrder        bool              `gorm:"column:is_custom_order;not null;default:false"`
	AdvancePaymentAmount *decimal.Decimal  `gorm:"column:advance_payment_amount;type:numeric(12,2)"`
	Status               enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	CreatedAt            time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the id when the database default is unavailable.
func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
