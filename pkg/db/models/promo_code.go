package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PromoCode is an admin-managed discount code validated at checkout preview.
type PromoCode struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Code            string     `gorm:"column:code;uniqueIndex;not null"`
	DiscountPercent int        `gorm:"column:discount_percent;not null"`
	Active          bool       `gorm:"column:active;not null;default:true"`
	ExpiresAt       *time.Time `gorm:"column:expires_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *PromoCode) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
