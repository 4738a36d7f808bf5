package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Offer is a promotional banner shown on the storefront home page.
type Offer struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Title       string     `gorm:"column:title;not null"`
	Description string     `gorm:"column:description"`
	ImageURL    string     `gorm:"column:image_url"`
	ProductID   *uuid.UUID `gorm:"column:product_id;type:uuid"`
	Active      bool       `gorm:"column:active;not null;default:true"`
	StartsAt    *time.Time `gorm:"column:starts_at"`
	EndsAt      *time.Time `gorm:"column:ends_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Offer) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
