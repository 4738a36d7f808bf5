package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a storefront catalog entry. Prices are taka.
type Product struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name            string          `gorm:"column:name;not null"`
	Description     string          `gorm:"column:description"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	ImageURL        string          `gorm:"column:image_url"`
	CategoryID      *uuid.UUID      `gorm:"column:category_id;type:uuid"`
	Category        *Category       `gorm:"foreignKey:CategoryID"`
	IsCustomizable  bool            `gorm:"column:is_customizable;not null;default:false"`
	Active          bool            `gorm:"column:active;not null;default:true"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the id when the database default is unavailable.
func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Category groups products for the storefront navigation.
type Category struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	Slug      string    `gorm:"column:slug;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
