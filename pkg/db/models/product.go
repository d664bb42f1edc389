package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshbasket/freshbasket-backend/pkg/enums"
)

// Product represents a catalog listing. Price is the effective selling price
// after any product-level discount; MRP is the pre-discount reference price.
type Product struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string                `gorm:"column:name;not null"`
	Description   *string               `gorm:"column:description"`
	Category      enums.ProductCategory `gorm:"column:category;not null"`
	Unit          enums.ProductUnit     `gorm:"column:unit;not null"`
	Price         decimal.Decimal       `gorm:"column:price;type:numeric(10,2);not null"`
	MRP           decimal.Decimal       `gorm:"column:mrp;type:numeric(10,2);not null"`
	GSTPercent    decimal.Decimal       `gorm:"column:gst_percent;type:numeric(5,2);not null;default:0"`
	StockQuantity int                   `gorm:"column:stock_quantity;not null;default:0"`
	ImageURL      *string               `gorm:"column:image_url"`
	IsActive      bool                  `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
