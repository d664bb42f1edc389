package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshbasket/freshbasket-backend/pkg/enums"
)

// CartItem persists a product-level pricing snapshot tied to a CartRecord.
// Unit price and GST are captured at add time so the cart stays stable while
// the catalog moves underneath it.
type CartItem struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID            uuid.UUID         `gorm:"column:cart_id;type:uuid;not null;index"`
	ProductID         uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	Name              string            `gorm:"column:name;not null"`
	Unit              enums.ProductUnit `gorm:"column:unit;not null"`
	Quantity          int               `gorm:"column:quantity;not null"`
	UnitPrice         decimal.Decimal   `gorm:"column:unit_price;type:numeric(10,2);not null"`
	OriginalUnitPrice decimal.Decimal   `gorm:"column:original_unit_price;type:numeric(10,2);not null"`
	GSTPercent        decimal.Decimal   `gorm:"column:gst_percent;type:numeric(5,2);not null;default:0"`
	ImageURL          *string           `gorm:"column:image_url"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
