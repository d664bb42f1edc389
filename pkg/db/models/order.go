package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshbasket/freshbasket-backend/pkg/enums"
)

// Order snapshots a checked-out cart together with the exact breakdown that
// was shown at checkout, so order history always replays the same figures.
type Order struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	Status         enums.OrderStatus `gorm:"column:status;not null;default:'placed'"`
	CouponCode     *string           `gorm:"column:coupon_code"`
	Subtotal       decimal.Decimal   `gorm:"column:subtotal;type:numeric(10,2);not null"`
	TotalDiscount  decimal.Decimal   `gorm:"column:total_discount;type:numeric(10,2);not null"`
	TotalGST       decimal.Decimal   `gorm:"column:total_gst;type:numeric(10,2);not null"`
	ShippingFee    decimal.Decimal   `gorm:"column:shipping_fee;type:numeric(10,2);not null"`
	PlatformFee    decimal.Decimal   `gorm:"column:platform_fee;type:numeric(10,2);not null"`
	CouponDiscount decimal.Decimal   `gorm:"column:coupon_discount;type:numeric(10,2);not null"`
	GrandTotal     decimal.Decimal   `gorm:"column:grand_total;type:numeric(10,2);not null"`
	DeliveryNotes  *string           `gorm:"column:delivery_notes"`
	Items          []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PlacedAt       time.Time         `gorm:"column:placed_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is an immutable line snapshot carried over from the cart.
type OrderItem struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID           uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID         uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	Name              string            `gorm:"column:name;not null"`
	Unit              enums.ProductUnit `gorm:"column:unit;not null"`
	Quantity          int               `gorm:"column:quantity;not null"`
	UnitPrice         decimal.Decimal   `gorm:"column:unit_price;type:numeric(10,2);not null"`
	OriginalUnitPrice decimal.Decimal   `gorm:"column:original_unit_price;type:numeric(10,2);not null"`
	GSTPercent        decimal.Decimal   `gorm:"column:gst_percent;type:numeric(5,2);not null;default:0"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
}
