package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/freshbasket/freshbasket-backend/pkg/enums"
	"github.com/freshbasket/freshbasket-backend/pkg/types"
)

// Coupon is a named discount rule. Codes are stored upper-cased and looked up
// case-insensitively.
type Coupon struct {
	Code        string           `gorm:"column:code;primaryKey"`
	Type        enums.CouponType `gorm:"column:type;not null"`
	Value       decimal.Decimal  `gorm:"column:value;type:numeric(10,2);not null"`
	MinPurchase decimal.Decimal  `gorm:"column:min_purchase;type:numeric(10,2);not null;default:0"`
	MaxDiscount *decimal.Decimal `gorm:"column:max_discount;type:numeric(10,2)"`
	ExpiresAt   *time.Time       `gorm:"column:expires_at"`
	IsActive    bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// ToCartCoupon maps the persisted record onto the wire-level coupon type.
func (c Coupon) ToCartCoupon() types.Coupon {
	coupon := types.Coupon{
		Code:        c.Code,
		Type:        c.Type,
		Value:       c.Value,
		MinPurchase: c.MinPurchase,
		ExpiresAt:   c.ExpiresAt,
	}
	if c.MaxDiscount != nil {
		cap := *c.MaxDiscount
		coupon.MaxDiscount = &cap
	}
	return coupon
}
