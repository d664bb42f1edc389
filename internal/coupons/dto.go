package coupons

import (
	"time"

	"github.com/shopspring/decimal"
)

// CouponDTO is the coupon payload returned to clients, annotated with
// advisory eligibility against the subtotal the client supplied.
type CouponDTO struct {
	Code        string           `json:"code"`
	Type        string           `json:"type"`
	Value       decimal.Decimal  `json:"value"`
	MinPurchase decimal.Decimal  `json:"min_purchase"`
	MaxDiscount *decimal.Decimal `json:"max_discount,omitempty"`
	ExpiresAt   *time.Time       `json:"expires_at,omitempty"`
	Eligible    bool             `json:"eligible"`
	Remaining   decimal.Decimal  `json:"remaining_for_eligibility"`
	Discount    *decimal.Decimal `json:"discount,omitempty"`
}
