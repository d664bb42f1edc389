package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshbasket/freshbasket-backend/pkg/enums"
)

// CartLineItem is one product entry in a cart with its pricing snapshot.
// ItemID identifies the cart entry itself and is distinct from the product id.
type CartLineItem struct {
	ItemID            uuid.UUID         `json:"item_id"`
	ProductID         uuid.UUID         `json:"product_id"`
	Name              string            `json:"name"`
	Unit              enums.ProductUnit `json:"unit"`
	Quantity          int               `json:"quantity"`
	UnitPrice         decimal.Decimal   `json:"unit_price"`
	OriginalUnitPrice decimal.Decimal   `json:"original_unit_price"`
	GSTPercent        decimal.Decimal   `json:"gst_percent"`
	ImageURL          *string           `json:"image_url,omitempty"`
}

// LineTotal derives the charged total for the line. It is never stored.
func (i CartLineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Coupon is a named discount rule with eligibility and cap constraints.
type Coupon struct {
	Code        string           `json:"code"`
	Type        enums.CouponType `json:"type"`
	Value       decimal.Decimal  `json:"value"`
	MinPurchase decimal.Decimal  `json:"min_purchase"`
	MaxDiscount *decimal.Decimal `json:"max_discount,omitempty"`
	ExpiresAt   *time.Time       `json:"expires_at,omitempty"`
}

// NormalizeCouponCode upper-cases and trims a coupon code for comparison.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CartState is the authoritative cart snapshot: the item list in server order
// plus at most one applied coupon. Totals are always derived, never stored here.
type CartState struct {
	Items         []CartLineItem `json:"items"`
	AppliedCoupon *Coupon        `json:"applied_coupon,omitempty"`
}

// IsEmpty reports whether the cart holds no items.
func (s CartState) IsEmpty() bool {
	return len(s.Items) == 0
}

// FindItem returns the line item with the given cart entry id, if present.
func (s CartState) FindItem(itemID uuid.UUID) (CartLineItem, bool) {
	for _, item := range s.Items {
		if item.ItemID == itemID {
			return item, true
		}
	}
	return CartLineItem{}, false
}

// Clone deep-copies the state so callers can hand out snapshots safely.
func (s CartState) Clone() CartState {
	out := CartState{}
	if s.Items != nil {
		out.Items = make([]CartLineItem, len(s.Items))
		copy(out.Items, s.Items)
	}
	if s.AppliedCoupon != nil {
		coupon := *s.AppliedCoupon
		if s.AppliedCoupon.MaxDiscount != nil {
			cap := *s.AppliedCoupon.MaxDiscount
			coupon.MaxDiscount = &cap
		}
		if s.AppliedCoupon.ExpiresAt != nil {
			expiry := *s.AppliedCoupon.ExpiresAt
			coupon.ExpiresAt = &expiry
		}
		out.AppliedCoupon = &coupon
	}
	return out
}

// PriceBreakdown carries every derived money figure for a cart snapshot.
// grand_total = subtotal - coupon_discount + total_gst + shipping_fee + platform_fee.
type PriceBreakdown struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	TotalDiscount  decimal.Decimal `json:"total_discount"`
	TotalGST       decimal.Decimal `json:"total_gst"`
	ShippingFee    decimal.Decimal `json:"shipping_fee"`
	PlatformFee    decimal.Decimal `json:"platform_fee"`
	CouponDiscount decimal.Decimal `json:"coupon_discount"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
}
