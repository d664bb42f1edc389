// Package pricing derives every money figure shown for a cart. It is the only
// place subtotal, GST, shipping, and coupon math lives; cart, checkout, and
// order-history surfaces all call through here so displayed totals cannot drift.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/freshbasket/freshbasket-backend/pkg/enums"
	"github.com/freshbasket/freshbasket-backend/pkg/types"
)

var (
	// FreeShippingThreshold is the discounted subtotal at which shipping becomes free.
	FreeShippingThreshold = decimal.NewFromInt(500)
	// FlatShippingFee applies to every order below the free-shipping threshold.
	FlatShippingFee = decimal.NewFromInt(20)
	// PlatformFeeAmount is the flat per-order platform fee.
	PlatformFeeAmount = decimal.NewFromInt(2)

	hundred = decimal.NewFromInt(100)
)

// Subtotal sums unit_price * quantity over all items. Unit price is the
// already-discounted per-unit price, not the original price.
func Subtotal(items []types.CartLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// TotalDiscount sums the product-level savings (original - unit) * quantity.
// Lines where unit price exceeds the original price contribute zero rather
// than a negative amount.
func TotalDiscount(items []types.CartLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		perUnit := item.OriginalUnitPrice.Sub(item.UnitPrice)
		if perUnit.IsNegative() {
			continue
		}
		total = total.Add(perUnit.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// TotalGST computes GST per line on the discounted unit price and sums the
// results. Lines carry their own gst_percent; a zero value contributes nothing.
func TotalGST(items []types.CartLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.GSTPercent.IsZero() {
			continue
		}
		perUnit := item.UnitPrice.Mul(item.GSTPercent).Div(hundred)
		total = total.Add(perUnit.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// ShippingFee is zero once the discounted subtotal reaches the free-shipping
// threshold, otherwise the flat fee.
func ShippingFee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	return FlatShippingFee
}

// PlatformFee is constant per order, independent of cart contents.
func PlatformFee() decimal.Decimal {
	return PlatformFeeAmount
}

// CouponDiscount computes the coupon's contribution against a subtotal.
// It is zero when no coupon is applied or the subtotal is below the coupon's
// minimum purchase. Percentage coupons are capped at max_discount when set;
// flat coupons never exceed the subtotal.
func CouponDiscount(subtotal decimal.Decimal, coupon *types.Coupon) decimal.Decimal {
	if coupon == nil {
		return decimal.Zero
	}
	if subtotal.LessThan(coupon.MinPurchase) {
		return decimal.Zero
	}

	switch coupon.Type {
	case enums.CouponTypePercentage:
		discount := subtotal.Mul(coupon.Value).Div(hundred)
		if coupon.MaxDiscount != nil && discount.GreaterThan(*coupon.MaxDiscount) {
			discount = *coupon.MaxDiscount
		}
		return discount
	case enums.CouponTypeFlat:
		if coupon.Value.GreaterThan(subtotal) {
			return subtotal
		}
		return coupon.Value
	}
	return decimal.Zero
}

// GrandTotal is subtotal - coupon discount + GST + shipping + platform fee.
func GrandTotal(items []types.CartLineItem, coupon *types.Coupon) decimal.Decimal {
	subtotal := Subtotal(items)
	return subtotal.
		Sub(CouponDiscount(subtotal, coupon)).
		Add(TotalGST(items)).
		Add(ShippingFee(subtotal)).
		Add(PlatformFee())
}

// Quote assembles the full breakdown for a cart snapshot in one pass.
func Quote(items []types.CartLineItem, coupon *types.Coupon) types.PriceBreakdown {
	subtotal := Subtotal(items)
	return types.PriceBreakdown{
		Subtotal:       subtotal,
		TotalDiscount:  TotalDiscount(items),
		TotalGST:       TotalGST(items),
		ShippingFee:    ShippingFee(subtotal),
		PlatformFee:    PlatformFee(),
		CouponDiscount: CouponDiscount(subtotal, coupon),
		GrandTotal:     GrandTotal(items, coupon),
	}
}
