// Package coupon holds the advisory coupon eligibility checks. The server's
// apply-coupon operation remains authoritative; these helpers exist so UI
// layers can pre-filter selectable coupons without a round trip.
package coupon

import (
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/freshbasket/freshbasket-backend/pkg/errors"
	"github.com/freshbasket/freshbasket-backend/pkg/types"
)

// Validate checks whether the coupon could apply to a cart with the given
// subtotal at the given instant. A nil coupon is reported as not found.
func Validate(c *types.Coupon, subtotal decimal.Decimal, now time.Time) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon has expired").
			WithDetails(map[string]any{"expired_at": c.ExpiresAt})
	}
	if subtotal.LessThan(c.MinPurchase) {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart subtotal below coupon minimum purchase").
			WithDetails(map[string]any{
				"min_purchase": c.MinPurchase,
				"remaining":    RemainingForEligibility(*c, subtotal),
			})
	}
	return nil
}

// RemainingForEligibility reports how much more a user must add to the cart
// before the coupon's minimum purchase is met. Zero once eligible.
func RemainingForEligibility(c types.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	remaining := c.MinPurchase.Sub(subtotal)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}
