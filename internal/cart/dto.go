package cart

import (
	"github.com/freshbasket/freshbasket-backend/pkg/db/models"
	"github.com/freshbasket/freshbasket-backend/pkg/pricing"
	"github.com/freshbasket/freshbasket-backend/pkg/types"
)

// CartDTO is the full authoritative cart returned by every cart operation.
// Clients replace their local state with it wholesale; the breakdown is
// recomputed server-side on every response.
type CartDTO struct {
	Items         []types.CartLineItem `json:"items"`
	AppliedCoupon *types.Coupon        `json:"applied_coupon,omitempty"`
	Breakdown     types.PriceBreakdown `json:"breakdown"`
}

func toLineItem(item models.CartItem) types.CartLineItem {
	return types.CartLineItem{
		ItemID:            item.ID,
		ProductID:         item.ProductID,
		Name:              item.Name,
		Unit:              item.Unit,
		Quantity:          item.Quantity,
		UnitPrice:         item.UnitPrice,
		OriginalUnitPrice: item.OriginalUnitPrice,
		GSTPercent:        item.GSTPercent,
		ImageURL:          item.ImageURL,
	}
}

func buildCartDTO(items []models.CartItem, coupon *types.Coupon) *CartDTO {
	lines := make([]types.CartLineItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, toLineItem(item))
	}
	return &CartDTO{
		Items:         lines,
		AppliedCoupon: coupon,
		Breakdown:     pricing.Quote(lines, coupon),
	}
}
