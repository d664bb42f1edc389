package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshbasket/freshbasket-backend/pkg/db/models"
	"github.com/freshbasket/freshbasket-backend/pkg/types"
)

// OrderDTO replays a checked-out cart exactly as it was priced at checkout.
type OrderDTO struct {
	ID            uuid.UUID            `json:"id"`
	Status        string               `json:"status"`
	CouponCode    *string              `json:"coupon_code,omitempty"`
	Items         []OrderItemDTO       `json:"items"`
	Breakdown     types.PriceBreakdown `json:"breakdown"`
	DeliveryNotes *string              `json:"delivery_notes,omitempty"`
	PlacedAt      time.Time            `json:"placed_at"`
}

// OrderItemDTO is an immutable line snapshot.
type OrderItemDTO struct {
	ProductID         uuid.UUID       `json:"product_id"`
	Name              string          `json:"name"`
	Unit              string          `json:"unit"`
	Quantity          int             `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	OriginalUnitPrice decimal.Decimal `json:"original_unit_price"`
	GSTPercent        decimal.Decimal `json:"gst_percent"`
	LineTotal         decimal.Decimal `json:"line_total"`
}

// OrderPageDTO is one page of order history plus the follow-up cursor.
type OrderPageDTO struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor *string    `json:"next_cursor,omitempty"`
}

func toOrderDTO(order models.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ProductID:         item.ProductID,
			Name:              item.Name,
			Unit:              item.Unit.String(),
			Quantity:          item.Quantity,
			UnitPrice:         item.UnitPrice,
			OriginalUnitPrice: item.OriginalUnitPrice,
			GSTPercent:        item.GSTPercent,
			LineTotal:         item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	return OrderDTO{
		ID:         order.ID,
		Status:     order.Status.String(),
		CouponCode: order.CouponCode,
		Items:      items,
		Breakdown: types.PriceBreakdown{
			Subtotal:       order.Subtotal,
			TotalDiscount:  order.TotalDiscount,
			TotalGST:       order.TotalGST,
			ShippingFee:    order.ShippingFee,
			PlatformFee:    order.PlatformFee,
			CouponDiscount: order.CouponDiscount,
			GrandTotal:     order.GrandTotal,
		},
		DeliveryNotes: order.DeliveryNotes,
		PlacedAt:      order.PlacedAt,
	}
}
