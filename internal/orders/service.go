package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshbasket/freshbasket-backend/internal/cart"
	"github.com/freshbasket/freshbasket-backend/internal/catalog"
	"github.com/freshbasket/freshbasket-backend/pkg/db/models"
	"github.com/freshbasket/freshbasket-backend/pkg/enums"
	pkgerrors "github.com/freshbasket/freshbasket-backend/pkg/errors"
	"github.com/freshbasket/freshbasket-backend/pkg/pagination"
	"github.com/freshbasket/freshbasket-backend/pkg/pricing"
	"github.com/freshbasket/freshbasket-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type couponLoader interface {
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
}

// CheckoutInput carries the optional checkout extras.
type CheckoutInput struct {
	DeliveryNotes *string
}

// Service turns carts into orders and serves order history.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*OrderDTO, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderPageDTO, error)
	CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
}

type service struct {
	repo    OrderRepository
	tx      txRunner
	carts   cart.CartRepository
	stock   catalog.ProductRepository
	coupons couponLoader
}

// NewService builds an order service backed by the provided stack. The cart
// and product repositories are rebound onto the checkout transaction so a
// rollback takes their writes with it.
func NewService(repo OrderRepository, tx txRunner, carts cart.CartRepository, stock catalog.ProductRepository, coupons couponLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart access required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock manager required")
	}
	if coupons == nil {
		return nil, fmt.Errorf("coupon loader required")
	}
	return &service{repo: repo, tx: tx, carts: carts, stock: stock, coupons: coupons}, nil
}

// Checkout snapshots the active cart into an order with the exact breakdown
// computed at this moment, reserves stock per line, and retires the cart.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	var dto *OrderDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		stock := s.stock.WithTx(tx)

		record, err := carts.FindActiveByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
		}
		if len(record.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		// A coupon deleted, deactivated, or expired since it was applied
		// drops out of the order rather than failing checkout.
		var applied *types.Coupon
		if record.CouponCode != nil {
			stored, err := s.coupons.GetByCode(ctx, *record.CouponCode)
			switch {
			case err == nil:
				c := stored.ToCartCoupon()
				if c.ExpiresAt == nil || !time.Now().After(*c.ExpiresAt) {
					applied = &c
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				applied = nil
			default:
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading applied coupon")
			}
		}

		lines := make([]types.CartLineItem, 0, len(record.Items))
		orderItems := make([]models.OrderItem, 0, len(record.Items))
		for _, item := range record.Items {
			if err := stock.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
						WithDetails(map[string]any{"product_id": item.ProductID})
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reserving stock")
			}
			lines = append(lines, types.CartLineItem{
				ItemID:            item.ID,
				ProductID:         item.ProductID,
				Quantity:          item.Quantity,
				UnitPrice:         item.UnitPrice,
				OriginalUnitPrice: item.OriginalUnitPrice,
				GSTPercent:        item.GSTPercent,
			})
			orderItems = append(orderItems, models.OrderItem{
				ProductID:         item.ProductID,
				Name:              item.Name,
				Unit:              item.Unit,
				Quantity:          item.Quantity,
				UnitPrice:         item.UnitPrice,
				OriginalUnitPrice: item.OriginalUnitPrice,
				GSTPercent:        item.GSTPercent,
			})
		}

		breakdown := pricing.Quote(lines, applied)
		order := &models.Order{
			UserID:         userID,
			Status:         enums.OrderStatusPlaced,
			CouponCode:     record.CouponCode,
			Subtotal:       breakdown.Subtotal,
			TotalDiscount:  breakdown.TotalDiscount,
			TotalGST:       breakdown.TotalGST,
			ShippingFee:    breakdown.ShippingFee,
			PlatformFee:    breakdown.PlatformFee,
			CouponDiscount: breakdown.CouponDiscount,
			GrandTotal:     breakdown.GrandTotal,
			DeliveryNotes:  input.DeliveryNotes,
			Items:          orderItems,
		}

		created, err := s.repo.WithTx(tx).Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
		}
		if err := carts.UpdateStatus(ctx, record.ID, enums.CartStatusConverted); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "retiring cart")
		}

		out := toOrderDTO(*created)
		dto = &out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	if userID == uuid.Nil || orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and order id are required")
	}

	order, err := s.repo.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}

	dto := toOrderDTO(*order)
	return &dto, nil
}

func (s *service) ListOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderPageDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListByUser(ctx, userID, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}

	page := &OrderPageDTO{Orders: make([]OrderDTO, 0, len(rows))}
	if len(rows) > limit {
		last := rows[limit-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.PlacedAt, ID: last.ID})
		page.NextCursor = &next
		rows = rows[:limit]
	}
	for _, row := range rows {
		page.Orders = append(page.Orders, toOrderDTO(row))
	}
	return page, nil
}

// CancelOrder cancels an order that has not left the warehouse and returns
// its stock.
func (s *service) CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	if userID == uuid.Nil || orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and order id are required")
	}

	var dto *OrderDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		stock := s.stock.WithTx(tx)

		order, err := repo.FindByIDAndUser(ctx, orderID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
		}

		switch order.Status {
		case enums.OrderStatusPlaced, enums.OrderStatusConfirmed:
		default:
			return pkgerrors.New(pkgerrors.CodeConflict, "order can no longer be cancelled").
				WithDetails(map[string]any{"status": order.Status.String()})
		}

		for _, item := range order.Items {
			if err := stock.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restoring stock")
			}
		}
		if err := repo.UpdateStatus(ctx, order.ID, userID, enums.OrderStatusCancelled); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancelling order")
		}

		order.Status = enums.OrderStatusCancelled
		out := toOrderDTO(*order)
		dto = &out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}
