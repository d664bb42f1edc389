package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshbasket/freshbasket-backend/pkg/coupon"
	"github.com/freshbasket/freshbasket-backend/pkg/db/models"
	pkgerrors "github.com/freshbasket/freshbasket-backend/pkg/errors"
	"github.com/freshbasket/freshbasket-backend/pkg/pricing"
	"github.com/freshbasket/freshbasket-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type couponLoader interface {
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
}

// Service owns the authoritative cart. Every operation returns the complete
// cart so clients can replace their local copy instead of patching it.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error)
	SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*CartDTO, error)
	RemoveCoupon(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
}

type service struct {
	repo     CartRepository
	tx       txRunner
	products productLoader
	coupons  couponLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, products productLoader, coupons couponLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if coupons == nil {
		return nil, fmt.Errorf("coupon loader required")
	}
	return &service{repo: repo, tx: tx, products: products, coupons: coupons}, nil
}

func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	record, err := s.repo.FindActiveByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return buildCartDTO(nil, nil), nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	return s.respond(ctx, record.Items, record.CouponCode)
}

func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	return s.mutateItems(ctx, userID, func(ctx context.Context, tx *gorm.DB, record *models.CartRecord) ([]models.CartItem, error) {
		product, err := s.products.GetByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
		}

		items := record.Items
		index := -1
		requested := quantity
		for i, item := range items {
			if item.ProductID == productID {
				index = i
				requested += item.Quantity
				break
			}
		}

		if product.StockQuantity < requested {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
				WithDetails(map[string]any{"available": product.StockQuantity})
		}

		if index >= 0 {
			items[index].Quantity = requested
			return items, nil
		}
		return append(items, models.CartItem{
			ID:                uuid.New(),
			CartID:            record.ID,
			ProductID:         product.ID,
			Name:              product.Name,
			Unit:              product.Unit,
			Quantity:          quantity,
			UnitPrice:         product.Price,
			OriginalUnitPrice: product.MRP,
			GSTPercent:        product.GSTPercent,
			ImageURL:          product.ImageURL,
		}), nil
	})
}

func (s *service) SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, userID, itemID)
	}

	return s.mutateItems(ctx, userID, func(ctx context.Context, tx *gorm.DB, record *models.CartRecord) ([]models.CartItem, error) {
		items := record.Items
		index := -1
		for i, item := range items {
			if item.ID == itemID {
				index = i
				break
			}
		}
		if index < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}

		product, err := s.products.GetByID(ctx, items[index].ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product no longer available")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
		}
		if product.StockQuantity < quantity {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
				WithDetails(map[string]any{"available": product.StockQuantity})
		}

		items[index].Quantity = quantity
		return items, nil
	})
}

// RemoveItem treats a missing item as already removed and succeeds, so a
// client retrying after a concurrent removal converges on the same state.
func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	return s.mutateItems(ctx, userID, func(_ context.Context, _ *gorm.DB, record *models.CartRecord) ([]models.CartItem, error) {
		items := record.Items[:0:0]
		for _, item := range record.Items {
			if item.ID != itemID {
				items = append(items, item)
			}
		}
		return items, nil
	})
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	var dto *CartDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		record, err := s.loadOrCreate(ctx, repo, userID)
		if err != nil {
			return err
		}
		if err := repo.ReplaceItems(ctx, record.ID, nil); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart items")
		}
		if err := repo.SetCouponCode(ctx, record.ID, nil); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing coupon")
		}
		dto = buildCartDTO(nil, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	normalized := types.NormalizeCouponCode(code)
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}

	var dto *CartDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		record, err := s.loadOrCreate(ctx, repo, userID)
		if err != nil {
			return err
		}

		stored, err := s.coupons.GetByCode(ctx, normalized)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading coupon")
		}

		applied := stored.ToCartCoupon()
		lines := make([]types.CartLineItem, 0, len(record.Items))
		for _, item := range record.Items {
			lines = append(lines, toLineItem(item))
		}
		if err := coupon.Validate(&applied, pricing.Subtotal(lines), time.Now()); err != nil {
			return err
		}

		if err := repo.SetCouponCode(ctx, record.ID, &applied.Code); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "applying coupon")
		}
		dto = buildCartDTO(record.Items, &applied)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) RemoveCoupon(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	var dto *CartDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		record, err := s.loadOrCreate(ctx, repo, userID)
		if err != nil {
			return err
		}
		if err := repo.SetCouponCode(ctx, record.ID, nil); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing coupon")
		}
		dto = buildCartDTO(record.Items, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// mutateItems loads the active cart, applies fn to its item set, persists the
// result wholesale, and responds with the complete cart.
func (s *service) mutateItems(
	ctx context.Context,
	userID uuid.UUID,
	fn func(ctx context.Context, tx *gorm.DB, record *models.CartRecord) ([]models.CartItem, error),
) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	var dto *CartDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		record, err := s.loadOrCreate(ctx, repo, userID)
		if err != nil {
			return err
		}

		items, err := fn(ctx, tx, record)
		if err != nil {
			return err
		}

		if err := repo.ReplaceItems(ctx, record.ID, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replacing cart items")
		}

		response, err := s.respond(ctx, items, record.CouponCode)
		if err != nil {
			return err
		}
		dto = response
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) loadOrCreate(ctx context.Context, repo CartRepository, userID uuid.UUID) (*models.CartRecord, error) {
	record, err := repo.FindActiveByUser(ctx, userID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	record, err = repo.Create(ctx, &models.CartRecord{UserID: userID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating cart")
	}
	return record, nil
}

// respond resolves the stored coupon code and assembles the full cart. A
// coupon deleted, deactivated, or expired since it was applied is dropped
// rather than failing the read.
func (s *service) respond(ctx context.Context, items []models.CartItem, couponCode *string) (*CartDTO, error) {
	var applied *types.Coupon
	if couponCode != nil {
		stored, err := s.coupons.GetByCode(ctx, *couponCode)
		switch {
		case err == nil:
			c := stored.ToCartCoupon()
			if c.ExpiresAt == nil || !time.Now().After(*c.ExpiresAt) {
				applied = &c
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			applied = nil
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading applied coupon")
		}
	}
	return buildCartDTO(items, applied), nil
}
