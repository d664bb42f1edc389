package coupons

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/freshbasket/freshbasket-backend/pkg/coupon"
	"github.com/freshbasket/freshbasket-backend/pkg/db/models"
	pkgerrors "github.com/freshbasket/freshbasket-backend/pkg/errors"
	"github.com/freshbasket/freshbasket-backend/pkg/pricing"
	"github.com/freshbasket/freshbasket-backend/pkg/types"
)

// CouponRepository defines the persistence surface required by the service.
type CouponRepository interface {
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	ListActive(ctx context.Context, now time.Time) ([]models.Coupon, error)
}

// Service exposes coupon browsing with advisory eligibility against a
// subtotal, so clients can pre-filter codes without an apply round trip.
// The authoritative decision still happens at apply time.
type Service interface {
	ListForSubtotal(ctx context.Context, subtotal decimal.Decimal) ([]CouponDTO, error)
	GetByCode(ctx context.Context, code string) (*CouponDTO, error)
}

type service struct {
	repo CouponRepository
}

// NewService builds a coupon service backed by the provided repository.
func NewService(repo CouponRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListForSubtotal(ctx context.Context, subtotal decimal.Decimal) ([]CouponDTO, error) {
	if subtotal.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subtotal must not be negative")
	}

	now := time.Now()
	rows, err := s.repo.ListActive(ctx, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing coupons")
	}

	out := make([]CouponDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toCouponDTO(row, subtotal))
	}
	return out, nil
}

func (s *service) GetByCode(ctx context.Context, code string) (*CouponDTO, error) {
	normalized := types.NormalizeCouponCode(code)
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}

	row, err := s.repo.GetByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading coupon")
	}

	dto := toCouponDTO(*row, decimal.Zero)
	return &dto, nil
}

func toCouponDTO(row models.Coupon, subtotal decimal.Decimal) CouponDTO {
	applied := row.ToCartCoupon()
	eligible := coupon.Validate(&applied, subtotal, time.Now()) == nil

	dto := CouponDTO{
		Code:        applied.Code,
		Type:        applied.Type.String(),
		Value:       applied.Value,
		MinPurchase: applied.MinPurchase,
		MaxDiscount: applied.MaxDiscount,
		ExpiresAt:   applied.ExpiresAt,
		Eligible:    eligible,
		Remaining:   coupon.RemainingForEligibility(applied, subtotal),
	}
	if eligible {
		discount := pricing.CouponDiscount(subtotal, &applied)
		dto.Discount = &discount
	}
	return dto
}
