package cartstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/freshbasket/freshbasket-backend/pkg/errors"
	"github.com/freshbasket/freshbasket-backend/pkg/pricing"
	"github.com/freshbasket/freshbasket-backend/pkg/types"
)

// ErrMutationInFlight is returned when a mutation targets a logical resource
// that already has an outstanding gateway request. Callers retry after the
// first request settles.
var ErrMutationInFlight = pkgerrors.New(pkgerrors.CodeConflict, "another change for this resource is still in flight")

// Logical resources that are not individual cart entries.
const (
	resourceCart   = "cart"
	resourceCoupon = "coupon"
)

// Store owns the local mirror of the server cart. Every successful gateway
// response replaces the mirror wholesale, and every money figure is derived
// from the current mirror on read. Mutations on the same logical resource are
// serialized; mutations on distinct resources may run concurrently.
type Store struct {
	gateway Gateway

	mu       sync.Mutex
	state    types.CartState
	inflight map[string]struct{}
}

func NewStore(gateway Gateway) (*Store, error) {
	if gateway == nil {
		return nil, fmt.Errorf("gateway is required")
	}
	return &Store{
		gateway:  gateway,
		inflight: make(map[string]struct{}),
	}, nil
}

// begin reserves the resource key or reports an in-flight collision.
func (s *Store) begin(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[key]; busy {
		return ErrMutationInFlight
	}
	s.inflight[key] = struct{}{}
	return nil
}

func (s *Store) end(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, key)
}

// mutate runs one gateway call under the resource key. A failed call leaves
// the mirror at its last synced value.
func (s *Store) mutate(key string, call func() (types.CartState, error)) error {
	if err := s.begin(key); err != nil {
		return err
	}
	defer s.end(key)

	next, err := call()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.state = next.Clone()
	s.mu.Unlock()
	return nil
}

// Refresh re-syncs the mirror from the server without mutating the cart.
func (s *Store) Refresh(ctx context.Context) error {
	return s.mutate(resourceCart, func() (types.CartState, error) {
		return s.gateway.FetchCart(ctx)
	})
}

func (s *Store) AddItem(ctx context.Context, productID uuid.UUID, quantity int) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	return s.mutate(productID.String(), func() (types.CartState, error) {
		return s.gateway.AddItem(ctx, productID, quantity)
	})
}

// SetQuantity with a quantity of zero is defined as RemoveItem.
func (s *Store) SetQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, itemID)
	}
	return s.mutate(itemID.String(), func() (types.CartState, error) {
		return s.gateway.SetQuantity(ctx, itemID, quantity)
	})
}

func (s *Store) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	return s.mutate(itemID.String(), func() (types.CartState, error) {
		return s.gateway.RemoveItem(ctx, itemID)
	})
}

func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(resourceCart, func() (types.CartState, error) {
		return s.gateway.Clear(ctx)
	})
}

func (s *Store) ApplyCoupon(ctx context.Context, code string) error {
	normalized := types.NormalizeCouponCode(code)
	if normalized == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	return s.mutate(resourceCoupon, func() (types.CartState, error) {
		return s.gateway.ApplyCoupon(ctx, normalized)
	})
}

func (s *Store) RemoveCoupon(ctx context.Context) error {
	return s.mutate(resourceCoupon, func() (types.CartState, error) {
		return s.gateway.RemoveCoupon(ctx)
	})
}

// Reset drops the mirror to an empty cart, for logout. No gateway call.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = types.CartState{}
}

func (s *Store) snapshot() types.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// State returns a deep copy of the current mirror.
func (s *Store) State() types.CartState {
	return s.snapshot()
}

func (s *Store) Items() []types.CartLineItem {
	return s.snapshot().Items
}

func (s *Store) AppliedCoupon() *types.Coupon {
	return s.snapshot().AppliedCoupon
}

// Breakdown recomputes every derived figure from the current mirror. Nothing
// is cached across mutations, so an identical mirror always yields identical
// figures.
func (s *Store) Breakdown() types.PriceBreakdown {
	snap := s.snapshot()
	return pricing.Quote(snap.Items, snap.AppliedCoupon)
}

func (s *Store) Subtotal() decimal.Decimal {
	return pricing.Subtotal(s.Items())
}

func (s *Store) TotalDiscount() decimal.Decimal {
	return pricing.TotalDiscount(s.Items())
}

func (s *Store) TotalGST() decimal.Decimal {
	return pricing.TotalGST(s.Items())
}

func (s *Store) ShippingFee() decimal.Decimal {
	return pricing.ShippingFee(s.Subtotal())
}

func (s *Store) PlatformFee() decimal.Decimal {
	return pricing.PlatformFee()
}

func (s *Store) CouponDiscount() decimal.Decimal {
	snap := s.snapshot()
	return pricing.CouponDiscount(pricing.Subtotal(snap.Items), snap.AppliedCoupon)
}

func (s *Store) GrandTotal() decimal.Decimal {
	snap := s.snapshot()
	return pricing.GrandTotal(snap.Items, snap.AppliedCoupon)
}
