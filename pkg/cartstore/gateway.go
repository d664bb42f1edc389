package cartstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/freshbasket/freshbasket-backend/pkg/types"
)

// Gateway is the network boundary the store reconciles against. Every call
// returns the full authoritative cart after the operation, never a partial
// patch. Implementations must treat timeouts as ordinary failures.
type Gateway interface {
	FetchCart(ctx context.Context) (types.CartState, error)
	AddItem(ctx context.Context, productID uuid.UUID, quantity int) (types.CartState, error)
	SetQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (types.CartState, error)
	RemoveItem(ctx context.Context, itemID uuid.UUID) (types.CartState, error)
	Clear(ctx context.Context) (types.CartState, error)
	ApplyCoupon(ctx context.Context, code string) (types.CartState, error)
	RemoveCoupon(ctx context.Context) (types.CartState, error)
}
