package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshbasket/freshbasket-backend/pkg/db/models"
	"github.com/freshbasket/freshbasket-backend/pkg/enums"
)

// CartRepository defines the persistence surface required by the cart service.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error)
	Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error)
	ReplaceItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem) error
	SetCouponCode(ctx context.Context, cartID uuid.UUID, code *string) error
	UpdateStatus(ctx context.Context, cartID uuid.UUID, status enums.CartStatus) error
}
