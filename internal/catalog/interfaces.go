package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshbasket/freshbasket-backend/pkg/db/models"
)

// ProductRepository defines the persistence surface required by the catalog service.
type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, query ListQuery) ([]models.Product, error)
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error
	IncrementStock(ctx context.Context, id uuid.UUID, quantity int) error
}
