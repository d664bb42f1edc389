package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshbasket/freshbasket-backend/pkg/db/models"
	"github.com/freshbasket/freshbasket-backend/pkg/enums"
	"github.com/freshbasket/freshbasket-backend/pkg/pagination"
)

// ListQuery carries the repo-level knobs for the browse query.
type ListQuery struct {
	Category *enums.ProductCategory
	Search   string
	Cursor   *pagination.Cursor
	Limit    int
}

// Repository exposes persistence operations for catalog products.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a product repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// GetByID loads an active product.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// List pages active products newest-first, keyed by (created_at, id).
func (r *Repository) List(ctx context.Context, query ListQuery) ([]models.Product, error) {
	tx := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC, id DESC").
		Limit(query.Limit)

	if query.Category != nil {
		tx = tx.Where("category = ?", *query.Category)
	}
	if query.Search != "" {
		tx = tx.Where("LOWER(name) LIKE ?", "%"+query.Search+"%")
	}
	if query.Cursor != nil {
		tx = tx.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			query.Cursor.CreatedAt, query.Cursor.CreatedAt, query.Cursor.ID,
		)
	}

	var products []models.Product
	if err := tx.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// DecrementStock atomically reserves stock. The conditional update fails with
// ErrRecordNotFound semantics when stock is short, which callers translate to
// a conflict.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND is_active = ? AND stock_quantity >= ?", id, true, quantity).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementStock returns previously reserved stock, for cancellations.
func (r *Repository) IncrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", quantity)).Error
}
