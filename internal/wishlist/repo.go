package wishlist

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/freshbasket/freshbasket-backend/pkg/db/models"
	"github.com/freshbasket/freshbasket-backend/pkg/pagination"
)

// Repository encapsulates wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddItem inserts a wishlist entry and ignores duplicates.
func (r *Repository) AddItem(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return gorm.ErrInvalidValue
	}

	return r.db.WithContext(ctx).
		Exec(`INSERT INTO wishlist_items (user_id, product_id) VALUES (?, ?) ON CONFLICT (user_id, product_id) DO NOTHING`, userID, productID).
		Error
}

// RemoveItem deletes the saved entry if it exists.
func (r *Repository) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{}).
		Error
}

type wishlistRowRecord struct {
	ProductID     uuid.UUID       `gorm:"column:product_id"`
	Name          string          `gorm:"column:name"`
	Category      string          `gorm:"column:category"`
	Unit          string          `gorm:"column:unit"`
	Price         decimal.Decimal `gorm:"column:price"`
	MRP           decimal.Decimal `gorm:"column:mrp"`
	StockQuantity int             `gorm:"column:stock_quantity"`
	ImageURL      *string         `gorm:"column:image_url"`
	SavedAt       time.Time       `gorm:"column:saved_at"`
}

// ListItems returns a paginated list of saved products for a user, keyed by
// (saved_at, product_id) since wishlist rows carry no surrogate id.
func (r *Repository) ListItems(ctx context.Context, userID uuid.UUID, cursor string, limit int) (WishlistPageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	decodedCursor, err := pagination.ParseKeyedCursor(strings.TrimSpace(cursor))
	if err != nil {
		return WishlistPageDTO{}, err
	}

	query := r.db.WithContext(ctx).
		Table("wishlist_items wi").
		Select("p.id AS product_id, p.name, p.category, p.unit, p.price, p.mrp, p.stock_quantity, p.image_url, wi.created_at AS saved_at").
		Joins("JOIN products p ON p.id = wi.product_id").
		Where("wi.user_id = ? AND p.is_active = ?", userID, true)

	if decodedCursor != nil {
		query = query.Where(
			"(wi.created_at < ?) OR (wi.created_at = ? AND wi.product_id < ?)",
			decodedCursor.At, decodedCursor.At, decodedCursor.Key,
		)
	}

	query = query.Order("wi.created_at DESC").Order("wi.product_id DESC").Limit(pagination.LimitWithBuffer(limit))

	var records []wishlistRowRecord
	if err := query.Scan(&records).Error; err != nil {
		return WishlistPageDTO{}, err
	}

	page := WishlistPageDTO{Items: make([]WishlistItemDTO, 0, len(records))}
	if len(records) > normalizedLimit {
		records = records[:normalizedLimit]
		last := records[len(records)-1]
		next := pagination.EncodeKeyedCursor(pagination.KeyedCursor{At: last.SavedAt, Key: last.ProductID})
		page.NextCursor = &next
	}
	for _, record := range records {
		page.Items = append(page.Items, WishlistItemDTO{
			ProductID: record.ProductID,
			Name:      record.Name,
			Category:  record.Category,
			Unit:      record.Unit,
			Price:     record.Price,
			MRP:       record.MRP,
			InStock:   record.StockQuantity > 0,
			ImageURL:  record.ImageURL,
			SavedAt:   record.SavedAt,
		})
	}
	return page, nil
}
