package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshbasket/freshbasket-backend/pkg/db/models"
)

// ProductDTO is the catalog payload returned to clients. Price is the
// effective selling price; MRP is the strike-through reference.
type ProductDTO struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description,omitempty"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	Price         decimal.Decimal `json:"price"`
	MRP           decimal.Decimal `json:"mrp"`
	GSTPercent    decimal.Decimal `json:"gst_percent"`
	StockQuantity int             `json:"stock_quantity"`
	InStock       bool            `json:"in_stock"`
	ImageURL      *string         `json:"image_url,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ProductPageDTO is one page of catalog results plus the follow-up cursor.
type ProductPageDTO struct {
	Products   []ProductDTO `json:"products"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}

func toProductDTO(p models.Product) ProductDTO {
	return ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category.String(),
		Unit:          p.Unit.String(),
		Price:         p.Price,
		MRP:           p.MRP,
		GSTPercent:    p.GSTPercent,
		StockQuantity: p.StockQuantity,
		InStock:       p.StockQuantity > 0,
		ImageURL:      p.ImageURL,
		CreatedAt:     p.CreatedAt,
	}
}
