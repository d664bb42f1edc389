package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/freshbasket/freshbasket-backend/pkg/db/models"
	"github.com/freshbasket/freshbasket-backend/pkg/enums"
	"github.com/freshbasket/freshbasket-backend/pkg/pagination"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  category TEXT NOT NULL,
  unit TEXT NOT NULL,
  price NUMERIC NOT NULL,
  mrp NUMERIC NOT NULL,
  gst_percent NUMERIC NOT NULL DEFAULT 0,
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  image_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, category enums.ProductCategory, stock int, createdAt time.Time) models.Product {
	t.Helper()

	product := models.Product{
		ID:            uuid.New(),
		Name:          name,
		Category:      category,
		Unit:          enums.ProductUnitKilogram,
		Price:         decimal.RequireFromString("45.00"),
		MRP:           decimal.RequireFromString("53.00"),
		GSTPercent:    decimal.NewFromInt(5),
		StockQuantity: stock,
		IsActive:      true,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func TestRepositoryListPagesNewestFirst(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	oldest := seedProduct(t, db, "Banana", enums.ProductCategoryFruits, 10, base)
	middle := seedProduct(t, db, "Tomato", enums.ProductCategoryVegetables, 10, base.Add(time.Minute))
	newest := seedProduct(t, db, "Alphonso Mango", enums.ProductCategoryFruits, 10, base.Add(2*time.Minute))

	rows, err := repo.List(ctx, ListQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newest.ID, rows[0].ID)
	assert.Equal(t, middle.ID, rows[1].ID)

	cursor := &pagination.Cursor{CreatedAt: rows[1].CreatedAt, ID: rows[1].ID}
	rows, err = repo.List(ctx, ListQuery{Limit: 2, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, oldest.ID, rows[0].ID)
}

func TestRepositoryListFiltersByCategory(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	seedProduct(t, db, "Banana", enums.ProductCategoryFruits, 10, now)
	seedProduct(t, db, "Tomato", enums.ProductCategoryVegetables, 10, now.Add(time.Second))

	category := enums.ProductCategoryVegetables
	rows, err := repo.List(ctx, ListQuery{Limit: 10, Category: &category})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Tomato", rows[0].Name)
}

func TestRepositoryGetByIDSkipsInactive(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, "Banana", enums.ProductCategoryFruits, 10, time.Now().UTC())
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).Update("is_active", false).Error)

	_, err := repo.GetByID(ctx, product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryDecrementStock(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, "Banana", enums.ProductCategoryFruits, 5, time.Now().UTC())

	require.NoError(t, repo.DecrementStock(ctx, product.ID, 3))

	// Short stock must not go negative.
	err := repo.DecrementStock(ctx, product.ID, 3)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var got models.Product
	require.NoError(t, db.First(&got, "id = ?", product.ID).Error)
	assert.Equal(t, 2, got.StockQuantity)

	require.NoError(t, repo.IncrementStock(ctx, product.ID, 3))
	require.NoError(t, db.First(&got, "id = ?", product.ID).Error)
	assert.Equal(t, 5, got.StockQuantity)
}
