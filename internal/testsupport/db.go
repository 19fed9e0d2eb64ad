// Package testsupport builds throwaway databases for package tests.
package testsupport

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/phenrril/storefront/internal/adapters/repo/postgres"
	"github.com/phenrril/storefront/internal/domain"
)

// NewDB returns a migrated in-memory SQLite database. A single connection
// keeps every query on the same memory database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, postgres.Migrate(db))
	return db
}

type Catalog struct {
	Category domain.Category
	Brand    domain.Brand
}

// SeedTaxonomy inserts one category and one brand.
func SeedTaxonomy(t testing.TB, db *gorm.DB) Catalog {
	t.Helper()
	c := Catalog{Category: domain.Category{Name: "Clothes"}, Brand: domain.Brand{Name: "Acme"}}
	require.NoError(t, db.Create(&c.Category).Error)
	require.NoError(t, db.Create(&c.Brand).Error)
	return c
}

// SeedProduct inserts a product with the given id, name and price.
func SeedProduct(t testing.TB, db *gorm.DB, c Catalog, id uint, name string, price float64, discount int) domain.Product {
	t.Helper()
	p := domain.Product{
		ID:          id,
		Name:        name,
		Price:       decimal.NewFromFloat(price),
		Discount:    discount,
		Stock:       10,
		Colors:      "red,blue",
		Description: "a " + name,
		CategoryID:  c.Category.ID,
		BrandID:     c.Brand.ID,
		Image1:      name + ".jpg",
		Image2:      domain.DefaultImage,
		Image3:      domain.DefaultImage,
	}
	require.NoError(t, db.Omit("Category", "Brand").Create(&p).Error)
	return p
}
