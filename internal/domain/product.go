package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const DefaultImage = "image.jpg"

type Product struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"size:80;not null;index"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Discount    int             `gorm:"not null;default:0"`
	Stock       int             `gorm:"not null"`
	Colors      string          `gorm:"type:text;not null"`
	Description string          `gorm:"type:text;not null"`
	CategoryID  uint            `gorm:"not null;index"`
	Category    *Category
	BrandID     uint `gorm:"not null;index"`
	Brand       *Brand
	Image1      string `gorm:"size:180;not null;default:image.jpg"`
	Image2      string `gorm:"size:180;not null;default:image.jpg"`
	Image3      string `gorm:"size:180;not null;default:image.jpg"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate rejects negative price or stock and discounts outside 0..100.
func (p *Product) Validate() error {
	if p.Price.IsNegative() {
		return BadRequest("invalid_price")
	}
	if p.Discount < 0 || p.Discount > 100 {
		return BadRequest("invalid_discount")
	}
	if p.Stock < 0 {
		return BadRequest("invalid_stock")
	}
	return nil
}

func (p *Product) Images() [3]string {
	return [3]string{p.Image1, p.Image2, p.Image3}
}

type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:30;not null;uniqueIndex"`
}

type Brand struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:30;not null;uniqueIndex"`
}

// ProductFilter narrows a product listing. A nil id applies no filter.
type ProductFilter struct {
	Query      string
	CategoryID *uint
	BrandID    *uint
}

type ProductRepo interface {
	List(ctx context.Context, f ProductFilter) ([]Product, error)
	FindByID(ctx context.Context, id uint) (*Product, error)
	FindByIDs(ctx context.Context, ids []uint) (map[uint]Product, error)
	Save(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id uint) error
}

type TaxonomyRepo interface {
	Categories(ctx context.Context) ([]Category, error)
	Brands(ctx context.Context) ([]Brand, error)
	FindCategory(ctx context.Context, id uint) (*Category, error)
	FindBrand(ctx context.Context, id uint) (*Brand, error)
	FindCategoryByName(ctx context.Context, name string) (*Category, error)
	FindBrandByName(ctx context.Context, name string) (*Brand, error)
	SaveCategory(ctx context.Context, c *Category) error
	SaveBrand(ctx context.Context, b *Brand) error
	DeleteCategory(ctx context.Context, id uint) error
	DeleteBrand(ctx context.Context, id uint) error
}
