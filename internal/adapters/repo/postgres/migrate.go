package postgres

import (
	"gorm.io/gorm"

	"github.com/phenrril/storefront/internal/domain"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Category{}, &domain.Brand{}, &domain.Product{},
		&domain.Customer{}, &domain.Admin{}, &domain.Order{},
	)
}
