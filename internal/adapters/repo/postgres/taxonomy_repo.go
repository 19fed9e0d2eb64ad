package postgres

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/phenrril/storefront/internal/domain"
)

type TaxonomyRepo struct{ db *gorm.DB }

func NewTaxonomyRepo(db *gorm.DB) *TaxonomyRepo { return &TaxonomyRepo{db: db} }

func (r *TaxonomyRepo) Categories(ctx context.Context) ([]domain.Category, error) {
	list := []domain.Category{}
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *TaxonomyRepo) Brands(ctx context.Context) ([]domain.Brand, error) {
	list := []domain.Brand{}
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *TaxonomyRepo) FindCategory(ctx context.Context, id uint) (*domain.Category, error) {
	var c domain.Category
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *TaxonomyRepo) FindBrand(ctx context.Context, id uint) (*domain.Brand, error) {
	var b domain.Brand
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *TaxonomyRepo) FindCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	var c domain.Category
	if err := r.db.WithContext(ctx).First(&c, "LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *TaxonomyRepo) FindBrandByName(ctx context.Context, name string) (*domain.Brand, error) {
	var b domain.Brand
	if err := r.db.WithContext(ctx).First(&b, "LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *TaxonomyRepo) SaveCategory(ctx context.Context, c *domain.Category) error {
	return translate(r.db.WithContext(ctx).Save(c).Error)
}

func (r *TaxonomyRepo) SaveBrand(ctx context.Context, b *domain.Brand) error {
	return translate(r.db.WithContext(ctx).Save(b).Error)
}

func (r *TaxonomyRepo) DeleteCategory(ctx context.Context, id uint) error {
	return r.deleteUnreferenced(ctx, &domain.Category{}, "category_id", id)
}

func (r *TaxonomyRepo) DeleteBrand(ctx context.Context, id uint) error {
	return r.deleteUnreferenced(ctx, &domain.Brand{}, "brand_id", id)
}

func (r *TaxonomyRepo) deleteUnreferenced(ctx context.Context, model any, column string, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&domain.Product{}).Where(column+" = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return domain.ErrInUse
		}
		res := tx.Delete(model, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
