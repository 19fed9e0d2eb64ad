package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/phenrril/storefront/internal/domain"
)

type AdminRepo struct{ db *gorm.DB }

func NewAdminRepo(db *gorm.DB) *AdminRepo { return &AdminRepo{db: db} }

func (r *AdminRepo) FindByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	var a domain.Admin
	if err := r.db.WithContext(ctx).First(&a, "username = ?", username).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *AdminRepo) Save(ctx context.Context, a *domain.Admin) error {
	return translate(r.db.WithContext(ctx).Save(a).Error)
}

func (r *AdminRepo) UpdatePassword(ctx context.Context, id uint, credential string) error {
	return r.db.WithContext(ctx).Model(&domain.Admin{}).Where("id = ?", id).Update("password", credential).Error
}
