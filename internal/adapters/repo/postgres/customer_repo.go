package postgres

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/phenrril/storefront/internal/domain"
)

type CustomerRepo struct{ db *gorm.DB }

func NewCustomerRepo(db *gorm.DB) *CustomerRepo { return &CustomerRepo{db: db} }

func (r *CustomerRepo) FindByID(ctx context.Context, id uint) (*domain.Customer, error) {
	var c domain.Customer
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CustomerRepo) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	var c domain.Customer
	e := strings.ToLower(strings.TrimSpace(email))
	if e == "" {
		return nil, errors.New("empty email")
	}
	if err := r.db.WithContext(ctx).First(&c, "LOWER(email) = ?", e).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CustomerRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Customer{}).Where("username = ?", username).Count(&n).Error
	return n > 0, err
}

func (r *CustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	c.Email = strings.ToLower(c.Email)
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *CustomerRepo) UpdatePassword(ctx context.Context, id uint, credential string) error {
	return r.db.WithContext(ctx).Model(&domain.Customer{}).Where("id = ?", id).Update("password", credential).Error
}
