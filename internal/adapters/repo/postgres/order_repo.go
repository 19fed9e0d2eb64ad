package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/phenrril/storefront/internal/domain"
)

type OrderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{db: db} }

// Create inserts the order. A clash on the invoice index is reported as
// domain.ErrDuplicate so the caller can retry with a new invoice.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	if o.Status == "" {
		o.Status = domain.OrderStatusPending
	}
	return translate(r.db.WithContext(ctx).Create(o).Error)
}

func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID uint) ([]domain.Order, error) {
	list := []domain.Order{}
	if err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("id desc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
