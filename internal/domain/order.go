package domain

import (
	"context"
	"strconv"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusAccepted  OrderStatus = "Accepted"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

type Order struct {
	ID         uint        `gorm:"primaryKey"`
	Invoice    string      `gorm:"size:20;not null;uniqueIndex"`
	Status     OrderStatus `gorm:"size:20;not null;default:Pending;index"`
	CustomerID uint        `gorm:"not null;index"`
	Lines      OrderLines  `gorm:"column:orders;type:jsonb;serializer:json"`
	CreatedAt  time.Time
}

// OrderLine is the product snapshot captured when the order is placed.
// It never refers back to the live product row.
type OrderLine struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Discount int     `json:"discount"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
	Colors   string  `json:"colors"`
}

// OrderLines is keyed by the product id in decimal form.
type OrderLines map[string]OrderLine

func LineKey(productID uint) string {
	return strconv.FormatUint(uint64(productID), 10)
}

func SnapshotLine(p Product, qty int) OrderLine {
	return OrderLine{
		Name:     p.Name,
		Price:    p.Price.InexactFloat64(),
		Discount: p.Discount,
		Quantity: qty,
		Image:    p.Image1,
		Colors:   p.Colors,
	}
}

type OrderRepo interface {
	Create(ctx context.Context, o *Order) error
	ListByCustomer(ctx context.Context, customerID uint) ([]Order, error)
}

// OrderEvents receives orders once they are committed.
type OrderEvents interface {
	OrderPlaced(ctx context.Context, o *Order) error
}
