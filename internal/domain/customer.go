package domain

import (
	"context"
	"time"
)

type Customer struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:30;not null"`
	Username  string `gorm:"size:50;not null;uniqueIndex"`
	Email     string `gorm:"size:120;uniqueIndex"`
	Password  string `gorm:"size:180;not null"`
	Country   string `gorm:"size:20"`
	City      string `gorm:"size:20"`
	Contact   string `gorm:"size:30"`
	Address   string `gorm:"size:40"`
	Zipcode   string `gorm:"size:20"`
	CreatedAt time.Time
}

type Admin struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:30;not null"`
	Username  string `gorm:"size:80;not null;uniqueIndex"`
	Email     string `gorm:"size:120"`
	Password  string `gorm:"size:180;not null"`
	CreatedAt time.Time
}

type CustomerRepo interface {
	FindByID(ctx context.Context, id uint) (*Customer, error)
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, c *Customer) error
	UpdatePassword(ctx context.Context, id uint, credential string) error
}

type AdminRepo interface {
	FindByUsername(ctx context.Context, username string) (*Admin, error)
	Save(ctx context.Context, a *Admin) error
	UpdatePassword(ctx context.Context, id uint, credential string) error
}
