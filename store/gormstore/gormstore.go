// Package gormstore implements the store interfaces on PostgreSQL via GORM.
package gormstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/loeylei-cell/my-fullstack-system/models"
)

// Store bundles the per-entity stores over one GORM handle.
type Store struct {
	db *gorm.DB

	Products *Products
	Orders   *Orders
	Carts    *Carts
	Users    *Users
}

func New(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		Products: &Products{db: db},
		Orders:   &Orders{db: db},
		Carts:    &Carts{db: db},
		Users:    &Users{db: db},
	}
}

// AutoMigrate creates or updates every table the storefront uses.
func (s *Store) AutoMigrate() error {
	err := s.db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
	return errors.Wrap(err, "auto-migrate")
}

func notFoundOr(err error, wrap string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return errors.Wrap(err, wrap)
}
