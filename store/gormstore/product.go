package gormstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/loeylei-cell/my-fullstack-system/models"
)

type Products struct {
	db *gorm.DB
}

func (s *Products) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "find product")
	}
	return &p, nil
}

func (s *Products) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return products, nil
}

func (s *Products) Create(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return errors.Wrap(s.db.WithContext(ctx).Create(p).Error, "create product")
}

func (s *Products) Update(ctx context.Context, p *models.Product) error {
	res := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", p.ID).Updates(p)
	if res.Error != nil {
		return errors.Wrap(res.Error, "update product")
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *Products) SetStock(ctx context.Context, id string, qty int) error {
	if qty < 0 {
		return &models.ValidationError{Reason: "stock cannot be negative"}
	}
	res := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock", qty)
	if res.Error != nil {
		return errors.Wrap(res.Error, "set stock")
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ConditionalDecrement runs the guarded decrement as one UPDATE so two
// concurrent commits against the last unit cannot both pass the check.
func (s *Products) ConditionalDecrement(ctx context.Context, id string, qty int) error {
	return conditionalDecrement(s.db.WithContext(ctx), id, qty)
}

func conditionalDecrement(tx *gorm.DB, id string, qty int) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return errors.Wrap(res.Error, "decrement stock")
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// The guard refused: report current availability, or absence.
	var p models.Product
	if err := tx.First(&p, "id = ?", id).Error; err != nil {
		return notFoundOr(err, "find product")
	}
	return &models.InsufficientStockError{
		ProductID: p.ID,
		Name:      p.Name,
		Available: p.Stock,
		Requested: qty,
	}
}
