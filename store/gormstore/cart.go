package gormstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/loeylei-cell/my-fullstack-system/models"
)

type Carts struct {
	db *gorm.DB
}

func (s *Carts) GetOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "find cart")
	}

	cart = models.Cart{UserID: userID}
	if err := s.db.WithContext(ctx).Create(&cart).Error; err != nil {
		return nil, errors.Wrap(err, "create cart")
	}
	return &cart, nil
}

func (s *Carts) AddItem(ctx context.Context, userID, productID string, qty int) error {
	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.CartItem
		err := tx.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			item = models.CartItem{
				CartID:    cart.CartID,
				ProductID: productID,
				Quantity:  qty,
				Selected:  false, // never auto-select on add
				AddedAt:   time.Now(),
			}
			return errors.Wrap(tx.Create(&item).Error, "add cart item")
		}
		if err != nil {
			return errors.Wrap(err, "find cart item")
		}

		item.Quantity += qty
		return errors.Wrap(tx.Save(&item).Error, "update cart item")
	})
}

func (s *Carts) UpdateItem(ctx context.Context, userID, productID string, qty *int, selected *bool) error {
	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if qty != nil {
		updates["quantity"] = *qty
	}
	if selected != nil {
		updates["selected"] = *selected
	}
	if len(updates) == 0 {
		return nil
	}

	res := s.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cart.CartID, productID).
		Updates(updates)
	if res.Error != nil {
		return errors.Wrap(res.Error, "update cart item")
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *Carts) RemoveItem(ctx context.Context, userID, productID string) error {
	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cart.CartID, productID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "remove cart item")
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *Carts) RemoveItems(ctx context.Context, userID string, productIDs []string) error {
	if len(productIDs) == 0 {
		return nil
	}
	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).
		Where("cart_id = ? AND product_id IN ?", cart.CartID, productIDs).
		Delete(&models.CartItem{}).Error
	return errors.Wrap(err, "remove cart items")
}

func (s *Carts) Clear(ctx context.Context, userID string) error {
	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).
		Where("cart_id = ?", cart.CartID).
		Delete(&models.CartItem{}).Error
	return errors.Wrap(err, "clear cart")
}
