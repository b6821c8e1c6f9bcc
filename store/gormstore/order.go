package gormstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/loeylei-cell/my-fullstack-system/models"
	"github.com/loeylei-cell/my-fullstack-system/store"
)

type Orders struct {
	db *gorm.DB
}

func (s *Orders) Create(ctx context.Context, o *models.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return errors.Wrap(s.db.WithContext(ctx).Create(o).Error, "create order")
}

func (s *Orders) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	if err := s.db.WithContext(ctx).Preload("Items").First(&o, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "find order")
	}
	return &o, nil
}

func (s *Orders) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "list user orders")
	}
	return orders, nil
}

func (s *Orders) List(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return orders, nil
}

func (s *Orders) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return errors.Wrap(res.Error, "update order status")
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// CommitDeduction is the stock commit point. Everything happens in one
// transaction with the order row locked FOR UPDATE: the idempotency check,
// the per-item conditional decrements, the flag flip and the proof write.
// Any failure rolls the whole thing back, so a rejected commit is invisible.
func (s *Orders) CommitDeduction(ctx context.Context, orderID, proofPath string, at time.Time) (*store.CommitDeductionResult, error) {
	var result store.CommitDeductionResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ?", orderID).Error; err != nil {
			return notFoundOr(err, "lock order")
		}
		if err := tx.Where("order_id = ?", orderID).Find(&order.Items).Error; err != nil {
			return errors.Wrap(err, "load order items")
		}

		proofUpdate := map[string]interface{}{
			"payment_proof":             proofPath,
			"payment_proof_uploaded_at": at,
		}

		if order.StockDeducted {
			// Repeat upload: refresh the proof reference, deduct nothing.
			if err := tx.Model(&models.Order{}).Where("id = ?", orderID).
				Updates(proofUpdate).Error; err != nil {
				return errors.Wrap(err, "refresh payment proof")
			}
			order.PaymentProof = proofPath
			order.PaymentProofUploadedAt = &at
			result.AlreadyDeducted = true
			result.Order = &order
			return nil
		}

		for _, item := range order.Items {
			if err := conditionalDecrement(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		proofUpdate["stock_deducted"] = true
		res := tx.Model(&models.Order{}).
			Where("id = ? AND stock_deducted = ?", orderID, false).
			Updates(proofUpdate)
		if res.Error != nil {
			return errors.Wrap(res.Error, "mark stock deducted")
		}
		if res.RowsAffected == 0 {
			// Unreachable while the row lock is held; abort so the
			// decrements above roll back rather than double-commit.
			return errors.New("stock_deducted changed concurrently")
		}

		order.StockDeducted = true
		order.PaymentProof = proofPath
		order.PaymentProofUploadedAt = &at
		result.Order = &order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ConfirmReceipt fires the only customer-triggered transition. The WHERE on
// status makes it a compare-and-set: once completed, repeats and races fail.
func (s *Orders) ConfirmReceipt(ctx context.Context, orderID, proofPath string, at time.Time) (*models.Order, error) {
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, models.OrderStatusShipped).
		Updates(map[string]interface{}{
			"status":               models.OrderStatusCompleted,
			"receipt_proof":        proofPath,
			"receipt_confirmed_at": at,
		})
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "confirm receipt")
	}
	if res.RowsAffected == 0 {
		var o models.Order
		if err := s.db.WithContext(ctx).First(&o, "id = ?", orderID).Error; err != nil {
			return nil, notFoundOr(err, "find order")
		}
		return nil, errors.Wrapf(models.ErrInvalidTransition,
			"order must be shipped before confirming receipt, current status: %s", o.Status)
	}
	return s.FindByID(ctx, orderID)
}
