// Package orders is the order lifecycle controller: creation with advisory
// stock checks, the payment-proof stock commit, admin status transitions and
// customer receipt confirmation.
package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/loeylei-cell/my-fullstack-system/models"
	"github.com/loeylei-cell/my-fullstack-system/shipping"
	"github.com/loeylei-cell/my-fullstack-system/store"
	"github.com/loeylei-cell/my-fullstack-system/uploads"
)

// Notifier receives every order mutation; the websocket feed implements it.
type Notifier interface {
	OrderChanged(o models.Order)
}

type Service struct {
	products store.ProductStore
	orders   store.OrderStore
	carts    store.CartStore
	users    store.UserStore
	proofs   *uploads.Storage
	notifier Notifier
	log      *logrus.Logger
	now      func() time.Time
}

func NewService(products store.ProductStore, orderStore store.OrderStore, carts store.CartStore, users store.UserStore, proofs *uploads.Storage, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		products: products,
		orders:   orderStore,
		carts:    carts,
		users:    users,
		proofs:   proofs,
		log:      log,
		now:      time.Now,
	}
}

// SetNotifier attaches an order-event listener. Optional.
func (s *Service) SetNotifier(n Notifier) { s.notifier = n }

func (s *Service) notify(o *models.Order) {
	if s.notifier != nil && o != nil {
		s.notifier.OrderChanged(*o)
	}
}

type LineItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"qty"`
}

type CreateRequest struct {
	UserID          string         `json:"user_id"`
	Items           []LineItem     `json:"items"`
	PaymentMethod   string         `json:"payment_method"`
	ShippingAddress models.Address `json:"shipping_address"`
}

// Create places a new order. Stock is checked against current levels but not
// deducted: reservation is deferred to the payment-proof commit so abandoned
// checkouts never hold stock. Line items are value snapshots of the product
// at submission time.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, &models.ValidationError{Reason: "order must contain at least one item"}
	}
	if req.PaymentMethod == "" {
		return nil, &models.ValidationError{Reason: "payment method is required"}
	}

	if _, err := s.users.FindByUsernameOrID(ctx, req.UserID); err != nil {
		return nil, errors.Wrapf(err, "user %s", req.UserID)
	}

	var (
		snapshots []models.OrderItem
		subtotal  float64
	)
	for _, line := range req.Items {
		if line.Quantity < 1 {
			return nil, &models.ValidationError{Reason: "quantity must be at least 1"}
		}
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, errors.Wrapf(err, "product %s", line.ProductID)
		}
		if !product.IsActive {
			return nil, errors.Wrapf(models.ErrNotFound, "product %s is no longer available", product.Name)
		}
		// Advisory only; the authoritative check happens again at commit.
		if product.Stock < line.Quantity {
			return nil, &models.InsufficientStockError{
				ProductID: product.ID,
				Name:      product.Name,
				Available: product.Stock,
				Requested: line.Quantity,
			}
		}

		snapshots = append(snapshots, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
			Image:     product.Image,
			Condition: product.Condition,
		})
		subtotal += product.Price * float64(line.Quantity)
	}

	region, fee := shipping.RegionAndFee(req.ShippingAddress.Province)

	order := &models.Order{
		ID:              uuid.NewString(),
		OrderNumber:     s.newOrderNumber(),
		UserID:          req.UserID,
		Items:           snapshots,
		Subtotal:        subtotal,
		ShippingFee:     fee,
		ShippingRegion:  region,
		Total:           subtotal + fee,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
		Status:          models.OrderStatusPending,
		StockDeducted:   false,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	// Checkout sync: drop the ordered lines from the staging cart. Failure
	// here never fails the order.
	ordered := make([]string, 0, len(req.Items))
	for _, line := range req.Items {
		ordered = append(ordered, line.ProductID)
	}
	if err := s.carts.RemoveItems(ctx, req.UserID, ordered); err != nil {
		s.log.WithError(err).WithField("user_id", req.UserID).Warn("failed to sync cart after checkout")
	}

	s.log.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"user_id":      order.UserID,
		"total":        order.Total,
		"region":       region,
	}).Info("order created")

	s.notify(order)
	return order, nil
}

// Order numbers are human-auditable and unique per attempt, never reused.
func (s *Service) newOrderNumber() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("ORD-%s-%s", s.now().Format("20060102"), suffix)
}

type ProofRequest struct {
	OrderID string
	UserID  string
	Proof   uploads.File
}

// SubmitPaymentProof stores the payment evidence and commits the stock
// deduction. This is the one true commit point: stock comes off exactly once
// per order no matter how often the proof is re-uploaded, and a failed commit
// deducts nothing and persists no file. The order stays pending; admin
// confirmation is a separate step.
func (s *Service) SubmitPaymentProof(ctx context.Context, req ProofRequest) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != req.UserID {
		return nil, models.ErrAccessDenied
	}

	if err := uploads.Validate(req.Proof); err != nil {
		return nil, err
	}

	proofPath, err := s.proofs.SavePaymentProof(order.ID, req.Proof)
	if err != nil {
		return nil, err
	}

	result, err := s.orders.CommitDeduction(ctx, order.ID, proofPath, s.now())
	if err != nil {
		// The commit rolled back; the saved file must not outlive it.
		if rmErr := s.proofs.Remove(proofPath); rmErr != nil {
			s.log.WithError(rmErr).WithField("path", proofPath).Warn("failed to remove orphaned proof file")
		}
		return nil, err
	}

	if result.AlreadyDeducted {
		s.log.WithField("order_number", result.Order.OrderNumber).
			Info("stock already deducted, proof reference refreshed")
	} else {
		s.log.WithFields(logrus.Fields{
			"order_number": result.Order.OrderNumber,
			"items":        len(result.Order.Items),
		}).Info("payment proof accepted, stock deducted")
	}

	s.notify(result.Order)
	return result.Order, nil
}

// UpdateStatus applies an admin transition. Admins move orders through
// pending/confirmed/processing/shipped only; completed belongs to the
// customer and is rejected here.
func (s *Service) UpdateStatus(ctx context.Context, orderID, rawStatus string) (*models.Order, error) {
	status, err := models.ParseOrderStatus(rawStatus)
	if err != nil {
		return nil, errors.Wrapf(err, "%q", rawStatus)
	}
	if !status.AdminAssignable() {
		return nil, errors.Wrapf(models.ErrInvalidStatus,
			"admin can only set: pending, confirmed, processing, shipped")
	}

	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"status":       status,
	}).Info("order status updated")

	s.notify(order)
	return order, nil
}

// ConfirmReceipt is the sole customer transition: shipped -> completed, with
// photo proof. Terminal; nothing mutates the order afterwards.
func (s *Service) ConfirmReceipt(ctx context.Context, req ProofRequest) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != req.UserID {
		return nil, models.ErrAccessDenied
	}
	if order.Status != models.OrderStatusShipped {
		return nil, errors.Wrapf(models.ErrInvalidTransition,
			"order must be shipped before confirming receipt, current status: %s", order.Status)
	}

	if err := uploads.Validate(req.Proof); err != nil {
		return nil, err
	}
	proofPath, err := s.proofs.SaveReceiptProof(order.ID, req.Proof)
	if err != nil {
		return nil, err
	}

	confirmed, err := s.orders.ConfirmReceipt(ctx, order.ID, proofPath, s.now())
	if err != nil {
		if rmErr := s.proofs.Remove(proofPath); rmErr != nil {
			s.log.WithError(rmErr).WithField("path", proofPath).Warn("failed to remove orphaned proof file")
		}
		return nil, err
	}

	s.log.WithField("order_number", confirmed.OrderNumber).Info("receipt confirmed, order completed")

	s.notify(confirmed)
	return confirmed, nil
}

// GetForUser returns one order, owner-only.
func (s *Service) GetForUser(ctx context.Context, orderID, userID string) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, models.ErrAccessDenied
	}
	return order, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.orders.List(ctx)
}
