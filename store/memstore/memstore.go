// Package memstore is an in-memory implementation of the store interfaces.
// It mirrors the transactional semantics of gormstore behind a single mutex
// and backs the service tests; nothing here touches disk or network.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/loeylei-cell/my-fullstack-system/models"
	"github.com/loeylei-cell/my-fullstack-system/store"
)

type Store struct {
	mu       sync.Mutex
	products map[string]*models.Product
	orders   map[string]*models.Order
	carts    map[string]*models.Cart // by user id
	users    map[string]*models.User
	nextCart uint

	Products *Products
	Orders   *Orders
	Carts    *Carts
	Users    *Users
}

func New() *Store {
	s := &Store{
		products: make(map[string]*models.Product),
		orders:   make(map[string]*models.Order),
		carts:    make(map[string]*models.Cart),
		users:    make(map[string]*models.User),
	}
	s.Products = &Products{s: s}
	s.Orders = &Orders{s: s}
	s.Carts = &Carts{s: s}
	s.Users = &Users{s: s}
	return s
}

// Stores hand out copies so callers can never mutate shared state, and so
// order snapshots stay immutable in tests the same way rows do in Postgres.

func cloneProduct(p *models.Product) *models.Product {
	cp := *p
	return &cp
}

func cloneOrder(o *models.Order) *models.Order {
	co := *o
	co.Items = append([]models.OrderItem(nil), o.Items...)
	if o.PaymentProofUploadedAt != nil {
		at := *o.PaymentProofUploadedAt
		co.PaymentProofUploadedAt = &at
	}
	if o.ReceiptConfirmedAt != nil {
		at := *o.ReceiptConfirmedAt
		co.ReceiptConfirmedAt = &at
	}
	return &co
}

func cloneCart(c *models.Cart) *models.Cart {
	cc := *c
	cc.Items = append([]models.CartItem(nil), c.Items...)
	return &cc
}

// ---- Products ----

type Products struct {
	s *Store
}

func (p *Products) FindByID(_ context.Context, id string) (*models.Product, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	prod, ok := p.s.products[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneProduct(prod), nil
}

func (p *Products) List(_ context.Context) ([]models.Product, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	out := make([]models.Product, 0, len(p.s.products))
	for _, prod := range p.s.products {
		out = append(out, *cloneProduct(prod))
	}
	return out, nil
}

func (p *Products) Create(_ context.Context, prod *models.Product) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if prod.ID == "" {
		prod.ID = uuid.NewString()
	}
	prod.CreatedAt = time.Now()
	p.s.products[prod.ID] = cloneProduct(prod)
	return nil
}

func (p *Products) Update(_ context.Context, prod *models.Product) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if _, ok := p.s.products[prod.ID]; !ok {
		return models.ErrNotFound
	}
	p.s.products[prod.ID] = cloneProduct(prod)
	return nil
}

func (p *Products) SetStock(_ context.Context, id string, qty int) error {
	if qty < 0 {
		return &models.ValidationError{Reason: "stock cannot be negative"}
	}
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	prod, ok := p.s.products[id]
	if !ok {
		return models.ErrNotFound
	}
	prod.Stock = qty
	return nil
}

func (p *Products) ConditionalDecrement(_ context.Context, id string, qty int) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	return p.s.conditionalDecrementLocked(id, qty)
}

func (s *Store) conditionalDecrementLocked(id string, qty int) error {
	prod, ok := s.products[id]
	if !ok {
		return models.ErrNotFound
	}
	if prod.Stock < qty {
		return &models.InsufficientStockError{
			ProductID: prod.ID,
			Name:      prod.Name,
			Available: prod.Stock,
			Requested: qty,
		}
	}
	prod.Stock -= qty
	return nil
}

// ---- Orders ----

type Orders struct {
	s *Store
}

func (o *Orders) Create(_ context.Context, ord *models.Order) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	if ord.ID == "" {
		ord.ID = uuid.NewString()
	}
	now := time.Now()
	ord.CreatedAt = now
	ord.UpdatedAt = now
	o.s.orders[ord.ID] = cloneOrder(ord)
	return nil
}

func (o *Orders) FindByID(_ context.Context, id string) (*models.Order, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	ord, ok := o.s.orders[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneOrder(ord), nil
}

func (o *Orders) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	var out []models.Order
	for _, ord := range o.s.orders {
		if ord.UserID == userID {
			out = append(out, *cloneOrder(ord))
		}
	}
	return out, nil
}

func (o *Orders) List(_ context.Context) ([]models.Order, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	var out []models.Order
	for _, ord := range o.s.orders {
		out = append(out, *cloneOrder(ord))
	}
	return out, nil
}

func (o *Orders) UpdateStatus(_ context.Context, id string, status models.OrderStatus) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	ord, ok := o.s.orders[id]
	if !ok {
		return models.ErrNotFound
	}
	ord.Status = status
	ord.UpdatedAt = time.Now()
	return nil
}

func (o *Orders) CommitDeduction(_ context.Context, orderID, proofPath string, at time.Time) (*store.CommitDeductionResult, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()

	ord, ok := o.s.orders[orderID]
	if !ok {
		return nil, models.ErrNotFound
	}

	if ord.StockDeducted {
		ord.PaymentProof = proofPath
		ord.PaymentProofUploadedAt = &at
		ord.UpdatedAt = at
		return &store.CommitDeductionResult{AlreadyDeducted: true, Order: cloneOrder(ord)}, nil
	}

	// Check every line before touching anything: all-or-nothing.
	for _, item := range ord.Items {
		prod, ok := o.s.products[item.ProductID]
		if !ok {
			return nil, errors.Wrapf(models.ErrNotFound, "product %s", item.ProductID)
		}
		if prod.Stock < item.Quantity {
			return nil, &models.InsufficientStockError{
				ProductID: prod.ID,
				Name:      prod.Name,
				Available: prod.Stock,
				Requested: item.Quantity,
			}
		}
	}
	for _, item := range ord.Items {
		o.s.products[item.ProductID].Stock -= item.Quantity
	}

	ord.StockDeducted = true
	ord.PaymentProof = proofPath
	ord.PaymentProofUploadedAt = &at
	ord.UpdatedAt = at
	return &store.CommitDeductionResult{Order: cloneOrder(ord)}, nil
}

func (o *Orders) ConfirmReceipt(_ context.Context, orderID, proofPath string, at time.Time) (*models.Order, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()

	ord, ok := o.s.orders[orderID]
	if !ok {
		return nil, models.ErrNotFound
	}
	if ord.Status != models.OrderStatusShipped {
		return nil, errors.Wrapf(models.ErrInvalidTransition,
			"order must be shipped before confirming receipt, current status: %s", ord.Status)
	}

	ord.Status = models.OrderStatusCompleted
	ord.ReceiptProof = proofPath
	ord.ReceiptConfirmedAt = &at
	ord.UpdatedAt = at
	return cloneOrder(ord), nil
}

// ---- Carts ----

type Carts struct {
	s *Store
}

func (c *Carts) GetOrCreate(_ context.Context, userID string) (*models.Cart, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return cloneCart(c.s.cartLocked(userID)), nil
}

func (s *Store) cartLocked(userID string) *models.Cart {
	if cart, ok := s.carts[userID]; ok {
		return cart
	}
	s.nextCart++
	cart := &models.Cart{CartID: s.nextCart, UserID: userID, CreatedAt: time.Now()}
	s.carts[userID] = cart
	return cart
}

func (c *Carts) AddItem(_ context.Context, userID, productID string, qty int) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	cart := c.s.cartLocked(userID)
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity += qty
			return nil
		}
	}
	cart.Items = append(cart.Items, models.CartItem{
		CartID:    cart.CartID,
		ProductID: productID,
		Quantity:  qty,
		AddedAt:   time.Now(),
	})
	return nil
}

func (c *Carts) UpdateItem(_ context.Context, userID, productID string, qty *int, selected *bool) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	cart := c.s.cartLocked(userID)
	for i := range cart.Items {
		if cart.Items[i].ProductID != productID {
			continue
		}
		if qty != nil {
			cart.Items[i].Quantity = *qty
		}
		if selected != nil {
			cart.Items[i].Selected = *selected
		}
		return nil
	}
	return models.ErrNotFound
}

func (c *Carts) RemoveItem(_ context.Context, userID, productID string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	cart := c.s.cartLocked(userID)
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (c *Carts) RemoveItems(_ context.Context, userID string, productIDs []string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	drop := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		drop[id] = true
	}
	cart := c.s.cartLocked(userID)
	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if !drop[item.ProductID] {
			kept = append(kept, item)
		}
	}
	cart.Items = kept
	return nil
}

func (c *Carts) Clear(_ context.Context, userID string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.cartLocked(userID).Items = nil
	return nil
}

// ---- Users ----

type Users struct {
	s *Store
}

func (u *Users) FindByUsernameOrID(_ context.Context, key string) (*models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if usr, ok := u.s.users[key]; ok {
		cp := *usr
		return &cp, nil
	}
	for _, usr := range u.s.users {
		if usr.Username == key {
			cp := *usr
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (u *Users) Create(_ context.Context, usr *models.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if usr.ID == "" {
		usr.ID = uuid.NewString()
	}
	cp := *usr
	u.s.users[usr.ID] = &cp
	return nil
}
