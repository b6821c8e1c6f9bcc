// Package store declares the persistence interfaces the order lifecycle is
// built against. Implementations are constructed once in main and passed in;
// nothing reaches for a global database handle.
package store

import (
	"context"
	"time"

	"github.com/loeylei-cell/my-fullstack-system/models"
)

// ProductStore owns the stock counter. Stock only ever changes through
// ConditionalDecrement (the order commit) or SetStock (explicit admin set).
type ProductStore interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error

	// SetStock overwrites the stock counter. Negative values are rejected.
	SetStock(ctx context.Context, id string, qty int) error

	// ConditionalDecrement atomically applies "stock = stock - qty if
	// stock >= qty". Returns *models.InsufficientStockError when it cannot.
	ConditionalDecrement(ctx context.Context, id string, qty int) error
}

// CommitDeductionResult reports what the one-time stock commit did.
type CommitDeductionResult struct {
	// AlreadyDeducted means a previous proof upload already committed the
	// stock; this call refreshed the proof reference and deducted nothing.
	AlreadyDeducted bool
	Order           *models.Order
}

type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error

	// CommitDeduction is the single commit point for stock: in one atomic
	// step it checks every line item against current stock, decrements all
	// of them, flips StockDeducted via compare-and-set, and records the
	// payment proof. All-or-nothing; a failed commit leaves stock and the
	// flag untouched.
	CommitDeduction(ctx context.Context, orderID, proofPath string, at time.Time) (*CommitDeductionResult, error)

	// ConfirmReceipt moves shipped -> completed, guarded by a conditional
	// update so concurrent confirmations cannot both fire.
	ConfirmReceipt(ctx context.Context, orderID, proofPath string, at time.Time) (*models.Order, error)
}

type CartStore interface {
	// GetOrCreate returns the user's cart, creating an empty one first if
	// the user has none yet.
	GetOrCreate(ctx context.Context, userID string) (*models.Cart, error)

	// AddItem adds qty to an existing line or appends a new unselected one.
	AddItem(ctx context.Context, userID, productID string, qty int) error

	// UpdateItem patches a line; nil fields are left as they are.
	UpdateItem(ctx context.Context, userID, productID string, qty *int, selected *bool) error

	RemoveItem(ctx context.Context, userID, productID string) error
	RemoveItems(ctx context.Context, userID string, productIDs []string) error
	Clear(ctx context.Context, userID string) error
}

type UserStore interface {
	FindByUsernameOrID(ctx context.Context, key string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
}
