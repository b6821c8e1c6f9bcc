package models

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	// Order statuses (admin pipeline plus the customer-only terminal state)
	OrderStatusPending    OrderStatus = "pending"    // Order placed, awaiting payment proof / admin confirmation
	OrderStatusConfirmed  OrderStatus = "confirmed"  // Payment verified by admin
	OrderStatusProcessing OrderStatus = "processing" // Being packed
	OrderStatusShipped    OrderStatus = "shipped"    // Out for delivery
	OrderStatusCompleted  OrderStatus = "completed"  // Customer confirmed receipt; terminal
)

// ParseOrderStatus maps a raw string to a known status. Unknown values are
// rejected so nothing unchecked ever reaches storage.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(strings.ToLower(s)) {
	case OrderStatusPending:
		return OrderStatusPending, nil
	case OrderStatusConfirmed:
		return OrderStatusConfirmed, nil
	case OrderStatusProcessing:
		return OrderStatusProcessing, nil
	case OrderStatusShipped:
		return OrderStatusShipped, nil
	case OrderStatusCompleted:
		return OrderStatusCompleted, nil
	default:
		return "", ErrInvalidStatus
	}
}

// AdminAssignable reports whether an admin may set this status directly.
// Completed is customer-only, via receipt confirmation.
func (s OrderStatus) AdminAssignable() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped:
		return true
	default:
		return false
	}
}

type Order struct {
	ID              string      `gorm:"primaryKey" json:"id"`
	OrderNumber     string      `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID          string      `gorm:"index;not null" json:"user_id"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal        float64     `json:"subtotal"`
	ShippingFee     float64     `json:"shipping_fee"`
	ShippingRegion  string      `json:"shipping_region"`
	Total           float64     `json:"total"`
	PaymentMethod   string      `json:"payment_method"` // e.g. "gcash", "bank_transfer", "cod"
	ShippingAddress Address     `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	Status          OrderStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`

	// StockDeducted guards the one-time stock commit: proof uploads get
	// retried by clients, stock must come off exactly once.
	StockDeducted bool `gorm:"not null;default:false" json:"stock_deducted"`

	PaymentProof           string     `json:"payment_proof,omitempty"`
	PaymentProofUploadedAt *time.Time `json:"payment_proof_uploaded_at,omitempty"`
	ReceiptProof           string     `json:"receipt_proof,omitempty"`
	ReceiptConfirmedAt     *time.Time `json:"receipt_confirmed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem is a value snapshot taken at checkout. Later edits to the live
// product (price, name, image) never reach historical orders.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"-"`
	OrderID   string  `gorm:"index" json:"-"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"qty"`
	Image     string  `json:"image"`
	Condition string  `json:"condition"`
}

// Address is embedded in orders; Province drives the shipping fee lookup.
type Address struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
}
