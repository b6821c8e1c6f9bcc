package models

import (
	"errors"
	"fmt"
)

// Failure taxonomy shared by stores, the order service, and the HTTP layer.
// Everything is returned to the caller; nothing here is fatal to the process.
var (
	ErrNotFound          = errors.New("not found")
	ErrAccessDenied      = errors.New("access denied")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// InsufficientStockError reports available vs requested so clients can
// correct the quantity immediately.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s. Available: %d, Requested: %d",
		e.Name, e.Available, e.Requested)
}

// ValidationError covers malformed client input, chiefly proof files with a
// bad extension or oversize payload.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }
