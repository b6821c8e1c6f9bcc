package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	for raw, want := range map[string]OrderStatus{
		"pending":    OrderStatusPending,
		"Confirmed":  OrderStatusConfirmed,
		"PROCESSING": OrderStatusProcessing,
		"shipped":    OrderStatusShipped,
		"completed":  OrderStatusCompleted,
	} {
		got, err := ParseOrderStatus(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"", "cancelled", "delivered", "pending "} {
		_, err := ParseOrderStatus(raw)
		assert.ErrorIs(t, err, ErrInvalidStatus, raw)
	}
}

func TestAdminAssignable(t *testing.T) {
	assert.True(t, OrderStatusPending.AdminAssignable())
	assert.True(t, OrderStatusConfirmed.AdminAssignable())
	assert.True(t, OrderStatusProcessing.AdminAssignable())
	assert.True(t, OrderStatusShipped.AdminAssignable())

	assert.False(t, OrderStatusCompleted.AdminAssignable())
	assert.False(t, OrderStatus("cancelled").AdminAssignable())
}
