package repair

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"pending to in_progress", OrderStatusPending, OrderStatusInProgress, true},
		{"pending to cancelled", OrderStatusPending, OrderStatusCancelled, true},
		{"pending to completed skips work", OrderStatusPending, OrderStatusCompleted, false},
		{"pending to delivered skips work", OrderStatusPending, OrderStatusDelivered, false},
		{"in_progress to completed", OrderStatusInProgress, OrderStatusCompleted, true},
		{"in_progress to cancelled", OrderStatusInProgress, OrderStatusCancelled, true},
		{"in_progress back to pending", OrderStatusInProgress, OrderStatusPending, false},
		{"completed to delivered", OrderStatusCompleted, OrderStatusDelivered, true},
		{"completed to cancelled", OrderStatusCompleted, OrderStatusCancelled, false},
		{"delivered is terminal", OrderStatusDelivered, OrderStatusPending, false},
		{"cancelled is terminal", OrderStatusCancelled, OrderStatusInProgress, false},
		{"no self transition", OrderStatusPending, OrderStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, status := range []OrderStatus{
		OrderStatusPending, OrderStatusInProgress, OrderStatusCompleted,
		OrderStatusDelivered, OrderStatusCancelled,
	} {
		assert.True(t, status.IsValid(), string(status))
	}
	assert.False(t, OrderStatus("shipped").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}
